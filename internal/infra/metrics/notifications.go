package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(notificationsTotal) }

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_notifications_total",
		Help: "Notification deliveries, labeled by channel and status.",
	},
	[]string{"channel", "status"}, // channel: 'email', 'sms'; status: 'sent', 'failed'
)

func IncNotification(channel, status string) {
	notificationsTotal.WithLabelValues(norm(channel), norm(status)).Inc()
}
