package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(claimAttemptsTotal) }

var claimAttemptsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_claim_attempts_total",
		Help: "Accept attempts, labeled by outcome.",
	},
	[]string{"outcome"}, // 'won', 'lost'
)

func IncClaim(outcome string) {
	claimAttemptsTotal.WithLabelValues(norm(outcome)).Inc()
}
