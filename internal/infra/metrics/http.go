package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(httpRequestsTotal, httpLatencyMs) }

var httpRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_http_requests_total",
		Help: "API requests by route and status code.",
	},
	[]string{"route", "status"},
)

var httpLatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "booking_http_latency_ms",
		Help:    "API request latency distribution in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3000},
	},
	[]string{"route"},
)

func ObserveHTTP(route, status string, latencyMs float64) {
	httpRequestsTotal.WithLabelValues(route, status).Inc()
	httpLatencyMs.WithLabelValues(route).Observe(latencyMs)
}
