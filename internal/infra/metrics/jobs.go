package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(jobTransitionsTotal, jobsExpiredTotal) }

var jobTransitionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_job_transitions_total",
		Help: "Job lifecycle transitions, labeled by operation and outcome.",
	},
	[]string{"operation", "outcome"}, // outcome: 'ok', 'rejected', 'error'
)

var jobsExpiredTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "booking_jobs_expired_total",
		Help: "Open jobs cancelled by the overdue expirer.",
	},
)

func IncTransition(operation, outcome string) {
	jobTransitionsTotal.WithLabelValues(norm(operation), norm(outcome)).Inc()
}

func AddExpired(n int) { jobsExpiredTotal.Add(float64(n)) }
