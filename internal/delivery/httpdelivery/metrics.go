package httpdelivery

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP API requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// businessOperationsTotal counts marketplace operations by outcome.
	businessOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketplace_operations_total",
			Help: "Total number of marketplace operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	rateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Total number of HTTP requests rejected by the rate limiter",
		},
	)
)

func recordOperation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	businessOperationsTotal.WithLabelValues(operation, outcome).Inc()
}
