// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of requests issued to the campaign backend API",
		},
		[]string{"endpoint", "outcome"},
	)

	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Duration of campaign backend API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	WizardEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wizard_events_total",
			Help: "Total number of campaign wizard events by type",
		},
		[]string{"type"},
	)

	WizardSessionsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wizard_sessions_purged_total",
			Help: "Total number of expired wizard sessions removed by the janitor",
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of dashboard HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
)
