// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// ActiveConnections tracks the number of active HTTP connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)
)

// Business metrics track news and notification operations
var (
	// NewsTotal tracks total number of news rows in the database
	NewsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "news_total",
			Help: "Total number of news items in the database",
		},
	)

	// ChangeEventsPublishedTotal counts change events published on the bus
	ChangeEventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "change_events_published_total",
			Help: "Total number of news change events published",
		},
		[]string{"kind"},
	)

	// SSESubscribers tracks the number of currently attached event-stream subscribers
	SSESubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_subscribers",
			Help: "Number of currently attached event stream subscribers",
		},
	)

	// ScheduledPending tracks outstanding scheduled publications
	ScheduledPending = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "news_scheduled_pending",
			Help: "Number of pending scheduled publications",
		},
	)

	// ScheduledFiredTotal counts scheduled publications that fired, by result
	ScheduledFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_scheduled_fired_total",
			Help: "Total number of scheduled publications that fired",
		},
		[]string{"result"}, // result: success, failure, cancelled
	)

	// AuthRequestsTotal counts registration and login attempts by outcome
	AuthRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total number of authentication requests",
		},
		[]string{"operation", "result"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks active database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQuery records the duration of a database query operation.
// Operation should describe the query type (e.g., "list_news", "insert_news").
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
