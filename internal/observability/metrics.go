// Package observability holds the Prometheus collectors and OpenTelemetry tracer.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devconnect_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// AuthEvents counts registrations, logins and guard rejections by outcome.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_auth_events_total",
		Help: "Total authentication events by type and outcome",
	}, []string{"event", "outcome"})

	// PostEvents counts feed mutations.
	PostEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_post_events_total",
		Help: "Total post events by type",
	}, []string{"event"})

	// RateLimitRejections counts requests refused by the Redis rate limiter.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_rate_limit_rejections_total",
		Help: "Total requests rejected by the rate limiter",
	}, []string{"resource"})
)

// ObserveQuery records the latency of a database query.
func ObserveQuery(operation, table string, start time.Time) {
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// RecordAuthEvent increments the auth counter for event with the given outcome.
func RecordAuthEvent(event, outcome string) {
	AuthEvents.WithLabelValues(event, outcome).Inc()
}

// RecordPostEvent increments the post counter for event.
func RecordPostEvent(event string) {
	PostEvents.WithLabelValues(event).Inc()
}
