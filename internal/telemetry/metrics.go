// Package telemetry provides observability primitives for marketd.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	ActiveRequests     prometheus.Gauge
	CacheHits          prometheus.Counter
	CacheMisses        prometheus.Counter
	CacheInvalidations prometheus.Counter
	ReportsSent        prometheus.Counter
	ReportsFailed      prometheus.Counter
	ReportQueueLength  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketd",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:                       "marketd",
			Name:                            "request_duration_seconds",
			Help:                            "HTTP request duration in seconds.",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 0,
		}, []string{"method", "path"}),

		ActiveRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marketd",
			Name:      "active_requests",
			Help:      "Number of currently active requests.",
		}),

		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketd",
			Name:      "cache_hits_total",
			Help:      "Total record cache hits.",
		}),

		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketd",
			Name:      "cache_misses_total",
			Help:      "Total record cache misses.",
		}),

		CacheInvalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketd",
			Name:      "cache_invalidations_total",
			Help:      "Total cache invalidation sweeps after writes.",
		}),

		ReportsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketd",
			Name:      "reports_sent_total",
			Help:      "Total statistics reports sent.",
		}),

		ReportsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marketd",
			Name:      "reports_failed_total",
			Help:      "Total statistics reports that failed to send.",
		}),

		ReportQueueLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marketd",
			Name:      "report_queue_length",
			Help:      "Current number of queued report requests.",
		}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.ActiveRequests,
		m.CacheHits,
		m.CacheMisses,
		m.CacheInvalidations,
		m.ReportsSent,
		m.ReportsFailed,
		m.ReportQueueLength,
	)
	return m
}
