package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics exposes the live request-path counters other telemetry
// in this package tracks only in the local SQLite store. It is registered
// with a dedicated prometheus.Registry (not the global default) so the
// httpapi /metrics endpoint is opt-in per process rather than leaking into
// every binary that imports this package.
type PrometheusMetrics struct {
	Registry *prometheus.Registry

	SearchRequestsTotal   *prometheus.CounterVec
	SearchLatencySeconds  *prometheus.HistogramVec
	SearchZeroResults     prometheus.Counter
	DispatchToolCallTotal *prometheus.CounterVec
	IndexChunksTotal      prometheus.Gauge
}

// NewPrometheusMetrics builds and registers a fresh metric set.
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()

	m := &PrometheusMetrics{
		Registry: reg,
		SearchRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ricegrep",
			Subsystem: "search",
			Name:      "requests_total",
			Help:      "Total number of search requests, labeled by query type.",
		}, []string{"query_type"}),
		SearchLatencySeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ricegrep",
			Subsystem: "search",
			Name:      "latency_seconds",
			Help:      "Search request latency in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query_type"}),
		SearchZeroResults: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ricegrep",
			Subsystem: "search",
			Name:      "zero_result_total",
			Help:      "Total number of search requests that returned no results.",
		}),
		DispatchToolCallTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ricegrep",
			Subsystem: "dispatch",
			Name:      "tool_calls_total",
			Help:      "Total calls into the shared tool dispatcher, labeled by tool name.",
		}, []string{"tool"}),
		IndexChunksTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ricegrep",
			Subsystem: "index",
			Name:      "chunks_total",
			Help:      "Current number of chunks in the index.",
		}),
	}

	reg.MustRegister(
		m.SearchRequestsTotal,
		m.SearchLatencySeconds,
		m.SearchZeroResults,
		m.DispatchToolCallTotal,
		m.IndexChunksTotal,
	)
	return m
}

// RecordQuery mirrors an in-process QueryEvent into the prometheus
// collectors so a scraped /metrics snapshot matches the local telemetry
// store's view without requiring callers to touch both APIs.
func (m *PrometheusMetrics) RecordQuery(event QueryEvent) {
	qt := string(event.QueryType)
	m.SearchRequestsTotal.WithLabelValues(qt).Inc()
	m.SearchLatencySeconds.WithLabelValues(qt).Observe(event.Latency.Seconds())
	if event.IsZeroResult() {
		m.SearchZeroResults.Inc()
	}
}

// RecordToolCall increments the dispatcher call counter for tool.
func (m *PrometheusMetrics) RecordToolCall(tool string) {
	m.DispatchToolCallTotal.WithLabelValues(tool).Inc()
}

// SetIndexChunks updates the current chunk-count gauge.
func (m *PrometheusMetrics) SetIndexChunks(n int) {
	m.IndexChunksTotal.Set(float64(n))
}
