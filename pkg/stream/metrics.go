package stream

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the stream layer. A nil
// *Metrics is valid and records nothing, so instrumentation stays
// optional.
type Metrics struct {
	rendersTotal   prometheus.Counter
	patchesTotal   prometheus.Counter
	batchBytes     prometheus.Histogram
	renderDuration prometheus.Histogram
	activeSessions prometheus.Gauge
	resyncsTotal   prometheus.Counter
	sendErrors     prometheus.Counter
}

// MetricsOpts configures metric registration.
type MetricsOpts struct {
	// Namespace is the metrics namespace (default: "vireo").
	Namespace string

	// Registry is the Prometheus registerer to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for render duration in seconds.
	// Default: prometheus.DefBuckets.
	Buckets []float64
}

// NewMetrics registers and returns the stream metrics.
func NewMetrics(opts MetricsOpts) *Metrics {
	if opts.Namespace == "" {
		opts.Namespace = "vireo"
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.DefaultRegisterer
	}
	if opts.Buckets == nil {
		opts.Buckets = prometheus.DefBuckets
	}
	factory := promauto.With(opts.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "renders_total",
			Help:      "Total number of render cycles diffed",
		}),
		patchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "patches_total",
			Help:      "Total number of patches sent to sinks",
		}),
		batchBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "batch_bytes",
			Help:      "Encoded batch size in bytes",
			Buckets:   []float64{64, 256, 1024, 4096, 16384, 65536, 262144, 1048576},
		}),
		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "render_duration_seconds",
			Help:      "Diff plus encode plus send duration in seconds",
			Buckets:   opts.Buckets,
		}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "active_sessions",
			Help:      "Number of connected sink sessions",
		}),
		resyncsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "resyncs_total",
			Help:      "Total number of resync replays served from history",
		}),
		sendErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: "stream",
			Name:      "send_errors_total",
			Help:      "Total number of failed frame writes",
		}),
	}
}

// RecordRender records one render cycle.
func (m *Metrics) RecordRender(patches, bytes int, d time.Duration) {
	if m == nil {
		return
	}
	m.rendersTotal.Inc()
	m.patchesTotal.Add(float64(patches))
	if patches > 0 {
		m.batchBytes.Observe(float64(bytes))
	}
	m.renderDuration.Observe(d.Seconds())
}

// RecordSessionStart records a new sink connection.
func (m *Metrics) RecordSessionStart() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

// RecordSessionEnd records a sink disconnect.
func (m *Metrics) RecordSessionEnd() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}

// RecordResync records a resync replay served from history.
func (m *Metrics) RecordResync() {
	if m == nil {
		return
	}
	m.resyncsTotal.Inc()
}

// RecordSendError records a failed frame write.
func (m *Metrics) RecordSendError() {
	if m == nil {
		return
	}
	m.sendErrors.Inc()
}
