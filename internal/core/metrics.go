package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts run activity. Each instance owns its registry so several
// processors, or tests, never collide on global registration. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	recordsLoaded prometheus.Counter
	warnings      prometheus.Counter
	exports       *prometheus.CounterVec
	runDuration   prometheus.Histogram
}

// NewMetrics creates and registers the run collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		recordsLoaded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lotexport_records_loaded_total",
			Help: "Catalog rows loaded from source files",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lotexport_warnings_total",
			Help: "Lot warnings recorded in warning logs",
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lotexport_target_exports_total",
			Help: "Target exports by outcome",
		}, []string{"target", "status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lotexport_run_duration_seconds",
			Help:    "Wall time of complete runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
	m.registry.MustRegister(m.recordsLoaded, m.warnings, m.exports, m.runDuration)
	return m
}

// Registry exposes the collectors for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) observeLoad(records int) {
	if m == nil {
		return
	}
	m.recordsLoaded.Add(float64(records))
}

func (m *Metrics) observeTarget(key string, status TargetStatus) {
	if m == nil {
		return
	}
	m.exports.WithLabelValues(key, string(status)).Inc()
}

func (m *Metrics) observeRun(warnings int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.warnings.Add(float64(warnings))
	m.runDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the current values in the node_exporter textfile
// format. No-op for a nil receiver or empty path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
