// Package telemetry exposes the agent's own health as prometheus metrics.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/HerbHall/sysmon/internal/version"
)

const namespace = "sysmon"

// Metrics holds the agent's self-telemetry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	cycles           prometheus.Counter
	readerErrors     *prometheus.CounterVec
	dispatchErrors   prometheus.Counter
	dispatchDuration prometheus.Histogram
	fields           prometheus.Gauge
	writeEnabled     prometheus.Gauge
}

// New creates the metrics on a fresh registry, including Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Total number of collection cycles run.",
		}),
		readerErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reader_errors_total",
			Help:      "Total number of metric reader failures by family.",
		}, []string{"family"}),
		dispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dispatch_errors_total",
			Help:      "Total number of points that could not be written.",
		}),
		dispatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent writing a point.",
			Buckets:   prometheus.DefBuckets,
		}),
		fields: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "fields",
			Help:      "Number of fields in the last point.",
		}),
		writeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "write_enabled",
			Help:      "1 when points are written to the database, 0 in debug mode.",
		}),
	}

	buildInfo := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   namespace,
		Name:        "build_info",
		Help:        "Build information.",
		ConstLabels: prometheus.Labels{"version": version.Short(), "commit": version.GitCommit},
	})
	buildInfo.Set(1)

	m.Registry.MustRegister(
		m.cycles,
		m.readerErrors,
		m.dispatchErrors,
		m.dispatchDuration,
		m.fields,
		m.writeEnabled,
		buildInfo,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// CycleStarted counts a collection cycle.
func (m *Metrics) CycleStarted() {
	if m == nil {
		return
	}
	m.cycles.Inc()
}

// ReaderFailed counts a reader failure for family.
func (m *Metrics) ReaderFailed(family string) {
	if m == nil {
		return
	}
	m.readerErrors.WithLabelValues(family).Inc()
}

// Dispatched records a write attempt.
func (m *Metrics) Dispatched(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.dispatchDuration.Observe(d.Seconds())
	if err != nil {
		m.dispatchErrors.Inc()
	}
}

// Shaped records the field count of the last point.
func (m *Metrics) Shaped(n int) {
	if m == nil {
		return
	}
	m.fields.Set(float64(n))
}

// SetWriteEnabled records the connectivity decision.
func (m *Metrics) SetWriteEnabled(enabled bool) {
	if m == nil {
		return
	}
	if enabled {
		m.writeEnabled.Set(1)
		return
	}
	m.writeEnabled.Set(0)
}
