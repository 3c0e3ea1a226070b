// Package metrics records per-run engine metrics with Prometheus collectors.
//
// A nucocc run is a batch job, so nothing is served over HTTP; the registry can
// be dumped once at exit in text exposition format (node_exporter textfile).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure kinds used for the failures_total label.
const (
	FailureMalformed = "malformed_record"
	FailureEmpty     = "empty_input"
	FailureWorker    = "worker"
	FailureWrite     = "write"
)

// Manager owns the collectors of one run.
type Manager struct {
	namespace       string
	subsystem       string
	durationBuckets []float64
	constLabels     map[string]string
	registry        *prometheus.Registry

	eventsLoaded    prometheus.Counter
	chunks          prometheus.Counter
	positionsScored prometheus.Counter
	chunkDuration   prometheus.Histogram
	chunkContext    prometheus.Histogram
	workers         prometheus.Gauge
	failures        *prometheus.CounterVec
}

// NewManager creates a Manager whose collectors live on a fresh private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:       "nucocc",
		subsystem:       "engine",
		durationBuckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		constLabels:     map[string]string{},
		registry:        prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.eventsLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "events_loaded_total",
		Help:        "Dyad events read from input files",
		ConstLabels: m.constLabels,
	})
	m.chunks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "chunks_total",
		Help:        "Chunks evaluated by workers",
		ConstLabels: m.constLabels,
	})
	m.positionsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "positions_scored_total",
		Help:        "Target positions scored",
		ConstLabels: m.constLabels,
	})
	m.chunkDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "chunk_duration_seconds",
		Help:        "Wall time spent evaluating one chunk",
		Buckets:     m.durationBuckets,
		ConstLabels: m.constLabels,
	})
	m.chunkContext = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "chunk_context_events",
		Help:        "Events in a chunk's expanded context",
		Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
		ConstLabels: m.constLabels,
	})
	m.workers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "workers",
		Help:        "Workers used for the most recent series",
		ConstLabels: m.constLabels,
	})
	m.failures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "failures_total",
		Help:        "Run failures by kind",
		ConstLabels: m.constLabels,
	}, []string{"kind"})
}

// Registry exposes the underlying registry (for gathering in tests or export).
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// RecordEventsLoaded adds n loaded events.
func (m *Manager) RecordEventsLoaded(n int) { m.eventsLoaded.Add(float64(n)) }

// SetWorkers records the pool size picked for a series.
func (m *Manager) SetWorkers(n int) { m.workers.Set(float64(n)) }

// ChunkDone records one finished chunk.
func (m *Manager) ChunkDone(contextEvents, targets int, elapsed time.Duration) {
	m.chunks.Inc()
	m.positionsScored.Add(float64(targets))
	m.chunkContext.Observe(float64(contextEvents))
	m.chunkDuration.Observe(elapsed.Seconds())
}

// RecordFailure counts a failure of the given kind.
func (m *Manager) RecordFailure(kind string) { m.failures.WithLabelValues(kind).Inc() }

// WriteTextfile writes the registry to path in text exposition format.
func (m *Manager) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
