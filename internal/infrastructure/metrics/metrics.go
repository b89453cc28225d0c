// Package metrics holds the Prometheus collectors shared by the storage layer and the HTTP server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "todoplus"

// Storage counts state gateway activity. A nil *Storage is valid and records nothing.
type Storage struct {
	reads         prometheus.Counter
	writes        prometheus.Counter
	degradedReads *prometheus.CounterVec
	failures      *prometheus.CounterVec
	conflicts     prometheus.Counter
	stateBytes    prometheus.Gauge
}

// NewStorage creates the storage collectors and registers them on reg
func NewStorage(reg prometheus.Registerer) *Storage {
	m := &Storage{
		reads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "reads_total",
			Help:      "Total number of state snapshot reads",
		}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "writes_total",
			Help:      "Total number of state snapshot writes",
		}),
		degradedReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "degraded_reads_total",
			Help:      "Reads that fell back to default state",
		}, []string{"reason"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "failures_total",
			Help:      "Backend errors by operation",
		}, []string{"op"}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "write_conflicts_total",
			Help:      "Updates retried because another writer changed the state first",
		}),
		stateBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "storage",
			Name:      "state_bytes",
			Help:      "Size of the last written snapshot",
		}),
	}

	reg.MustRegister(m.reads, m.writes, m.degradedReads, m.failures, m.conflicts, m.stateBytes)

	return m
}

func (m *Storage) ObserveRead() {
	if m == nil {
		return
	}
	m.reads.Inc()
}

func (m *Storage) ObserveWrite(size int) {
	if m == nil {
		return
	}
	m.writes.Inc()
	m.stateBytes.Set(float64(size))
}

// ObserveDegradedRead records a read that used defaults; reason is "missing", "corrupt" or "partial".
func (m *Storage) ObserveDegradedRead(reason string) {
	if m == nil {
		return
	}
	m.degradedReads.WithLabelValues(reason).Inc()
}

func (m *Storage) ObserveFailure(op string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(op).Inc()
}

func (m *Storage) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflicts.Inc()
}

// HTTP holds the request collectors used by the server middleware
type HTTP struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewHTTP creates the HTTP collectors and registers them on reg
func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}

	reg.MustRegister(m.RequestsTotal, m.RequestDuration)

	return m
}
