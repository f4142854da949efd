package app

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collected by the executor.
type Metrics struct {
	txs       *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	conflicts *prometheus.CounterVec
	events    prometheus.Counter
}

// NewMetrics creates the executor metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	txs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapd",
		Name:      "transactions_total",
		Help:      "Processed transactions by phase, message path and result code.",
	}, []string{"phase", "path", "code"})

	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "swapd",
		Name:      "transaction_duration_seconds",
		Help:      "Time spent processing a transaction, retries included.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"phase", "path"})

	conflicts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "swapd",
		Name:      "commit_conflicts_total",
		Help:      "Commits rejected because another unit of work changed the same state first.",
	}, []string{"path"})

	events := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "swapd",
		Name:      "events_emitted_total",
		Help:      "Events handed to the publisher after a commit.",
	})

	reg.MustRegister(txs, latency, conflicts, events)
	return &Metrics{
		txs:       txs,
		latency:   latency,
		conflicts: conflicts,
		events:    events,
	}
}

func (m *Metrics) observe(phase, path string, code uint32, start time.Time) {
	if m == nil {
		return
	}
	m.txs.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	m.latency.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}

func (m *Metrics) conflict(path string) {
	if m == nil {
		return
	}
	m.conflicts.WithLabelValues(path).Inc()
}

func (m *Metrics) emitted(n int) {
	if m == nil {
		return
	}
	m.events.Add(float64(n))
}
