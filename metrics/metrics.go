// Package metrics exposes reconciliation counters to Prometheus.
package metrics

import (
	"github.com/automoto/entsync/reconcile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Snapshot outcome label values.
const (
	OutcomeInitialized = "initialized"
	OutcomeReconciled  = "reconciled"
	OutcomeOutOfOrder  = "out_of_order"
	OutcomeDecodeError = "decode_error"
)

// SyncMetrics implements reconcile.Observer.
type SyncMetrics struct {
	snapshots   *prometheus.CounterVec
	divergences prometheus.Counter
	teleports   prometheus.Counter
	joins       prometheus.Counter
	leaves      prometheus.Counter
	queueDrops  prometheus.Counter
	entities    prometheus.Gauge
	watermark   prometheus.Gauge
}

// NewSyncMetrics registers the sync collectors with reg. Pass a fresh
// prometheus.NewRegistry() per connection in tests.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	f := promauto.With(reg)
	return &SyncMetrics{
		snapshots: f.NewCounterVec(prometheus.CounterOpts{
			Name: "entsync_snapshots_total",
			Help: "Entity-list snapshots processed, by outcome",
		}, []string{"outcome"}),
		divergences: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_divergence_corrections_total",
			Help: "Entity records whose velocity was blended after diverging",
		}),
		teleports: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_teleports_total",
			Help: "Diverged entity records accepted because of the teleport flag",
		}),
		joins: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_entity_joins_total",
			Help: "Entities that appeared after initialization",
		}),
		leaves: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_entity_leaves_total",
			Help: "Entities that vanished from an in-order snapshot",
		}),
		queueDrops: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_queue_drops_total",
			Help: "Entity-list messages dropped because the receive queue was full",
		}),
		entities: f.NewGauge(prometheus.GaugeOpts{
			Name: "entsync_entities",
			Help: "Entities in the current generation",
		}),
		watermark: f.NewGauge(prometheus.GaugeOpts{
			Name: "entsync_last_accepted_timestamp",
			Help: "Timestamp of the last in-order snapshot",
		}),
	}
}

func (m *SyncMetrics) Observe(r reconcile.Report) {
	switch {
	case r.Initialized:
		m.snapshots.WithLabelValues(OutcomeInitialized).Inc()
	case r.OutOfOrder:
		m.snapshots.WithLabelValues(OutcomeOutOfOrder).Inc()
	default:
		m.snapshots.WithLabelValues(OutcomeReconciled).Inc()
	}
	if !r.OutOfOrder {
		m.watermark.Set(float64(r.Timestamp))
	}
	m.divergences.Add(float64(len(r.Diverged)))
	m.teleports.Add(float64(len(r.Teleported)))
	m.joins.Add(float64(len(r.Joined)))
	m.leaves.Add(float64(len(r.Left)))
	m.entities.Set(float64(r.Entities))
}

func (m *SyncMetrics) DecodeFailed() {
	m.snapshots.WithLabelValues(OutcomeDecodeError).Inc()
}

func (m *SyncMetrics) QueueDropped(n int) {
	m.queueDrops.Add(float64(n))
}
