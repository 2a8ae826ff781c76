package metrics

import (
	"testing"

	"github.com/automoto/entsync/reconcile"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCountsOutcomes(t *testing.T) {
	m := NewSyncMetrics(prometheus.NewRegistry())

	m.Observe(reconcile.Report{Timestamp: 1, Initialized: true, Entities: 3})
	m.Observe(reconcile.Report{Timestamp: 2, Diverged: []uint32{1, 2}, Teleported: []uint32{3}, Entities: 3})
	m.Observe(reconcile.Report{Timestamp: 1, OutOfOrder: true, Entities: 3})
	m.Observe(reconcile.Report{Timestamp: 3, Joined: []uint32{9}, Left: []uint32{1}, Entities: 3})
	m.DecodeFailed()
	m.QueueDropped(4)

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"initialized", testutil.ToFloat64(m.snapshots.WithLabelValues(OutcomeInitialized)), 1},
		{"reconciled", testutil.ToFloat64(m.snapshots.WithLabelValues(OutcomeReconciled)), 2},
		{"out of order", testutil.ToFloat64(m.snapshots.WithLabelValues(OutcomeOutOfOrder)), 1},
		{"decode error", testutil.ToFloat64(m.snapshots.WithLabelValues(OutcomeDecodeError)), 1},
		{"divergences", testutil.ToFloat64(m.divergences), 2},
		{"teleports", testutil.ToFloat64(m.teleports), 1},
		{"joins", testutil.ToFloat64(m.joins), 1},
		{"leaves", testutil.ToFloat64(m.leaves), 1},
		{"queue drops", testutil.ToFloat64(m.queueDrops), 4},
		{"entities", testutil.ToFloat64(m.entities), 3},
		{"watermark", testutil.ToFloat64(m.watermark), 3},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Fatalf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}

func TestOutOfOrderKeepsWatermark(t *testing.T) {
	m := NewSyncMetrics(prometheus.NewRegistry())
	m.Observe(reconcile.Report{Timestamp: 50, Initialized: true})
	m.Observe(reconcile.Report{Timestamp: 10, OutOfOrder: true})
	if got := testutil.ToFloat64(m.watermark); got != 50 {
		t.Fatalf("expected watermark 50, got %v", got)
	}
}
