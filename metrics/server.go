package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ServerMetrics tracks the sim server's broadcast side.
type ServerMetrics struct {
	Clients        prometheus.Gauge
	Broadcasts     prometheus.Counter
	Sent           prometheus.Counter
	SimDropped     prometheus.Counter
	SimReordered   prometheus.Counter
	OutboxOverflow prometheus.Counter
	Teleports      prometheus.Counter
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	f := promauto.With(reg)
	return &ServerMetrics{
		Clients: f.NewGauge(prometheus.GaugeOpts{
			Name: "entsync_server_clients",
			Help: "Connected clients",
		}),
		Broadcasts: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_server_broadcasts_total",
			Help: "Snapshots produced by the game loop",
		}),
		Sent: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_server_messages_sent_total",
			Help: "Entity-list messages queued to clients",
		}),
		SimDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_server_sim_dropped_total",
			Help: "Messages discarded by the lossy link simulation",
		}),
		SimReordered: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_server_sim_reordered_total",
			Help: "Messages delivered late by the lossy link simulation",
		}),
		OutboxOverflow: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_server_outbox_overflow_total",
			Help: "Messages dropped because a client's outbox was full",
		}),
		Teleports: f.NewCounter(prometheus.CounterOpts{
			Name: "entsync_server_teleports_total",
			Help: "Entities wrapped across the arena",
		}),
	}
}
