package config

import "time"

// SyncConfig contains client-side reconciliation tuning
type SyncConfig struct {
	// Correction
	DivergenceThreshold float64 // World units between predicted and reported position before correcting
	BlendEase           string  // Curve used to blend velocity on divergence (see gamemath.EaseByName)
	StrictRoster        bool    // Treat an entity-count change as fatal instead of join/leave

	// Tick loop
	TickRate    int // Simulation ticks per second
	QueueSize   int // Entity-list messages buffered between ticks
	HUDInterval int // Ticks between HUD log lines (0 disables)
}

// ServerConfig contains sim server configuration
type ServerConfig struct {
	Port     uint
	TickRate int // Broadcasts per second

	// Arena
	ArenaWidth  float64
	ArenaHeight float64
	CellSize    int // resolv space cell size; the outermost ring of cells is the wall band

	// Entities
	EntityCount  int
	EntityKinds  int     // Kinds are assigned round-robin in [0, EntityKinds)
	EntitySize   float64 // Collision box edge for the bounds check
	WanderSpeed  float64 // World units per second
	WanderJitter float64 // Max heading change per second, radians

	// Lossy link simulation
	DropRate    float64 // Probability a snapshot is not sent to a client
	ReorderRate float64 // Probability a snapshot is held back and sent after the next one

	WriteTimeout time.Duration
}

// Global configuration instances
var Sync SyncConfig
var Server ServerConfig

func init() {
	Sync = SyncConfig{
		DivergenceThreshold: 25.0,
		BlendEase:           "linear",
		StrictRoster:        false,

		TickRate:    60,
		QueueSize:   64,
		HUDInterval: 120, // every 2 seconds at 60Hz
	}

	Server = ServerConfig{
		Port:     5456,
		TickRate: 20,

		ArenaWidth:  640,
		ArenaHeight: 352,
		CellSize:    16,

		EntityCount:  16,
		EntityKinds:  3,
		EntitySize:   4,
		WanderSpeed:  40,
		WanderJitter: 2.0,

		DropRate:    0,
		ReorderRate: 0,

		WriteTimeout: 2 * time.Second,
	}
}

// TickInterval returns the duration of one client tick.
func (c SyncConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}

// TickInterval returns the duration between server broadcasts.
func (c ServerConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 20
	}
	return time.Second / time.Duration(c.TickRate)
}
