package systems

import (
	"time"

	"github.com/yohamta/donburi/ecs"
)

// Ticker is the write side of a session.
type Ticker interface {
	Tick(dt time.Duration) error
}

// NewNetSyncSystem runs one session tick per ECS update. A tick error is
// passed to onErr and the system stops ticking.
func NewNetSyncSystem(t Ticker, dt time.Duration, onErr func(error)) func(*ecs.ECS) {
	failed := false
	return func(_ *ecs.ECS) {
		if failed {
			return
		}
		if err := t.Tick(dt); err != nil {
			failed = true
			if onErr != nil {
				onErr(err)
			}
		}
	}
}
