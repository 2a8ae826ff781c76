package systems

import (
	"log"

	"github.com/automoto/entsync/reconcile"
	"github.com/automoto/entsync/shared/netcomponents"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// SyncStats is what the HUD reports on.
type SyncStats interface {
	LastAcceptedTimestamp() uint64
	Summary() reconcile.Summary
}

// NewNetHUDSystem logs a one-line sync summary every interval updates.
// logf defaults to log.Printf.
func NewNetHUDSystem(stats SyncStats, interval int, logf func(format string, args ...any)) func(*ecs.ECS) {
	if logf == nil {
		logf = log.Printf
	}
	tick := 0
	return func(e *ecs.ECS) {
		if interval <= 0 {
			return
		}
		tick++
		if tick%interval != 0 {
			return
		}

		entityCount := 0
		netcomponents.NetEntityQuery.Each(e.World, func(_ *donburi.Entry) {
			entityCount++
		})

		s := stats.Summary()
		logf("[hud] entities=%d watermark=%d recent: applied=%d outOfOrder=%d diverged=%d teleported=%d joined=%d left=%d",
			entityCount, stats.LastAcceptedTimestamp(),
			s.Applied, s.OutOfOrder, s.Diverged, s.Teleported, s.Joined, s.Left)
	}
}
