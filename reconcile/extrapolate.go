package reconcile

import "github.com/automoto/entsync/shared/gamemath"

// Extrapolate dead-reckons every current record forward by elapsed seconds,
// in place. It must run after the tick's snapshots were applied.
func Extrapolate(s *Store, elapsed float32) {
	if s.State() != Initialized || elapsed == 0 {
		return
	}
	records := s.current.records
	for i := range records {
		records[i].Position = gamemath.Advance(records[i].Position, records[i].Velocity, elapsed)
	}
}
