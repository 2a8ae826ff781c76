package reconcile

import (
	"reflect"
	"testing"

	"github.com/automoto/entsync/shared/gamemath"
	"github.com/automoto/entsync/shared/snapshot"
)

func TestExtrapolateZeroElapsedIsNoop(t *testing.T) {
	s := NewStore(false)
	if err := s.Initialize(1, []snapshot.EntityRecord{rec(1, 1, 2, 3, 4), rec(2, -1, -1, 0.5, 0)}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	before := snapshot.CloneRecords(s.Current())
	Extrapolate(s, 0)
	if !reflect.DeepEqual(s.Current(), before) {
		t.Fatalf("expected no change, got %+v", s.Current())
	}
}

func TestExtrapolateAdvancesInPlace(t *testing.T) {
	s := NewStore(false)
	if err := s.Initialize(1, []snapshot.EntityRecord{rec(1, 0, 0, 10, 0), rec(2, 5, 5, 0, -2)}); err != nil {
		t.Fatalf("initialize failed: %v", err)
	}
	live := s.Current()
	Extrapolate(s, 0.5)
	if live[0].Position != (gamemath.Vec2{X: 5}) {
		t.Fatalf("expected (5,0), got %v", live[0].Position)
	}
	if live[1].Position != (gamemath.Vec2{X: 5, Y: 4}) {
		t.Fatalf("expected (5,4), got %v", live[1].Position)
	}
	if s.Previous()[0].Position != (gamemath.Vec2{}) {
		t.Fatalf("extrapolation touched the previous generation")
	}
}

func TestExtrapolateUninitializedIsNoop(t *testing.T) {
	s := NewStore(false)
	Extrapolate(s, 1)
	if len(s.Current()) != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestExtrapolateUsesCorrectedVelocity(t *testing.T) {
	e := movingEngine(t)
	mustApply(t, e, snap(2, rec(1, 100, 0, 0, 0)), 0.5) // diverged, velocity -> (5,0)
	Extrapolate(e.Store(), 1)
	if got := e.Store().Current()[0].Position; got != (gamemath.Vec2{X: 105}) {
		t.Fatalf("expected extrapolation from blended velocity to (105,0), got %v", got)
	}
}
