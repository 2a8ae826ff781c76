package core

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/automoto/entsync/config"
)

func testArenaConfig() config.ServerConfig {
	cfg := config.Server
	cfg.ArenaWidth = 160
	cfg.ArenaHeight = 160
	cfg.CellSize = 16
	cfg.EntityCount = 8
	cfg.EntitySize = 4
	cfg.WanderSpeed = 40
	cfg.WanderJitter = 0
	return cfg
}

func TestArenaAssignsStableIDsAndKinds(t *testing.T) {
	cfg := testArenaConfig()
	cfg.EntityKinds = 3
	a := NewArena(cfg, rand.New(rand.NewPCG(1, 2)))

	snap := a.Snapshot(0)
	if len(snap.Records) != cfg.EntityCount {
		t.Fatalf("expected %d records, got %d", cfg.EntityCount, len(snap.Records))
	}
	for i, r := range snap.Records {
		if r.ID != uint32(i+1) {
			t.Fatalf("expected id %d at index %d, got %d", i+1, i, r.ID)
		}
		if r.Kind != uint8(i%3) {
			t.Fatalf("expected kind %d for id %d, got %d", i%3, r.ID, r.Kind)
		}
		if r.Teleported {
			t.Fatalf("expected no teleport on spawn for id %d", r.ID)
		}
	}
}

func TestArenaKeepsEntitiesInsideWalls(t *testing.T) {
	cfg := testArenaConfig()
	cfg.WanderJitter = 3
	a := NewArena(cfg, rand.New(rand.NewPCG(7, 9)))
	w, h := a.Bounds()

	for step := 0; step < 500; step++ {
		a.Step(0.05)
		for _, r := range a.Snapshot(uint64(step)).Records {
			x, y := float64(r.Position.X), float64(r.Position.Y)
			if x < a.cell || y < a.cell || x+cfg.EntitySize > w-a.cell || y+cfg.EntitySize > h-a.cell {
				t.Fatalf("step %d: entity %d escaped to (%v, %v)", step, r.ID, x, y)
			}
		}
	}
}

func TestArenaWrapsAtLeftWall(t *testing.T) {
	cfg := testArenaConfig()
	cfg.EntityCount = 1
	a := NewArena(cfg, rand.New(rand.NewPCG(1, 2)))

	wd := a.entities[0]
	wd.obj.X = a.cell + 1
	wd.obj.Y = 64
	wd.obj.Update()
	wd.angle = math.Pi

	a.Step(0.5)

	snap := a.Snapshot(1)
	r := snap.Records[0]
	if !r.Teleported {
		t.Fatal("expected teleport flag after hitting the left wall")
	}
	wantX := float32((a.cols-2)*16 + 1)
	if r.Position.X != wantX {
		t.Fatalf("expected x=%v after wrap, got %v", wantX, r.Position.X)
	}
	if r.Position.Y != 64 {
		t.Fatalf("expected y unchanged, got %v", r.Position.Y)
	}
	if r.Velocity.X >= 0 {
		t.Fatalf("expected heading to keep pointing left, got velocity %v", r.Velocity)
	}

	if next := a.Snapshot(2); next.Records[0].Teleported {
		t.Fatal("expected teleport flag to clear after one snapshot")
	}
}

func TestArenaWrapsAtBottomWall(t *testing.T) {
	cfg := testArenaConfig()
	cfg.EntityCount = 1
	a := NewArena(cfg, rand.New(rand.NewPCG(3, 4)))

	wd := a.entities[0]
	wd.obj.X = 64
	wd.obj.Y = float64(a.rows-2)*a.cell + 8
	wd.obj.Update()
	wd.angle = math.Pi / 2

	a.Step(0.5)

	r := a.Snapshot(1).Records[0]
	if !r.Teleported {
		t.Fatal("expected teleport flag after hitting the bottom wall")
	}
	if r.Position.Y != float32(a.cell+1) {
		t.Fatalf("expected y=%v after wrap, got %v", a.cell+1, r.Position.Y)
	}
}

func TestArenaSnapshotIsDeterministicForSeed(t *testing.T) {
	cfg := testArenaConfig()
	cfg.WanderJitter = 2
	a := NewArena(cfg, rand.New(rand.NewPCG(42, 0)))
	b := NewArena(cfg, rand.New(rand.NewPCG(42, 0)))

	for i := 0; i < 50; i++ {
		a.Step(0.05)
		b.Step(0.05)
	}
	sa, sb := a.Snapshot(9), b.Snapshot(9)
	for i := range sa.Records {
		if sa.Records[i] != sb.Records[i] {
			t.Fatalf("expected identical records for same seed, got %+v and %+v", sa.Records[i], sb.Records[i])
		}
	}
}
