package core

import (
	"math"
	"math/rand/v2"

	"github.com/automoto/entsync/config"
	"github.com/automoto/entsync/shared/gamemath"
	"github.com/automoto/entsync/shared/snapshot"
	"github.com/automoto/entsync/tags"
	"github.com/solarlune/resolv"
)

// wanderer is one server-driven entity.
type wanderer struct {
	record snapshot.EntityRecord
	angle  float64
	obj    *resolv.Object
}

// Arena moves wandering entities around a walled space. An entity that
// reaches the wall band wraps to the opposite side and is flagged as
// teleported for the next snapshot.
type Arena struct {
	space      *resolv.Space
	cell       float64
	cols, rows int

	speed  float64
	jitter float64
	rng    *rand.Rand

	entities []*wanderer
}

func NewArena(cfg config.ServerConfig, rng *rand.Rand) *Arena {
	cell := cfg.CellSize
	if cell <= 0 {
		cell = 16
	}
	cols := max(int(cfg.ArenaWidth)/cell, 4)
	rows := max(int(cfg.ArenaHeight)/cell, 4)
	w := float64(cols * cell)
	h := float64(rows * cell)
	c := float64(cell)

	a := &Arena{
		space:  resolv.NewSpace(cols*cell, rows*cell, cell, cell),
		cell:   c,
		cols:   cols,
		rows:   rows,
		speed:  cfg.WanderSpeed,
		jitter: cfg.WanderJitter,
		rng:    rng,
	}

	a.space.Add(
		resolv.NewObject(0, 0, c, h, tags.ResolvWall, tags.ResolvLeft),
		resolv.NewObject(w-c, 0, c, h, tags.ResolvWall, tags.ResolvRight),
		resolv.NewObject(0, 0, w, c, tags.ResolvWall, tags.ResolvTop),
		resolv.NewObject(0, h-c, w, c, tags.ResolvWall, tags.ResolvBottom),
	)

	size := cfg.EntitySize
	if size <= 0 || size >= c {
		size = c / 4
	}
	kinds := max(cfg.EntityKinds, 1)

	for i := 0; i < cfg.EntityCount; i++ {
		x := c + 1 + rng.Float64()*(w-3*c-size)
		y := c + 1 + rng.Float64()*(h-3*c-size)
		obj := resolv.NewObject(x, y, size, size, tags.ResolvEntity)
		a.space.Add(obj)

		wd := &wanderer{
			angle: rng.Float64() * 2 * math.Pi,
			obj:   obj,
			record: snapshot.EntityRecord{
				Kind: uint8(i % kinds),
				ID:   uint32(i + 1),
			},
		}
		wd.record.Position = gamemath.Vec2{X: float32(x), Y: float32(y)}
		wd.record.Velocity = gamemath.HeadingVelocity(wd.angle, a.speed)
		a.entities = append(a.entities, wd)
	}

	return a
}

// Step advances every entity by dt seconds.
func (a *Arena) Step(dt float64) {
	for _, wd := range a.entities {
		wd.angle += (a.rng.Float64()*2 - 1) * a.jitter * dt
		vel := gamemath.HeadingVelocity(wd.angle, a.speed)
		dx := float64(vel.X) * dt
		dy := float64(vel.Y) * dt

		if check := wd.obj.Check(dx, dy, tags.ResolvWall); check != nil {
			if walls := check.ObjectsByTags(tags.ResolvWall); len(walls) > 0 {
				a.wrap(wd, walls)
				wd.record.Velocity = vel
				continue
			}
		}

		wd.obj.X += dx
		wd.obj.Y += dy
		wd.obj.Update()
		wd.record.Position = gamemath.Vec2{X: float32(wd.obj.X), Y: float32(wd.obj.Y)}
		wd.record.Velocity = vel
	}
}

// wrap moves an entity that touched the wall band to the far side.
func (a *Arena) wrap(wd *wanderer, walls []*resolv.Object) {
	near := a.cell + 1
	farX := float64(a.cols-2)*a.cell + 1
	farY := float64(a.rows-2)*a.cell + 1

	for _, wall := range walls {
		switch {
		case wall.HasTags(tags.ResolvLeft):
			wd.obj.X = farX
		case wall.HasTags(tags.ResolvRight):
			wd.obj.X = near
		case wall.HasTags(tags.ResolvTop):
			wd.obj.Y = farY
		case wall.HasTags(tags.ResolvBottom):
			wd.obj.Y = near
		}
	}
	wd.obj.Update()
	wd.record.Position = gamemath.Vec2{X: float32(wd.obj.X), Y: float32(wd.obj.Y)}
	wd.record.Teleported = true
}

// Snapshot captures the arena at timestamp ts. Teleport flags are cleared
// afterwards so each one is sent exactly once.
func (a *Arena) Snapshot(ts uint64) snapshot.Snapshot {
	s := snapshot.Snapshot{
		Timestamp: ts,
		Records:   make([]snapshot.EntityRecord, len(a.entities)),
	}
	for i, wd := range a.entities {
		s.Records[i] = wd.record
		wd.record.Teleported = false
	}
	return s
}

func (a *Arena) EntityCount() int {
	return len(a.entities)
}

// Bounds returns the arena size in world units.
func (a *Arena) Bounds() (w, h float64) {
	return float64(a.cols) * a.cell, float64(a.rows) * a.cell
}
