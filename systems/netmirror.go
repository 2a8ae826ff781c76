package systems

import (
	"github.com/automoto/entsync/shared/netcomponents"
	"github.com/automoto/entsync/shared/snapshot"
	"github.com/automoto/entsync/tags"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/ecs"
)

// EntityView is the read-only side of a session.
type EntityView interface {
	Entities() []snapshot.EntityRecord
}

// NewNetMirrorSystem copies the synchronized entity set into the ECS world
// every tick. Entities are matched by id: new ids are created, vanished ids
// are removed.
func NewNetMirrorSystem(view EntityView) func(*ecs.ECS) {
	byID := make(map[uint32]donburi.Entity)
	present := make(map[uint32]bool)

	return func(e *ecs.ECS) {
		world := e.World
		clear(present)

		for _, r := range view.Entities() {
			present[r.ID] = true

			entity, ok := byID[r.ID]
			if !ok || !world.Valid(entity) {
				entity = world.Create(tags.Mirrored, netcomponents.NetEntity, netcomponents.NetPosition, netcomponents.NetVelocity)
				byID[r.ID] = entity
			}

			entry := world.Entry(entity)
			netcomponents.NetEntity.SetValue(entry, netcomponents.NetEntityData{
				ID:         r.ID,
				Kind:       r.Kind,
				Teleported: r.Teleported,
			})
			netcomponents.NetPosition.SetValue(entry, netcomponents.PositionFrom(r.Position))
			netcomponents.NetVelocity.SetValue(entry, netcomponents.VelocityFrom(r.Velocity))
		}

		for id, entity := range byID {
			if present[id] {
				continue
			}
			if world.Valid(entity) {
				world.Remove(entity)
			}
			delete(byID, id)
		}
	}
}
