// Package netcomponents defines the donburi components a consumer world uses
// to mirror the synchronized entity set. It must have zero dependencies on
// any graphics library so headless clients can use it.
package netcomponents

import (
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/filter"
)

type NetEntityData struct {
	ID         uint32
	Kind       uint8
	Teleported bool // Teleport flag of the snapshot that last touched this entity
}

var NetEntity = donburi.NewComponentType[NetEntityData]()

// NetEntityQuery matches every mirrored entity.
var NetEntityQuery = donburi.NewQuery(filter.Contains(NetEntity, NetPosition, NetVelocity))
