package netcomponents

import (
	"github.com/automoto/entsync/shared/gamemath"
	"github.com/yohamta/donburi"
)

type NetVelocityData struct {
	SpeedX, SpeedY float64
}

var NetVelocity = donburi.NewComponentType[NetVelocityData]()

// VelocityFrom converts a wire vector to the mirror component.
func VelocityFrom(v gamemath.Vec2) NetVelocityData {
	return NetVelocityData{SpeedX: float64(v.X), SpeedY: float64(v.Y)}
}
