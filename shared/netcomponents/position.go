package netcomponents

import (
	"github.com/automoto/entsync/shared/gamemath"
	"github.com/yohamta/donburi"
)

type NetPositionData struct {
	X, Y float64
}

var NetPosition = donburi.NewComponentType[NetPositionData]()

// PositionFrom converts a wire vector to the mirror component.
func PositionFrom(v gamemath.Vec2) NetPositionData {
	return NetPositionData{X: float64(v.X), Y: float64(v.Y)}
}
