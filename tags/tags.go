package tags

import "github.com/yohamta/donburi"

var (
	Mirrored = donburi.NewTag().SetName("Mirrored")
)

// Resolv tags for the sim arena
const (
	ResolvWall   = "wall"
	ResolvLeft   = "left"
	ResolvRight  = "right"
	ResolvTop    = "top"
	ResolvBottom = "bottom"
	ResolvEntity = "entity"
)
