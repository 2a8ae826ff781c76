package gamemath

import (
	"math"
	"strings"

	"github.com/tanema/gween/ease"
)

// Vec2 is a 2D point or vector in world units. Components are float32 to
// match the entity-list wire format exactly.
type Vec2 struct {
	X, Y float32
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float32) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Length returns the magnitude of v.
func (v Vec2) Length() float64 {
	return math.Hypot(float64(v.X), float64(v.Y))
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return a.Sub(b).Length()
}

// Advance returns pos moved along vel for dt seconds.
func Advance(pos, vel Vec2, dt float32) Vec2 {
	return pos.Add(vel.Scale(dt))
}

// Lerp interpolates between a and b. t is not clamped.
func Lerp(a, b Vec2, t float32) Vec2 {
	return Blend(a, b, t, ease.Linear)
}

// Blend moves each component from a toward b using a tween curve, with t as
// progress over a unit duration. With ease.Linear this is a plain lerp.
func Blend(a, b Vec2, t float32, fn ease.TweenFunc) Vec2 {
	return Vec2{
		X: fn(t, a.X, b.X-a.X, 1),
		Y: fn(t, a.Y, b.Y-a.Y, 1),
	}
}

var easeByName = map[string]ease.TweenFunc{
	"linear":    ease.Linear,
	"inquad":    ease.InQuad,
	"outquad":   ease.OutQuad,
	"inoutquad": ease.InOutQuad,
	"incubic":   ease.InCubic,
	"outcubic":  ease.OutCubic,
	"insine":    ease.InSine,
	"outsine":   ease.OutSine,
	"inoutsine": ease.InOutSine,
}

// EaseByName resolves a blend curve name ("linear", "outquad", ...).
// Lookup is case-insensitive and ignores dashes and underscores.
func EaseByName(name string) (ease.TweenFunc, bool) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(name))
	fn, ok := easeByName[key]
	return fn, ok
}

// HeadingVelocity returns a velocity of the given speed pointing along angle
// (radians).
func HeadingVelocity(angle, speed float64) Vec2 {
	return Vec2{
		X: float32(math.Cos(angle) * speed),
		Y: float32(math.Sin(angle) * speed),
	}
}
