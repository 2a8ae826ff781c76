package gamemath

import (
	"math"
	"testing"
)

func TestLerpEndpoints(t *testing.T) {
	a := Vec2{X: 10, Y: 0}
	b := Vec2{X: 3, Y: 4}
	if got := Lerp(a, b, 0); got != a {
		t.Fatalf("expected %v at t=0, got %v", a, got)
	}
	if got := Lerp(a, b, 1); got != b {
		t.Fatalf("expected %v at t=1, got %v", b, got)
	}
	if got := Lerp(a, b, 0.5); got != (Vec2{X: 6.5, Y: 2}) {
		t.Fatalf("unexpected midpoint %v", got)
	}
}

func TestLerpIsNotClamped(t *testing.T) {
	got := Lerp(Vec2{}, Vec2{X: 2}, 2)
	if got.X != 4 {
		t.Fatalf("expected overshoot to 4, got %v", got.X)
	}
}

func TestDistance(t *testing.T) {
	if d := Distance(Vec2{X: 10}, Vec2{X: 100}); d != 90 {
		t.Fatalf("expected 90, got %v", d)
	}
	if d := Distance(Vec2{}, Vec2{X: 3, Y: 4}); d != 5 {
		t.Fatalf("expected 5, got %v", d)
	}
}

func TestEaseByName(t *testing.T) {
	for _, name := range []string{"linear", "Linear", "out-quad", "in_out_sine"} {
		if _, ok := EaseByName(name); !ok {
			t.Fatalf("expected %q to resolve", name)
		}
	}
	if _, ok := EaseByName("wobble"); ok {
		t.Fatalf("expected unknown curve to fail")
	}
}

func TestHeadingVelocity(t *testing.T) {
	v := HeadingVelocity(math.Pi/2, 2)
	if math.Abs(float64(v.X)) > 1e-6 || math.Abs(float64(v.Y)-2) > 1e-6 {
		t.Fatalf("unexpected heading velocity %v", v)
	}
}
