package camera

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func near(a, b r3.Vec) bool {
	return r3.Norm(r3.Sub(a, b)) < 1e-9
}

func TestNewRoundtrip(t *testing.T) {
	testCases := []struct {
		name           string
		position, look r3.Vec
	}{
		{"behind origin", r3.Vec{Y: 2, Z: -12}, r3.Vec{}},
		{"offset target", r3.Vec{X: 3, Y: 1, Z: 4}, r3.Vec{X: 1, Y: 1, Z: 1}},
		{"below", r3.Vec{X: -2, Y: -5, Z: 1}, r3.Vec{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cam := New(tc.position, tc.look)
			if got := cam.Position(); !near(got, tc.position) {
				t.Errorf("Position() = %v, want %v", got, tc.position)
			}
		})
	}
}

func TestOrbitKeepsDistance(t *testing.T) {
	cam := New(r3.Vec{Z: 10}, r3.Vec{})
	cam.Orbit(math.Pi/2, 0)

	p := cam.Position()
	if math.Abs(r3.Norm(p)-10) > 1e-9 {
		t.Errorf("distance = %f, want 10", r3.Norm(p))
	}
	if !near(p, r3.Vec{X: 10}) {
		t.Errorf("after quarter orbit got %v, want (10,0,0)", p)
	}
}

func TestPitchClamped(t *testing.T) {
	cam := New(r3.Vec{Z: 5}, r3.Vec{})
	cam.Orbit(0, 10)
	if cam.Pitch >= math.Pi/2 {
		t.Errorf("pitch %f should stay below the pole", cam.Pitch)
	}
	cam.Orbit(0, -20)
	if cam.Pitch <= -math.Pi/2 {
		t.Errorf("pitch %f should stay above the pole", cam.Pitch)
	}
}

func TestZoomClamped(t *testing.T) {
	cam := New(r3.Vec{Z: 5}, r3.Vec{})
	cam.ZoomBy(0.0001)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %f, want min %f", cam.Distance, cam.MinDistance)
	}
	cam.ZoomBy(1e9)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance = %f, want max %f", cam.Distance, cam.MaxDistance)
	}
}

func TestUpdateOrbitsAndReset(t *testing.T) {
	start := r3.Vec{Y: 2, Z: -12}
	cam := New(start, r3.Vec{})
	cam.OrbitSpeed = 1

	cam.Update(0.5)
	if near(cam.Position(), start) {
		t.Error("expected automatic orbit to move the camera")
	}
	if math.Abs(r3.Norm(cam.Position())-r3.Norm(start)) > 1e-9 {
		t.Error("automatic orbit changed the distance")
	}

	cam.Reset()
	if !near(cam.Position(), start) {
		t.Errorf("Reset() = %v, want %v", cam.Position(), start)
	}
}

func TestPanMovesTarget(t *testing.T) {
	cam := New(r3.Vec{Z: 5}, r3.Vec{})
	cam.Pan(r3.Vec{X: 1})
	if !near(cam.Position(), r3.Vec{X: 1, Z: 5}) {
		t.Errorf("got %v", cam.Position())
	}
}

func TestWrapAngle(t *testing.T) {
	for _, a := range []float64{0, 1, -1, 3 * math.Pi, -3 * math.Pi, 7} {
		w := wrapAngle(a)
		if w <= -math.Pi || w > math.Pi {
			t.Errorf("wrapAngle(%f) = %f out of range", a, w)
		}
		if math.Abs(math.Sin(w)-math.Sin(a)) > 1e-9 || math.Abs(math.Cos(w)-math.Cos(a)) > 1e-9 {
			t.Errorf("wrapAngle(%f) = %f changed direction", a, w)
		}
	}
}
