// Package camera provides an orbit camera whose position feeds the
// view-dependent sampling domains.
package camera

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// maxPitch keeps the camera off the poles where yaw is undefined.
const maxPitch = math.Pi/2 - 1e-3

// Camera orbits a target point.
type Camera struct {
	// Target is the point the camera looks at
	Target r3.Vec

	// Spherical offset from the target (yaw around +Y, pitch above the XZ plane)
	Distance   float64
	Yaw, Pitch float64

	// OrbitSpeed is the automatic yaw rate in radians per second
	OrbitSpeed float64

	// Distance constraints
	MinDistance, MaxDistance float64

	home r3.Vec
}

// New creates a camera at position looking at target.
func New(position, target r3.Vec) *Camera {
	c := &Camera{
		Target:      target,
		MinDistance: 0.5,
		MaxDistance: 1000,
		home:        position,
	}
	c.SetPosition(position)
	return c
}

// Position returns the camera position in world coordinates.
func (c *Camera) Position() r3.Vec {
	cp := math.Cos(c.Pitch)
	offset := r3.Vec{
		X: c.Distance * cp * math.Sin(c.Yaw),
		Y: c.Distance * math.Sin(c.Pitch),
		Z: c.Distance * cp * math.Cos(c.Yaw),
	}
	return r3.Add(c.Target, offset)
}

// SetPosition moves the camera to p, keeping the target.
func (c *Camera) SetPosition(p r3.Vec) {
	d := r3.Sub(p, c.Target)
	c.Distance = clamp(r3.Norm(d), c.MinDistance, c.MaxDistance)
	if r3.Norm(d) == 0 {
		c.Yaw, c.Pitch = 0, 0
		return
	}
	c.Yaw = math.Atan2(d.X, d.Z)
	c.Pitch = clamp(math.Asin(d.Y/r3.Norm(d)), -maxPitch, maxPitch)
}

// Orbit rotates the camera around the target.
func (c *Camera) Orbit(dYaw, dPitch float64) {
	c.Yaw = wrapAngle(c.Yaw + dYaw)
	c.Pitch = clamp(c.Pitch+dPitch, -maxPitch, maxPitch)
}

// Pan moves the target and camera together.
func (c *Camera) Pan(d r3.Vec) {
	c.Target = r3.Add(c.Target, d)
}

// ZoomBy scales the orbit distance, clamped to min/max.
func (c *Camera) ZoomBy(factor float64) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Update advances the automatic orbit by dt seconds.
func (c *Camera) Update(dt float64) {
	if c.OrbitSpeed != 0 {
		c.Orbit(c.OrbitSpeed*dt, 0)
	}
}

// Reset returns the camera to its initial position.
func (c *Camera) Reset() {
	c.SetPosition(c.home)
}

// wrapAngle maps a to (-pi, pi].
func wrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// clamp restricts a value to a range.
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
