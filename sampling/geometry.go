package sampling

import (
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// Speed returns the length of the source particle's velocity.
type Speed struct {
	source     Source
	velocities particles.Vec3Stream
}

// NewSpeed binds the velocity stream of the source container.
func NewSpeed(src Source) Speed {
	return Speed{source: src, velocities: src.Container().Vec3(particles.Velocity)}
}

func (s Speed) Sample(g lanes.GroupID) lanes.Floats {
	var out lanes.Floats
	for i, v := range s.velocities.SafeLoad(s.source.IDs(g)) {
		out[i] = finite(r3.Norm(v))
	}
	return out
}

func (s Speed) Kind() SamplerKind      { return SamplerSpeed }
func (s Speed) SourceKind() SourceKind { return s.source.Kind() }

// CameraDistance returns the distance from the source particle to the
// camera position captured at construction.
type CameraDistance struct {
	source    Source
	positions particles.Vec3Stream
	camera    r3.Vec
}

// NewCameraDistance binds the position stream and the current camera.
func NewCameraDistance(src Source, camera r3.Vec) CameraDistance {
	return CameraDistance{
		source:    src,
		positions: src.Container().Vec3(particles.Position),
		camera:    camera,
	}
}

func (s CameraDistance) Sample(g lanes.GroupID) lanes.Floats {
	var out lanes.Floats
	for i, p := range s.positions.SafeLoad(s.source.IDs(g)) {
		out[i] = finite(r3.Norm(r3.Sub(s.camera, p)))
	}
	return out
}

func (s CameraDistance) Kind() SamplerKind      { return SamplerCameraDistance }
func (s CameraDistance) SourceKind() SourceKind { return s.source.Kind() }

// ViewAngle returns |cos| of the angle between the particle's facing normal
// and the direction to the camera: 1 when facing the camera, 0 edge-on.
type ViewAngle struct {
	source       Source
	positions    particles.Vec3Stream
	orientations particles.QuatStream
	camera       r3.Vec
}

// NewViewAngle binds position and orientation streams and the camera.
func NewViewAngle(src Source, camera r3.Vec) ViewAngle {
	c := src.Container()
	return ViewAngle{
		source:       src,
		positions:    c.Vec3(particles.Position),
		orientations: c.Quat(particles.Orientation),
		camera:       camera,
	}
}

func (s ViewAngle) Sample(g lanes.GroupID) lanes.Floats {
	ids := s.source.IDs(g)
	pos := s.positions.SafeLoad(ids)
	rot := s.orientations.SafeLoad(ids)

	var out lanes.Floats
	for i := range out {
		toCamera := r3.Sub(s.camera, pos[i])
		dist := r3.Norm(toCamera)
		if dist == 0 {
			continue
		}
		cos := r3.Dot(FacingNormal(rot[i]), toCamera) / dist
		out[i] = finite(math.Abs(cos))
	}
	return out
}

func (s ViewAngle) Kind() SamplerKind      { return SamplerViewAngle }
func (s ViewAngle) SourceKind() SourceKind { return s.source.Kind() }

// FacingNormal returns the local Z axis of a unit quaternion: the third
// column of its rotation matrix, computed from the components directly.
func FacingNormal(q quat.Number) r3.Vec {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag
	return r3.Vec{
		X: 2 * (x*z + w*y),
		Y: 2 * (y*z - w*x),
		Z: 1 - 2*(x*x+y*y),
	}
}

// finite narrows v to float32, mapping NaN and infinities to 0.
// Values beyond the float32 range count as infinite.
func finite(v float64) float32 {
	f := float32(v)
	if math.IsNaN(v) || math.IsInf(float64(f), 0) {
		return 0
	}
	return f
}

func finite32(v float32) float32 {
	return finite(float64(v))
}
