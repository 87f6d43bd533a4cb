package particles

import (
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/lanes"
)

// Vec3s holds one vector per lane.
type Vec3s [lanes.Width]r3.Vec

// Quats holds one quaternion per lane.
type Quats [lanes.Width]quat.Number

// Identity is the default orientation.
var Identity = quat.Number{Real: 1}

// FloatStream is a handle to a float32 stream. Handles are slices into the
// container and stay valid until the container grows or is culled.
type FloatStream struct {
	data []float32
}

// Len returns the number of elements.
func (s FloatStream) Len() int { return len(s.data) }

// Load reads element i. i must be in range.
func (s FloatStream) Load(i uint32) float32 { return s.data[i] }

// SafeLoad reads one element per lane; invalid or out-of-range ids yield 0.
func (s FloatStream) SafeLoad(ids lanes.IDs) lanes.Floats {
	var out lanes.Floats
	for i, id := range ids {
		if id < uint32(len(s.data)) {
			out[i] = s.data[id]
		}
	}
	return out
}

// Store writes element i. i must be in range.
func (s FloatStream) Store(i uint32, v float32) { s.data[i] = v }

// StoreGroup writes the lanes of group g that fall inside the stream.
func (s FloatStream) StoreGroup(g lanes.GroupID, v lanes.Floats) {
	for i, id := range lanes.Indices(g) {
		if id < uint32(len(s.data)) {
			s.data[id] = v[i]
		}
	}
}

// Slice exposes the underlying storage.
func (s FloatStream) Slice() []float32 { return s.data }

// Vec3Stream is a handle to a 3-vector stream.
type Vec3Stream struct {
	data []r3.Vec
}

// Len returns the number of elements.
func (s Vec3Stream) Len() int { return len(s.data) }

// Load reads element i. i must be in range.
func (s Vec3Stream) Load(i uint32) r3.Vec { return s.data[i] }

// SafeLoad reads one element per lane; invalid or out-of-range ids yield
// the zero vector.
func (s Vec3Stream) SafeLoad(ids lanes.IDs) Vec3s {
	var out Vec3s
	for i, id := range ids {
		if id < uint32(len(s.data)) {
			out[i] = s.data[id]
		}
	}
	return out
}

// Store writes element i. i must be in range.
func (s Vec3Stream) Store(i uint32, v r3.Vec) { s.data[i] = v }

// Slice exposes the underlying storage.
func (s Vec3Stream) Slice() []r3.Vec { return s.data }

// QuatStream is a handle to an orientation stream.
type QuatStream struct {
	data []quat.Number
}

// Len returns the number of elements.
func (s QuatStream) Len() int { return len(s.data) }

// Load reads element i. i must be in range.
func (s QuatStream) Load(i uint32) quat.Number { return s.data[i] }

// SafeLoad reads one element per lane; invalid or out-of-range ids yield
// the identity rotation.
func (s QuatStream) SafeLoad(ids lanes.IDs) Quats {
	var out Quats
	for i, id := range ids {
		if id < uint32(len(s.data)) {
			out[i] = s.data[id]
		} else {
			out[i] = Identity
		}
	}
	return out
}

// Store writes element i. i must be in range.
func (s QuatStream) Store(i uint32, q quat.Number) { s.data[i] = q }

// Slice exposes the underlying storage.
func (s QuatStream) Slice() []quat.Number { return s.data }

// IDStream is a handle to a particle id stream.
type IDStream struct {
	data []uint32
}

// Len returns the number of elements.
func (s IDStream) Len() int { return len(s.data) }

// Load reads element i. i must be in range.
func (s IDStream) Load(i uint32) uint32 { return s.data[i] }

// SafeLoad reads one element per lane; invalid or out-of-range ids yield
// lanes.InvalidID.
func (s IDStream) SafeLoad(ids lanes.IDs) lanes.IDs {
	out := lanes.SplatID(lanes.InvalidID)
	for i, id := range ids {
		if id < uint32(len(s.data)) {
			out[i] = s.data[id]
		}
	}
	return out
}

// Store writes element i. i must be in range.
func (s IDStream) Store(i uint32, id uint32) { s.data[i] = id }

// Slice exposes the underlying storage.
func (s IDStream) Slice() []uint32 { return s.data }
