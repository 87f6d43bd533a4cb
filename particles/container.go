package particles

import (
	"fmt"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/lanes"
)

// Container owns the streams of one runtime's particles (or instances).
// A nil *Container behaves as an empty container, so a runtime without a
// parent can hand out a nil parent and every read safe-loads defaults.
type Container struct {
	n             int
	spawnIDOffset uint32

	types  map[string]DataType
	floats map[string][]float32
	vec3s  map[string][]r3.Vec
	quats  map[string][]quat.Number
	ids    map[string][]uint32
}

// NewContainer creates an empty container with the given streams.
func NewContainer(types ...DataType) *Container {
	c := &Container{
		types:  make(map[string]DataType, len(types)),
		floats: make(map[string][]float32),
		vec3s:  make(map[string][]r3.Vec),
		quats:  make(map[string][]quat.Number),
		ids:    make(map[string][]uint32),
	}
	for _, t := range types {
		c.AddStream(t)
	}
	return c
}

// AddStream adds a stream sized to the current particle count.
// Adding an existing stream is a no-op.
func (c *Container) AddStream(t DataType) {
	if _, ok := c.types[t.Name]; ok {
		return
	}
	c.types[t.Name] = t
	switch t.Kind {
	case KindFloat:
		c.floats[t.Name] = make([]float32, c.n)
	case KindVec3:
		c.vec3s[t.Name] = make([]r3.Vec, c.n)
	case KindQuat:
		q := make([]quat.Number, c.n)
		for i := range q {
			q[i] = Identity
		}
		c.quats[t.Name] = q
	case KindID:
		ids := make([]uint32, c.n)
		for i := range ids {
			ids[i] = lanes.InvalidID
		}
		c.ids[t.Name] = ids
	default:
		panic(fmt.Sprintf("particles: stream %q has unknown kind %v", t.Name, t.Kind))
	}
}

// Has reports whether the container carries stream t.
func (c *Container) Has(t DataType) bool {
	if c == nil {
		return false
	}
	_, ok := c.types[t.Name]
	return ok
}

// Len returns the number of particles.
func (c *Container) Len() int {
	if c == nil {
		return 0
	}
	return c.n
}

// SpawnIDOffset returns how many particles were culled ahead of the
// current ones, so index+offset is a running spawn counter.
func (c *Container) SpawnIDOffset() uint32 {
	if c == nil {
		return 0
	}
	return c.spawnIDOffset
}

// Float returns the float stream t, or an empty handle if absent.
func (c *Container) Float(t DataType) FloatStream {
	if c == nil {
		return FloatStream{}
	}
	return FloatStream{data: c.floats[t.Name]}
}

// Vec3 returns the vector stream t, or an empty handle if absent.
func (c *Container) Vec3(t DataType) Vec3Stream {
	if c == nil {
		return Vec3Stream{}
	}
	return Vec3Stream{data: c.vec3s[t.Name]}
}

// Quat returns the orientation stream t, or an empty handle if absent.
func (c *Container) Quat(t DataType) QuatStream {
	if c == nil {
		return QuatStream{}
	}
	return QuatStream{data: c.quats[t.Name]}
}

// ID returns the id stream t, or an empty handle if absent.
func (c *Container) ID(t DataType) IDStream {
	if c == nil {
		return IDStream{}
	}
	return IDStream{data: c.ids[t.Name]}
}

// AddParticles appends n default-initialized particles and returns the
// index range [start, end) they occupy. Stream handles taken before the
// call must be re-fetched.
func (c *Container) AddParticles(n int) (start, end int) {
	start = c.n
	if n <= 0 {
		return start, start
	}
	c.n += n
	for name, s := range c.floats {
		c.floats[name] = append(s, make([]float32, n)...)
	}
	for name, s := range c.vec3s {
		c.vec3s[name] = append(s, make([]r3.Vec, n)...)
	}
	for name, s := range c.quats {
		for range n {
			s = append(s, Identity)
		}
		c.quats[name] = s
	}
	for name, s := range c.ids {
		for range n {
			s = append(s, lanes.InvalidID)
		}
		c.ids[name] = s
	}
	return start, c.n
}

// Remap maps an old particle index to its index after a cull, or to
// lanes.InvalidID if the particle was removed.
type Remap []uint32

// Cull keeps only the particles for which alive returns true, preserving
// order, and returns the index remap. The spawn id offset advances by the
// number of removed particles.
func (c *Container) Cull(alive func(i int) bool) Remap {
	remap := make(Remap, c.n)
	kept := 0
	for i := 0; i < c.n; i++ {
		if alive(i) {
			remap[i] = uint32(kept)
			kept++
		} else {
			remap[i] = lanes.InvalidID
		}
	}
	if kept == c.n {
		return remap
	}

	for name, s := range c.floats {
		c.floats[name] = compact(s, remap, kept)
	}
	for name, s := range c.vec3s {
		c.vec3s[name] = compact(s, remap, kept)
	}
	for name, s := range c.quats {
		c.quats[name] = compact(s, remap, kept)
	}
	for name, s := range c.ids {
		c.ids[name] = compact(s, remap, kept)
	}

	c.spawnIDOffset += uint32(c.n - kept)
	c.n = kept
	return remap
}

func compact[T any](s []T, remap Remap, kept int) []T {
	for i, to := range remap {
		if to != lanes.InvalidID {
			s[to] = s[i]
		}
	}
	return s[:kept]
}

// Apply rewrites an id stream that points into the culled container.
// Ids of removed particles become lanes.InvalidID.
func (m Remap) Apply(s IDStream) {
	for i, id := range s.data {
		if id < uint32(len(m)) {
			s.data[i] = m[id]
		} else {
			s.data[i] = lanes.InvalidID
		}
	}
}
