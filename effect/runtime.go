// Package effect hosts emitter runtimes and drives the sampling dispatcher
// over them each frame.
package effect

import (
	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
	"github.com/pthm-cable/sparks/sampling"
)

// SpawnCarry is the fractional spawn count an instance carries into the
// next frame.
var SpawnCarry = particles.DataType{Name: "spawn_carry", Kind: particles.KindFloat, Domain: particles.DomainInstance}

func init() {
	particles.Register(SpawnCarry)
}

// particleStreams are the streams every runtime container carries.
var particleStreams = []particles.DataType{
	particles.Position,
	particles.Velocity,
	particles.Orientation,
	particles.NormalAge,
	particles.LifeTime,
	particles.InvLifeTime,
	particles.Size,
	particles.Alpha,
	particles.ParentID,
	particles.InstanceIndex,
}

// Runtime is the live state of one emitter. It implements sampling.Runtime.
//
// A root runtime has a single instance with no parent. A child runtime has
// one instance per particle of its parent runtime and follows the parent's
// spawns and culls.
type Runtime struct {
	name string

	particles    *particles.Container
	instances    []sampling.Instance
	instanceData *particles.Container

	parent   *Runtime
	children []*Runtime

	attributes map[string]float32
	levelTime  float32
	dt         float32
	chaos      *Chaos

	// First particle and instance indices created during the current frame.
	freshParticles int
	freshInstances int
}

// NewRuntime creates a runtime. A nil parent makes a root runtime; a nil
// chaos seeds from the name alone.
func NewRuntime(name string, parent *Runtime, chaos *Chaos) *Runtime {
	if chaos == nil {
		chaos = NewChaos(name, 0)
	}
	r := &Runtime{
		name:         name,
		particles:    particles.NewContainer(particleStreams...),
		instanceData: particles.NewContainer(particles.InstanceSpawnScale, SpawnCarry),
		parent:       parent,
		attributes:   make(map[string]float32),
		chaos:        chaos,
	}
	if parent == nil {
		r.addInstances([]uint32{lanes.InvalidID})
	} else {
		parent.children = append(parent.children, r)
		ids := make([]uint32, parent.particles.Len())
		for i := range ids {
			ids[i] = uint32(i)
		}
		r.addInstances(ids)
	}
	return r
}

// Name returns the effect name.
func (r *Runtime) Name() string { return r.name }

// Parent returns the parent runtime, or nil for a root runtime.
func (r *Runtime) Parent() *Runtime { return r.parent }

// Particles returns the runtime's own container.
func (r *Runtime) Particles() *particles.Container { return r.particles }

// InstanceData returns the per-instance container. Its index i is instance i.
func (r *Runtime) InstanceData() *particles.Container { return r.instanceData }

func (r *Runtime) DeltaTime() float32 { return r.dt }
func (r *Runtime) LevelTime() float32 { return r.levelTime }

// Container implements sampling.Runtime.
func (r *Runtime) Container() sampling.Container { return r.particles }

// ParentContainer implements sampling.Runtime. A root runtime returns a nil
// *particles.Container, which reads as empty.
func (r *Runtime) ParentContainer() sampling.Container {
	var c *particles.Container
	if r.parent != nil {
		c = r.parent.particles
	}
	return c
}

func (r *Runtime) Instances() []sampling.Instance { return r.instances }
func (r *Runtime) InstanceCount() int             { return len(r.instances) }

// Chaos implements sampling.Runtime.
func (r *Runtime) Chaos() sampling.ChaosSource { return r.chaos }

// Attribute implements sampling.AttributeResolver.
func (r *Runtime) Attribute(name string) (float32, bool) {
	v, ok := r.attributes[name]
	return v, ok
}

// SetAttribute sets an effect attribute.
func (r *Runtime) SetAttribute(name string, v float32) {
	r.attributes[name] = v
}

// SetTime sets the clock values seen by samplers this frame.
func (r *Runtime) SetTime(levelTime, dt float32) {
	r.levelTime = levelTime
	r.dt = dt
}

// Target returns the container that stores dst: the instance data for
// per-instance types and the particle container otherwise.
func (r *Runtime) Target(dst particles.DataType) *particles.Container {
	if dst.Domain.Has(particles.DomainInstance) {
		return r.instanceData
	}
	return r.particles
}

// Fresh returns the first index created this frame for dst's container.
func (r *Runtime) Fresh(dst particles.DataType) int {
	if dst.Domain.Has(particles.DomainInstance) {
		return r.freshInstances
	}
	return r.freshParticles
}

// BeginFrame sets the frame's clock and marks everything that exists now
// as not fresh.
func (r *Runtime) BeginFrame(levelTime, dt float32) {
	r.SetTime(levelTime, dt)
	r.freshParticles = r.particles.Len()
	r.freshInstances = len(r.instances)
}

// EndFrame moves chaos on to the next frame's sequences.
func (r *Runtime) EndFrame() {
	r.chaos.Advance()
}

// addInstances appends one instance per parent id.
func (r *Runtime) addInstances(parentIDs []uint32) {
	start, end := r.instanceData.AddParticles(len(parentIDs))
	scale := r.instanceData.Float(particles.InstanceSpawnScale)
	for i := start; i < end; i++ {
		scale.Store(uint32(i), 1)
	}
	for _, id := range parentIDs {
		r.instances = append(r.instances, sampling.Instance{ParentID: id})
	}
}

// Spawn appends n default particles and gives every child runtime one
// instance per new particle. It returns the new index range.
func (r *Runtime) Spawn(n int) (start, end int) {
	start, end = r.particles.AddParticles(n)
	if start < end {
		r.spawned(start, end)
	}
	return start, end
}

// Cull removes the particles for which alive returns false and rewrites
// the parent links of child runtimes. It returns the number removed.
func (r *Runtime) Cull(alive func(i int) bool) int {
	before := r.particles.Len()
	remap := r.particles.Cull(alive)
	removed := before - r.particles.Len()
	if removed > 0 {
		r.culled(remap)
	}
	return removed
}

func (r *Runtime) spawned(start, end int) {
	ids := make([]uint32, end-start)
	for i := range ids {
		ids[i] = uint32(start + i)
	}
	for _, child := range r.children {
		child.addInstances(ids)
	}
}

// culled propagates a compaction to the children. Child particles keep
// living with their parent link rewritten, so links to removed parents
// become lanes.InvalidID. Child instances owned by removed parents are
// dropped.
func (r *Runtime) culled(remap particles.Remap) {
	for _, child := range r.children {
		remap.Apply(child.particles.ID(particles.ParentID))

		instRemap := child.instanceData.Cull(func(i int) bool {
			id := child.instances[i].ParentID
			return id < uint32(len(remap)) && remap[id] != lanes.InvalidID
		})
		kept := child.instances[:0]
		for i, inst := range child.instances {
			if instRemap[i] == lanes.InvalidID {
				continue
			}
			kept = append(kept, sampling.Instance{ParentID: remap[inst.ParentID]})
		}
		child.instances = kept
		instRemap.Apply(child.particles.ID(particles.InstanceIndex))
	}
}

// saltedRuntime gives one modifier its own chaos streams.
type saltedRuntime struct {
	*Runtime
	chaos sampling.ChaosSource
}

func (s saltedRuntime) Chaos() sampling.ChaosSource { return s.chaos }
