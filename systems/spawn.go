// Package systems contains the per-frame ECS systems of the effect scene.
package systems

import (
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/effect"
	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// initialSize is the size of a freshly spawned particle before modifiers.
const initialSize = 0.1

// SpawnSystem emits new particles for every emitter.
type SpawnSystem struct {
	filter *ecs.Filter3[components.Emitter, components.Spawner, components.Counters]
	counts []int
}

// NewSpawnSystem creates a new spawn system.
func NewSpawnSystem(w *ecs.World) *SpawnSystem {
	return &SpawnSystem{
		filter: ecs.NewFilter3[components.Emitter, components.Spawner, components.Counters](w),
	}
}

// Update spawns this frame's particles. Emitters are visited in creation
// order, so a parent's new particles (and the child instances they own)
// exist before its children spawn.
func (s *SpawnSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		em, sp, counters := query.Get()
		counters.Spawned += s.spawn(em.Runtime, sp, dt)
	}
}

func (s *SpawnSystem) spawn(rt *effect.Runtime, sp *components.Spawner, dt float32) int {
	s.counts = InstanceSpawnCounts(rt, sp.Rate*dt, s.counts[:0])

	total := 0
	for _, k := range s.counts {
		total += k
	}
	if total == 0 {
		return 0
	}

	start, _ := rt.Spawn(total)
	InitParticles(rt, sp, start, s.counts, dt)
	return total
}

// InstanceSpawnCounts adds perInstance * spawn scale to every instance's
// carry and moves the whole part into counts.
func InstanceSpawnCounts(rt *effect.Runtime, perInstance float32, counts []int) []int {
	data := rt.InstanceData()
	scale := data.Float(particles.InstanceSpawnScale)
	carry := data.Float(effect.SpawnCarry)

	for i := range rt.InstanceCount() {
		c := carry.Load(uint32(i)) + perInstance*max(scale.Load(uint32(i)), 0)
		k := int(c)
		carry.Store(uint32(i), c-float32(k))
		counts = append(counts, k)
	}
	return counts
}

// InitParticles fills particles starting at start, counts[i] of them for
// instance i. Particles start at their parent's position with a random
// direction inside the spawner's cone.
//
// An instance's k particles are born evenly through the frame of length dt.
// Until the frame's integration they carry a negative normalized age (the
// part of the frame before their birth), and afterwards the fraction of the
// frame they actually lived.
func InitParticles(rt *effect.Runtime, sp *components.Spawner, start int, counts []int, dt float32) {
	c := rt.Particles()
	pos := c.Vec3(particles.Position)
	vel := c.Vec3(particles.Velocity)
	rot := c.Quat(particles.Orientation)
	age := c.Float(particles.NormalAge)
	life := c.Float(particles.LifeTime)
	invLife := c.Float(particles.InvLifeTime)
	size := c.Float(particles.Size)
	alpha := c.Float(particles.Alpha)
	parentID := c.ID(particles.ParentID)
	instIndex := c.ID(particles.InstanceIndex)

	var parentPos particles.Vec3Stream
	if p := rt.Parent(); p != nil {
		parentPos = p.Particles().Vec3(particles.Position)
	}

	rng := effect.SpawnChaos(rt, start)
	cosSpread := math.Cos(float64(sp.Spread))
	instances := rt.Instances()

	idx := uint32(start)
	for inst, k := range counts {
		owner := instances[inst].ParentID
		origin := parentPos.SafeLoad(lanes.SplatID(owner))[0]

		for j := range k {
			born := (float32(j) + 0.5) / float32(k)

			// Uniform direction on the spherical cap around +Y.
			cosTheta := 1 - float64(rng.Float32())*(1-cosSpread)
			sinTheta := math.Sqrt(max(0, 1-cosTheta*cosTheta))
			phi := 2 * math.Pi * float64(rng.Float32())
			dir := r3.Vec{X: sinTheta * math.Cos(phi), Y: cosTheta, Z: sinTheta * math.Sin(phi)}

			yaw := 2 * math.Pi * float64(rng.Float32())

			pos.Store(idx, origin)
			vel.Store(idx, r3.Scale(float64(sp.Speed), dir))
			rot.Store(idx, quat.Number{Real: math.Cos(yaw / 2), Jmag: math.Sin(yaw / 2)})
			age.Store(idx, -born*dt/sp.LifeTime)
			life.Store(idx, sp.LifeTime)
			invLife.Store(idx, 1/sp.LifeTime)
			size.Store(idx, initialSize)
			alpha.Store(idx, 1)
			parentID.Store(idx, owner)
			instIndex.Store(idx, uint32(inst))
			idx++
		}
	}
}
