package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/effect"
	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// IntegrateSystem ages particles and moves them under gravity.
type IntegrateSystem struct {
	filter      *ecs.Filter1[components.Emitter]
	pool        *effect.Pool
	gravity     float64
	blockGroups int
}

// NewIntegrateSystem creates a new integrate system.
func NewIntegrateSystem(w *ecs.World, pool *effect.Pool, gravity float64, blockGroups int) *IntegrateSystem {
	return &IntegrateSystem{
		filter:      ecs.NewFilter1[components.Emitter](w),
		pool:        pool,
		gravity:     gravity,
		blockGroups: blockGroups,
	}
}

// Update runs the integrate system.
func (s *IntegrateSystem) Update(dt float32) {
	query := s.filter.Query()
	for query.Next() {
		em := query.Get()
		Integrate(s.pool, em.Runtime.Particles(), dt, s.gravity, s.blockGroups)
	}
}

// Integrate advances normalized age by dt/lifetime and applies explicit
// Euler motion to every particle of c.
func Integrate(pool *effect.Pool, c *particles.Container, dt float32, gravity float64, blockGroups int) {
	n := uint32(c.Len())
	pos := c.Vec3(particles.Position)
	vel := c.Vec3(particles.Velocity)
	age := c.Float(particles.NormalAge)
	invLife := c.Float(particles.InvLifeTime)

	step := float64(dt)
	fall := r3.Vec{Y: -gravity * step}

	pool.Run(lanes.FullRange(int(n)), blockGroups, func(r lanes.UpdateRange) {
		for g := range r.Groups() {
			for _, i := range lanes.Indices(g) {
				if i >= n {
					break
				}
				age.Store(i, age.Load(i)+dt*invLife.Load(i))
				v := r3.Add(vel.Load(i), fall)
				vel.Store(i, v)
				pos.Store(i, r3.Add(pos.Load(i), r3.Scale(step, v)))
			}
		}
	})
}
