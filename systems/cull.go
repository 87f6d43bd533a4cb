package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/particles"
)

// CullSystem removes particles whose normalized age reached 1.
type CullSystem struct {
	filter *ecs.Filter2[components.Emitter, components.Counters]
}

// NewCullSystem creates a new cull system.
func NewCullSystem(w *ecs.World) *CullSystem {
	return &CullSystem{
		filter: ecs.NewFilter2[components.Emitter, components.Counters](w),
	}
}

// Update runs the cull system.
func (s *CullSystem) Update() {
	query := s.filter.Query()
	for query.Next() {
		em, counters := query.Get()
		age := em.Runtime.Particles().Float(particles.NormalAge)
		counters.Culled += em.Runtime.Cull(func(i int) bool {
			return age.Load(uint32(i)) < 1
		})
	}
}
