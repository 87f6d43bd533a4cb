package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/sparks/components"
	"github.com/pthm-cable/sparks/effect"
	"github.com/pthm-cable/sparks/sampling"
)

// ModifySystem dispatches every emitter's modifiers of one stage.
type ModifySystem struct {
	filter      *ecs.Filter1[components.Emitter]
	pool        *effect.Pool
	camera      sampling.CameraProvider
	globals     sampling.GlobalLookup
	blockGroups int
}

// NewModifySystem creates a new modify system. Camera and globals are read
// once per dispatch.
func NewModifySystem(w *ecs.World, pool *effect.Pool, camera sampling.CameraProvider, globals sampling.GlobalLookup, blockGroups int) *ModifySystem {
	return &ModifySystem{
		filter:      ecs.NewFilter1[components.Emitter](w),
		pool:        pool,
		camera:      camera,
		globals:     globals,
		blockGroups: blockGroups,
	}
}

// Update runs the stage's modifiers in authored order.
func (s *ModifySystem) Update(stage effect.Stage) {
	query := s.filter.Query()
	for query.Next() {
		em := query.Get()
		mods := em.Update
		if stage == effect.StageInit {
			mods = em.Init
		}
		if len(mods) == 0 {
			continue
		}

		env := sampling.Env{
			Camera:     sampling.CameraAt(s.camera.CameraPosition()),
			Attributes: em.Runtime,
			Globals:    s.globals,
		}
		for _, m := range mods {
			effect.Apply(s.pool, em.Runtime, env, m, s.blockGroups)
		}
	}
}
