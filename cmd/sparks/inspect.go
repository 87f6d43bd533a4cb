package main

import (
	"log/slog"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/inspector"
	"github.com/pthm-cable/sparks/scene"
)

// logEmitters logs the state and components of every configured effect.
func logEmitters(s *scene.Scene, cfg *config.Config) {
	for _, ec := range cfg.Effects {
		em, sp, counters, ok := s.Components(ec.Name)
		if !ok {
			continue
		}
		rt := em.Runtime

		mods := make([]any, 0, 2*len(em.Modifiers()))
		for _, m := range em.Modifiers() {
			mods = append(mods, m.Name, m.Plan.String())
		}

		slog.Info("emitter",
			"effect", rt.Name(),
			"particles", rt.Particles().Len(),
			"instances", rt.InstanceCount(),
			"spawn_id_offset", rt.Particles().SpawnIDOffset(),
			"spawner", inspector.LogValue(sp),
			"counters", inspector.LogValue(counters),
			slog.Group("modifiers", mods...),
		)
	}
}
