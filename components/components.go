// Package components defines ECS components for the effect scene.
package components

import (
	"github.com/pthm-cable/sparks/effect"
)

// Emitter holds an effect's runtime and its bound modifiers, split by stage
// and kept in authored order.
type Emitter struct {
	Runtime *effect.Runtime
	Init    []*effect.BoundModifier
	Update  []*effect.BoundModifier
}

// Modifiers returns the init modifiers followed by the update modifiers.
func (e *Emitter) Modifiers() []*effect.BoundModifier {
	all := make([]*effect.BoundModifier, 0, len(e.Init)+len(e.Update))
	all = append(all, e.Init...)
	return append(all, e.Update...)
}

// Spawner controls emission. Rate is per instance and is scaled by the
// instance's spawn scale.
type Spawner struct {
	Rate     float32 `inspect:"label,fmt:%.1f/s"`
	LifeTime float32 `inspect:"label,fmt:%.2fs"`
	Speed    float32 `inspect:"label,fmt:%.2f"`
	Spread   float32 `inspect:"label,fmt:%.2frad"` // cone half-angle around +Y
}

// Counters accumulates per-emitter events between stats rows.
type Counters struct {
	Spawned int `inspect:"label"`
	Culled  int `inspect:"label"`
}

// Reset zeroes the counters.
func (c *Counters) Reset() {
	*c = Counters{}
}
