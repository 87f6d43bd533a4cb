package effect

import (
	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/sampling"
)

// spawnSalt keys the spawner's chaos streams apart from modifier salts.
const spawnSalt = ^uint32(0)

// SpawnChaos returns the chaos stream used to place new particles of rt.
func SpawnChaos(rt *Runtime, begin int) sampling.Chaos {
	g := lanes.GroupID(begin / lanes.Width)
	return rt.chaos.Salted(spawnSalt).Stream(lanes.UpdateRange{Begin: g, End: g + 1})
}

// Apply dispatches b over rt, block by block through pool. Init-stage
// modifiers only cover entries created this frame.
func Apply(pool *Pool, rt *Runtime, env sampling.Env, b *BoundModifier, blockGroups int) {
	target := rt.Target(b.Target)
	floor := 0
	if b.Stage == StageInit {
		floor = rt.Fresh(b.Target)
	}
	if floor >= target.Len() {
		b.lastFloor, b.lastLen = 0, 0
		return
	}

	r := lanes.UpdateRange{
		Begin: lanes.GroupID(floor / lanes.Width),
		End:   lanes.GroupID(lanes.GroupCount(target.Len())),
	}
	view := saltedRuntime{Runtime: rt, chaos: rt.chaos.Salted(b.salt)}
	routine := b.routine(target, floor)

	pool.Run(r, blockGroups, func(block lanes.UpdateRange) {
		sampling.Modify(view, env, b.Modifier, block, b.Target, routine.Modify)
	})
}
