package effect

import (
	"math/rand/v2"

	"github.com/cespare/xxhash/v2"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/sampling"
)

// Chaos is the deterministic random source of one runtime. Generators are
// keyed by (seed, frame, salt, range begin), so a range always draws the
// same sequence no matter which worker processes it.
type Chaos struct {
	seed  uint64
	frame uint64
}

// NewChaos derives a runtime seed from the effect name and the base seed.
func NewChaos(name string, base int64) *Chaos {
	return &Chaos{seed: xxhash.Sum64String(name) ^ uint64(base)}
}

// Advance moves to the next frame's sequences.
func (c *Chaos) Advance() { c.frame++ }

// Frame returns the number of Advance calls so far.
func (c *Chaos) Frame() uint64 { return c.frame }

// Salted returns a source whose streams are independent of every other
// salt in the same frame. Each modifier and the spawner get their own salt.
func (c *Chaos) Salted(salt uint32) sampling.ChaosSource {
	return saltedChaos{chaos: c, salt: salt}
}

// Stream implements sampling.ChaosSource with salt 0.
func (c *Chaos) Stream(r lanes.UpdateRange) sampling.Chaos {
	return c.generator(0, r.Begin)
}

func (c *Chaos) generator(salt uint32, begin lanes.GroupID) *rand.Rand {
	// 0x9E3779B97F4A7C15 spreads consecutive frames across the seed space.
	return rand.New(rand.NewPCG(
		c.seed^(c.frame*0x9E3779B97F4A7C15),
		uint64(salt)<<32|uint64(begin),
	))
}

type saltedChaos struct {
	chaos *Chaos
	salt  uint32
}

func (s saltedChaos) Stream(r lanes.UpdateRange) sampling.Chaos {
	return s.chaos.generator(s.salt, r.Begin)
}
