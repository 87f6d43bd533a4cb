package effect

import (
	"fmt"
	"strings"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
	"github.com/pthm-cable/sparks/sampling"
)

// Op is how a modifier combines its sample with the current value.
// With v = sample*Gain + Bias:
//
//	set    out = v
//	scale  out = cur * v
//	add    out = cur + v
//	lerp   out = cur + (Bias - cur) * clamp(sample*Gain, 0, 1)
type Op uint8

const (
	OpSet Op = iota
	OpScale
	OpAdd
	OpLerp
)

var opNames = [...]string{"set", "scale", "add", "lerp"}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// ParseOp parses an op name. Empty means set.
func ParseOp(s string) (Op, error) {
	if s == "" {
		return OpSet, nil
	}
	for i, name := range opNames {
		if strings.EqualFold(s, name) {
			return Op(i), nil
		}
	}
	return 0, fmt.Errorf("unknown op %q", s)
}

// Routine writes sampled values into a float stream of Target. Entries
// below Floor keep their value. Record, when set, receives the raw sample
// of every written entry.
type Routine struct {
	Op     Op
	Gain   float32
	Bias   float32
	Target *particles.Container
	Floor  uint32
	Record []float32
}

// Modify is a sampling.ModifyFunc.
func (rt Routine) Modify(_ sampling.Runtime, r lanes.UpdateRange, dst particles.DataType, s sampling.Sampler) {
	stream := rt.Target.Float(dst)
	n := uint32(stream.Len())

	for g := range r.Groups() {
		ids := lanes.Indices(g)
		cur := stream.SafeLoad(ids)
		sample := s.Sample(g)
		out := cur
		for i, id := range ids {
			if id < rt.Floor || id >= n {
				continue
			}
			out[i] = rt.apply(cur[i], sample[i])
			if id < uint32(len(rt.Record)) {
				rt.Record[id] = sample[i]
			}
		}
		stream.StoreGroup(g, out)
	}
}

func (rt Routine) apply(cur, sample float32) float32 {
	return rt.Op.Apply(cur, sample, rt.Gain, rt.Bias)
}

// Apply combines a current value with a sample.
func (o Op) Apply(cur, sample, gain, bias float32) float32 {
	switch o {
	case OpScale:
		return cur * (sample*gain + bias)
	case OpAdd:
		return cur + sample*gain + bias
	case OpLerp:
		t := min(max(sample*gain, 0), 1)
		return cur + (bias-cur)*t
	}
	return sample*gain + bias
}
