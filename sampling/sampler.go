package sampling

import (
	"fmt"
	"math"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// Sampler produces one value per lane of a group. Samplers are built once
// per dispatch call and must not outlive it.
type Sampler interface {
	Sample(g lanes.GroupID) lanes.Floats
	Kind() SamplerKind
	SourceKind() SourceKind
}

// Constant returns the same value for every id.
type Constant struct {
	value lanes.Floats
}

// NewConstant creates a constant sampler.
func NewConstant(v float32) Constant {
	return Constant{value: lanes.Splat(v)}
}

func (s Constant) Sample(lanes.GroupID) lanes.Floats { return s.value }
func (s Constant) Kind() SamplerKind                 { return SamplerConstant }
func (s Constant) SourceKind() SourceKind            { return SourceNone }

// Attribute returns an effect attribute resolved once at construction.
type Attribute struct {
	Constant
}

// NewAttribute resolves name through r, falling back to def when the
// attribute is unknown or no resolver is available.
func NewAttribute(r AttributeResolver, name string, def float32) Attribute {
	v := def
	if r != nil {
		if got, ok := r.Attribute(name); ok {
			v = got
		}
	}
	return Attribute{Constant: NewConstant(v)}
}

func (s Attribute) Kind() SamplerKind { return SamplerAttribute }

// ChaosSampler draws uniform values in [0, 1) from the generator state of
// one update range. Two samples of the same id are not equal; this is the
// one sampler whose reads advance shared state.
type ChaosSampler struct {
	chaos Chaos
}

// NewChaos binds the generator for range r.
func NewChaos(rt Runtime, r lanes.UpdateRange) ChaosSampler {
	return ChaosSampler{chaos: rt.Chaos().Stream(r)}
}

func (s ChaosSampler) Sample(lanes.GroupID) lanes.Floats {
	var out lanes.Floats
	for i := range out {
		out[i] = s.chaos.Float32()
	}
	return out
}

func (s ChaosSampler) Kind() SamplerKind      { return SamplerChaos }
func (s ChaosSampler) SourceKind() SourceKind { return SourceNone }

// belowOne is the largest float32 less than 1.
var belowOne = math.Nextafter32(1, 0)

// SpawnID turns the running spawn index of the source particle into a
// ramp in [0, 1) with period modulus.
type SpawnID struct {
	source  Source
	offset  uint64
	modulus uint64
}

// NewSpawnID panics when modulus is zero; validate the modifier before
// dispatching.
func NewSpawnID(src Source, modulus uint32) SpawnID {
	if modulus == 0 {
		panic("sampling: spawn id modulus must be positive")
	}
	return SpawnID{
		source:  src,
		offset:  uint64(src.Container().SpawnIDOffset()),
		modulus: uint64(modulus),
	}
}

// Sample computes frac((id + offset) / modulus) per lane. Invalid ids
// yield 0. Moduli above 2^24 would round the top of the ramp to 1 in
// float32, so results are capped just below it.
func (s SpawnID) Sample(g lanes.GroupID) lanes.Floats {
	var out lanes.Floats
	for i, id := range s.source.IDs(g) {
		if id == lanes.InvalidID {
			continue
		}
		ramp := float64((uint64(id)+s.offset)%s.modulus) / float64(s.modulus)
		out[i] = min(float32(ramp), belowOne)
	}
	return out
}

func (s SpawnID) Kind() SamplerKind      { return SamplerSpawnID }
func (s SpawnID) SourceKind() SourceKind { return s.source.Kind() }

// Stream passes a float stream through with safe loads.
type Stream struct {
	source Source
	stream particles.FloatStream
}

// NewStream binds float stream t of the source container. t must be a
// float stream.
func NewStream(src Source, t particles.DataType) Stream {
	if t.Kind != particles.KindFloat {
		panic(fmt.Sprintf("sampling: stream sampler needs a float stream, %q is %v", t.Name, t.Kind))
	}
	return Stream{source: src, stream: src.Container().Float(t)}
}

func (s Stream) Sample(g lanes.GroupID) lanes.Floats {
	return s.stream.SafeLoad(s.source.IDs(g))
}

func (s Stream) Kind() SamplerKind      { return SamplerStream }
func (s Stream) SourceKind() SourceKind { return s.source.Kind() }

// ParticleID normalizes an index into [0, 1] over count samples. It backs
// offline sample arrays only. A single sample maps to 0.
type ParticleID struct {
	denom float32
}

// NewParticleID creates the normalizer for count samples.
func NewParticleID(count int) ParticleID {
	return ParticleID{denom: float32(max(count-1, 0))}
}

func (s ParticleID) Sample(g lanes.GroupID) lanes.Floats {
	var out lanes.Floats
	if s.denom == 0 {
		return out
	}
	for i, id := range lanes.Indices(g) {
		out[i] = float32(id) / s.denom
	}
	return out
}

func (s ParticleID) Kind() SamplerKind      { return SamplerParticleID }
func (s ParticleID) SourceKind() SourceKind { return SourceNone }
