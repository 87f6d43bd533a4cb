package sampling

import (
	"fmt"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// ModifyFunc consumes a sampler: it iterates r and writes transformed
// values into dst. It is called exactly once per dispatch.
type ModifyFunc func(rt Runtime, r lanes.UpdateRange, dst particles.DataType, s Sampler)

// Plan is the sampler and source a modifier resolves to for a destination.
type Plan struct {
	Sampler SamplerKind
	Source  SourceKind
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	return fmt.Sprintf("%v/%v", p.Sampler, p.Source)
}

// Resolve is the decision table from a modifier's domain to a sampler and
// source. It depends only on configuration, so callers may resolve once and
// cache the plan.
func Resolve(m Modifier, dst particles.DataType) Plan {
	routed := func(k SamplerKind) Plan {
		return Plan{Sampler: k, Source: RouteKind(m.Owner, dst)}
	}

	switch m.Domain {
	case DomainGlobal:
		if m.Global == GlobalLevelTime {
			return routed(SamplerLevelTimeStart)
		}
		return Plan{Sampler: SamplerConstant, Source: SourceNone}
	case DomainAttribute:
		return Plan{Sampler: SamplerAttribute, Source: SourceNone}
	case DomainRandom:
		return Plan{Sampler: SamplerChaos, Source: SourceNone}
	case DomainSpawnID:
		return routed(SamplerSpawnID)
	case DomainViewAngle:
		return routed(SamplerViewAngle)
	case DomainCameraDistance:
		return routed(SamplerCameraDistance)
	case DomainSpeed:
		return routed(SamplerSpeed)
	case DomainAge:
		if dst.Domain.Has(particles.DomainParticle) && m.Owner == OwnerParent {
			return Plan{Sampler: SamplerParentAge, Source: SourceParentOfParticle}
		}
	}
	return routed(SamplerStream)
}

// NewSampler builds the sampler described by plan, bound to rt and env for
// one update of range r.
func NewSampler(plan Plan, rt Runtime, env Env, m Modifier, dst particles.DataType, r lanes.UpdateRange) Sampler {
	switch plan.Sampler {
	case SamplerConstant:
		var v float32
		if env.Globals != nil {
			v = env.Globals.GlobalValue(m.Global)
		}
		return NewConstant(v)
	case SamplerAttribute:
		return NewAttribute(env.Attributes, m.Attribute, m.AttributeDefault)
	case SamplerChaos:
		return NewChaos(rt, r)
	case SamplerParentAge:
		return NewParentAge(rt)
	}

	src := Route(rt, m.Owner, dst)
	switch plan.Sampler {
	case SamplerLevelTimeStart:
		return NewLevelTimeStart(rt, src, env.startTime())
	case SamplerSpawnID:
		return NewSpawnID(src, m.Modulus)
	case SamplerViewAngle:
		return NewViewAngle(src, env.cameraPosition())
	case SamplerCameraDistance:
		return NewCameraDistance(src, env.cameraPosition())
	case SamplerSpeed:
		return NewSpeed(src)
	case SamplerStream:
		stream := m.sourceStream()
		if stream.IsZero() {
			panic(fmt.Sprintf("sampling: %v modifier has no stream; validate before dispatch", m.Domain))
		}
		return NewStream(src, stream)
	}
	panic(fmt.Sprintf("sampling: no sampler for plan %v", plan))
}

// Modify resolves m for dst, builds the sampler for range r and passes it
// to fn. The range is checked against the destination's group space; a
// malformed range panics.
func Modify(rt Runtime, env Env, m Modifier, r lanes.UpdateRange, dst particles.DataType, fn ModifyFunc) {
	r.MustFit(groupSpace(rt, dst))
	plan := Resolve(m, dst)
	fn(rt, r, dst, NewSampler(plan, rt, env, m, dst, r))
}

// groupSpace is the number of addressable groups for dst.
func groupSpace(rt Runtime, dst particles.DataType) int {
	if dst.Domain.Has(particles.DomainInstance) {
		return lanes.GroupCount(rt.InstanceCount())
	}
	return lanes.GroupCount(rt.Container().Len())
}
