package sampling

import (
	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// Source maps a group id of the destination domain to the ids to read,
// and names the container backing those reads.
type Source interface {
	Kind() SourceKind
	Container() Container
	IDs(g lanes.GroupID) lanes.IDs
}

// SelfSource reads the runtime's own particles at the same ids.
type SelfSource struct {
	container Container
}

// NewSelfSource binds the runtime's own container.
func NewSelfSource(rt Runtime) SelfSource {
	return SelfSource{container: rt.Container()}
}

func (s SelfSource) Kind() SourceKind              { return SourceSelf }
func (s SelfSource) Container() Container          { return s.container }
func (s SelfSource) IDs(g lanes.GroupID) lanes.IDs { return lanes.Indices(g) }

// ParentOfParticleSource reads each particle's parent through the
// per-particle parent id stream.
type ParentOfParticleSource struct {
	parent    Container
	parentIDs particles.IDStream
}

// NewParentOfParticleSource binds the parent container and the runtime's
// parent id stream.
func NewParentOfParticleSource(rt Runtime) ParentOfParticleSource {
	return ParentOfParticleSource{
		parent:    parentOf(rt),
		parentIDs: rt.Container().ID(particles.ParentID),
	}
}

func (s ParentOfParticleSource) Kind() SourceKind     { return SourceParentOfParticle }
func (s ParentOfParticleSource) Container() Container { return s.parent }

// IDs returns the parent id of every lane; dead or missing parents are
// lanes.InvalidID.
func (s ParentOfParticleSource) IDs(g lanes.GroupID) lanes.IDs {
	return s.parentIDs.SafeLoad(lanes.Indices(g))
}

// ParentOfInstanceSource reads the parent particle of an emitter instance.
// Group ids index instances.
type ParentOfInstanceSource struct {
	parent    Container
	instances []Instance
}

// NewParentOfInstanceSource binds the parent container and the instance
// list valid for this update.
func NewParentOfInstanceSource(rt Runtime) ParentOfInstanceSource {
	return ParentOfInstanceSource{
		parent:    parentOf(rt),
		instances: rt.Instances(),
	}
}

func (s ParentOfInstanceSource) Kind() SourceKind     { return SourceParentOfInstance }
func (s ParentOfInstanceSource) Container() Container { return s.parent }

// IDs looks up each lane's instance independently, since lanes of one
// group may belong to different instances, and packs the parent ids.
func (s ParentOfInstanceSource) IDs(g lanes.GroupID) lanes.IDs {
	out := lanes.SplatID(lanes.InvalidID)
	for i, inst := range lanes.Indices(g) {
		if inst < uint32(len(s.instances)) {
			out[i] = s.instances[inst].ParentID
		}
	}
	return out
}

// RouteKind picks the source for a routed sampler. Per-instance
// destinations always read the instance's parent; otherwise the owner
// decides.
func RouteKind(owner Owner, dst particles.DataType) SourceKind {
	switch {
	case dst.Domain.Has(particles.DomainInstance):
		return SourceParentOfInstance
	case owner == OwnerParent:
		return SourceParentOfParticle
	default:
		return SourceSelf
	}
}

// Route builds the source chosen by RouteKind.
func Route(rt Runtime, owner Owner, dst particles.DataType) Source {
	switch RouteKind(owner, dst) {
	case SourceParentOfInstance:
		return NewParentOfInstanceSource(rt)
	case SourceParentOfParticle:
		return NewParentOfParticleSource(rt)
	default:
		return NewSelfSource(rt)
	}
}
