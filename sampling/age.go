package sampling

import (
	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// LevelTimeStart converts the source particle's elapsed age into an
// absolute start time on the level clock.
type LevelTimeStart struct {
	source    Source
	ages      particles.FloatStream
	lifeTimes particles.FloatStream
	levelTime float32
	deltaTime float32
	startTime StartTimeFunc
}

// NewLevelTimeStart binds the age streams and the clock of rt.
func NewLevelTimeStart(rt Runtime, src Source, startTime StartTimeFunc) LevelTimeStart {
	if startTime == nil {
		startTime = DefaultStartTime
	}
	c := src.Container()
	return LevelTimeStart{
		source:    src,
		ages:      c.Float(particles.NormalAge),
		lifeTimes: c.Float(particles.LifeTime),
		levelTime: rt.LevelTime(),
		deltaTime: rt.DeltaTime(),
		startTime: startTime,
	}
}

func (s LevelTimeStart) Sample(g lanes.GroupID) lanes.Floats {
	ids := s.source.IDs(g)
	ages := s.ages.SafeLoad(ids)
	lifeTimes := s.lifeTimes.SafeLoad(ids)

	var out lanes.Floats
	for i := range out {
		out[i] = finite32(s.startTime(s.levelTime, s.deltaTime, ages[i]*lifeTimes[i]))
	}
	return out
}

func (s LevelTimeStart) Kind() SamplerKind      { return SamplerLevelTimeStart }
func (s LevelTimeStart) SourceKind() SourceKind { return s.source.Kind() }

// ParentAge samples the parent's normalized age, extrapolated to each
// child's fractional spawn time so children born mid-frame see a smooth
// parent age instead of per-frame steps.
type ParentAge struct {
	selfAges       particles.FloatStream
	parentIDs      particles.IDStream
	parentAges     particles.FloatStream
	parentInvLives particles.FloatStream
	deltaTime      lanes.Floats
}

// NewParentAge reads self ages and parent ids from the runtime's own
// container and ages from its parent container.
func NewParentAge(rt Runtime) ParentAge {
	self := rt.Container()
	parent := parentOf(rt)
	return ParentAge{
		selfAges:       self.Float(particles.NormalAge),
		parentIDs:      self.ID(particles.ParentID),
		parentAges:     parent.Float(particles.NormalAge),
		parentInvLives: parent.Float(particles.InvLifeTime),
		deltaTime:      lanes.Splat(rt.DeltaTime()),
	}
}

// Sample returns parentAge + selfAge*parentInvLifeTime*deltaTime, or the
// raw parent age for lanes whose self age is negative (not yet spawned in
// this step).
func (s ParentAge) Sample(g lanes.GroupID) lanes.Floats {
	ids := lanes.Indices(g)
	selfAge := s.selfAges.SafeLoad(ids)
	parentIDs := s.parentIDs.SafeLoad(ids)
	parentAge := s.parentAges.SafeLoad(parentIDs)
	invLife := s.parentInvLives.SafeLoad(parentIDs)

	var extrapolated lanes.Floats
	for i := range extrapolated {
		parentAge[i] = finite32(parentAge[i])
		extrapolated[i] = finite32(parentAge[i] + selfAge[i]*invLife[i]*s.deltaTime[i])
	}
	return lanes.Select(selfAge, extrapolated, parentAge)
}

func (s ParentAge) Kind() SamplerKind      { return SamplerParentAge }
func (s ParentAge) SourceKind() SourceKind { return SourceParentOfParticle }
