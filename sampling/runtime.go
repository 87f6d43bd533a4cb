// Package sampling computes per-particle sample values from a configured
// domain and hands them to a caller-supplied modify routine.
//
// A dispatch call picks one source (whose particles are read) and one
// sampler (how a value is derived from them), binds both to the runtime
// state of the current update, and invokes the modify routine once. Samplers
// never write container data; the only side-effecting read is the chaos
// stream, which is partitioned per update range.
package sampling

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// Container is the read side of a particle container. Streams are keyed by
// data type; absent streams return empty handles that safe-load defaults.
type Container interface {
	Len() int
	SpawnIDOffset() uint32
	Float(t particles.DataType) particles.FloatStream
	Vec3(t particles.DataType) particles.Vec3Stream
	Quat(t particles.DataType) particles.QuatStream
	ID(t particles.DataType) particles.IDStream
}

// noParent reads as an empty container.
var noParent Container = (*particles.Container)(nil)

// parentOf returns rt's parent container, or an empty one when rt has no
// parent.
func parentOf(rt Runtime) Container {
	if c := rt.ParentContainer(); c != nil {
		return c
	}
	return noParent
}

// Instance is one emitter instance of a runtime.
type Instance struct {
	// ParentID is the parent-container particle that owns the instance,
	// or lanes.InvalidID for root instances.
	ParentID uint32
}

// Chaos yields uniform values in [0, 1).
type Chaos interface {
	Float32() float32
}

// ChaosSource hands out generator state for one update range. Disjoint
// ranges get independent generators so concurrent workers never share
// state.
type ChaosSource interface {
	Stream(r lanes.UpdateRange) Chaos
}

// Runtime is the live emitter state a dispatch call binds to.
type Runtime interface {
	DeltaTime() float32
	LevelTime() float32
	Container() Container
	ParentContainer() Container // may be nil for a root runtime
	Instances() []Instance
	InstanceCount() int
	Chaos() ChaosSource
}

// AttributeResolver looks up a named effect attribute. Attributes are
// per effect instance, so they are resolved once per dispatch.
type AttributeResolver interface {
	Attribute(name string) (float32, bool)
}

// GlobalLookup returns level-wide values such as time of day.
type GlobalLookup interface {
	GlobalValue(kind GlobalKind) float32
}

// CameraProvider returns the current camera world position.
type CameraProvider interface {
	CameraPosition() r3.Vec
}

// CameraAt is a fixed camera position.
type CameraAt r3.Vec

// CameraPosition implements CameraProvider.
func (c CameraAt) CameraPosition() r3.Vec { return r3.Vec(c) }

// StartTimeFunc converts an elapsed duration into an absolute start time on
// the level clock.
type StartTimeFunc func(levelTime, deltaTime, elapsed float32) float32

// DefaultStartTime treats levelTime as the start of the frame and ages as
// measured at its end, so a particle that has lived elapsed seconds started
// at levelTime + deltaTime - elapsed.
func DefaultStartTime(levelTime, deltaTime, elapsed float32) float32 {
	return levelTime + deltaTime - elapsed
}

// Env carries the environment values a sampler reads at construction.
// Nothing in this package reaches for global state; callers source these
// from their own environment layer.
type Env struct {
	Camera     CameraProvider
	Attributes AttributeResolver
	Globals    GlobalLookup
	StartTime  StartTimeFunc
}

func (e Env) cameraPosition() r3.Vec {
	if e.Camera == nil {
		return r3.Vec{}
	}
	return e.Camera.CameraPosition()
}

func (e Env) startTime() StartTimeFunc {
	if e.StartTime == nil {
		return DefaultStartTime
	}
	return e.StartTime
}
