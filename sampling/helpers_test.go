package sampling

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

// fakeRuntime is a hand-wired runtime over plain containers.
type fakeRuntime struct {
	dt, levelTime float32
	self, parent  *particles.Container
	instances     []Instance
	seed          uint64
}

func (f *fakeRuntime) DeltaTime() float32         { return f.dt }
func (f *fakeRuntime) LevelTime() float32         { return f.levelTime }
func (f *fakeRuntime) Container() Container       { return f.self }
func (f *fakeRuntime) ParentContainer() Container { return f.parent }
func (f *fakeRuntime) Instances() []Instance      { return f.instances }
func (f *fakeRuntime) InstanceCount() int         { return len(f.instances) }
func (f *fakeRuntime) Chaos() ChaosSource         { return fakeChaos{seed: f.seed} }

type fakeChaos struct {
	seed uint64
}

func (c fakeChaos) Stream(r lanes.UpdateRange) Chaos {
	return rand.New(rand.NewPCG(c.seed, uint64(r.Begin)))
}

var allStreams = []particles.DataType{
	particles.Position, particles.Velocity, particles.Orientation,
	particles.NormalAge, particles.LifeTime, particles.InvLifeTime,
	particles.Size, particles.ParentID, particles.InstanceIndex,
}

// newFakeRuntime creates a runtime with n own particles and np parents.
func newFakeRuntime(n, np int) *fakeRuntime {
	self := particles.NewContainer(allStreams...)
	self.AddParticles(n)
	parent := particles.NewContainer(allStreams...)
	parent.AddParticles(np)
	return &fakeRuntime{dt: 1.0 / 60, levelTime: 10, self: self, parent: parent, seed: 7}
}

// sampleAll evaluates s for every particle index in [0, n).
func sampleAll(s Sampler, n int) []float32 {
	out := make([]float32, n)
	for g := range lanes.FullRange(n).Groups() {
		v := s.Sample(g)
		for i, id := range lanes.Indices(g) {
			if int(id) < n {
				out[id] = v[i]
			}
		}
	}
	return out
}

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

type attrs map[string]float32

func (a attrs) Attribute(name string) (float32, bool) {
	v, ok := a[name]
	return v, ok
}

type globals map[GlobalKind]float32

func (g globals) GlobalValue(kind GlobalKind) float32 { return g[kind] }

// fixedSource hands out the same ids for every group.
type fixedSource struct {
	c   Container
	ids lanes.IDs
}

func (s fixedSource) Kind() SourceKind            { return SourceSelf }
func (s fixedSource) Container() Container        { return s.c }
func (s fixedSource) IDs(lanes.GroupID) lanes.IDs { return s.ids }

// orphanRuntime reports no parent container at all.
type orphanRuntime struct {
	*fakeRuntime
}

func (orphanRuntime) ParentContainer() Container { return nil }
