package sampling

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/sparks/lanes"
	"github.com/pthm-cable/sparks/particles"
)

func TestModifyDecisionTable(t *testing.T) {
	perParticle := particles.Size
	perInstance := particles.InstanceSpawnScale

	tests := []struct {
		name        string
		mod         Modifier
		dst         particles.DataType
		wantSampler SamplerKind
		wantSource  SourceKind
	}{
		{"global level time self", Modifier{Domain: DomainGlobal, Global: GlobalLevelTime}, perParticle, SamplerLevelTimeStart, SourceSelf},
		{"global level time parent", Modifier{Domain: DomainGlobal, Global: GlobalLevelTime, Owner: OwnerParent}, perParticle, SamplerLevelTimeStart, SourceParentOfParticle},
		{"global level time instance", Modifier{Domain: DomainGlobal, Global: GlobalLevelTime}, perInstance, SamplerLevelTimeStart, SourceParentOfInstance},
		{"global constant", Modifier{Domain: DomainGlobal, Global: GlobalTimeOfDay}, perParticle, SamplerConstant, SourceNone},
		{"attribute", Modifier{Domain: DomainAttribute, Attribute: "a", Owner: OwnerParent}, perParticle, SamplerAttribute, SourceNone},
		{"random", Modifier{Domain: DomainRandom, Owner: OwnerParent}, perInstance, SamplerChaos, SourceNone},
		{"spawn id", Modifier{Domain: DomainSpawnID, Modulus: 4}, perParticle, SamplerSpawnID, SourceSelf},
		{"spawn id parent", Modifier{Domain: DomainSpawnID, Modulus: 4, Owner: OwnerParent}, perParticle, SamplerSpawnID, SourceParentOfParticle},
		{"view angle", Modifier{Domain: DomainViewAngle}, perParticle, SamplerViewAngle, SourceSelf},
		{"camera distance instance", Modifier{Domain: DomainCameraDistance}, perInstance, SamplerCameraDistance, SourceParentOfInstance},
		{"speed parent", Modifier{Domain: DomainSpeed, Owner: OwnerParent}, perParticle, SamplerSpeed, SourceParentOfParticle},
		{"age parent per-particle", Modifier{Domain: DomainAge, Owner: OwnerParent}, perParticle, SamplerParentAge, SourceParentOfParticle},
		{"age self", Modifier{Domain: DomainAge}, perParticle, SamplerStream, SourceSelf},
		{"age parent per-instance", Modifier{Domain: DomainAge, Owner: OwnerParent}, perInstance, SamplerStream, SourceParentOfInstance},
		{"stream", Modifier{Domain: DomainStream, Stream: particles.Size, Owner: OwnerParent}, perParticle, SamplerStream, SourceParentOfParticle},
		{"unmatched domain", Modifier{Domain: Domain(200), Stream: particles.Alpha}, perParticle, SamplerStream, SourceSelf},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := newFakeRuntime(8, 4)
			rt.instances = []Instance{{ParentID: 0}, {ParentID: 1}}
			env := Env{Globals: globals{}, Attributes: attrs{}}

			r := lanes.FullRange(8)
			if tt.dst.Domain.Has(particles.DomainInstance) {
				r = lanes.FullRange(len(rt.instances))
			}

			calls := 0
			Modify(rt, env, tt.mod, r, tt.dst, func(gotRT Runtime, gotRange lanes.UpdateRange, gotDst particles.DataType, s Sampler) {
				calls++
				if gotRT != rt || gotRange != r || gotDst != tt.dst {
					t.Errorf("modify received unexpected arguments")
				}
				if s.Kind() != tt.wantSampler {
					t.Errorf("sampler = %v, want %v", s.Kind(), tt.wantSampler)
				}
				if s.SourceKind() != tt.wantSource {
					t.Errorf("source = %v, want %v", s.SourceKind(), tt.wantSource)
				}
			})
			if calls != 1 {
				t.Errorf("modify called %d times, want 1", calls)
			}

			if plan := Resolve(tt.mod, tt.dst); plan != (Plan{Sampler: tt.wantSampler, Source: tt.wantSource}) {
				t.Errorf("Resolve = %v", plan)
			}
		})
	}
}

func TestModifyGlobalConstantUsesLookup(t *testing.T) {
	rt := newFakeRuntime(4, 0)
	env := Env{Globals: globals{GlobalWindSpeed: 6.5}}
	mod := Modifier{Domain: DomainGlobal, Global: GlobalWindSpeed}

	Modify(rt, env, mod, lanes.FullRange(4), particles.Size, func(_ Runtime, r lanes.UpdateRange, _ particles.DataType, s Sampler) {
		for g := range r.Groups() {
			if s.Sample(g) != lanes.Splat(6.5) {
				t.Errorf("group %d: got %v", g, s.Sample(g))
			}
		}
	})
}

func TestModifyCameraFromEnv(t *testing.T) {
	rt := newFakeRuntime(1, 0)
	env := Env{Camera: CameraAt(r3.Vec{X: 2})}
	mod := Modifier{Domain: DomainCameraDistance}

	Modify(rt, env, mod, lanes.FullRange(1), particles.Size, func(_ Runtime, _ lanes.UpdateRange, _ particles.DataType, s Sampler) {
		if got := s.Sample(0)[0]; !near(got, 2) {
			t.Errorf("distance = %v, want 2", got)
		}
	})
}

func TestModifyPerInstanceReadsInstanceParent(t *testing.T) {
	rt := newFakeRuntime(0, 3)
	speeds := rt.parent.Vec3(particles.Velocity)
	speeds.Store(0, r3.Vec{X: 1})
	speeds.Store(2, r3.Vec{Y: 3})
	rt.instances = []Instance{{ParentID: 2}, {ParentID: lanes.InvalidID}, {ParentID: 0}}

	mod := Modifier{Domain: DomainSpeed}
	var got []float32
	Modify(rt, Env{}, mod, lanes.FullRange(3), particles.InstanceSpawnScale, func(_ Runtime, r lanes.UpdateRange, _ particles.DataType, s Sampler) {
		got = sampleAll(s, 3)
	})
	want := []float32{3, 0, 1}
	for i := range want {
		if !near(got[i], want[i]) {
			t.Errorf("instance %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParentOfInstanceOutOfRange(t *testing.T) {
	rt := newFakeRuntime(0, 1)
	rt.instances = []Instance{{ParentID: 0}}
	ids := NewParentOfInstanceSource(rt).IDs(0)
	if ids[0] != 0 {
		t.Errorf("lane 0: got %d, want 0", ids[0])
	}
	for i := 1; i < lanes.Width; i++ {
		if ids[i] != lanes.InvalidID {
			t.Errorf("lane %d: got %d, want invalid", i, ids[i])
		}
	}
	if id := NewParentOfInstanceSource(rt).IDs(5)[0]; id != lanes.InvalidID {
		t.Errorf("group past instances: got %d, want invalid", id)
	}
}

func TestModifyMalformedRangePanics(t *testing.T) {
	rt := newFakeRuntime(4, 0)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for range past container")
		}
	}()
	Modify(rt, Env{}, Modifier{Domain: DomainSpeed}, lanes.UpdateRange{End: 100}, particles.Size,
		func(Runtime, lanes.UpdateRange, particles.DataType, Sampler) {})
}

func TestModifyStreamWithoutStreamPanics(t *testing.T) {
	rt := newFakeRuntime(4, 0)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unvalidated stream modifier")
		}
	}()
	Modify(rt, Env{}, Modifier{Domain: DomainStream}, lanes.FullRange(4), particles.Size,
		func(Runtime, lanes.UpdateRange, particles.DataType, Sampler) {})
}

func TestModifierValidate(t *testing.T) {
	tests := []struct {
		name string
		mod  Modifier
		want error
	}{
		{"speed", Modifier{Domain: DomainSpeed}, nil},
		{"age", Modifier{Domain: DomainAge, Owner: OwnerParent}, nil},
		{"spawn id zero modulus", Modifier{Domain: DomainSpawnID}, ErrZeroModulus},
		{"spawn id", Modifier{Domain: DomainSpawnID, Modulus: 3}, nil},
		{"stream missing", Modifier{Domain: DomainStream}, ErrMissingStream},
		{"stream vector", Modifier{Domain: DomainStream, Stream: particles.Velocity}, ErrStreamKind},
		{"stream float", Modifier{Domain: DomainStream, Stream: particles.Alpha}, nil},
		{"attribute missing", Modifier{Domain: DomainAttribute}, ErrMissingAttribute},
		{"unknown", Modifier{Domain: Domain(99)}, ErrUnknownDomain},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mod.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseNames(t *testing.T) {
	for i, name := range domainNames {
		d, err := ParseDomain(name)
		if err != nil || d != Domain(i) {
			t.Errorf("ParseDomain(%q) = %v, %v", name, d, err)
		}
	}
	if _, err := ParseDomain("colour"); err == nil {
		t.Error("expected error for unknown domain")
	}
	if o, err := ParseOwner("Parent"); err != nil || o != OwnerParent {
		t.Errorf("ParseOwner(Parent) = %v, %v", o, err)
	}
	if o, err := ParseOwner(""); err != nil || o != OwnerSelf {
		t.Errorf("ParseOwner(\"\") = %v, %v", o, err)
	}
	if k, err := ParseGlobalKind("wind_speed"); err != nil || k != GlobalWindSpeed {
		t.Errorf("ParseGlobalKind(wind_speed) = %v, %v", k, err)
	}
}
