package effect

import (
	"testing"

	"github.com/pthm-cable/sparks/lanes"
)

func draw(c interface{ Float32() float32 }, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = c.Float32()
	}
	return out
}

func sameDraws(a, b []float32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestChaosDeterministicPerRange(t *testing.T) {
	r := lanes.UpdateRange{Begin: 8, End: 16}

	a := draw(NewChaos("sparks", 7).Stream(r), 16)
	b := draw(NewChaos("sparks", 7).Stream(r), 16)
	if !sameDraws(a, b) {
		t.Fatalf("same key produced different sequences:\n%v\n%v", a, b)
	}

	for _, v := range a {
		if v < 0 || v >= 1 {
			t.Errorf("value %v outside [0, 1)", v)
		}
	}
}

func TestChaosStreamsAreIndependent(t *testing.T) {
	c := NewChaos("sparks", 7)
	base := draw(c.Stream(lanes.UpdateRange{Begin: 0, End: 4}), 8)

	tests := []struct {
		name string
		seq  []float32
	}{
		{"other range", draw(c.Stream(lanes.UpdateRange{Begin: 4, End: 8}), 8)},
		{"other salt", draw(c.Salted(3).Stream(lanes.UpdateRange{Begin: 0, End: 4}), 8)},
		{"other name", draw(NewChaos("fountain", 7).Stream(lanes.UpdateRange{Begin: 0, End: 4}), 8)},
		{"other seed", draw(NewChaos("sparks", 8).Stream(lanes.UpdateRange{Begin: 0, End: 4}), 8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if sameDraws(base, tt.seq) {
				t.Error("sequence matches the base stream")
			}
		})
	}
}

func TestChaosAdvance(t *testing.T) {
	c := NewChaos("sparks", 1)
	r := lanes.UpdateRange{Begin: 0, End: 1}
	first := draw(c.Stream(r), 8)
	c.Advance()
	if c.Frame() != 1 {
		t.Fatalf("frame = %d, want 1", c.Frame())
	}
	if sameDraws(first, draw(c.Stream(r), 8)) {
		t.Error("advancing the frame did not change the sequence")
	}
}
