package effect

import (
	"sync/atomic"
	"testing"

	"github.com/pthm-cable/sparks/lanes"
)

func TestPoolRunCoversEveryGroupOnce(t *testing.T) {
	tests := []struct {
		name      string
		workers   int
		threshold int
	}{
		{"inline below threshold", 4, 1000},
		{"single worker", 1, 1},
		{"parallel", 4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPool(tt.workers, tt.threshold)
			defer p.Stop()

			r := lanes.UpdateRange{Begin: 3, End: 203}
			hits := make([]atomic.Int32, 203)
			for range 3 {
				p.Run(r, 7, func(b lanes.UpdateRange) {
					if b.Len() > 7 {
						t.Errorf("block %v larger than 7 groups", b)
					}
					for g := range b.Groups() {
						hits[g].Add(1)
					}
				})
			}

			for g := range hits {
				want := int32(0)
				if g >= 3 {
					want = 3
				}
				if got := hits[g].Load(); got != want {
					t.Errorf("group %d visited %d times, want %d", g, got, want)
				}
			}
		})
	}
}

func TestPoolEmptyRangeAndStop(t *testing.T) {
	p := NewPool(2, 1)
	p.Run(lanes.UpdateRange{}, 4, func(lanes.UpdateRange) {
		t.Error("empty range dispatched work")
	})
	p.Stop()
	p.Stop()

	if NewPool(0, 0).Workers() < 1 {
		t.Error("default pool has no workers")
	}
}
