package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestPercentileMonotonic(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	prev := math.Inf(-1)
	for p := 0.0; p <= 1.0; p += 0.05 {
		got := Percentile(sorted, p)
		if got < prev {
			t.Fatalf("percentile decreased at p=%v: %v < %v", p, got, prev)
		}
		if got < 1 || got > 10 {
			t.Fatalf("percentile %v out of data range at p=%v", got, p)
		}
		prev = got
	}
}

func TestSummarize(t *testing.T) {
	values := []float32{0.5, 0.1, 0.9, 0.3, 0.7}
	s := Summarize(values)

	if s.Count != 5 {
		t.Errorf("count = %d, want 5", s.Count)
	}
	if math.Abs(s.Mean-0.5) > 1e-6 {
		t.Errorf("mean = %v, want 0.5", s.Mean)
	}
	if math.Abs(s.Min-0.1) > 1e-6 || math.Abs(s.Max-0.9) > 1e-6 {
		t.Errorf("min/max = %v/%v, want 0.1/0.9", s.Min, s.Max)
	}
	if s.Std <= 0 {
		t.Errorf("expected positive std, got %v", s.Std)
	}
	if !(s.P10 <= s.P50 && s.P50 <= s.P90) {
		t.Errorf("percentiles out of order: %v %v %v", s.P10, s.P50, s.P90)
	}
}

func TestSummarizeDegenerate(t *testing.T) {
	if s := Summarize(nil); s != (Summary{}) {
		t.Errorf("empty input: got %+v", s)
	}
	s := Summarize([]float32{2})
	if s.Count != 1 || s.Mean != 2 || s.Std != 0 || s.P50 != 2 {
		t.Errorf("single value: got %+v", s)
	}
}
