package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// FrameStats holds per-effect counters for one stats row.
type FrameStats struct {
	Frame     int     `csv:"frame"`
	SimTime   float64 `csv:"sim_time"`
	Effect    string  `csv:"effect"`
	Particles int     `csv:"particles"`
	Instances int     `csv:"instances"`
	Spawned   int     `csv:"spawned"` // Since the previous row
	Culled    int     `csv:"culled"`  // Since the previous row
}

// LogValue implements slog.LogValuer for structured logging.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("frame", s.Frame),
		slog.String("effect", s.Effect),
		slog.Int("particles", s.Particles),
		slog.Int("instances", s.Instances),
		slog.Int("spawned", s.Spawned),
		slog.Int("culled", s.Culled),
	)
}

// SampleStats summarizes the values a modifier wrote into its target.
type SampleStats struct {
	Frame    int     `csv:"frame"`
	Effect   string  `csv:"effect"`
	Modifier string  `csv:"modifier"`
	Target   string  `csv:"target"`
	Count    int     `csv:"count"`
	Mean     float64 `csv:"mean"`
	Std      float64 `csv:"std"`
	Min      float64 `csv:"min"`
	Max      float64 `csv:"max"`
	P10      float64 `csv:"p10"`
	P50      float64 `csv:"p50"`
	P90      float64 `csv:"p90"`
}

// Summary holds the distribution of a set of values.
type Summary struct {
	Count         int
	Mean, Std     float64
	Min, Max      float64
	P10, P50, P90 float64
}

// Summarize computes the distribution of values. Empty input yields a zero
// summary; a single value has zero spread.
func Summarize(values []float32) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}

	sorted := make([]float64, n)
	for i, v := range values {
		sorted[i] = float64(v)
	}
	sort.Float64s(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if n < 2 || math.IsNaN(std) {
		std = 0
	}

	return Summary{
		Count: n,
		Mean:  mean,
		Std:   std,
		Min:   sorted[0],
		Max:   sorted[n-1],
		P10:   Percentile(sorted, 0.1),
		P50:   Percentile(sorted, 0.5),
		P90:   Percentile(sorted, 0.9),
	}
}

// Percentile calculates the p-th percentile of a sorted slice as the
// smallest value whose empirical CDF reaches p. p should be in [0, 1].
// Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// Stats converts a summary into a CSV row.
func (s Summary) Stats(frame int, effect, modifier, target string) SampleStats {
	return SampleStats{
		Frame:    frame,
		Effect:   effect,
		Modifier: modifier,
		Target:   target,
		Count:    s.Count,
		Mean:     s.Mean,
		Std:      s.Std,
		Min:      s.Min,
		Max:      s.Max,
		P10:      s.P10,
		P50:      s.P50,
		P90:      s.P90,
	}
}
