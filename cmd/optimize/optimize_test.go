package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/telemetry"
)

func loadDefaults(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestParamVectorRoundTrip(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)
	if pv.Dim() != 2*len(cfg.Effects) {
		t.Fatalf("dim = %d, want %d", pv.Dim(), 2*len(cfg.Effects))
	}

	def := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(def))
	for i := range def {
		if math.Abs(back[i]-def[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, def[i], back[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	cfg := loadDefaults(t)
	pv := NewParamVector(cfg)

	values := pv.DefaultVector()
	values[0] = 1e9 // fountain.rate
	values[1] = -1  // fountain.life_time
	pv.ApplyToConfig(cfg, values)

	if got, want := cfg.Effects[0].Spawn.Rate, pv.Specs[0].Max; got != want {
		t.Errorf("rate = %v, want clamped %v", got, want)
	}
	if got, want := cfg.Effects[0].Spawn.LifeTime, pv.Specs[1].Min; got != want {
		t.Errorf("life_time = %v, want clamped %v", got, want)
	}
}

func TestComputeFitness(t *testing.T) {
	fe := &FitnessEvaluator{budget: map[string]float64{"fountain": 100}}

	rows := func(counts ...int) []telemetry.FrameStats {
		var out []telemetry.FrameStats
		for _, c := range counts {
			out = append(out, telemetry.FrameStats{Effect: "fountain", Particles: c})
			out = append(out, telemetry.FrameStats{Effect: "sparks", Particles: 1})
		}
		return out
	}

	tests := []struct {
		name    string
		rows    []telemetry.FrameStats
		wantErr float64
	}{
		{"on budget after warmup", rows(0, 0, 100, 100, 100), 0},
		{"double budget", rows(0, 0, 200, 200), 1},
		{"no rows", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fitness, budgetErr := fe.computeFitness(tt.rows)
			if math.Abs(budgetErr-tt.wantErr) > 1e-9 {
				t.Errorf("budget error = %v, want %v", budgetErr, tt.wantErr)
			}
			if fitness < budgetErr {
				t.Errorf("fitness %v below budget error %v", fitness, budgetErr)
			}
		})
	}

	fitness, _ := fe.computeFitness(rows(0, 0, 50, 150))
	if fitness <= 0.0 {
		t.Errorf("unstable counts should be penalized, fitness = %v", fitness)
	}
}

func TestParseBudget(t *testing.T) {
	cfg := loadDefaults(t)

	budget, err := parseBudget("fountain=600, sparks=1500", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if budget["fountain"] != 600 || budget["sparks"] != 1500 {
		t.Errorf("budget = %v", budget)
	}

	for _, bad := range []string{"", "fountain", "smoke=10", "fountain=-1", "fountain=abc"} {
		if _, err := parseBudget(bad, cfg); err == nil {
			t.Errorf("parseBudget(%q): expected error", bad)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(3723e9); got != "1h02m03s" {
		t.Errorf("got %q", got)
	}
	if got := formatDuration(65e9); got != "1m05s" {
		t.Errorf("got %q", got)
	}
}
