package main

import (
	"math"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/scene"
	"github.com/pthm-cable/sparks/telemetry"
)

// Fitness weights.
const (
	stabilityWeight = 0.1
	warmupFlushes   = 2   // skip the first N stats flushes while emitters fill up
	failurePenalty  = 1e6 // returned when a scene cannot be built
)

// FitnessEvaluator runs headless scenes and scores how well each effect's
// live particle count matches its budget.
type FitnessEvaluator struct {
	params     *ParamVector
	frames     int
	seeds      []int64
	baseConfig *config.Config
	budget     map[string]float64

	mu        sync.Mutex
	lastError float64 // budget error from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, frames int, seeds []int64, baseCfg *config.Config, budget map[string]float64) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		frames:     frames,
		seeds:      seeds,
		baseConfig: baseCfg,
		budget:     budget,
	}
}

// LastError returns the budget error from the most recent evaluation.
func (fe *FitnessEvaluator) LastError() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastError
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]float64, len(fe.seeds))
	errs := make([]float64, len(fe.seeds))
	var g errgroup.Group

	for i, seed := range fe.seeds {
		g.Go(func() error {
			rows, err := fe.runSimulation(x, seed)
			if err != nil {
				return err
			}
			results[i], errs[i] = fe.computeFitness(rows)
			return nil
		})
	}

	err := g.Wait()

	fe.mu.Lock()
	defer fe.mu.Unlock()
	if err != nil {
		fe.lastError = failurePenalty
		return failurePenalty
	}
	fe.lastError = stat.Mean(errs, nil)
	return stat.Mean(results, nil)
}

// runSimulation executes a single headless run and returns its stats rows.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) ([]telemetry.FrameStats, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Simulation.Workers = 1

	var rows []telemetry.FrameStats
	s, err := scene.New(cfg, scene.Options{
		Seed: seed,
		OnStats: func(r []telemetry.FrameStats) {
			rows = append(rows, r...)
		},
	})
	if err != nil {
		return nil, err
	}
	defer s.Close()

	for s.Frame() < fe.frames {
		s.Step()
	}
	return rows, nil
}

// copyConfig copies the base config deeply enough for ApplyToConfig.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.Effects = slices.Clone(fe.baseConfig.Effects)
	return &cfg
}

// computeFitness returns the fitness and the budget error of one run.
// The budget error sums the squared relative deviation of each budgeted
// effect's mean particle count; unstable counts are penalized by their
// squared coefficient of variation.
func (fe *FitnessEvaluator) computeFitness(rows []telemetry.FrameStats) (fitness, budgetErr float64) {
	counts := make(map[string][]float64, len(fe.budget))
	seen := make(map[string]int, len(fe.budget))
	for _, r := range rows {
		if _, ok := fe.budget[r.Effect]; !ok {
			continue
		}
		seen[r.Effect]++
		if seen[r.Effect] <= warmupFlushes {
			continue
		}
		counts[r.Effect] = append(counts[r.Effect], float64(r.Particles))
	}

	var instability float64
	for name, target := range fe.budget {
		c := counts[name]
		if len(c) == 0 {
			budgetErr += 1
			continue
		}
		mean, std := stat.MeanStdDev(c, nil)
		rel := (mean - target) / target
		budgetErr += rel * rel
		if len(c) > 1 && mean > 0 && !math.IsNaN(std) {
			cv := std / mean
			instability += cv * cv
		}
	}
	return budgetErr + stabilityWeight*instability, budgetErr
}
