// Command sparks runs an effect scene headless and writes telemetry.
//
// Usage: go run ./cmd/sparks -frames 600 -output-dir out/
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pthm-cable/sparks/config"
	"github.com/pthm-cable/sparks/scene"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	frames := flag.Int("frames", 600, "Frames to simulate")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "Chaos seed (0 = simulation.seed, -1 = time-based)")
	workers := flag.Int("workers", -1, "Worker goroutines (-1 = use config, 0 = GOMAXPROCS)")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	inspect := flag.Bool("inspect", false, "Log every emitter's components when done")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging), tagged per run
	runID := uuid.NewString()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("run_id", runID)
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *workers >= 0 {
		cfg.Simulation.Workers = *workers
	}

	rngSeed := *seed
	if rngSeed < 0 {
		rngSeed = time.Now().UnixNano()
	}

	s, err := scene.New(cfg, scene.Options{
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	})
	if err != nil {
		slog.Error("failed to build scene", "error", err)
		os.Exit(1)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"frames", *frames,
		"effects", len(cfg.Effects),
		"output_dir", *outputDir,
	)

	start := time.Now()
	for s.Frame() < *frames {
		s.Step()
	}

	slog.Info("simulation finished",
		"frames", s.Frame(),
		"level_time", s.LevelTime(),
		"elapsed", time.Since(start),
		"perf", s.PerfStats(),
	)

	if *inspect {
		logEmitters(s, cfg)
	}

	if err := s.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
		os.Exit(1)
	}
}
