package scene

import (
	"log/slog"

	"github.com/pthm-cable/sparks/telemetry"
)

// flushTelemetry emits a stats row per emitter every stats interval.
func (s *Scene) flushTelemetry() {
	interval := s.cfg.Telemetry.StatsInterval
	if interval <= 0 || s.frame%interval != 0 {
		return
	}

	frames, samples := s.collectStats()
	perfStats := s.perfCollector.Stats()

	if s.onStats != nil {
		s.onStats(frames)
	}

	// Log stats if enabled (console output)
	if s.logStats {
		for _, f := range frames {
			slog.Info("frame", "stats", f)
		}
		slog.Info("perf", "stats", perfStats)
	}

	// Write to CSV if output manager is enabled
	if s.outputManager != nil {
		if err := s.outputManager.WriteFrames(frames); err != nil {
			slog.Error("failed to write frames", "error", err)
		}
		if err := s.outputManager.WriteSamples(samples); err != nil {
			slog.Error("failed to write samples", "error", err)
		}
		if err := s.outputManager.WritePerf(perfStats, s.frame); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// collectStats reads and resets every emitter's counters and summarizes
// each modifier's last samples.
func (s *Scene) collectStats() ([]telemetry.FrameStats, []telemetry.SampleStats) {
	var frames []telemetry.FrameStats
	var samples []telemetry.SampleStats

	query := s.emitterFilter.Query()
	for query.Next() {
		em, _, counters := query.Get()
		rt := em.Runtime

		frames = append(frames, telemetry.FrameStats{
			Frame:     s.frame,
			SimTime:   float64(s.levelTime),
			Effect:    rt.Name(),
			Particles: rt.Particles().Len(),
			Instances: rt.InstanceCount(),
			Spawned:   counters.Spawned,
			Culled:    counters.Culled,
		})
		counters.Reset()

		for _, m := range em.Modifiers() {
			summary := telemetry.Summarize(m.Samples())
			samples = append(samples, summary.Stats(s.frame, rt.Name(), m.Name, m.Target.Name))
		}
	}
	return frames, samples
}
