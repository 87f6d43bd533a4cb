package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances by a fixed step each time it is read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestCollector(window int, step time.Duration) (*PerfCollector, *fakeClock) {
	clock := &fakeClock{t: time.Unix(0, 0), step: step}
	pc := NewPerfCollector(window)
	pc.now = clock.now
	return pc, clock
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc, _ := newTestCollector(10, time.Millisecond)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseSpawn)
		pc.StartPhase(PhaseModify)
		pc.EndFrame()
	}

	stats := pc.Stats()
	// Four clock reads per frame, three steps between start and end.
	if stats.AvgFrame != 3*time.Millisecond {
		t.Errorf("expected 3ms frames, got %v", stats.AvgFrame)
	}
	if stats.PhaseAvg[PhaseSpawn] != time.Millisecond {
		t.Errorf("expected 1ms spawn phase, got %v", stats.PhaseAvg[PhaseSpawn])
	}
	if stats.PhaseAvg[PhaseModify] != time.Millisecond {
		t.Errorf("expected 1ms modify phase, got %v", stats.PhaseAvg[PhaseModify])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc, clock := newTestCollector(5, time.Millisecond)

	for i := 0; i < 10; i++ {
		if i == 5 {
			clock.step = 2 * time.Millisecond
		}
		pc.StartFrame()
		pc.StartPhase(PhaseCull)
		pc.EndFrame()
	}

	stats := pc.Stats()
	// Only the last five (slower) frames remain in the window.
	if stats.AvgFrame != 4*time.Millisecond {
		t.Errorf("expected 4ms average after window rolled, got %v", stats.AvgFrame)
	}
	if stats.FramesPerSecond != 250 {
		t.Errorf("expected 250 frames/sec, got %v", stats.FramesPerSecond)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc, clock := newTestCollector(10, time.Millisecond)

	for i := 0; i < 5; i++ {
		clock.step = time.Millisecond
		pc.StartFrame()
		pc.StartPhase(PhaseSpawn)
		pc.StartPhase(PhaseModify)
		clock.step = 9 * time.Millisecond
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.PhasePct[PhaseModify] <= stats.PhasePct[PhaseSpawn] {
		t.Errorf("expected modify (%v%%) > spawn (%v%%)", stats.PhasePct[PhaseModify], stats.PhasePct[PhaseSpawn])
	}

	row := stats.ToCSV(100)
	if row.Frame != 100 || row.ModifyPct != stats.PhasePct[PhaseModify] {
		t.Errorf("unexpected CSV row %+v", row)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)
	stats := pc.Stats()

	if stats.AvgFrame != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}
