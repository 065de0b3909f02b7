package telemetry

import (
	"testing"
	"time"
)

// fakeClock advances by step on every read.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseRebuild)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseDraw)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}
	if _, ok := stats.PhaseAvg[PhaseRebuild]; !ok {
		t.Error("expected rebuild phase to be tracked")
	}
	if _, ok := stats.PhaseAvg[PhaseDraw]; !ok {
		t.Error("expected draw phase to be tracked")
	}
	if stats.FPS <= 0 {
		t.Error("expected positive fps after several frames")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Millisecond}
	pc := NewPerfCollector(4)
	pc.now = clock.now

	// StartFrame, StartPhase(a), StartPhase(b), EndFrame: each read is +1ms,
	// so a and b take 1ms each and the frame takes 3ms
	for i := 0; i < 4; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseUniforms)
		pc.StartPhase(PhaseDraw)
		pc.EndFrame()
	}

	stats := pc.Stats()
	if stats.AvgFrameDuration != 3*time.Millisecond {
		t.Errorf("avg frame = %v, want 3ms", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg[PhaseDraw] != time.Millisecond {
		t.Errorf("draw avg = %v, want 1ms", stats.PhaseAvg[PhaseDraw])
	}
	pct := stats.PhasePct[PhaseDraw]
	if pct < 33 || pct > 34 {
		t.Errorf("draw pct = %v, want ~33.3", pct)
	}
	if stats.FrameInterval != 4*time.Millisecond {
		t.Errorf("frame interval = %v, want 4ms", stats.FrameInterval)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseDraw)
		pc.EndFrame()
	}

	if pc.sampleCount != 5 {
		t.Errorf("sampleCount = %d, want 5 (window size)", pc.sampleCount)
	}
}

func TestPerfCollector_Empty(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg duration for empty collector")
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil maps for empty collector")
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgFrameDuration: 2 * time.Millisecond,
		PhasePct:         map[string]float64{PhaseDraw: 60, PhaseRebuild: 5},
	}
	row := stats.ToCSV(600)
	if row.WindowEnd != 600 || row.AvgFrameUS != 2000 {
		t.Errorf("row = %+v", row)
	}
	if row.DrawPct != 60 || row.RebuildPct != 5 || row.EvaluatePct != 0 {
		t.Errorf("phase pct = %v/%v/%v", row.DrawPct, row.RebuildPct, row.EvaluatePct)
	}
}

func TestPerfCollector_Last(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0), step: time.Millisecond}
	pc := NewPerfCollector(2)
	pc.now = clock.now

	if pc.Last() != 0 {
		t.Error("expected zero before the first frame")
	}
	for i := 0; i < 3; i++ {
		pc.StartFrame()
		pc.EndFrame()
	}
	if pc.Last() != time.Millisecond {
		t.Errorf("Last = %v, want 1ms", pc.Last())
	}
}
