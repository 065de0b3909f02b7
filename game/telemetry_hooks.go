package game

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/dissolve/telemetry"
)

// recordEvent counts a geometry lifecycle event and writes it to rebuilds.csv.
func (g *Game) recordEvent(e telemetry.Event) {
	g.collector.RecordEvent(e)
	if err := g.outputManager.WriteEvent(e); err != nil {
		slog.Error("failed to write event", "error", err)
	}
}

// frameState samples the state reported at window end.
func (g *Game) frameState() telemetry.FrameState {
	s := telemetry.FrameState{
		Progress:   float64(g.scroll.Progress()),
		Opacity:    float64(g.frameOut.Opacity),
		IdleFade:   float64(g.frameOut.IdleFade),
		Visibility: float64(g.frameOut.Visibility),
		Version:    g.built,
		Drawn:      g.drawn,
	}
	if g.set != nil {
		s.Particles = g.set.Len()
		s.Groups = g.set.Groups()
	}
	if g.engine != nil {
		s.GPUBytes = g.engine.GPUBytes()
	}
	return s
}

// endFrame records the frame and flushes the stats window when it is full.
func (g *Game) endFrame(now time.Duration) {
	g.collector.RecordFrame(g.perfCollector.Last(), g.frameState())
	perf := g.perfCollector.Stats()

	if g.perfLogFrames > 0 && g.frame%g.perfLogFrames == 0 && g.logStats {
		perf.LogStats()
	}

	if !g.collector.ShouldFlush(g.frame) {
		return
	}
	stats := g.collector.Flush(g.frame, now)

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
	}

	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perf, stats.WindowEndFrame); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}
