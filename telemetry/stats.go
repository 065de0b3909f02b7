package telemetry

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a window of frames.
type WindowStats struct {
	WindowStartFrame int64   `csv:"-"`
	WindowEndFrame   int64   `csv:"window_end"`
	WallTimeSec      float64 `csv:"wall_time"`

	// Morph state at window end
	Progress   float64 `csv:"progress"`
	Opacity    float64 `csv:"opacity"`
	Visibility float64 `csv:"visibility"`
	Version    uint64  `csv:"version"`
	Particles  int     `csv:"particles"`
	Groups     int     `csv:"groups"`

	// Events during window
	Rebuilds  int `csv:"rebuilds"`
	NotReady  int `csv:"not_ready"`
	Resizes   int `csv:"resizes"`
	Drawn     int `csv:"drawn"`   // Frames that issued a particle draw
	Skipped   int `csv:"skipped"` // Frames with nothing to draw
	IdleFaded int `csv:"idle"`    // Frames with the idle fade at zero

	// Frame time distribution (ms)
	FrameMean float64 `csv:"frame_ms_mean"`
	FrameStd  float64 `csv:"frame_ms_std"`
	FrameP50  float64 `csv:"frame_ms_p50"`
	FrameP90  float64 `csv:"frame_ms_p90"`
	FrameP99  float64 `csv:"frame_ms_p99"`

	// Uploaded vertex data
	GPUBytes int `csv:"gpu_bytes"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
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

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// FrameTimeStats holds the distribution of a window's frame times.
type FrameTimeStats struct {
	Mean, Std     float64
	P50, P90, P99 float64
}

// ComputeFrameTimeStats calculates mean, population std and percentiles.
func ComputeFrameTimeStats(values []float64) FrameTimeStats {
	if len(values) == 0 {
		return FrameTimeStats{}
	}

	mean, variance := stat.PopMeanVariance(values, nil)
	std := math.Sqrt(max(variance, 0))

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return FrameTimeStats{
		Mean: mean,
		Std:  std,
		P50:  Percentile(sorted, 0.50),
		P90:  Percentile(sorted, 0.90),
		P99:  Percentile(sorted, 0.99),
	}
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartFrame),
		slog.Int64("window_end", s.WindowEndFrame),
		slog.Float64("wall_time", s.WallTimeSec),
		slog.Float64("progress", s.Progress),
		slog.Float64("opacity", s.Opacity),
		slog.Float64("visibility", s.Visibility),
		slog.Uint64("version", s.Version),
		slog.Int("particles", s.Particles),
		slog.Int("groups", s.Groups),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("not_ready", s.NotReady),
		slog.Int("resizes", s.Resizes),
		slog.Int("drawn", s.Drawn),
		slog.Int("skipped", s.Skipped),
		slog.Int("idle", s.IdleFaded),
		slog.Float64("frame_ms_mean", s.FrameMean),
		slog.Float64("frame_ms_p90", s.FrameP90),
		slog.Float64("frame_ms_p99", s.FrameP99),
		slog.Int("gpu_bytes", s.GPUBytes),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndFrame,
		"wall_time", s.WallTimeSec,
		"progress", s.Progress,
		"opacity", s.Opacity,
		"version", s.Version,
		"particles", s.Particles,
		"rebuilds", s.Rebuilds,
		"not_ready", s.NotReady,
		"resizes", s.Resizes,
		"drawn", s.Drawn,
		"skipped", s.Skipped,
		"frame_ms_mean", s.FrameMean,
		"frame_ms_p90", s.FrameP90,
	)
}
