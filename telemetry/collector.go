package telemetry

import "time"

// FrameState is the per-frame snapshot the collector samples at window end.
type FrameState struct {
	Progress   float64
	Opacity    float64
	IdleFade   float64
	Visibility float64
	Version    uint64
	Particles  int
	Groups     int
	Drawn      bool
	GPUBytes   int
}

// Collector accumulates frame events within windows and produces WindowStats.
type Collector struct {
	windowFrames int64

	// Current window tracking
	windowStartFrame int64
	frameTimes       []float64 // ms

	// Event counters for current window
	rebuilds  int
	notReady  int
	resizes   int
	drawn     int
	skipped   int
	idleFaded int

	last FrameState
}

// NewCollector creates a new stats collector.
// windowFrames: how many frames each stats window spans.
func NewCollector(windowFrames int) *Collector {
	if windowFrames < 1 {
		windowFrames = 1
	}
	return &Collector{
		windowFrames: int64(windowFrames),
		frameTimes:   make([]float64, 0, windowFrames),
	}
}

// RecordFrame records one presented frame and its CPU duration.
func (c *Collector) RecordFrame(took time.Duration, s FrameState) {
	c.frameTimes = append(c.frameTimes, float64(took)/float64(time.Millisecond))
	if s.Drawn {
		c.drawn++
	} else {
		c.skipped++
	}
	if s.IdleFade == 0 {
		c.idleFaded++
	}
	c.last = s
}

// RecordEvent counts a geometry lifecycle event.
func (c *Collector) RecordEvent(e Event) {
	switch e.Type {
	case EventRebuild:
		c.rebuilds++
	case EventNotReady:
		c.notReady++
	case EventResize:
		c.resizes++
	}
}

// ShouldFlush returns true if enough frames have passed to flush the window.
func (c *Collector) ShouldFlush(currentFrame int64) bool {
	return currentFrame-c.windowStartFrame >= c.windowFrames
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentFrame int64, wallTime time.Duration) WindowStats {
	ft := ComputeFrameTimeStats(c.frameTimes)

	stats := WindowStats{
		WindowStartFrame: c.windowStartFrame,
		WindowEndFrame:   currentFrame,
		WallTimeSec:      wallTime.Seconds(),

		Progress:   c.last.Progress,
		Opacity:    c.last.Opacity,
		Visibility: c.last.Visibility,
		Version:    c.last.Version,
		Particles:  c.last.Particles,
		Groups:     c.last.Groups,

		Rebuilds:  c.rebuilds,
		NotReady:  c.notReady,
		Resizes:   c.resizes,
		Drawn:     c.drawn,
		Skipped:   c.skipped,
		IdleFaded: c.idleFaded,

		FrameMean: ft.Mean,
		FrameStd:  ft.Std,
		FrameP50:  ft.P50,
		FrameP90:  ft.P90,
		FrameP99:  ft.P99,

		GPUBytes: c.last.GPUBytes,
	}

	// Reset for next window
	c.windowStartFrame = currentFrame
	c.frameTimes = c.frameTimes[:0]
	c.rebuilds = 0
	c.notReady = 0
	c.resizes = 0
	c.drawn = 0
	c.skipped = 0
	c.idleFaded = 0

	return stats
}

// WindowFrames returns the number of frames per window.
func (c *Collector) WindowFrames() int64 {
	return c.windowFrames
}
