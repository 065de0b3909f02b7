package game

// Options holds configuration for game initialization.
type Options struct {
	Seed      int64
	Headless  bool   // Evaluate on the CPU without a window
	Autoplay  bool   // Advance progress on its own instead of waiting for scroll input
	OutputDir string // CSV and config snapshot directory (empty = off)
	LogStats  bool   // Log window stats and perf via slog
}
