// Package config provides configuration loading and access for the particle morph.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Particles ParticlesConfig `yaml:"particles"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Timeline  TimelineConfig  `yaml:"timeline"`
	Render    RenderConfig    `yaml:"render"`
	Fade      FadeConfig      `yaml:"fade"`
	Scroll    ScrollConfig    `yaml:"scroll"`
	Layout    LayoutConfig    `yaml:"layout"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	MaxDPR    float64 `yaml:"max_dpr"` // Device pixel ratio cap for the backing surface
}

// ParticlesConfig holds pool and color parameters.
type ParticlesConfig struct {
	PoolSize    int     `yaml:"pool_size"`
	LightRatio  float64 `yaml:"light_ratio"`  // Fraction of particles drawn with the light tone
	LightColor  [3]int  `yaml:"light_color"`  // RGB 0-255
	DarkColor   [3]int  `yaml:"dark_color"`   // RGB 0-255
	ColorJitter float64 `yaml:"color_jitter"` // Per-particle brightness jitter (fraction)
	Ambient     string  `yaml:"ambient"`      // "disk" or "rect"
	AmbientDisk float64 `yaml:"ambient_disk"` // Disk radius as a fraction of the stage diagonal
}

// SamplingConfig holds geometry sampling parameters.
type SamplingConfig struct {
	Spacing       float64 `yaml:"spacing"`        // Grid spacing for cluster and destination targets (px)
	Jitter        float64 `yaml:"jitter"`         // Uniform jitter per axis (px)
	StartSpacing  float64 `yaml:"start_spacing"`  // Coarser grid for start points (px)
	StartJitter   float64 `yaml:"start_jitter"`   // Looser jitter for start points (px)
	InteriorScale float64 `yaml:"interior_scale"` // Elliptical interior scale of cluster half extents
	RoundnessPull float64 `yaml:"roundness_pull"` // Inward nudge for near-edge cluster points [0,1]
	AllowPartial  bool    `yaml:"allow_partial"`  // Borrow samples for unmeasured clusters instead of waiting
}

// WindowConfig is one cluster-coalescence window.
type WindowConfig struct {
	Groups []int   `yaml:"groups"`
	Start  float64 `yaml:"start"`
	End    float64 `yaml:"end"`
}

// TimelineConfig holds phase windows and tuning.
type TimelineConfig struct {
	Windows        []WindowConfig `yaml:"windows"`      // Empty = even partition of [0, cluster_span)
	ClusterSpan    float64        `yaml:"cluster_span"` // Upper bound for generated windows
	LateFactor     float64        `yaml:"late_factor"`
	BurstStart     float64        `yaml:"burst_start"`
	BurstEnd       float64        `yaml:"burst_end"`
	ScatterStart   float64        `yaml:"scatter_start"`
	ScatterEnd     float64        `yaml:"scatter_end"`
	DestStart      float64        `yaml:"dest_start"`
	DestEnd        float64        `yaml:"dest_end"`
	PreMix         float64        `yaml:"pre_mix"`         // Ambient bias before a group's window opens
	DriftAmplitude float64        `yaml:"drift_amplitude"` // px
	DriftSpeed     float64        `yaml:"drift_speed"`     // rad/s
}

// RenderConfig holds per-point appearance parameters.
type RenderConfig struct {
	PointSize       float64 `yaml:"point_size"`       // Base point diameter (layout px)
	SettledSize     float64 `yaml:"settled_size"`     // Diameter once on the destination
	AlphaFloor      float64 `yaml:"alpha_floor"`      // Alpha far from the destination
	ProximityRadius float64 `yaml:"proximity_radius"` // Distance at which alpha reaches the floor (px)
	AuraScale       float64 `yaml:"aura_scale"`       // Burst aura radius multiplier
	AuraShrink      float64 `yaml:"aura_shrink"`      // Point size reduction inside an active burst
	Background      [3]int  `yaml:"background"`
}

// FadeConfig holds idle-fade and visibility window parameters.
type FadeConfig struct {
	HoldMS           float64 `yaml:"hold_ms"`
	FadeMS           float64 `yaml:"fade_ms"`
	Epsilon          float64 `yaml:"epsilon"`
	VisibleFadeStart float64 `yaml:"visible_fade_start"`
	VisibleFadeEnd   float64 `yaml:"visible_fade_end"`
	RebuildDelay     int     `yaml:"rebuild_delay"` // Frames to wait after a geometry change before rebuilding
}

// ScrollConfig holds the host scroll smoothing parameters.
type ScrollConfig struct {
	WheelStep float64 `yaml:"wheel_step"` // Progress per wheel notch
	Frequency float64 `yaml:"frequency"`  // Spring angular frequency
	Damping   float64 `yaml:"damping"`    // Spring damping ratio
	AutoSpeed float64 `yaml:"auto_speed"` // Progress per second in autoplay
}

// LayoutConfig holds the host's label chip and button layout.
type LayoutConfig struct {
	Labels       []string `yaml:"labels"`
	ChipWidth    float64  `yaml:"chip_width"`
	ChipHeight   float64  `yaml:"chip_height"`
	ChipGap      float64  `yaml:"chip_gap"`
	ButtonWidth  float64  `yaml:"button_width"`
	ButtonHeight float64  `yaml:"button_height"`
	ButtonRadius float64  `yaml:"button_radius"`
	SettleFrames int      `yaml:"settle_frames"` // Frames before chips report measured rects
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	WindowFrames  int `yaml:"window_frames"`  // Frames per stats window
	PerfLogFrames int `yaml:"perf_log_frames"` // Frames between perf log lines (0 = off)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ScreenW32  float32
	ScreenH32  float32
	LightRGBA  [4]uint8
	DarkRGBA   [4]uint8
	Background [4]uint8
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	cfg.computeDerived()

	return cfg, nil
}

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// MaxGroups is the largest number of labels a page can morph through. The
// particle shader carries one uniform slot per group.
const MaxGroups = 16

// Validate reports values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Particles.PoolSize <= 0 {
		return fmt.Errorf("%w: particles.pool_size must be positive, got %d", ErrInvalid, c.Particles.PoolSize)
	}
	if c.Particles.LightRatio < 0 || c.Particles.LightRatio > 1 {
		return fmt.Errorf("%w: particles.light_ratio must be in [0,1], got %g", ErrInvalid, c.Particles.LightRatio)
	}
	switch c.Particles.Ambient {
	case "disk", "rect":
	default:
		return fmt.Errorf("%w: particles.ambient must be disk or rect, got %q", ErrInvalid, c.Particles.Ambient)
	}
	if n := len(c.Layout.Labels); n == 0 || n > MaxGroups {
		return fmt.Errorf("%w: layout.labels must name 1 to %d labels, got %d", ErrInvalid, MaxGroups, n)
	}
	if c.Sampling.Spacing <= 0 || c.Sampling.StartSpacing <= 0 {
		return fmt.Errorf("%w: sampling spacing must be positive", ErrInvalid)
	}
	if c.Timeline.LateFactor < 0 || c.Timeline.LateFactor >= 1 {
		return fmt.Errorf("%w: timeline.late_factor must be in [0,1), got %g", ErrInvalid, c.Timeline.LateFactor)
	}
	ranges := []struct {
		name       string
		start, end float64
	}{
		{"burst", c.Timeline.BurstStart, c.Timeline.BurstEnd},
		{"scatter", c.Timeline.ScatterStart, c.Timeline.ScatterEnd},
		{"dest", c.Timeline.DestStart, c.Timeline.DestEnd},
	}
	for _, r := range ranges {
		if r.start < 0 || r.end > 1 || r.start >= r.end {
			return fmt.Errorf("%w: timeline.%s range [%g,%g] must satisfy 0 <= start < end <= 1", ErrInvalid, r.name, r.start, r.end)
		}
	}
	if c.Fade.HoldMS < 0 || c.Fade.FadeMS <= 0 {
		return fmt.Errorf("%w: fade.hold_ms must be >= 0 and fade.fade_ms > 0", ErrInvalid)
	}
	if c.Screen.MaxDPR <= 0 {
		return fmt.Errorf("%w: screen.max_dpr must be positive", ErrInvalid)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
	c.Derived.LightRGBA = rgba(c.Particles.LightColor)
	c.Derived.DarkRGBA = rgba(c.Particles.DarkColor)
	c.Derived.Background = rgba(c.Render.Background)

	if c.Telemetry.WindowFrames <= 0 {
		c.Telemetry.WindowFrames = 120
	}
	if c.Timeline.ClusterSpan <= 0 {
		c.Timeline.ClusterSpan = 0.42
	}
}

func rgba(c [3]int) [4]uint8 {
	clamp := func(v int) uint8 {
		if v < 0 {
			return 0
		}
		if v > 255 {
			return 255
		}
		return uint8(v)
	}
	return [4]uint8{clamp(c[0]), clamp(c[1]), clamp(c[2]), 255}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
