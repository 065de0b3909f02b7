package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/loop"
	"github.com/pthm-cable/dissolve/morph"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/targets"
	"github.com/pthm-cable/dissolve/telemetry"
	"github.com/pthm-cable/dissolve/timeline"
	"github.com/pthm-cable/dissolve/ui"
	"github.com/pthm-cable/dissolve/viewport"
)

// Game drives the particle morph behind a scroll-driven page: it lays out the
// label chips and the button, turns scroll input into progress, rebuilds the
// target set when the layout changes and draws every frame.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	world *ecs.World
	layoutMaps

	vp     *viewport.Viewport
	scroll *Scroll

	// Geometry
	tracker  targets.Tracker
	builder  *targets.Builder
	set      *targets.Set
	built    uint64 // Version of the current set, 0 when none
	notReady uint64 // Version last rejected as not ready

	// Timeline and per-frame uniforms
	timelineCfg timeline.Config
	schedule    *timeline.Schedule
	params      morph.Params
	uniforms    morph.Uniforms

	// Frame loop
	loopCfg   loop.Config
	loopState loop.State
	frameOut  loop.Output
	drawn     bool

	// GPU path (nil when headless)
	engine  *renderer.ParticleEngine
	surface *renderer.Surface

	// CPU path (headless, or fallback when the shader is unavailable)
	batch *morph.Batch

	// UI
	hud        *ui.HUD
	controls   *ui.ControlsPanel
	showLayout bool
	showPanel  bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	perfLogFrames int64

	// State
	frame    int64
	headless bool
	autoplay bool
	paused   bool
	clock    func() time.Duration
}

// NewGame creates a game. In graphical mode the window must already exist.
// A particle shader that fails to compile is logged and the game falls back
// to CPU evaluation; other errors are returned.
func NewGame(opts Options) (*Game, error) {
	cfg := config.Cfg()
	rng := rand.New(rand.NewSource(opts.Seed))

	world, maps := newLayoutWorld()
	g := &Game{
		cfg:        cfg,
		rng:        rng,
		world:      world,
		layoutMaps: maps,

		vp: viewport.New(float32(cfg.Screen.Width), float32(cfg.Screen.Height), 1, float32(cfg.Screen.MaxDPR)),
		scroll: NewScroll(cfg.Screen.TargetFPS,
			cfg.Scroll.Frequency, cfg.Scroll.Damping, cfg.Scroll.WheelStep),

		tracker:     targets.Tracker{Tolerance: targets.DefaultTolerance},
		builder:     targets.NewBuilder(targets.OptionsFromConfig(cfg), rng),
		timelineCfg: timeline.FromConfig(cfg),
		params:      morph.ParamsFromConfig(cfg),
		loopCfg:     loop.ConfigFromConfig(cfg),

		collector:     telemetry.NewCollector(cfg.Telemetry.WindowFrames),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.WindowFrames),
		logStats:      opts.LogStats,
		perfLogFrames: int64(cfg.Telemetry.PerfLogFrames),

		headless:  opts.Headless,
		autoplay:  opts.Autoplay,
		showPanel: true,
	}
	g.spawnLayout()

	if opts.Headless {
		// Fixed frame clock so headless runs are reproducible
		dt := time.Second / time.Duration(max(cfg.Screen.TargetFPS, 1))
		g.clock = func() time.Duration { return time.Duration(g.frame) * dt }
		g.batch = morph.NewBatch()
	} else {
		start := time.Now()
		g.clock = func() time.Duration { return time.Since(start) }
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(10, 10, 260)
		g.surface = renderer.NewSurface()

		engine, err := renderer.NewParticleEngine()
		switch {
		case errors.Is(err, renderer.ErrShaderCompile):
			slog.Warn("falling back to CPU particle evaluation", "error", err)
			g.batch = morph.NewBatch()
		case err != nil:
			return nil, fmt.Errorf("creating particle engine: %w", err)
		default:
			g.engine = engine
		}
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		g.Unload()
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	slog.Info("game ready",
		"seed", opts.Seed,
		"headless", opts.Headless,
		"pool_size", cfg.Particles.PoolSize,
		"clusters", len(cfg.Layout.Labels),
		"gpu", g.engine != nil,
	)
	return g, nil
}

// step advances layout, progress, loop state and geometry by one frame.
// It returns the frame's time since start.
func (g *Game) step() time.Duration {
	now := g.clock()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	if g.autoplay && !g.paused {
		dt := 1 / float64(max(g.cfg.Screen.TargetFPS, 1))
		g.scroll.SetTarget(g.scroll.Target() + g.cfg.Scroll.AutoSpeed*dt)
	}
	progress := g.scroll.Update()

	g.perfCollector.StartPhase(telemetry.PhaseLayout)
	stage := g.vp.Size()
	g.updateLayout(stage, progress)
	in := g.targetInput(stage)
	version := g.tracker.Observe(in)

	state, out := loop.Step(g.loopCfg, g.loopState, loop.Input{
		Now:      now,
		Progress: progress,
		Stage:    stage,
		Version:  version,
		Built:    g.built,
	})
	g.loopState, g.frameOut = state, out

	if out.Resized {
		g.recordEvent(telemetry.NewResizeEvent(g.frame, out.Stage.Width, out.Stage.Height))
	}

	g.perfCollector.StartPhase(telemetry.PhaseRebuild)
	if out.Rebuild && version != g.notReady {
		g.rebuild(in, version)
		// A set built this frame is drawn this frame
		g.frameOut.Draw = g.built != 0
	}

	g.perfCollector.StartPhase(telemetry.PhaseUniforms)
	if g.set != nil {
		u := &g.uniforms
		u.Progress = progress
		u.Time = float32(now.Seconds())
		u.Viewport = out.Stage
		u.AmbientOffset = in.Reference.Sub(g.set.Reference)
	}
	return now
}

// rebuild builds and uploads a new target set for version. A not-ready
// layout is transient: the previous set stays in use and the rebuild is
// retried once the geometry version moves on.
func (g *Game) rebuild(in targets.Input, version uint64) {
	start := time.Now()
	set, err := g.builder.Build(in, version)
	if errors.Is(err, targets.ErrNotReady) {
		g.notReady = version
		g.recordEvent(telemetry.NewNotReadyEvent(g.frame, version))
		slog.Debug("layout not ready", "version", version, "error", err)
		return
	}
	if err != nil {
		g.notReady = version
		slog.Error("target build failed", "version", version, "error", err)
		return
	}

	schedule := g.schedule
	if schedule == nil || schedule.Groups() != set.Groups() {
		schedule, err = timeline.NewSchedule(g.timelineCfg, set.Groups())
		if err != nil {
			g.notReady = version
			slog.Error("invalid timeline", "groups", set.Groups(), "error", err)
			return
		}
	}
	u, err := morph.NewUniforms(schedule, set, g.params)
	if err != nil {
		g.notReady = version
		slog.Error("invalid uniforms", "groups", set.Groups(), "error", err)
		return
	}

	if g.engine != nil {
		g.engine.Sync(set)
	}
	g.set, g.built, g.schedule, g.uniforms = set, version, schedule, u

	took := time.Since(start)
	g.recordEvent(telemetry.NewRebuildEvent(g.frame, version, set.Len(), set.Groups(), took))
	slog.Info("targets rebuilt",
		"version", version,
		"particles", set.Len(),
		"groups", set.Groups(),
		"destination_samples", set.DestinationSamples,
		"took_us", took.Microseconds(),
	)
}

// UpdateHeadless runs one frame without a window, evaluating every particle
// on the CPU.
func (g *Game) UpdateHeadless() {
	g.perfCollector.StartFrame()
	g.frame++
	now := g.step()

	g.perfCollector.StartPhase(telemetry.PhaseEvaluate)
	g.drawn = false
	if g.frameOut.Draw && g.frameOut.Opacity > 0 {
		g.batch.Run(g.set, &g.uniforms)
		g.drawn = true
	}
	g.perfCollector.EndFrame()

	g.endFrame(now)
}

// Progress returns the current smoothed progress.
func (g *Game) Progress() float32 { return g.scroll.Progress() }

// Frame returns the number of frames run.
func (g *Game) Frame() int64 { return g.frame }

// Set returns the current target set (nil before the first build).
func (g *Game) Set() *targets.Set { return g.set }

// FrameOutput returns the loop decision of the last frame.
func (g *Game) FrameOutput() loop.Output { return g.frameOut }

// Batch returns the CPU evaluator (nil on the GPU path).
func (g *Game) Batch() *morph.Batch { return g.batch }

// Stage returns the current stage size in layout pixels.
func (g *Game) Stage() geometry.Size { return g.vp.Size() }

// ScrollTo moves the progress target.
func (g *Game) ScrollTo(p float64) { g.scroll.SetTarget(p) }

// JumpTo sets progress immediately with no spring motion.
func (g *Game) JumpTo(p float64) { g.scroll.Jump(p) }

// Resize sets the stage size in layout pixels and the device pixel ratio.
func (g *Game) Resize(width, height, dpr float32) bool {
	return g.vp.Resize(width, height, dpr)
}

// Unload releases GPU resources, stops workers and closes output files.
func (g *Game) Unload() {
	if g.engine != nil {
		g.engine.Unload()
		g.engine = nil
	}
	if g.surface != nil {
		g.surface.Unload()
	}
	if g.batch != nil {
		g.batch.Close()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}
