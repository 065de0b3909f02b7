// Shader debug tool - renders one particle frame to a PNG file for inspection.
//
// Usage: go run ./cmd/shaderdebug -progress 0.5 -out debug.png
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/game"
	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/morph"
	"github.com/pthm-cable/dissolve/renderer"
	"github.com/pthm-cable/dissolve/targets"
	"github.com/pthm-cable/dissolve/timeline"
	"github.com/pthm-cable/dissolve/viewport"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outPath := flag.String("out", "debug.png", "Output PNG path")
	progress := flag.Float64("progress", 0.5, "Scroll progress to render")
	tm := flag.Float64("time", 0, "Drift time in seconds")
	width := flag.Int("width", 1280, "Stage width (layout px)")
	height := flag.Int("height", 800, "Stage height (layout px)")
	dpr := flag.Float64("dpr", 1, "Device pixel ratio")
	seed := flag.Int64("seed", 1, "RNG seed")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Initialize raylib with hidden window
	rl.SetConfigFlags(rl.FlagWindowHidden)
	rl.InitWindow(int32(*width), int32(*height), "Shader Debug")
	defer rl.CloseWindow()

	// Lay the page out the way the host does
	stage := geometry.Size{Width: float32(*width), Height: float32(*height)}
	in := targets.Input{Stage: stage, Reference: geometry.Point{X: stage.Width / 2, Y: stage.Height * 0.12}}
	for i, r := range game.LayoutChips(stage, len(cfg.Layout.Labels), cfg.Layout) {
		in.Clusters = append(in.Clusters, targets.Cluster{ID: cfg.Layout.Labels[i], Rect: r})
	}
	button := game.LayoutButton(stage, cfg.Layout)
	in.Destination = &button

	set, err := targets.NewBuilder(targets.OptionsFromConfig(cfg), rand.New(rand.NewSource(*seed))).Build(in, 1)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build targets: %v\n", err)
		os.Exit(1)
	}
	schedule, err := timeline.NewSchedule(timeline.FromConfig(cfg), set.Groups())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid timeline: %v\n", err)
		os.Exit(1)
	}
	u, err := morph.NewUniforms(schedule, set, morph.ParamsFromConfig(cfg))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid uniforms: %v\n", err)
		os.Exit(1)
	}
	u.Progress = float32(*progress)
	u.Time = float32(*tm)
	u.Viewport = stage

	engine, err := renderer.NewParticleEngine()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create engine: %v\n", err)
		os.Exit(1)
	}
	defer engine.Unload()
	engine.Sync(set)

	// Render into a surface at the capped backing scale
	vp := viewport.New(stage.Width, stage.Height, float32(*dpr), float32(cfg.Screen.MaxDPR))
	surface := renderer.NewSurface()
	defer surface.Unload()
	surface.Sync(vp)

	surface.Begin()
	drawn := engine.Draw(&u)
	surface.End()
	if !drawn {
		fmt.Fprintf(os.Stderr, "Nothing drawn\n")
		os.Exit(1)
	}

	img := surface.Image()
	success := rl.ExportImage(*img, *outPath)
	rl.UnloadImage(img)

	w, h := surface.Size()
	if success {
		fmt.Printf("Progress %.3f rendered to: %s (%dx%d, %d particles)\n", *progress, *outPath, w, h, set.Len())
	} else {
		fmt.Fprintf(os.Stderr, "Failed to export image\n")
		os.Exit(1)
	}
}
