// Timeline preview tool - plots phase weights per group over progress with sliders.
//
// Usage: go run ./cmd/timelinepreview
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/timeline"
)

const (
	windowWidth  = 1100
	windowHeight = 640
	plotX        = 20
	plotY        = 40
	plotWidth    = 760
	plotHeight   = 260
	panelX       = plotX + plotWidth + 30
	panelWidth   = windowWidth - panelX - 20
)

var groupColors = []color.RGBA{
	{R: 220, G: 90, B: 80, A: 255},
	{R: 80, G: 150, B: 220, A: 255},
	{R: 90, G: 180, B: 110, A: 255},
	{R: 200, G: 150, B: 60, A: 255},
	{R: 150, G: 100, B: 200, A: 255},
}

func main() {
	if len(os.Args) > 1 {
		if err := config.Init(os.Args[1]); err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	} else {
		config.MustInit("")
	}
	cfg := config.Cfg()

	rl.InitWindow(windowWidth, windowHeight, "Timeline Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	tc := timeline.FromConfig(cfg)
	groups := float32(len(cfg.Layout.Labels))
	cursor := float32(0.5)

	for !rl.WindowShouldClose() {
		schedule, err := timeline.NewSchedule(tc, int(groups))

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		if err != nil {
			rl.DrawText(err.Error(), plotX, plotY, 16, rl.Red)
		} else {
			drawPlots(schedule, cursor)
		}

		// Control panel
		y := float32(plotY)
		slider := func(label string, value, lo, hi float32, format string) float32 {
			rl.DrawText(label, panelX, int32(y), 14, rl.Gray)
			y += 18
			v := gui.SliderBar(rl.Rectangle{X: panelX, Y: y, Width: panelWidth - 60, Height: 20}, "", "", value, lo, hi)
			rl.DrawText(fmt.Sprintf(format, v), int32(panelX+panelWidth-50), int32(y+2), 16, rl.DarkGray)
			y += 35
			return v
		}

		rl.DrawText("Timeline Parameters", panelX, int32(y)-30, 20, rl.DarkGray)
		tc.LateFactor = slider("Late factor", tc.LateFactor, 0, 0.95, "%.2f")
		tc.PreMix = slider("Pre-window ambient mix", tc.PreMix, 0, 1, "%.2f")
		tc.ClusterSpan = slider("Cluster span", tc.ClusterSpan, 0.1, 0.65, "%.2f")
		groups = float32(int(slider("Groups", groups, 1, float32(len(groupColors)), "%.0f") + 0.5))
		cursor = slider("Progress cursor", cursor, 0, 1, "%.3f")

		if gui.Button(rl.Rectangle{X: panelX, Y: y, Width: 120, Height: 30}, "Reset") {
			tc = timeline.FromConfig(cfg)
			groups = float32(len(cfg.Layout.Labels))
		}

		rl.EndDrawing()
	}
}

// drawPlots draws the cluster weight of every group in the top plot and the
// shared burst, scatter and destination weights in the bottom plot.
func drawPlots(s *timeline.Schedule, cursor float32) {
	top := rl.Rectangle{X: plotX, Y: plotY, Width: plotWidth, Height: plotHeight}
	bottom := rl.Rectangle{X: plotX, Y: plotY + plotHeight + 40, Width: plotWidth, Height: plotHeight}

	for _, r := range []rl.Rectangle{top, bottom} {
		rl.DrawRectangleLinesEx(r, 1, rl.LightGray)
	}
	rl.DrawText("Cluster weight per group", plotX, plotY-20, 14, rl.DarkGray)
	rl.DrawText("Burst / scatter / destination / drift", plotX, int32(bottom.Y)-20, 14, rl.DarkGray)

	for g := 0; g < s.Groups(); g++ {
		col := groupColors[g%len(groupColors)]
		plotCurve(top, col, func(p float32) float32 { return s.Weights(p, g).Cluster })
		if w, ok := s.Window(g); ok {
			x := top.X + timeline.EffectiveStart(w, s.Config().LateFactor)*top.Width
			rl.DrawLineV(rl.Vector2{X: x, Y: top.Y}, rl.Vector2{X: x, Y: top.Y + top.Height}, fade(col))
		}
	}

	amp := s.Config().DriftAmplitude
	plotCurve(bottom, rl.Orange, func(p float32) float32 { return s.Weights(p, 0).Burst })
	plotCurve(bottom, rl.Purple, func(p float32) float32 { return s.Weights(p, 0).Scatter })
	plotCurve(bottom, rl.DarkGreen, func(p float32) float32 { return s.Weights(p, 0).Destination })
	if amp > 0 {
		plotCurve(bottom, rl.Gray, func(p float32) float32 { return s.Weights(p, 0).Drift / amp })
	}

	// Cursor
	for _, r := range []rl.Rectangle{top, bottom} {
		x := r.X + cursor*r.Width
		rl.DrawLineV(rl.Vector2{X: x, Y: r.Y}, rl.Vector2{X: x, Y: r.Y + r.Height}, rl.Black)
	}
	w := s.Weights(cursor, 0)
	rl.DrawText(fmt.Sprintf("p=%.3f  window=%d  burst=%.2f scatter=%.2f dest=%.2f premix=%.2f",
		cursor, s.ActiveWindow(cursor), w.Burst, w.Scatter, w.Destination, w.PreMix),
		plotX, int32(bottom.Y+bottom.Height)+10, 14, rl.DarkGray)
}

// plotCurve draws f over [0, 1] into r.
func plotCurve(r rl.Rectangle, col color.RGBA, f func(float32) float32) {
	const samples = 400
	prev := rl.Vector2{X: r.X, Y: r.Y + r.Height*(1-f(0))}
	for i := 1; i <= samples; i++ {
		p := float32(i) / samples
		cur := rl.Vector2{X: r.X + p*r.Width, Y: r.Y + r.Height*(1-f(p))}
		rl.DrawLineV(prev, cur, col)
		prev = cur
	}
}

func fade(c color.RGBA) color.RGBA {
	c.A = 80
	return c
}
