package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/telemetry"
	"github.com/pthm-cable/dissolve/ui"
)

// Update runs one graphical frame: input, step and the offscreen particle pass.
func (g *Game) Update() {
	g.perfCollector.StartFrame()
	g.frame++
	g.handleInput()
	g.step()

	g.perfCollector.StartPhase(telemetry.PhaseDraw)
	g.drawn = false
	if !g.frameOut.Draw || g.frameOut.Opacity <= 0 {
		return
	}
	g.surface.Sync(g.vp)

	g.surface.Begin()
	if g.engine != nil {
		g.drawn = g.engine.Draw(&g.uniforms)
	} else {
		g.perfCollector.StartPhase(telemetry.PhaseEvaluate)
		g.batch.Run(g.set, &g.uniforms)
		g.drawBatch()
		g.drawn = true
	}
	g.surface.End()
}

// drawBatch draws CPU-evaluated particles as squares into the surface,
// skipping particles that drifted off the stage.
func (g *Game) drawBatch() {
	b, scale := g.batch, g.vp.Scale()
	rl.BeginBlendMode(rl.BlendAlphaPremultiply)
	for i := 0; i < g.set.Len(); i++ {
		out := b.Output(i)
		if !g.vp.IsVisible(out.Position.X, out.Position.Y, out.Size/2) {
			continue
		}
		x, y := g.vp.LayoutToBacking(out.Position.X, out.Position.Y)
		size := out.Size * scale
		c := rl.Color{
			R: uint8(out.Color[0] * 255),
			G: uint8(out.Color[1] * 255),
			B: uint8(out.Color[2] * 255),
			A: uint8(out.Color[3] * 255),
		}
		rl.DrawRectangleV(rl.Vector2{X: x - size/2, Y: y - size/2}, rl.Vector2{X: size, Y: size}, c)
	}
	rl.EndBlendMode()
}

// Draw composites the particle surface over the page and draws the UI.
func (g *Game) Draw() {
	bg := g.cfg.Derived.Background
	stage := g.vp.Size()

	rl.BeginDrawing()
	rl.ClearBackground(rl.Color{R: bg[0], G: bg[1], B: bg[2], A: bg[3]})

	g.drawPage()

	g.perfCollector.StartPhase(telemetry.PhaseComposite)
	if g.drawn {
		g.surface.Composite(rl.Rectangle{Width: stage.Width, Height: stage.Height}, g.frameOut.Opacity)
	}

	if g.showPanel {
		g.drawUI()
	}
	rl.EndDrawing()

	g.perfCollector.EndFrame()
	g.endFrame(g.clock())
}

// drawPage draws the host page: chip labels, the button and, when enabled,
// the measured layout boxes.
func (g *Game) drawPage() {
	ink := rl.Color{R: 38, G: 44, B: 58, A: 255}
	faint := rl.Color{R: 38, G: 44, B: 58, A: 60}

	chips := g.chipFilter.Query()
	for chips.Next() {
		chip, b := chips.Get()
		if !b.Measured {
			continue
		}
		r := b.Rect
		fontSize := int32(r.Height * 0.28)
		tw := rl.MeasureText(chip.Text, fontSize)
		rl.DrawText(chip.Text, int32(r.X+r.Width/2)-tw/2, int32(r.Y+r.Height+8), fontSize, faint)
		if g.showLayout {
			rl.DrawRectangleLinesEx(rect(r), 1, faint)
		}
	}

	buttons := g.buttonFilter.Query()
	for buttons.Next() {
		btn, b := buttons.Get()
		if !b.Measured {
			continue
		}
		// The label fades in as the particles settle on the button
		settle := float32(0)
		if g.schedule != nil {
			settle = g.schedule.Weights(g.scroll.Progress(), -1).Destination
		}
		r := b.Rect
		fontSize := int32(r.Height * 0.3)
		tw := rl.MeasureText(btn.Label, fontSize)
		label := ink
		label.A = uint8(255 * settle)
		rl.DrawText(btn.Label, int32(r.X+r.Width/2)-tw/2, int32(r.Y+r.Height/2)-fontSize/2, fontSize, label)
		if g.showLayout {
			roundness := min(btn.Radius*2/min(r.Width, r.Height), 1)
			rl.DrawRectangleRoundedLinesEx(rect(r), roundness, 16, 1, faint)
		}
	}

	if g.showLayout {
		a := g.anchor()
		rl.DrawCircleV(rl.Vector2{X: a.X, Y: a.Y}, 4, faint)
	}
}

// drawUI draws the HUD and the control panel and applies panel actions.
func (g *Game) drawUI() {
	data := ui.HUDData{
		Progress:   g.scroll.Progress(),
		Target:     float32(g.scroll.Target()),
		Opacity:    g.frameOut.Opacity,
		IdleFade:   g.frameOut.IdleFade,
		Visibility: g.frameOut.Visibility,
		Version:    g.tracker.Version(),
		Built:      g.built,
		FPS:        rl.GetFPS(),
		GPU:        g.engine != nil,
		Paused:     g.paused,
		Autoplay:   g.autoplay,
		Window:     -1,
	}
	if g.set != nil {
		data.Particles = g.set.Len()
		data.Groups = g.set.Groups()
	}
	if g.schedule != nil {
		data.Window = g.schedule.ActiveWindow(data.Progress)
	}
	if g.engine != nil {
		data.GPUBytes = g.engine.GPUBytes()
	}

	g.hud.Draw(data, int32(g.vp.Width))

	act := g.controls.Draw(ui.ControlsState{
		Progress:   float32(g.scroll.Target()),
		Autoplay:   g.autoplay,
		ShowLayout: g.showLayout,
	})
	if act.Scrubbed {
		g.scroll.SetTarget(float64(act.Progress))
	}
	if act.ToggleAutoplay {
		g.autoplay = !g.autoplay
	}
	if act.ToggleLayout {
		g.showLayout = !g.showLayout
	}
	if act.Reset {
		g.scroll.Jump(0)
	}
}

func rect(r geometry.Rect) rl.Rectangle {
	return rl.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}
