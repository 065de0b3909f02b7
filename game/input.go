package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and wheel input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.paused = !g.paused
	}
	if rl.IsKeyPressed(rl.KeyA) {
		g.autoplay = !g.autoplay
	}
	if rl.IsKeyPressed(rl.KeyL) {
		g.showLayout = !g.showLayout
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanel = !g.showPanel
	}

	// Scroll: wheel notches, arrows for fine steps, page keys for coarse ones
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		g.scroll.Nudge(-float64(wheel))
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.scroll.Nudge(0.25)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.scroll.Nudge(-0.25)
	}
	if rl.IsKeyPressed(rl.KeyPageDown) {
		g.scroll.Nudge(5)
	}
	if rl.IsKeyPressed(rl.KeyPageUp) {
		g.scroll.Nudge(-5)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		g.scroll.SetTarget(0)
	}
	if rl.IsKeyPressed(rl.KeyEnd) {
		g.scroll.SetTarget(1)
	}
}

// handleResize checks for window resize and propagates new dimensions.
// The loop picks the new stage up at the next frame boundary and the
// surface is reallocated before the next particle pass.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() && g.frame > 1 {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	dpr := rl.GetWindowScaleDPI().X
	g.vp.Resize(w, h, dpr)
}
