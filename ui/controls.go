package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ControlsState is the host state the panel reflects.
type ControlsState struct {
	Progress   float32 // Scroll target
	Autoplay   bool
	ShowLayout bool
}

// ControlsAction reports what the user changed this frame.
type ControlsAction struct {
	Scrubbed       bool
	Progress       float32
	ToggleAutoplay bool
	ToggleLayout   bool
	Reset          bool
}

// ControlsPanel renders the top-left control panel with raygui widgets.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the panel and returns the user's actions.
func (c *ControlsPanel) Draw(s ControlsState) ControlsAction {
	r := c.renderer
	pad := r.Theme.Padding
	height := int32(140)

	r.DrawPanel(c.x, c.y, c.width, height)
	x := float32(c.x + pad)
	y := c.y + pad
	inner := float32(c.width - pad*2)

	y = r.DrawSectionHeader(int32(x), y, int32(inner), "Controls")

	var act ControlsAction

	// Progress scrub
	rl.DrawText(fmt.Sprintf("Progress %.3f", s.Progress), int32(x), y, r.Theme.TextSize, r.Theme.Muted)
	y += r.Theme.Row
	p := gui.SliderBar(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 16}, "", "", s.Progress, 0, 1)
	if p != s.Progress {
		act.Scrubbed = true
		act.Progress = p
	}
	y += 26

	half := (inner - float32(pad)) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: half, Height: 24}, toggleText(s.Autoplay, "Stop", "Autoplay")) {
		act.ToggleAutoplay = true
	}
	if gui.Button(rl.Rectangle{X: x + half + float32(pad), Y: float32(y), Width: half, Height: 24}, "Reset") {
		act.Reset = true
	}
	y += 32

	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: inner, Height: 24}, toggleText(s.ShowLayout, "Hide layout", "Show layout")) {
		act.ToggleLayout = true
	}

	return act
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
