package ui

import "fmt"

// HUDData holds all the data needed to render the HUD.
type HUDData struct {
	Progress   float32
	Target     float32
	Opacity    float32
	IdleFade   float32
	Visibility float32

	Version   uint64 // Latest geometry version
	Built     uint64 // Version of the uploaded set
	Particles int
	Groups    int
	Window    int // Active coalescence window, -1 when none
	GPUBytes  int

	FPS      int32
	GPU      bool
	Paused   bool
	Autoplay bool
}

// HUD renders the top-right status panel.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), width: 240}
}

// Draw renders the HUD against the right edge of a screen screenWidth wide.
func (h *HUD) Draw(data HUDData, screenWidth int32) {
	r := h.renderer
	t := r.Theme
	x := screenWidth - h.width - t.Padding
	y := t.Padding

	r.DrawPanel(x, y, h.width, t.Row*12+t.Padding*2)
	x += t.Padding
	y += t.Padding
	inner := h.width - t.Padding*2

	y = r.DrawSectionHeader(x, y, inner, "Morph")
	y = r.DrawBar(x, y, inner, "Progress", data.Progress, data.Target)
	y = r.DrawBar(x, y, inner, "Opacity", data.Opacity, -1)
	y = r.DrawBar(x, y, inner, "Idle", data.IdleFade, -1)
	y = r.DrawBar(x, y, inner, "Visible", data.Visibility, -1)

	window := "-"
	if data.Window >= 0 {
		window = fmt.Sprintf("%d", data.Window)
	}
	y = r.DrawLabelValue(x, y, inner, "Window", window)

	geometry := fmt.Sprintf("v%d", data.Built)
	if data.Version != data.Built {
		geometry += fmt.Sprintf(" (pending v%d)", data.Version)
	}
	y = r.DrawLabelValue(x, y, inner, "Geometry", geometry)
	y = r.DrawLabelValue(x, y, inner, "Particles", fmt.Sprintf("%d in %d groups", data.Particles, data.Groups))

	path := "CPU"
	if data.GPU {
		path = fmt.Sprintf("GPU %.1f MB", float64(data.GPUBytes)/(1<<20))
	}
	y = r.DrawLabelValue(x, y, inner, "Path", path)
	y = r.DrawLabelValue(x, y, inner, "FPS", fmt.Sprintf("%d", data.FPS))

	status := "Scroll"
	switch {
	case data.Paused:
		status = "Paused"
	case data.Autoplay:
		status = "Autoplay"
	}
	r.DrawPill(x, y+2, status)
}
