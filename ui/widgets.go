package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws the shared widgets of the HUD and the control panel.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a rounded card.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rec := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(width), Height: float32(height)}
	rl.DrawRectangleRounded(rec, r.Theme.Roundness, 6, r.Theme.Panel)
	rl.DrawRectangleRoundedLinesEx(rec, r.Theme.Roundness, 6, 1, r.Theme.Outline)
}

// DrawSectionHeader draws an underlined title and returns the next row's Y.
func (r *Renderer) DrawSectionHeader(x, y, width int32, title string) int32 {
	t := r.Theme
	rl.DrawText(title, x, y, t.TitleSize, t.Ink)
	rl.DrawLine(x, y+t.TitleSize+2, x+width, y+t.TitleSize+2, t.Track)
	return y + t.Row + 4
}

// DrawLabelValue draws a label with its value right-aligned to width.
func (r *Renderer) DrawLabelValue(x, y, width int32, label, value string) int32 {
	t := r.Theme
	rl.DrawText(label, x, y, t.TextSize, t.Muted)
	vw := rl.MeasureText(value, t.TextSize)
	rl.DrawText(value, x+width-vw, y, t.TextSize, t.Ink)
	return y + t.Row
}

// DrawBar draws a [0, 1] bar. A marker in [0, 1] adds a tick, used for the
// scroll target ahead of the smoothed progress; pass a negative marker for none.
func (r *Renderer) DrawBar(x, y, width int32, label string, value, marker float32) int32 {
	t := r.Theme
	value = min(max(value, 0), 1)

	trackX := x + t.LabelColumn
	trackW := width - t.LabelColumn - 36
	trackY := y + (t.TextSize-t.TrackHeight)/2

	rl.DrawText(label, x, y, t.TextSize, t.Muted)
	rl.DrawRectangle(trackX, trackY, trackW, t.TrackHeight, t.Track)
	rl.DrawRectangle(trackX, trackY, int32(float32(trackW)*value), t.TrackHeight, t.Fill)
	if marker >= 0 {
		mx := trackX + int32(float32(trackW)*min(marker, 1))
		rl.DrawRectangle(mx-1, trackY-2, 2, t.TrackHeight+4, t.Marker)
	}
	rl.DrawText(fmt.Sprintf("%.2f", value), trackX+trackW+6, y, t.TextSize, t.Ink)

	return y + t.Row + 2
}

// DrawPill draws a short status tag and returns its width.
func (r *Renderer) DrawPill(x, y int32, text string) int32 {
	t := r.Theme
	w := rl.MeasureText(text, t.TextSize) + 12
	rec := rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(w), Height: float32(t.Row)}
	rl.DrawRectangleRounded(rec, 1, 6, t.Accent)
	rl.DrawText(text, x+6, y+(t.Row-t.TextSize)/2, t.TextSize, t.Ink)
	return w
}
