// Package ui draws the heads-up display and the control panel over the page.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants. Colours are picked to stay legible over
// the light page background and the particle field.
type Theme struct {
	Panel       rl.Color
	Outline     rl.Color
	Ink         rl.Color // Headers, values
	Muted       rl.Color // Labels
	Track       rl.Color
	Fill        rl.Color
	Marker      rl.Color // Scroll target on a bar
	Accent      rl.Color // Status pill
	Roundness   float32
	Padding     int32
	Row         int32
	LabelColumn int32
	TrackHeight int32
	TextSize    int32
	TitleSize   int32
}

// DefaultTheme returns the light theme.
func DefaultTheme() Theme {
	return Theme{
		Panel:       rl.Color{R: 255, G: 255, B: 255, A: 220},
		Outline:     rl.Color{R: 200, G: 204, B: 212, A: 255},
		Ink:         rl.Color{R: 38, G: 44, B: 58, A: 255},
		Muted:       rl.Color{R: 110, G: 116, B: 128, A: 255},
		Track:       rl.Color{R: 228, G: 230, B: 235, A: 255},
		Fill:        rl.Color{R: 90, G: 120, B: 200, A: 255},
		Marker:      rl.Color{R: 220, G: 110, B: 60, A: 255},
		Accent:      rl.Color{R: 236, G: 240, B: 250, A: 255},
		Roundness:   0.08,
		Padding:     10,
		Row:         16,
		LabelColumn: 80,
		TrackHeight: 8,
		TextSize:    12,
		TitleSize:   14,
	}
}
