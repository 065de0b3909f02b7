// Package components defines ECS components for the host page layout.
package components

import "github.com/pthm-cable/dissolve/geometry"

// Chip is a label chip whose interior becomes one particle cluster.
type Chip struct {
	Index int    // Cluster order, left to right
	Text  string // Label, also the cluster ID
}

// Button marks the rounded call-to-action the particles settle into.
type Button struct {
	Radius float32 // Corner radius (layout px)
	Label  string
}

// Bounds is the measured layout box of a chip or the button.
// A box is unmeasured until its layout has held for the settle delay.
type Bounds struct {
	Rect     geometry.Rect
	Measured bool
	Age      int // Frames since the last layout change
}

// Anchor is the reference point the ambient field is centred on.
type Anchor struct {
	Point    geometry.Point
	Parallax float32 // Upward shift per unit of progress, as a fraction of stage height
}
