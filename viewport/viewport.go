// Package viewport tracks the stage size in layout pixels and the backing
// surface size after the device pixel ratio cap.
package viewport

import "github.com/pthm-cable/dissolve/geometry"

// Viewport maps layout pixels onto the backing surface.
type Viewport struct {
	// Stage size in layout pixels
	Width, Height float32

	// Device pixel ratio reported by the window
	DPR float32

	// Upper bound applied to DPR for the backing surface
	MaxDPR float32
}

// New creates a viewport. A non-positive dpr is treated as 1.
func New(width, height, dpr, maxDPR float32) *Viewport {
	v := &Viewport{MaxDPR: maxDPR}
	v.Resize(width, height, dpr)
	return v
}

// Scale returns the effective backing scale, min(DPR, MaxDPR).
func (v *Viewport) Scale() float32 {
	s := v.DPR
	if v.MaxDPR > 0 && s > v.MaxDPR {
		s = v.MaxDPR
	}
	if s <= 0 {
		s = 1
	}
	return s
}

// Size returns the stage size in layout pixels.
func (v *Viewport) Size() geometry.Size {
	return geometry.Size{Width: v.Width, Height: v.Height}
}

// BackingSize returns the render surface size in device pixels, at least 1x1.
func (v *Viewport) BackingSize() (w, h int32) {
	s := v.Scale()
	w = int32(v.Width*s + 0.5)
	h = int32(v.Height*s + 0.5)
	return max(w, 1), max(h, 1)
}

// Resize updates the stage and reports whether anything changed.
func (v *Viewport) Resize(width, height, dpr float32) bool {
	if dpr <= 0 {
		dpr = 1
	}
	if width == v.Width && height == v.Height && dpr == v.DPR {
		return false
	}
	v.Width = width
	v.Height = height
	v.DPR = dpr
	return true
}

// LayoutToBacking converts layout coordinates to backing-surface pixels.
func (v *Viewport) LayoutToBacking(x, y float32) (bx, by float32) {
	s := v.Scale()
	return x * s, y * s
}

// IsVisible reports whether a point of the given radius at layout (x, y)
// overlaps the stage.
func (v *Viewport) IsVisible(x, y, radius float32) bool {
	return x >= -radius && x <= v.Width+radius && y >= -radius && y <= v.Height+radius
}
