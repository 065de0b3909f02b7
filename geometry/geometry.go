// Package geometry provides the 2D shapes the morph engine samples and the
// jittered-grid samplers that fill them with points.
package geometry

import "math"

// Point is a position in layout pixels (top-left origin, y down).
type Point struct {
	X, Y float32
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p * s.
func (p Point) Scale(s float32) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Len returns the Euclidean length of p treated as a vector.
func (p Point) Len() float32 {
	return float32(math.Hypot(float64(p.X), float64(p.Y)))
}

// Lerp mixes a toward b by t.
func Lerp(a, b Point, t float32) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// Size is a width/height pair in layout pixels.
type Size struct {
	Width, Height float32
}

// Empty reports whether either dimension is non-positive.
func (s Size) Empty() bool { return s.Width <= 0 || s.Height <= 0 }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, Width, Height float32
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Contains reports whether p lies inside r (edges inclusive).
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// HalfDiagonal returns half the length of the diagonal.
func (r Rect) HalfDiagonal() float32 {
	return float32(math.Hypot(float64(r.Width), float64(r.Height))) / 2
}

// RoundedRect is a rect with uniformly rounded corners.
type RoundedRect struct {
	Rect
	Radius float32
}

// EffectiveRadius clamps the corner radius to half the shorter side.
func (r RoundedRect) EffectiveRadius() float32 {
	rad := r.Radius
	limit := min(r.Width, r.Height) / 2
	if rad > limit {
		rad = limit
	}
	if rad < 0 {
		rad = 0
	}
	return rad
}

// Contains reports whether p lies inside the rounded rect.
func (r RoundedRect) Contains(p Point) bool {
	if !r.Rect.Contains(p) {
		return false
	}
	rad := r.EffectiveRadius()
	if rad == 0 {
		return true
	}

	// Distance from the inner rect shrunk by the radius
	innerL, innerR := r.X+rad, r.X+r.Width-rad
	innerT, innerB := r.Y+rad, r.Y+r.Height-rad
	var dx, dy float32
	if p.X < innerL {
		dx = innerL - p.X
	} else if p.X > innerR {
		dx = p.X - innerR
	}
	if p.Y < innerT {
		dy = innerT - p.Y
	} else if p.Y > innerB {
		dy = p.Y - innerB
	}
	return dx*dx+dy*dy <= rad*rad
}

// EllipseContains reports whether p lies inside the ellipse inscribed in r,
// with its half extents scaled by scale.
func EllipseContains(r Rect, scale float32, p Point) bool {
	return ellipseRadius(r, scale, p) <= 1
}

// ellipseRadius returns the normalized elliptical radius of p (1 on the boundary).
func ellipseRadius(r Rect, scale float32, p Point) float32 {
	hw, hh := r.Width/2*scale, r.Height/2*scale
	if hw <= 0 || hh <= 0 {
		return float32(math.Inf(1))
	}
	c := r.Center()
	nx := (p.X - c.X) / hw
	ny := (p.Y - c.Y) / hh
	return float32(math.Sqrt(float64(nx*nx + ny*ny)))
}
