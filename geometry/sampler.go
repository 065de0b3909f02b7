package geometry

import "math/rand"

// EllipseOptions controls cluster interior sampling.
type EllipseOptions struct {
	Spacing float32
	Jitter  float32
	Scale   float32 // Fraction of the half extents used by the interior test
	Pull    float32 // Roundness pull in [0,1]; 0 disables
}

// grid returns the regular grid points over r at the given spacing, centred in r.
// Each axis clamps the spacing to its own extent, so any positive-area rect
// yields at least one point and a thin shape keeps the spacing along its
// long side.
func grid(r Rect, spacing float32) []Point {
	if r.Empty() {
		return nil
	}
	if spacing <= 0 {
		spacing = max(r.Width, r.Height)
	}
	sx := min(spacing, r.Width)
	sy := min(spacing, r.Height)

	cols := max(int(r.Width/sx), 1)
	rows := max(int(r.Height/sy), 1)
	x0 := r.X + (r.Width-float32(cols-1)*sx)/2
	y0 := r.Y + (r.Height-float32(rows-1)*sy)/2

	pts := make([]Point, 0, cols*rows)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			pts = append(pts, Point{X: x0 + float32(i)*sx, Y: y0 + float32(j)*sy})
		}
	}
	return pts
}

// jitter offsets p by a uniform amount in [-amount, amount] per axis.
func jitter(rng *rand.Rand, p Point, amount float32) Point {
	if amount <= 0 {
		return p
	}
	return Point{
		X: p.X + (rng.Float32()*2-1)*amount,
		Y: p.Y + (rng.Float32()*2-1)*amount,
	}
}

// Shuffle permutes pts in place (Fisher-Yates) so any prefix is an unbiased subset.
func Shuffle(rng *rand.Rand, pts []Point) {
	rng.Shuffle(len(pts), func(i, j int) {
		pts[i], pts[j] = pts[j], pts[i]
	})
}

// SampleRoundedRect fills shape with jittered grid points. Jittered points that
// leave the shape fall back to their grid position. The result is shuffled.
// A degenerate shape yields an empty slice.
func SampleRoundedRect(rng *rand.Rand, shape RoundedRect, spacing, jitterAmount float32) []Point {
	candidates := grid(shape.Rect, spacing)
	pts := candidates[:0]
	for _, p := range candidates {
		if !shape.Contains(p) {
			continue
		}
		if j := jitter(rng, p, jitterAmount); shape.Contains(j) {
			p = j
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 && !shape.Empty() {
		pts = append(pts, shape.Center())
	}
	Shuffle(rng, pts)
	return pts
}

// SampleEllipse fills the ellipse inscribed in r (scaled by opts.Scale) with
// jittered grid points, optionally pulling near-edge points toward the centre.
func SampleEllipse(rng *rand.Rand, r Rect, opts EllipseOptions) []Point {
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	c := r.Center()

	candidates := grid(r, opts.Spacing)
	pts := candidates[:0]
	for _, p := range candidates {
		rn := ellipseRadius(r, scale, p)
		if rn > 1 {
			continue
		}
		if opts.Pull > 0 {
			t := smoothstep(0.6, 1, rn)
			p = c.Add(p.Sub(c).Scale(1 - opts.Pull*0.35*t))
		}
		if j := jitter(rng, p, opts.Jitter); EllipseContains(r, scale, j) {
			p = j
		}
		pts = append(pts, p)
	}
	if len(pts) == 0 && !r.Empty() {
		pts = append(pts, c)
	}
	Shuffle(rng, pts)
	return pts
}

func smoothstep(e0, e1, x float32) float32 {
	t := (x - e0) / (e1 - e0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
