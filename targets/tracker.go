package targets

import "github.com/pthm-cable/dissolve/geometry"

// DefaultTolerance is the per-coordinate change (px) below which geometry is
// considered unchanged. Sub-pixel layout noise must not trigger rebuilds.
const DefaultTolerance = 0.5

// Tracker assigns a monotonic version to upstream geometry. The version is
// bumped whenever the stage size, a cluster rect or the destination changes.
// The reference point is re-measured on rebuild and does not affect the version.
type Tracker struct {
	Tolerance float32

	last    Input
	seen    bool
	version uint64
}

// Observe records in and returns the current geometry version.
func (t *Tracker) Observe(in Input) uint64 {
	if t.seen && t.same(in) {
		return t.version
	}
	t.version++
	t.seen = true
	t.last = clone(in)
	return t.version
}

// Version returns the last version issued (0 before the first Observe).
func (t *Tracker) Version() uint64 { return t.version }

func (t *Tracker) same(in Input) bool {
	tol := t.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}
	near := func(a, b float32) bool { return a-b <= tol && b-a <= tol }
	rectNear := func(a, b geometry.Rect) bool {
		return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Width, b.Width) && near(a.Height, b.Height)
	}

	if !near(in.Stage.Width, t.last.Stage.Width) || !near(in.Stage.Height, t.last.Stage.Height) {
		return false
	}
	if len(in.Clusters) != len(t.last.Clusters) {
		return false
	}
	for i, c := range in.Clusters {
		prev := t.last.Clusters[i]
		if c.ID != prev.ID || !rectNear(c.Rect, prev.Rect) {
			return false
		}
	}
	switch {
	case in.Destination == nil && t.last.Destination == nil:
		return true
	case in.Destination == nil || t.last.Destination == nil:
		return false
	}
	return rectNear(in.Destination.Rect, t.last.Destination.Rect) &&
		near(in.Destination.Radius, t.last.Destination.Radius)
}

func clone(in Input) Input {
	out := in
	out.Clusters = append([]Cluster(nil), in.Clusters...)
	if in.Destination != nil {
		d := *in.Destination
		out.Destination = &d
	}
	return out
}
