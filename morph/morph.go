// Package morph holds the per-particle position function shared by the GPU
// vertex shader and the CPU fallback. Evaluate is the reference: the shader in
// package renderer mirrors it line for line.
package morph

import (
	"errors"
	"fmt"
	"math"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/targets"
	"github.com/pthm-cable/dissolve/timeline"
)

// MaxGroups is the largest group count the uniform arrays can carry.
const MaxGroups = config.MaxGroups

// ErrTooManyGroups is returned when a set has more groups than MaxGroups.
var ErrTooManyGroups = errors.New("morph: too many groups")

// Params are the static appearance parameters.
type Params struct {
	PointSize       float32
	SettledSize     float32
	AlphaFloor      float32
	ProximityRadius float32
	AuraScale       float32
	AuraShrink      float32
}

// ParamsFromConfig reads appearance parameters from the render config.
func ParamsFromConfig(cfg *config.Config) Params {
	r := cfg.Render
	return Params{
		PointSize:       float32(r.PointSize),
		SettledSize:     float32(r.SettledSize),
		AlphaFloor:      float32(r.AlphaFloor),
		ProximityRadius: float32(r.ProximityRadius),
		AuraScale:       float32(r.AuraScale),
		AuraShrink:      float32(r.AuraShrink),
	}
}

// Attributes are the per-particle inputs of one geometry build.
type Attributes struct {
	Start       geometry.Point
	Cluster     geometry.Point
	Destination geometry.Point
	Ambient     geometry.Point
	Seed        float32
	Group       int
	Color       [4]uint8
}

// AttributesOf reads particle i of set.
func AttributesOf(set *targets.Set, i int) Attributes {
	p := set.At(i)
	return Attributes{
		Start:       p.Start,
		Cluster:     p.Cluster,
		Destination: p.Destination,
		Ambient:     p.Ambient,
		Seed:        p.Seed,
		Group:       p.Group,
		Color:       p.Color,
	}
}

// Uniforms are the per-frame values shared by every particle.
type Uniforms struct {
	Progress float32
	Time     float32 // Wall-clock seconds
	Viewport geometry.Size

	// Reference point movement since the set was built. Shifts the ambient field.
	AmbientOffset geometry.Point

	Groups     int
	GroupStart [MaxGroups]float32 // Late factor already applied
	GroupEnd   [MaxGroups]float32

	BurstCenters [MaxGroups]geometry.Point
	BurstRadii   [MaxGroups]float32

	Burst       timeline.Range
	Scatter     timeline.Range
	Destination timeline.Range

	PreMix         float32
	DriftAmplitude float32
	DriftSpeed     float32

	Params Params
}

// NewUniforms flattens a schedule and the burst metadata of set into uniforms.
// Progress, Time and Viewport are left for the caller to set each frame.
func NewUniforms(s *timeline.Schedule, set *targets.Set, p Params) (Uniforms, error) {
	if s.Groups() > MaxGroups {
		return Uniforms{}, fmt.Errorf("%w: %d > %d", ErrTooManyGroups, s.Groups(), MaxGroups)
	}
	if set != nil && set.Groups() != s.Groups() {
		return Uniforms{}, fmt.Errorf("morph: set has %d groups, schedule has %d", set.Groups(), s.Groups())
	}

	cfg := s.Config()
	u := Uniforms{
		Groups:         s.Groups(),
		Burst:          cfg.Burst,
		Scatter:        cfg.Scatter,
		Destination:    cfg.Destination,
		PreMix:         cfg.PreMix,
		DriftAmplitude: cfg.DriftAmplitude,
		DriftSpeed:     cfg.DriftSpeed,
		Params:         p,
	}
	starts, ends := s.GroupBounds()
	copy(u.GroupStart[:], starts)
	copy(u.GroupEnd[:], ends)
	if set != nil {
		copy(u.BurstCenters[:], set.Centers)
		copy(u.BurstRadii[:], set.Radii)
	}
	return u, nil
}

// Weights computes the phase weights of group from the flattened uniforms.
// It agrees with timeline.Schedule.Weights.
func (u *Uniforms) Weights(group int) timeline.PhaseWeights {
	var w timeline.PhaseWeights
	w.Burst = timeline.Smoothstep(u.Burst.Start, u.Burst.End, u.Progress)
	if group >= 0 && group < u.Groups {
		w.Cluster = timeline.Smoothstep(u.GroupStart[group], u.GroupEnd[group], u.Progress)
	}
	w.Scatter = timeline.Smoothstep(u.Scatter.Start, u.Scatter.End, u.Progress)
	w.Destination = timeline.Smoothstep(u.Destination.Start, u.Destination.End, u.Progress)
	w.PreMix = u.PreMix * (1 - w.Cluster)
	w.Drift = timeline.DriftAmplitude(u.DriftAmplitude, w)
	return w
}

// Output is the evaluated state of one particle.
type Output struct {
	Position geometry.Point // Layout px
	NDC      geometry.Point
	Color    [4]float32 // Premultiplied RGBA
	Size     float32    // Point diameter in layout px
	Alpha    float32
}

// Evaluate computes one particle's position, size and color. Phases mix in a
// fixed order so each later phase overrides the earlier result by its weight:
// burst, cluster, scatter, destination.
func Evaluate(a Attributes, u *Uniforms) Output {
	w := u.Weights(a.Group)
	ambient := a.Ambient.Add(u.AmbientOffset)

	pre := mix(a.Cluster, ambient, w.PreMix)
	p := mix(a.Start, pre, w.Burst)
	p = mix(p, a.Cluster, w.Cluster)
	p = mix(p, ambient, w.Scatter)
	p = mix(p, a.Destination, w.Destination)
	p = p.Add(Drift(a.Seed, u.Time, u.DriftSpeed, w.Drift))

	alpha, size := appearance(p, a, w, u)
	out := Output{
		Position: p,
		NDC:      ToNDC(p, u.Viewport),
		Size:     size,
		Alpha:    alpha,
	}
	for c := 0; c < 3; c++ {
		out.Color[c] = float32(a.Color[c]) / 255 * alpha
	}
	out.Color[3] = alpha
	return out
}

// appearance derives alpha and point size from destination proximity and the
// burst aura around the particle's cluster centre.
func appearance(p geometry.Point, a Attributes, w timeline.PhaseWeights, u *Uniforms) (alpha, size float32) {
	prm := u.Params
	proximity := 1 - timeline.Smoothstep(0, prm.ProximityRadius, p.Sub(a.Destination).Len())
	alpha = lerp(prm.AlphaFloor, 1, proximity)
	size = lerp(prm.PointSize, prm.SettledSize, w.Destination)

	if a.Group >= 0 && a.Group < u.Groups {
		pulse := 4 * w.Scatter * (1 - w.Scatter)
		reach := u.BurstRadii[a.Group] * prm.AuraScale
		aura := pulse * (1 - timeline.Smoothstep(0, reach, p.Sub(u.BurstCenters[a.Group]).Len()))
		size *= 1 - prm.AuraShrink*aura
		alpha = lerp(alpha, 1, aura)
	}
	return alpha, size
}

// Drift returns the idle drift offset of a particle with the given seed.
func Drift(seed, t, speed, amplitude float32) geometry.Point {
	if amplitude == 0 {
		return geometry.Point{}
	}
	phase := float64(seed) * 2 * math.Pi
	tt := float64(t * speed)
	return geometry.Point{
		X: amplitude * float32(math.Sin(tt+phase)),
		Y: amplitude * float32(math.Cos(tt*0.87+2*phase)),
	}
}

// ToNDC maps a layout-px point to normalized device coordinates with Y up.
func ToNDC(p geometry.Point, viewport geometry.Size) geometry.Point {
	if viewport.Empty() {
		return geometry.Point{}
	}
	return geometry.Point{
		X: p.X/viewport.Width*2 - 1,
		Y: 1 - p.Y/viewport.Height*2,
	}
}

// mix matches GLSL mix: a*(1-t) + b*t, exact at both ends.
func mix(a, b geometry.Point, t float32) geometry.Point {
	return geometry.Point{X: lerp(a.X, b.X, t), Y: lerp(a.Y, b.Y, t)}
}

func lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}
