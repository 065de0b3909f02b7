// Package targets builds the per-particle target arrays (start, cluster,
// destination, ambient, color, group) from measured label and button geometry.
package targets

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
)

// ErrNotReady is returned while upstream geometry is missing or unsettled.
// It is a normal transient state: callers keep the previous set (or draw nothing).
var ErrNotReady = errors.New("targets: geometry not ready")

// ErrTooManyClusters is returned when the input names more clusters than the
// renderer has group slots for.
var ErrTooManyClusters = errors.New("targets: too many clusters")

// AmbientMode selects how the ambient field is scattered.
type AmbientMode uint8

const (
	AmbientDisk AmbientMode = iota // Uniform disk centred on the reference point
	AmbientRect                    // Uniform over the whole stage
)

// Cluster is one measured label region.
type Cluster struct {
	ID   string
	Rect geometry.Rect
}

// Input is the upstream geometry for one build.
type Input struct {
	Stage       geometry.Size
	Clusters    []Cluster
	Destination *geometry.RoundedRect
	Reference   geometry.Point
}

// Range is a half-open particle index range [Start, End).
type Range struct {
	Start, End int
}

// Len returns the number of particles in the range.
func (r Range) Len() int { return r.End - r.Start }

// Set holds the parallel per-particle arrays for one geometry build.
// Position arrays are interleaved x,y pairs; Colors are RGBA bytes.
type Set struct {
	Version uint64

	Start       []float32
	Cluster     []float32
	Destination []float32
	Ambient     []float32
	Colors      []uint8
	Seeds       []float32
	Group       []uint16

	// Ranges[g] is the contiguous particle range of group g.
	Ranges []Range

	// Per-cluster burst metadata
	Centers []geometry.Point
	Radii   []float32

	Stage              geometry.Size
	Reference          geometry.Point
	DestinationSamples int
}

// Len returns the pool size.
func (s *Set) Len() int { return len(s.Seeds) }

// Groups returns the number of groups.
func (s *Set) Groups() int { return len(s.Ranges) }

// Particle is a single record view into a Set.
type Particle struct {
	Start, Cluster, Destination, Ambient geometry.Point
	Color                                [4]uint8
	Seed                                 float32
	Group                                int
}

// At returns particle i.
func (s *Set) At(i int) Particle {
	pt := func(a []float32) geometry.Point { return geometry.Point{X: a[2*i], Y: a[2*i+1]} }
	return Particle{
		Start:       pt(s.Start),
		Cluster:     pt(s.Cluster),
		Destination: pt(s.Destination),
		Ambient:     pt(s.Ambient),
		Color:       [4]uint8{s.Colors[4*i], s.Colors[4*i+1], s.Colors[4*i+2], s.Colors[4*i+3]},
		Seed:        s.Seeds[i],
		Group:       int(s.Group[i]),
	}
}

// Options configures a Builder.
type Options struct {
	PoolSize      int
	Spacing       float32
	Jitter        float32
	StartSpacing  float32
	StartJitter   float32
	InteriorScale float32
	RoundnessPull float32
	AllowPartial  bool

	LightRatio  float32
	Light, Dark [4]uint8
	ColorJitter float32

	Ambient     AmbientMode
	AmbientDisk float32 // Disk radius as a fraction of the stage diagonal
}

// OptionsFromConfig maps the loaded configuration onto builder options.
func OptionsFromConfig(cfg *config.Config) Options {
	mode := AmbientDisk
	if cfg.Particles.Ambient == "rect" {
		mode = AmbientRect
	}
	return Options{
		PoolSize:      cfg.Particles.PoolSize,
		Spacing:       float32(cfg.Sampling.Spacing),
		Jitter:        float32(cfg.Sampling.Jitter),
		StartSpacing:  float32(cfg.Sampling.StartSpacing),
		StartJitter:   float32(cfg.Sampling.StartJitter),
		InteriorScale: float32(cfg.Sampling.InteriorScale),
		RoundnessPull: float32(cfg.Sampling.RoundnessPull),
		AllowPartial:  cfg.Sampling.AllowPartial,
		LightRatio:    float32(cfg.Particles.LightRatio),
		Light:         cfg.Derived.LightRGBA,
		Dark:          cfg.Derived.DarkRGBA,
		ColorJitter:   float32(cfg.Particles.ColorJitter),
		Ambient:       mode,
		AmbientDisk:   float32(cfg.Particles.AmbientDisk),
	}
}

// Builder turns measured geometry into target sets.
type Builder struct {
	opts Options
	rng  *rand.Rand
}

// NewBuilder creates a builder. rng supplies all jitter and scatter randomness.
func NewBuilder(opts Options, rng *rand.Rand) *Builder {
	return &Builder{opts: opts, rng: rng}
}

// clusterSamples holds the sampled point sets for one cluster.
type clusterSamples struct {
	targets []geometry.Point
	starts  []geometry.Point
}

// Build samples every shape and assigns the full pool. It returns ErrNotReady
// (wrapped with the reason) when the geometry cannot produce a complete set.
func (b *Builder) Build(in Input, version uint64) (*Set, error) {
	pool := b.opts.PoolSize
	if pool <= 0 {
		return nil, fmt.Errorf("%w: empty pool", ErrNotReady)
	}
	if len(in.Clusters) == 0 {
		return nil, fmt.Errorf("%w: no clusters", ErrNotReady)
	}
	if in.Destination == nil || in.Destination.Empty() {
		return nil, fmt.Errorf("%w: no destination", ErrNotReady)
	}
	if len(in.Clusters) > config.MaxGroups {
		return nil, fmt.Errorf("%w: %d clusters, at most %d", ErrTooManyClusters, len(in.Clusters), config.MaxGroups)
	}

	samples, err := b.sampleClusters(in.Clusters)
	if err != nil {
		return nil, err
	}

	dest := geometry.SampleRoundedRect(b.rng, *in.Destination, b.opts.Spacing, b.opts.Jitter)
	if len(dest) == 0 {
		return nil, fmt.Errorf("%w: destination produced no samples", ErrNotReady)
	}

	set := &Set{
		Version:            version,
		Start:              make([]float32, 2*pool),
		Cluster:            make([]float32, 2*pool),
		Destination:        make([]float32, 2*pool),
		Ambient:            make([]float32, 2*pool),
		Colors:             make([]uint8, 4*pool),
		Seeds:              make([]float32, pool),
		Group:              make([]uint16, pool),
		Ranges:             Partition(pool, len(in.Clusters)),
		Centers:            make([]geometry.Point, len(in.Clusters)),
		Radii:              make([]float32, len(in.Clusters)),
		Stage:              in.Stage,
		Reference:          in.Reference,
		DestinationSamples: len(dest),
	}

	for c, cl := range in.Clusters {
		set.Centers[c] = cl.Rect.Center()
		set.Radii[c] = cl.Rect.HalfDiagonal()

		rng := set.Ranges[c]
		s := samples[c]
		for i := rng.Start; i < rng.End; i++ {
			k := i - rng.Start
			put(set.Cluster, i, s.targets[k%len(s.targets)])
			put(set.Start, i, s.starts[k%len(s.starts)])
			set.Group[i] = uint16(c)
		}
	}

	for i := 0; i < pool; i++ {
		put(set.Destination, i, dest[i%len(dest)])
		put(set.Ambient, i, b.ambientPoint(in))
		b.color(set.Colors[4*i : 4*i+4])
		set.Seeds[i] = b.rng.Float32()
	}

	return set, nil
}

// sampleClusters samples target and start points for every cluster. Unmeasured
// clusters either stall the build or borrow from their nearest sampled neighbour.
func (b *Builder) sampleClusters(clusters []Cluster) ([]clusterSamples, error) {
	out := make([]clusterSamples, len(clusters))
	sampled := 0
	for i, cl := range clusters {
		if cl.Rect.Empty() {
			if !b.opts.AllowPartial {
				return nil, fmt.Errorf("%w: cluster %q not measured", ErrNotReady, cl.ID)
			}
			continue
		}
		out[i].targets = geometry.SampleEllipse(b.rng, cl.Rect, geometry.EllipseOptions{
			Spacing: b.opts.Spacing,
			Jitter:  b.opts.Jitter,
			Scale:   b.opts.InteriorScale,
			Pull:    b.opts.RoundnessPull,
		})
		out[i].starts = geometry.SampleEllipse(b.rng, cl.Rect, geometry.EllipseOptions{
			Spacing: b.opts.StartSpacing,
			Jitter:  b.opts.StartJitter,
			Scale:   1,
		})
		if len(out[i].targets) > 0 && len(out[i].starts) > 0 {
			sampled++
		} else {
			out[i] = clusterSamples{}
		}
	}
	if sampled == 0 {
		return nil, fmt.Errorf("%w: no cluster produced samples", ErrNotReady)
	}

	for i := range out {
		if len(out[i].targets) > 0 {
			continue
		}
		out[i] = out[nearestSampled(out, i)]
	}
	return out, nil
}

// nearestSampled finds the closest cluster index (by list position) that has samples.
func nearestSampled(samples []clusterSamples, i int) int {
	for d := 1; d < len(samples); d++ {
		if j := i - d; j >= 0 && len(samples[j].targets) > 0 {
			return j
		}
		if j := i + d; j < len(samples) && len(samples[j].targets) > 0 {
			return j
		}
	}
	return i
}

// Partition splits pool particles into groups contiguous ranges: floor(pool/groups)
// each, with the remainder assigned to the last group.
func Partition(pool, groups int) []Range {
	if groups <= 0 {
		return nil
	}
	per := pool / groups
	ranges := make([]Range, groups)
	for g := range ranges {
		ranges[g] = Range{Start: g * per, End: (g + 1) * per}
	}
	ranges[groups-1].End = pool
	return ranges
}

// ambientPoint draws one point of the diffuse field.
func (b *Builder) ambientPoint(in Input) geometry.Point {
	if b.opts.Ambient == AmbientRect || in.Stage.Empty() {
		return geometry.Point{
			X: b.rng.Float32() * in.Stage.Width,
			Y: b.rng.Float32() * in.Stage.Height,
		}
	}
	diag := float32(math.Hypot(float64(in.Stage.Width), float64(in.Stage.Height)))
	radius := diag * b.opts.AmbientDisk
	r := radius * float32(math.Sqrt(float64(b.rng.Float32())))
	theta := b.rng.Float64() * 2 * math.Pi
	return geometry.Point{
		X: in.Reference.X + r*float32(math.Cos(theta)),
		Y: in.Reference.Y + r*float32(math.Sin(theta)),
	}
}

// color writes a two-tone weighted color with slight brightness jitter.
func (b *Builder) color(dst []uint8) {
	base := b.opts.Dark
	if b.rng.Float32() < b.opts.LightRatio {
		base = b.opts.Light
	}
	k := 1 + (b.rng.Float32()*2-1)*b.opts.ColorJitter
	for c := 0; c < 3; c++ {
		v := float32(base[c]) * k
		if v > 255 {
			v = 255
		}
		if v < 0 {
			v = 0
		}
		dst[c] = uint8(v)
	}
	dst[3] = 255
}

func put(a []float32, i int, p geometry.Point) {
	a[2*i] = p.X
	a[2*i+1] = p.Y
}
