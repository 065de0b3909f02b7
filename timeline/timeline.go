// Package timeline maps the scroll progress scalar onto per-group phase weights.
// A Schedule holds only static window configuration; Weights is a pure function.
package timeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/pthm-cable/dissolve/config"
)

// ErrInvalidWindow is wrapped by every window validation failure.
var ErrInvalidWindow = errors.New("timeline: invalid window")

// NoWindow is the bound reported for groups without a coalescence window.
// It lies beyond any reachable progress so the group never coalesces.
const NoWindow = 2

// Range is a progress sub-range [Start, End].
type Range struct {
	Start, End float32
}

// Window assigns a cluster-coalescence progress range to a set of groups.
type Window struct {
	Groups     []int
	Start, End float32
}

// Contains reports whether progress lies inside the half-open window [Start, End).
func (w Window) Contains(progress float32) bool {
	return progress >= w.Start && progress < w.End
}

// Config is the static timeline configuration.
type Config struct {
	Windows     []Window // Empty = EvenWindows over [0, ClusterSpan)
	ClusterSpan float32
	LateFactor  float32

	Burst       Range
	Scatter     Range
	Destination Range

	PreMix         float32 // Ambient bias of a group before its window opens
	DriftAmplitude float32 // px
	DriftSpeed     float32 // rad/s
}

// FromConfig converts the loaded configuration into a timeline Config.
func FromConfig(cfg *config.Config) Config {
	tc := cfg.Timeline
	c := Config{
		ClusterSpan:    float32(tc.ClusterSpan),
		LateFactor:     float32(tc.LateFactor),
		Burst:          Range{float32(tc.BurstStart), float32(tc.BurstEnd)},
		Scatter:        Range{float32(tc.ScatterStart), float32(tc.ScatterEnd)},
		Destination:    Range{float32(tc.DestStart), float32(tc.DestEnd)},
		PreMix:         float32(tc.PreMix),
		DriftAmplitude: float32(tc.DriftAmplitude),
		DriftSpeed:     float32(tc.DriftSpeed),
	}
	for _, w := range tc.Windows {
		c.Windows = append(c.Windows, Window{
			Groups: append([]int(nil), w.Groups...),
			Start:  float32(w.Start),
			End:    float32(w.End),
		})
	}
	return c
}

// PhaseWeights are the eased blend weights for one group at one progress value.
type PhaseWeights struct {
	Burst       float32 // Release from the start position
	Cluster     float32 // Coalescence into the cluster shape
	Scatter     float32 // Explosion toward the ambient field
	Destination float32 // Coalescence into the destination shape
	PreMix      float32 // Ambient share of the pre-window target
	Drift       float32 // Idle drift amplitude (px)
}

// Dominance returns the weight of whichever late phase leads.
func (w PhaseWeights) Dominance() float32 {
	return max(w.Scatter, w.Destination)
}

// Schedule is a validated timeline for a fixed group count.
type Schedule struct {
	cfg         Config
	groups      int
	groupWindow []int // index into cfg.Windows, -1 when unassigned
}

// EvenWindows partitions [0, span) into one contiguous window per group.
func EvenWindows(groups int, span float32) []Window {
	if groups <= 0 {
		return nil
	}
	step := span / float32(groups)
	windows := make([]Window, groups)
	for g := range windows {
		windows[g] = Window{
			Groups: []int{g},
			Start:  float32(g) * step,
			End:    float32(g+1) * step,
		}
	}
	windows[groups-1].End = span
	return windows
}

// NewSchedule validates cfg for groups groups. An empty window list is replaced
// by an even partition of [0, ClusterSpan).
func NewSchedule(cfg Config, groups int) (*Schedule, error) {
	if groups <= 0 {
		return nil, fmt.Errorf("%w: group count must be positive, got %d", ErrInvalidWindow, groups)
	}
	if cfg.LateFactor < 0 || cfg.LateFactor >= 1 {
		return nil, fmt.Errorf("%w: late factor %g outside [0,1)", ErrInvalidWindow, cfg.LateFactor)
	}
	for name, r := range map[string]Range{"burst": cfg.Burst, "scatter": cfg.Scatter, "destination": cfg.Destination} {
		if r.Start < 0 || r.End > 1 || r.Start >= r.End {
			return nil, fmt.Errorf("%w: %s range [%g,%g]", ErrInvalidWindow, name, r.Start, r.End)
		}
	}

	if len(cfg.Windows) == 0 {
		span := cfg.ClusterSpan
		if span <= 0 || span > 1 {
			return nil, fmt.Errorf("%w: cluster span %g outside (0,1]", ErrInvalidWindow, span)
		}
		cfg.Windows = EvenWindows(groups, span)
	}

	s := &Schedule{cfg: cfg, groups: groups, groupWindow: make([]int, groups)}
	for g := range s.groupWindow {
		s.groupWindow[g] = -1
	}

	for i, w := range cfg.Windows {
		if w.Start < 0 || w.End > 1 || w.Start >= w.End {
			return nil, fmt.Errorf("%w: window %d [%g,%g]", ErrInvalidWindow, i, w.Start, w.End)
		}
		if i > 0 && w.Start < cfg.Windows[i-1].End {
			return nil, fmt.Errorf("%w: window %d starts at %g before window %d ends at %g",
				ErrInvalidWindow, i, w.Start, i-1, cfg.Windows[i-1].End)
		}
		for _, g := range w.Groups {
			if g < 0 || g >= groups {
				return nil, fmt.Errorf("%w: window %d names group %d of %d", ErrInvalidWindow, i, g, groups)
			}
			if prev := s.groupWindow[g]; prev >= 0 {
				return nil, fmt.Errorf("%w: group %d in windows %d and %d", ErrInvalidWindow, g, prev, i)
			}
			s.groupWindow[g] = i
		}
	}
	return s, nil
}

// Config returns the validated configuration (with generated windows filled in).
func (s *Schedule) Config() Config { return s.cfg }

// Groups returns the group count the schedule was built for.
func (s *Schedule) Groups() int { return s.groups }

// Window returns the coalescence window governing group.
func (s *Schedule) Window(group int) (Window, bool) {
	if group < 0 || group >= s.groups || s.groupWindow[group] < 0 {
		return Window{}, false
	}
	return s.cfg.Windows[s.groupWindow[group]], true
}

// ActiveWindow returns the index of the window containing progress, or -1.
func (s *Schedule) ActiveWindow(progress float32) int {
	i := sort.Search(len(s.cfg.Windows), func(i int) bool {
		return s.cfg.Windows[i].End > progress
	})
	if i < len(s.cfg.Windows) && s.cfg.Windows[i].Contains(progress) {
		return i
	}
	return -1
}

// EffectiveStart shifts a window's start toward its end by the late factor.
func EffectiveStart(w Window, late float32) float32 {
	return w.Start + late*(w.End-w.Start)
}

// GroupBounds flattens the schedule into per-group [start, end] arrays with
// the late factor already applied. Groups without a window report NoWindow.
func (s *Schedule) GroupBounds() (starts, ends []float32) {
	starts = make([]float32, s.groups)
	ends = make([]float32, s.groups)
	for g := range starts {
		w, ok := s.Window(g)
		if !ok {
			starts[g], ends[g] = NoWindow, NoWindow+1
			continue
		}
		starts[g] = EffectiveStart(w, s.cfg.LateFactor)
		ends[g] = w.End
	}
	return starts, ends
}

// Weights computes the phase weights of group at progress.
func (s *Schedule) Weights(progress float32, group int) PhaseWeights {
	c := s.cfg
	var w PhaseWeights

	w.Burst = Smoothstep(c.Burst.Start, c.Burst.End, progress)
	if win, ok := s.Window(group); ok {
		w.Cluster = Smoothstep(EffectiveStart(win, c.LateFactor), win.End, progress)
	}
	w.Scatter = Smoothstep(c.Scatter.Start, c.Scatter.End, progress)
	w.Destination = Smoothstep(c.Destination.Start, c.Destination.End, progress)
	w.PreMix = c.PreMix * (1 - w.Cluster)
	w.Drift = DriftAmplitude(c.DriftAmplitude, w)
	return w
}

// DriftAmplitude scales the idle drift by the phase weights. Drift starts with
// the burst, is damped while a cluster is formed and vanishes as the late
// phases settle.
func DriftAmplitude(amplitude float32, w PhaseWeights) float32 {
	return amplitude * w.Burst * (1 - w.Dominance()) * (1 - 0.6*w.Cluster)
}

// Smoothstep is the cubic Hermite easing used for every transition.
// It returns 0 below e0, 1 above e1 and a C1-continuous ramp between.
func Smoothstep(e0, e1, x float32) float32 {
	if e1 <= e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := (x - e0) / (e1 - e0)
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return t * t * (3 - 2*t)
}
