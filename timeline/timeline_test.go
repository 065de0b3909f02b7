package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/dissolve/config"
)

func init() {
	config.MustInit("")
}

func defaultSchedule(t *testing.T, groups int) *Schedule {
	t.Helper()
	s, err := NewSchedule(FromConfig(config.Cfg()), groups)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	return s
}

func TestSmoothstep(t *testing.T) {
	tests := []struct {
		x, want float32
	}{
		{-1, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{2, 1},
	}
	for _, tt := range tests {
		if got := Smoothstep(0, 1, tt.x); math.Abs(float64(got-tt.want)) > 1e-6 {
			t.Errorf("Smoothstep(0,1,%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
	if got := Smoothstep(0.5, 0.5, 0.5); got != 1 {
		t.Errorf("zero-width step at edge = %v, want 1", got)
	}
}

func TestEvenWindowsPartition(t *testing.T) {
	windows := EvenWindows(3, 0.42)
	if len(windows) != 3 {
		t.Fatalf("got %d windows, want 3", len(windows))
	}
	if windows[0].Start != 0 || windows[2].End != 0.42 {
		t.Errorf("windows span [%v,%v], want [0,0.42]", windows[0].Start, windows[2].End)
	}
	for i := 1; i < len(windows); i++ {
		if windows[i].Start != windows[i-1].End {
			t.Errorf("gap between window %d and %d", i-1, i)
		}
	}
}

func TestWindowsDisjoint(t *testing.T) {
	s := defaultSchedule(t, 5)

	for i := 0; i <= 1000; i++ {
		p := float32(i) / 1000
		containing := 0
		for _, w := range s.Config().Windows {
			if w.Contains(p) {
				containing++
			}
		}
		if containing > 1 {
			t.Fatalf("progress %v in %d windows", p, containing)
		}
		active := s.ActiveWindow(p)
		if (containing == 1) != (active >= 0) {
			t.Fatalf("progress %v: ActiveWindow=%d but %d windows contain it", p, active, containing)
		}
	}
}

func TestNewScheduleRejects(t *testing.T) {
	base := FromConfig(config.Cfg())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"overlapping", func(c *Config) {
			c.Windows = []Window{{Groups: []int{0}, Start: 0, End: 0.3}, {Groups: []int{1}, Start: 0.2, End: 0.4}}
		}},
		{"decreasing", func(c *Config) {
			c.Windows = []Window{{Groups: []int{0}, Start: 0.3, End: 0.4}, {Groups: []int{1}, Start: 0, End: 0.1}}
		}},
		{"empty window", func(c *Config) {
			c.Windows = []Window{{Groups: []int{0}, Start: 0.3, End: 0.3}}
		}},
		{"group twice", func(c *Config) {
			c.Windows = []Window{{Groups: []int{0}, Start: 0, End: 0.1}, {Groups: []int{0}, Start: 0.1, End: 0.2}}
		}},
		{"unknown group", func(c *Config) {
			c.Windows = []Window{{Groups: []int{7}, Start: 0, End: 0.1}}
		}},
		{"late factor one", func(c *Config) { c.LateFactor = 1 }},
		{"inverted scatter", func(c *Config) { c.Scatter = Range{0.8, 0.7} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			if _, err := NewSchedule(cfg, 2); !errors.Is(err, ErrInvalidWindow) {
				t.Errorf("error = %v, want ErrInvalidWindow", err)
			}
		})
	}
}

func TestClusterWeightMonotonic(t *testing.T) {
	s := defaultSchedule(t, 3)

	for g := 0; g < 3; g++ {
		w, ok := s.Window(g)
		if !ok {
			t.Fatalf("group %d has no window", g)
		}
		if got := s.Weights(w.Start, g).Cluster; got != 0 {
			t.Errorf("group %d weight at window start = %v, want 0", g, got)
		}
		if got := s.Weights(w.End, g).Cluster; got != 1 {
			t.Errorf("group %d weight at window end = %v, want 1", g, got)
		}

		prev := float32(-1)
		for i := 0; i <= 200; i++ {
			p := w.Start + (w.End-w.Start)*float32(i)/200
			cw := s.Weights(p, g).Cluster
			if cw < prev {
				t.Fatalf("group %d weight decreased at %v: %v < %v", g, p, cw, prev)
			}
			prev = cw
		}
	}
}

func TestLateFactorDelaysCoalescence(t *testing.T) {
	cfg := FromConfig(config.Cfg())
	cfg.Windows = []Window{{Groups: []int{0}, Start: 0.2, End: 0.4}}

	cfg.LateFactor = 0
	early, err := NewSchedule(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}
	cfg.LateFactor = 0.5
	late, err := NewSchedule(cfg, 1)
	if err != nil {
		t.Fatal(err)
	}

	if got := late.Weights(0.29, 0).Cluster; got != 0 {
		t.Errorf("late schedule weight before effective start = %v, want 0", got)
	}
	if e, l := early.Weights(0.32, 0).Cluster, late.Weights(0.32, 0).Cluster; l >= e {
		t.Errorf("late weight %v should trail early weight %v", l, e)
	}

	starts, ends := late.GroupBounds()
	if math.Abs(float64(starts[0]-0.3)) > 1e-6 || ends[0] != 0.4 {
		t.Errorf("GroupBounds = [%v,%v], want [0.3,0.4]", starts[0], ends[0])
	}
}

func TestUnassignedGroupNeverCoalesces(t *testing.T) {
	cfg := FromConfig(config.Cfg())
	cfg.Windows = []Window{{Groups: []int{0}, Start: 0, End: 0.2}}
	s, err := NewSchedule(cfg, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Weights(0.5, 1).Cluster; got != 0 {
		t.Errorf("unassigned group weight = %v, want 0", got)
	}
	starts, _ := s.GroupBounds()
	if starts[1] != NoWindow {
		t.Errorf("unassigned group start = %v, want %v", starts[1], NoWindow)
	}
}

func TestEndpoints(t *testing.T) {
	s := defaultSchedule(t, 3)

	for g := 0; g < 3; g++ {
		w := s.Weights(0, g)
		if w.Burst != 0 || w.Scatter != 0 || w.Destination != 0 || w.Drift != 0 {
			t.Errorf("group %d at progress 0: %+v, want all phases idle", g, w)
		}

		w = s.Weights(1, g)
		if w.Destination != 1 {
			t.Errorf("group %d destination weight at 1 = %v, want 1", g, w.Destination)
		}
		if w.Drift != 0 {
			t.Errorf("group %d drift at 1 = %v, want 0", g, w.Drift)
		}
	}
}

func TestDriftDampedByLatePhases(t *testing.T) {
	s := defaultSchedule(t, 3)
	free := s.Weights(0.5, 0).Drift
	settling := s.Weights(0.9, 0).Drift
	if free <= 0 {
		t.Fatalf("drift mid-timeline = %v, want > 0", free)
	}
	if settling >= free {
		t.Errorf("drift near the destination %v should be below %v", settling, free)
	}
}
