package game

import (
	"math"
	"testing"
)

func TestScrollConvergesToTarget(t *testing.T) {
	s := NewScroll(60, 6, 1, 0.02)
	s.SetTarget(0.5)

	var p float32
	for i := 0; i < 300; i++ {
		p = s.Update()
		if p < 0 || p > 1 {
			t.Fatalf("frame %d: progress %v outside [0,1]", i, p)
		}
	}
	if math.Abs(float64(p)-0.5) > 1e-3 {
		t.Errorf("progress = %v after 5s, want 0.5", p)
	}
}

func TestScrollClampsTarget(t *testing.T) {
	s := NewScroll(60, 6, 1, 0.1)

	s.Nudge(-3)
	if s.Target() != 0 {
		t.Errorf("target = %v, want 0", s.Target())
	}
	s.Nudge(50)
	if s.Target() != 1 {
		t.Errorf("target = %v, want 1", s.Target())
	}
	s.Nudge(-2)
	if math.Abs(s.Target()-0.8) > 1e-9 {
		t.Errorf("target = %v, want 0.8", s.Target())
	}
}

func TestScrollJump(t *testing.T) {
	s := NewScroll(60, 6, 1, 0.02)
	s.Jump(0.7)
	if p := s.Update(); math.Abs(float64(p)-0.7) > 1e-6 {
		t.Errorf("progress after jump = %v, want 0.7", p)
	}
}
