package game

import "github.com/charmbracelet/harmonica"

// Scroll smooths discrete scroll input into a continuous progress value.
// Input moves a target in [0, 1]; a critically damped spring follows it.
type Scroll struct {
	spring harmonica.Spring
	step   float64 // Progress per wheel notch

	target, pos, vel float64
}

// NewScroll creates a scroll smoother updated fps times per second.
func NewScroll(fps int, frequency, damping, step float64) *Scroll {
	if fps < 1 {
		fps = 60
	}
	return &Scroll{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		step:   step,
	}
}

// Nudge moves the target by notches wheel steps.
func (s *Scroll) Nudge(notches float64) {
	s.SetTarget(s.target + notches*s.step)
}

// SetTarget moves the target to p, clamped to [0, 1].
func (s *Scroll) SetTarget(p float64) {
	s.target = clamp01(p)
}

// Jump sets target and position to p with no spring motion.
func (s *Scroll) Jump(p float64) {
	s.SetTarget(p)
	s.pos, s.vel = s.target, 0
}

// Target returns the progress the spring is heading to.
func (s *Scroll) Target() float64 { return s.target }

// Update advances the spring by one frame and returns the new progress.
func (s *Scroll) Update() float32 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	return s.Progress()
}

// Progress returns the current progress, clamped to [0, 1].
func (s *Scroll) Progress() float32 {
	return float32(clamp01(s.pos))
}

func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}
