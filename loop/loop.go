// Package loop holds the per-frame step of the render loop: idle fade,
// visibility fade, resize snapshot and the deferred rebuild trigger.
// Step is a pure function of the previous State and the frame Input.
package loop

import (
	"time"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/timeline"
)

// Config holds the fade and rebuild timing.
type Config struct {
	Hold    time.Duration // Idle time before the fade starts
	Fade    time.Duration // Duration of the linear fade to zero
	Epsilon float32       // Progress movement below this counts as idle

	VisibleFadeStart float32
	VisibleFadeEnd   float32

	RebuildDelay int // Frames a new geometry version must hold before rebuilding
}

// ConfigFromConfig reads loop timing from the fade section.
func ConfigFromConfig(cfg *config.Config) Config {
	f := cfg.Fade
	return Config{
		Hold:             time.Duration(f.HoldMS * float64(time.Millisecond)),
		Fade:             time.Duration(f.FadeMS * float64(time.Millisecond)),
		Epsilon:          float32(f.Epsilon),
		VisibleFadeStart: float32(f.VisibleFadeStart),
		VisibleFadeEnd:   float32(f.VisibleFadeEnd),
		RebuildDelay:     f.RebuildDelay,
	}
}

// Input is everything the loop observes at one frame boundary.
type Input struct {
	Now      time.Duration // Monotonic time since the loop started
	Progress float32
	Stage    geometry.Size // Host container size in layout px
	Version  uint64        // Latest geometry version from the tracker
	Built    uint64        // Version of the uploaded buffers, 0 when none
}

// State is carried from one frame to the next.
type State struct {
	Frame        uint64
	Started      bool
	LastProgress float32
	LastActive   time.Duration
	Stage        geometry.Size

	PendingVersion uint64
	PendingFrames  int
}

// Output is the frame's decision.
type Output struct {
	Opacity    float32 // IdleFade * Visibility
	IdleFade   float32
	Visibility float32

	Stage   geometry.Size // One consistent size for the whole frame
	Resized bool
	Rebuild bool
	Draw    bool // Buffers are populated
}

// Step advances the loop by one frame.
func Step(cfg Config, prev State, in Input) (State, Output) {
	s := prev
	s.Frame++

	if !s.Started || abs(in.Progress-s.LastProgress) > cfg.Epsilon {
		s.Started = true
		s.LastProgress = in.Progress
		s.LastActive = in.Now
	}

	var out Output
	out.IdleFade = IdleFade(in.Now-s.LastActive, cfg.Hold, cfg.Fade)
	out.Visibility = 1 - timeline.Smoothstep(cfg.VisibleFadeStart, cfg.VisibleFadeEnd, in.Progress)
	out.Opacity = out.IdleFade * out.Visibility

	if in.Stage != s.Stage {
		s.Stage = in.Stage
		out.Resized = true
	}
	out.Stage = s.Stage

	if in.Version != in.Built {
		if in.Version != s.PendingVersion {
			s.PendingVersion = in.Version
			s.PendingFrames = 0
		} else {
			s.PendingFrames++
		}
		out.Rebuild = s.PendingFrames >= cfg.RebuildDelay
	} else {
		s.PendingVersion = in.Version
		s.PendingFrames = 0
	}
	out.Draw = in.Built != 0

	return s, out
}

// IdleFade returns 1 until idle exceeds hold, then falls linearly to exactly 0
// over fade.
func IdleFade(idle, hold, fade time.Duration) float32 {
	if idle <= hold {
		return 1
	}
	if fade <= 0 || idle-hold >= fade {
		return 0
	}
	return 1 - float32(float64(idle-hold)/float64(fade))
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
