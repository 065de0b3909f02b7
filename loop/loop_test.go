package loop

import (
	"testing"
	"time"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
)

func init() {
	config.MustInit("")
}

var stage = geometry.Size{Width: 1280, Height: 800}

func TestIdleFadeReachesZero(t *testing.T) {
	cfg := ConfigFromConfig(config.Cfg())
	if cfg.Hold != 150*time.Millisecond || cfg.Fade != 600*time.Millisecond {
		t.Fatalf("hold/fade = %v/%v, want 150ms/600ms", cfg.Hold, cfg.Fade)
	}

	var s State
	var out Output
	zeroAt := time.Duration(-1)
	for now := time.Duration(0); now <= time.Second; now += time.Millisecond {
		s, out = Step(cfg, s, Input{Now: now, Progress: 0.4, Stage: stage})
		if now <= cfg.Hold && out.IdleFade != 1 {
			t.Fatalf("opacity %v during hold at %v", out.IdleFade, now)
		}
		if out.IdleFade == 0 && zeroAt < 0 {
			zeroAt = now
		}
	}
	if want := cfg.Hold + cfg.Fade; zeroAt != want {
		t.Errorf("opacity reached 0 at %v, want %v", zeroAt, want)
	}
	if out.Opacity != 0 {
		t.Errorf("final opacity = %v, want 0", out.Opacity)
	}
}

func TestIdleFadeLinear(t *testing.T) {
	hold, fade := 150*time.Millisecond, 600*time.Millisecond
	tests := []struct {
		idle time.Duration
		want float32
	}{
		{0, 1},
		{150 * time.Millisecond, 1},
		{300 * time.Millisecond, 0.75},
		{450 * time.Millisecond, 0.5},
		{750 * time.Millisecond, 0},
		{2 * time.Second, 0},
	}
	for _, tt := range tests {
		if got := IdleFade(tt.idle, hold, fade); got != tt.want {
			t.Errorf("IdleFade(%v) = %v, want %v", tt.idle, got, tt.want)
		}
	}
}

func TestMovementRestoresOpacity(t *testing.T) {
	cfg := ConfigFromConfig(config.Cfg())

	var s State
	s, _ = Step(cfg, s, Input{Now: 0, Progress: 0.3, Stage: stage})
	s, out := Step(cfg, s, Input{Now: time.Second, Progress: 0.3, Stage: stage})
	if out.IdleFade != 0 {
		t.Fatalf("idle opacity after 1s = %v, want 0", out.IdleFade)
	}

	// Sub-epsilon jitter does not count as movement
	s, out = Step(cfg, s, Input{Now: time.Second + 16*time.Millisecond, Progress: 0.3 + cfg.Epsilon/2, Stage: stage})
	if out.IdleFade != 0 {
		t.Errorf("sub-epsilon movement restored opacity to %v", out.IdleFade)
	}

	_, out = Step(cfg, s, Input{Now: time.Second + 32*time.Millisecond, Progress: 0.31, Stage: stage})
	if out.IdleFade != 1 {
		t.Errorf("opacity after movement = %v, want 1", out.IdleFade)
	}
}

func TestVisibilityWindow(t *testing.T) {
	cfg := ConfigFromConfig(config.Cfg())

	_, out := Step(cfg, State{}, Input{Progress: 0.5, Stage: stage})
	if out.Visibility != 1 {
		t.Errorf("visibility mid-timeline = %v, want 1", out.Visibility)
	}
	_, out = Step(cfg, State{}, Input{Progress: 1, Stage: stage})
	if out.Visibility != 0 || out.Opacity != 0 {
		t.Errorf("visibility/opacity at 1 = %v/%v, want 0", out.Visibility, out.Opacity)
	}
}

func TestRebuildDeferredByDelay(t *testing.T) {
	cfg := ConfigFromConfig(config.Cfg())
	cfg.RebuildDelay = 1

	var s State
	var out Output
	s, out = Step(cfg, s, Input{Version: 1, Stage: stage})
	if out.Rebuild {
		t.Fatal("rebuilt on the frame the version changed")
	}
	if out.Draw {
		t.Error("draw requested before any build")
	}

	s, out = Step(cfg, s, Input{Version: 1, Stage: stage})
	if !out.Rebuild {
		t.Fatal("no rebuild one frame after the change")
	}

	// Built: no further rebuilds
	s, out = Step(cfg, s, Input{Version: 1, Built: 1, Stage: stage})
	if out.Rebuild || !out.Draw {
		t.Errorf("after build: rebuild=%v draw=%v", out.Rebuild, out.Draw)
	}

	// A version that keeps changing restarts the delay
	s, out = Step(cfg, s, Input{Version: 2, Built: 1, Stage: stage})
	if out.Rebuild {
		t.Error("rebuilt immediately on version 2")
	}
	s, out = Step(cfg, s, Input{Version: 3, Built: 1, Stage: stage})
	if out.Rebuild {
		t.Error("rebuilt while the version was still changing")
	}
	_, out = Step(cfg, s, Input{Version: 3, Built: 1, Stage: stage})
	if !out.Rebuild {
		t.Error("no rebuild once version 3 settled")
	}
}

func TestResizeSnapshot(t *testing.T) {
	cfg := ConfigFromConfig(config.Cfg())

	s, out := Step(cfg, State{}, Input{Stage: stage})
	if !out.Resized || out.Stage != stage {
		t.Fatalf("first frame: resized=%v stage=%v", out.Resized, out.Stage)
	}
	s, out = Step(cfg, s, Input{Stage: stage})
	if out.Resized {
		t.Error("unchanged stage reported as resized")
	}
	small := geometry.Size{Width: 800, Height: 600}
	_, out = Step(cfg, s, Input{Stage: small})
	if !out.Resized || out.Stage != small {
		t.Errorf("resize: resized=%v stage=%v", out.Resized, out.Stage)
	}
}
