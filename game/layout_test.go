package game

import (
	"testing"

	"github.com/pthm-cable/dissolve/components"
	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/geometry"
)

func init() {
	config.MustInit("")
}

func TestLayoutChips(t *testing.T) {
	l := config.Cfg().Layout

	tests := []struct {
		name  string
		stage geometry.Size
		n     int
	}{
		{"desktop", geometry.Size{Width: 1280, Height: 800}, 3},
		{"narrow", geometry.Size{Width: 480, Height: 800}, 3},
		{"single", geometry.Size{Width: 1280, Height: 800}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rects := LayoutChips(tt.stage, tt.n, l)
			if len(rects) != tt.n {
				t.Fatalf("got %d rects, want %d", len(rects), tt.n)
			}
			for i, r := range rects {
				if r.Empty() {
					t.Errorf("chip %d is empty: %+v", i, r)
				}
				if r.X < 0 || r.X+r.Width > tt.stage.Width {
					t.Errorf("chip %d leaves the stage: %+v", i, r)
				}
				if i > 0 && r.X <= rects[i-1].X+rects[i-1].Width {
					t.Errorf("chip %d overlaps chip %d", i, i-1)
				}
			}
		})
	}

	if rects := LayoutChips(geometry.Size{}, 3, l); rects != nil {
		t.Errorf("empty stage produced %d rects", len(rects))
	}
}

func TestLayoutButtonBelowChips(t *testing.T) {
	l := config.Cfg().Layout
	stage := geometry.Size{Width: 1280, Height: 800}

	button := LayoutButton(stage, l)
	chips := LayoutChips(stage, 3, l)
	if button.Rect.Y <= chips[0].Y+chips[0].Height {
		t.Errorf("button %+v is not below the chips", button.Rect)
	}
	if c := button.Rect.Center(); c.X != stage.Width/2 {
		t.Errorf("button centre x = %v, want %v", c.X, stage.Width/2)
	}
}

func TestSettleBounds(t *testing.T) {
	var b components.Bounds
	r := geometry.Rect{X: 10, Y: 10, Width: 100, Height: 40}

	settleBounds(&b, r, 2)
	if b.Measured {
		t.Fatal("measured on the first layout frame")
	}
	settleBounds(&b, r, 2)
	settleBounds(&b, r, 2)
	if !b.Measured {
		t.Fatal("not measured after the settle delay")
	}

	// Moving restarts the settle delay
	r.X += 5
	settleBounds(&b, r, 2)
	if b.Measured || b.Age != 0 {
		t.Errorf("moved box still measured (age %d)", b.Age)
	}
}
