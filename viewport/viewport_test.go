package viewport

import (
	"testing"

	"github.com/pthm-cable/dissolve/geometry"
)

func TestBackingSizeCapsDPR(t *testing.T) {
	tests := []struct {
		name         string
		dpr, maxDPR  float32
		wantW, wantH int32
	}{
		{"standard", 1, 2, 1280, 800},
		{"retina", 2, 2, 2560, 1600},
		{"capped", 3, 2, 2560, 1600},
		{"fractional", 1.5, 2, 1920, 1200},
		{"unreported", 0, 2, 1280, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(1280, 800, tt.dpr, tt.maxDPR)
			w, h := v.BackingSize()
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("BackingSize = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResizeReportsChange(t *testing.T) {
	v := New(1280, 800, 1, 2)
	if v.Resize(1280, 800, 1) {
		t.Error("same size reported as a change")
	}
	if !v.Resize(1024, 800, 1) {
		t.Error("width change not reported")
	}
	if !v.Resize(1024, 800, 2) {
		t.Error("dpr change not reported")
	}
	if v.Size() != (geometry.Size{Width: 1024, Height: 800}) {
		t.Errorf("Size = %v after resize", v.Size())
	}
}

func TestLayoutToBackingUsesCappedScale(t *testing.T) {
	tests := []struct {
		name     string
		dpr, max float32
		wantX    float32
	}{
		{"capped", 2.5, 2, 200},
		{"below cap", 1.5, 2, 150},
		{"unset dpr", 0, 2, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(800, 600, tt.dpr, tt.max)
			bx, by := v.LayoutToBacking(100, 50)
			if bx != tt.wantX || by != tt.wantX/2 {
				t.Errorf("LayoutToBacking = (%v,%v), want (%v,%v)", bx, by, tt.wantX, tt.wantX/2)
			}
		})
	}
}

func TestIsVisible(t *testing.T) {
	v := New(800, 600, 1, 2)
	if !v.IsVisible(-2, 300, 3) {
		t.Error("point within radius of the left edge should be visible")
	}
	if v.IsVisible(900, 300, 3) {
		t.Error("point far right should not be visible")
	}
}
