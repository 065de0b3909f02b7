package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Particles.PoolSize != 9000 {
		t.Errorf("pool_size = %d, want 9000", cfg.Particles.PoolSize)
	}
	if cfg.Fade.HoldMS != 150 || cfg.Fade.FadeMS != 600 {
		t.Errorf("fade = %v/%v, want 150/600", cfg.Fade.HoldMS, cfg.Fade.FadeMS)
	}
	if cfg.Derived.ScreenW32 != float32(cfg.Screen.Width) {
		t.Errorf("derived width %v != %d", cfg.Derived.ScreenW32, cfg.Screen.Width)
	}
	if cfg.Derived.LightRGBA[3] != 255 {
		t.Errorf("derived light alpha = %d, want 255", cfg.Derived.LightRGBA[3])
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("particles:\n  pool_size: 1234\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Particles.PoolSize != 1234 {
		t.Errorf("pool_size = %d, want 1234", cfg.Particles.PoolSize)
	}
	if cfg.Particles.LightRatio != 0.15 {
		t.Errorf("light_ratio = %v, want default 0.15", cfg.Particles.LightRatio)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero pool", "particles:\n  pool_size: 0\n"},
		{"late factor one", "timeline:\n  late_factor: 1.0\n"},
		{"inverted scatter", "timeline:\n  scatter_start: 0.9\n  scatter_end: 0.8\n"},
		{"unknown ambient", "particles:\n  ambient: ring\n"},
		{"zero fade", "fade:\n  fade_ms: 0\n"},
		{"no labels", "layout:\n  labels: []\n"},
		{"too many labels", "layout:\n  labels: [a, b, c, d, e, f, g, h, i, j, k, l, m, n, o, p, q]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("Load(%s) error = %v, want ErrInvalid", tt.name, err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	again, err := Load(path)
	if err != nil {
		t.Fatalf("reloading snapshot: %v", err)
	}
	if again.Timeline.LateFactor != cfg.Timeline.LateFactor {
		t.Errorf("late_factor = %v, want %v", again.Timeline.LateFactor, cfg.Timeline.LateFactor)
	}
	if len(again.Layout.Labels) != len(cfg.Layout.Labels) {
		t.Errorf("labels = %v, want %v", again.Layout.Labels, cfg.Layout.Labels)
	}
}
