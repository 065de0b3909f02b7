package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeFrameTimeStats(t *testing.T) {
	// Unsorted on purpose
	values := []float64{16, 17, 15, 16, 18, 14, 16, 16, 17, 15}
	s := ComputeFrameTimeStats(values)

	if math.Abs(s.Mean-16) > 0.001 {
		t.Errorf("mean = %v, want 16", s.Mean)
	}
	// Population variance: (0+1+1+0+4+4+0+0+1+1)/10 = 1.2
	if math.Abs(s.Std-math.Sqrt(1.2)) > 0.001 {
		t.Errorf("std = %v, want %v", s.Std, math.Sqrt(1.2))
	}
	if math.Abs(s.P50-16) > 0.001 {
		t.Errorf("p50 = %v, want 16", s.P50)
	}
	if s.P99 < s.P90 || s.P99 > 18 {
		t.Errorf("p99 = %v, want in [p90=%v, 18]", s.P99, s.P90)
	}
	if values[0] != 16 || values[5] != 14 {
		t.Error("input slice was reordered")
	}
}

func TestComputeFrameTimeStatsEmpty(t *testing.T) {
	if s := ComputeFrameTimeStats(nil); s != (FrameTimeStats{}) {
		t.Errorf("empty stats = %+v, want zero", s)
	}
}
