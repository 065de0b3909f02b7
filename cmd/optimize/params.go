// Package main provides CMA-ES optimization for morph timeline parameters.
package main

import (
	"github.com/pthm-cable/dissolve/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Coalescence
			{Name: "cluster_span", Path: "timeline.cluster_span", Min: 0.25, Max: 0.6, Default: 0.42},
			{Name: "late_factor", Path: "timeline.late_factor", Min: 0.0, Max: 0.8, Default: 0.35},
			{Name: "pre_mix", Path: "timeline.pre_mix", Min: 0.0, Max: 1.0, Default: 0.55},
			// Shared phases (scatter width and destination end locked)
			{Name: "burst_end", Path: "timeline.burst_end", Min: 0.05, Max: 0.3, Default: 0.22},
			{Name: "scatter_start", Path: "timeline.scatter_start", Min: 0.6, Max: 0.72, Default: 0.68},
			// Idle motion
			{Name: "drift_amplitude", Path: "timeline.drift_amplitude", Min: 0.0, Max: 6.0, Default: 3.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// scatterWidth is the locked length of the scatter phase.
const scatterWidth = 0.10

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)
	tl := &cfg.Timeline

	// Generated windows only; explicit windows would ignore cluster_span
	tl.Windows = nil
	tl.ClusterSpan = clamped[0]
	tl.LateFactor = clamped[1]
	tl.PreMix = clamped[2]
	tl.BurstStart = 0
	tl.BurstEnd = clamped[3]
	tl.ScatterStart = clamped[4]
	tl.ScatterEnd = clamped[4] + scatterWidth
	tl.DestStart = max(tl.DestStart, tl.ScatterEnd)
	tl.DriftAmplitude = clamped[5]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	tl := cfg.Timeline
	return []float64{
		tl.ClusterSpan,
		tl.LateFactor,
		tl.PreMix,
		tl.BurstEnd,
		tl.ScatterStart,
		tl.DriftAmplitude,
	}
}
