package main

import (
	"math"
	"testing"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/timeline"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}
}

func TestDefaultsMatchConfig(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pv := NewParamVector()
	got := pv.ExtractFromConfig(cfg)
	for i, spec := range pv.Specs {
		if math.Abs(got[i]-spec.Default) > 1e-9 {
			t.Errorf("%s default = %v, config has %v", spec.Name, spec.Default, got[i])
		}
	}
}

func TestApplyToConfigKeepsScheduleValid(t *testing.T) {
	pv := NewParamVector()
	corners := [][]float64{make([]float64, pv.Dim()), make([]float64, pv.Dim())}
	for i := range corners[1] {
		corners[1][i] = 1
	}
	for _, c := range corners {
		cfg, err := config.Load("")
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		pv.ApplyToConfig(cfg, pv.Denormalize(c))
		if _, err := timeline.NewSchedule(timeline.FromConfig(cfg), len(cfg.Layout.Labels)); err != nil {
			t.Errorf("corner %v: %v", c, err)
		}
	}
}

func TestMinReadableSpan(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := timeline.NewSchedule(timeline.FromConfig(cfg), 3)
	if err != nil {
		t.Fatalf("NewSchedule: %v", err)
	}
	hold := minReadableSpan(s)
	if hold <= 0 || hold >= 1 {
		t.Errorf("minReadableSpan = %v, want in (0, 1)", hold)
	}
}

func TestEvaluateScoresSweep(t *testing.T) {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Particles.PoolSize = 1500

	pv := NewParamVector()
	fe := NewFitnessEvaluator(pv, 60, []int64{1, 2}, cfg)
	fitness := fe.Evaluate(pv.DefaultVector())
	if fitness <= 0 || fitness >= invalidFitness {
		t.Fatalf("fitness = %v, want a finite positive score", fitness)
	}
	step, _ := fe.Last()
	if step <= 0 {
		t.Errorf("p99 step = %v, want > 0", step)
	}
}

func TestEvalLogKeepsBest(t *testing.T) {
	pv := NewParamVector()
	l, err := newEvalLog(t.TempDir()+"/log.csv", pv, 3)
	if err != nil {
		t.Fatalf("newEvalLog: %v", err)
	}
	defer l.Close()

	a, b := pv.DefaultVector(), pv.DefaultVector()
	b[0] += 0.01
	l.Record(a, 5, 1, 0.1)
	l.Record(b, 3, 1, 0.1)
	l.Record(a, 4, 1, 0.1)

	best, fitness := l.Best()
	if fitness != 3 || best[0] != b[0] {
		t.Errorf("best = %v (%v), want %v (3)", best[0], fitness, b[0])
	}
	if l.Count() != 3 {
		t.Errorf("count = %d, want 3", l.Count())
	}
}
