package main

import (
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/pthm-cable/dissolve/config"
	"github.com/pthm-cable/dissolve/game"
	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/morph"
	"github.com/pthm-cable/dissolve/targets"
	"github.com/pthm-cable/dissolve/telemetry"
	"github.com/pthm-cable/dissolve/timeline"
)

// Scoring constants.
const (
	// A group reads as its label while its cluster weight is above this and
	// no later phase has started.
	readableWeight = 0.95

	// Progress span each group should stay readable for.
	targetHold = 0.06

	// px of per-frame step traded for the full hold shortfall.
	holdPenalty = 40.0

	// Score for parameter sets the timeline rejects.
	invalidFitness = 1e6

	fps = 60.0
)

// FitnessEvaluator sweeps the morph on the CPU and scores how smooth and how
// readable it is.
type FitnessEvaluator struct {
	params     *ParamVector
	frames     int // Frames for one 0 -> 1 sweep
	seeds      []int64
	baseConfig *config.Config

	mu       sync.Mutex
	lastStep float64 // p99 step of the most recent Evaluate call
	lastHold float64 // min readable span of the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, frames int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		frames:     max(frames, 2),
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// Last returns the step and hold measured by the most recent evaluation.
func (fe *FitnessEvaluator) Last() (step, hold float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastStep, fe.lastHold
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	step float64 // Worst-frame p99 particle displacement (px)
	err  error
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	tc := timeline.FromConfig(cfg)
	schedule, err := timeline.NewSchedule(tc, len(cfg.Layout.Labels))
	if err != nil {
		return invalidFitness
	}
	hold := minReadableSpan(schedule)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			step, err := fe.sweep(cfg, schedule, s)
			results[idx] = seedResult{step: step, err: err}
		}(i, seed)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		if r.err != nil {
			return invalidFitness
		}
		total += r.step
	}
	step := total / float64(len(results))

	fe.mu.Lock()
	fe.lastStep, fe.lastHold = step, hold
	fe.mu.Unlock()

	return step + holdPenalty*max(0, targetHold-hold)/targetHold
}

// sweep builds the host layout for seed and runs progress linearly from 0 to
// 1. It returns the largest per-frame p99 displacement.
func (fe *FitnessEvaluator) sweep(cfg *config.Config, schedule *timeline.Schedule, seed int64) (float64, error) {
	stage := geometry.Size{Width: float32(cfg.Screen.Width), Height: float32(cfg.Screen.Height)}
	in := targets.Input{Stage: stage, Reference: geometry.Point{X: stage.Width / 2, Y: stage.Height * 0.12}}
	for i, r := range game.LayoutChips(stage, len(cfg.Layout.Labels), cfg.Layout) {
		in.Clusters = append(in.Clusters, targets.Cluster{ID: cfg.Layout.Labels[i], Rect: r})
	}
	button := game.LayoutButton(stage, cfg.Layout)
	in.Destination = &button

	set, err := targets.NewBuilder(targets.OptionsFromConfig(cfg), rand.New(rand.NewSource(seed))).Build(in, 1)
	if err != nil {
		return 0, err
	}
	u, err := morph.NewUniforms(schedule, set, morph.ParamsFromConfig(cfg))
	if err != nil {
		return 0, err
	}
	u.Viewport = stage

	b := morph.NewBatch()
	defer b.Close()

	n := set.Len()
	prev := make([]float32, 2*n)
	steps := make([]float64, n)
	var worst float64
	for f := 0; f < fe.frames; f++ {
		u.Progress = float32(f) / float32(fe.frames-1)
		u.Time = float32(f) / fps
		b.Run(set, &u)

		if f > 0 {
			for i := 0; i < n; i++ {
				dx := float64(b.Positions[2*i] - prev[2*i])
				dy := float64(b.Positions[2*i+1] - prev[2*i+1])
				steps[i] = math.Hypot(dx, dy)
			}
			sort.Float64s(steps)
			worst = max(worst, telemetry.Percentile(steps, 0.99))
		}
		copy(prev, b.Positions)
	}
	return worst, nil
}

// minReadableSpan returns the shortest progress span over all groups during
// which a group holds its cluster shape.
func minReadableSpan(s *timeline.Schedule) float64 {
	const samples = 1000
	shortest := math.Inf(1)
	for g := 0; g < s.Groups(); g++ {
		held := 0
		for i := 0; i <= samples; i++ {
			w := s.Weights(float32(i)/samples, g)
			if w.Cluster >= readableWeight && w.Scatter == 0 && w.Destination == 0 {
				held++
			}
		}
		shortest = min(shortest, float64(held)/samples)
	}
	return shortest
}

// copyConfig returns a shallow copy of the base config. Parameters only
// replace scalar fields and the window slice, so sharing slices is safe.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}
