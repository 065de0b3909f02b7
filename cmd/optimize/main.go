// Command optimize tunes the morph timeline with CMA-ES. Each evaluation
// sweeps progress from 0 to 1 on the CPU and scores the worst per-frame
// particle step plus a penalty for groups that are not readable long enough.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/dissolve/config"
)

// formatDuration formats a duration as 1h02m03s, or 2m03s below an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

type options struct {
	configPath string
	frames     int
	seeds      int
	maxEvals   int
	population int
	outputDir  string
}

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.IntVar(&o.frames, "frames", 240, "Frames per 0 -> 1 progress sweep")
	flag.IntVar(&o.seeds, "seeds", 3, "Layout seeds per evaluation")
	flag.IntVar(&o.maxEvals, "max-evals", 200, "Maximum number of evaluations")
	flag.IntVar(&o.population, "population", 0, "CMA-ES population size (0 = auto)")
	flag.StringVar(&o.outputDir, "output", "", "Output directory for results")
	flag.Parse()

	if o.outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := run(o); err != nil {
		log.Fatal(err)
	}
}

func run(o options) error {
	if err := os.MkdirAll(o.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	baseCfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	params := NewParamVector()
	seeds := make([]int64, o.seeds)
	for i := range seeds {
		seeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, o.frames, seeds, baseCfg)

	evalLog, err := newEvalLog(filepath.Join(o.outputDir, "optimize_log.csv"), params, o.maxEvals)
	if err != nil {
		return err
	}
	defer evalLog.Close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			step, hold := evaluator.Last()
			evalLog.Record(values, fitness, step, hold)
			return fitness
		},
	}

	popSize := o.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize}
	settings := &optimize.Settings{FuncEvaluations: o.maxEvals}

	fmt.Printf("CMA-ES over %d timeline parameters, population=%d, max_evals=%d, seeds=%d, frames=%d\n",
		params.Dim(), popSize, o.maxEvals, o.seeds, o.frames)

	start := params.Normalize(params.ExtractFromConfig(baseCfg))
	if _, err := optimize.Minimize(problem, start, settings, method); err != nil {
		log.Printf("optimization ended: %v", err)
	}

	best, bestFitness := evalLog.Best()
	if best == nil {
		return fmt.Errorf("no evaluation completed")
	}
	fmt.Printf("\n%d evaluations in %s, best fitness %.3f\n", evalLog.Count(), formatDuration(evalLog.Elapsed()), bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-24s %.4f (was %.4f)\n", spec.Path, best[i], spec.Default)
	}

	bestCfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	params.ApplyToConfig(bestCfg, best)
	out := filepath.Join(o.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		return fmt.Errorf("write best config: %w", err)
	}
	fmt.Printf("Best config saved to %s\n", out)
	return nil
}
