package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// evalLog appends one CSV row per evaluation, prints progress and keeps the
// best parameters seen. CMA-ES may report a final mean that was never
// evaluated, so the best row is tracked here instead.
type evalLog struct {
	f        *os.File
	w        *csv.Writer
	maxEvals int
	started  time.Time

	count       int
	best        []float64
	bestFitness float64
}

func newEvalLog(path string, params *ParamVector, maxEvals int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create eval log: %w", err)
	}
	w := csv.NewWriter(f)
	header := []string{"eval", "fitness", "p99_step", "min_hold"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return &evalLog{f: f, w: w, maxEvals: maxEvals, started: time.Now(), bestFitness: invalidFitness}, nil
}

// Record logs one evaluation of values.
func (l *evalLog) Record(values []float64, fitness, step, hold float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = append(l.best[:0], values...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 6, 64),
		strconv.FormatFloat(step, 'f', 4, 64),
		strconv.FormatFloat(hold, 'f', 4, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	l.w.Write(row)
	l.w.Flush()

	elapsed := l.Elapsed()
	eta := time.Duration(l.maxEvals-l.count) * (elapsed / time.Duration(l.count))
	fmt.Printf("eval %d/%d: fitness=%.3f step=%.2fpx hold=%.3f best=%.3f | %s, ETA %s\n",
		l.count, l.maxEvals, fitness, step, hold, l.bestFitness, formatDuration(elapsed), formatDuration(eta))
}

// Best returns the lowest-fitness parameters recorded, nil when none.
func (l *evalLog) Best() ([]float64, float64) { return l.best, l.bestFitness }

func (l *evalLog) Count() int { return l.count }

func (l *evalLog) Elapsed() time.Duration { return time.Since(l.started) }

// Close flushes and closes the file.
func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.f.Close()
		return err
	}
	return l.f.Close()
}
