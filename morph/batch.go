package morph

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/blas/blas32"

	"github.com/pthm-cable/dissolve/geometry"
	"github.com/pthm-cable/dissolve/targets"
	"github.com/pthm-cable/dissolve/timeline"
)

// parallelThreshold is the minimum particle count to use the worker pool.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 2048

// Batch evaluates a whole target set on the CPU. It produces the same values
// as calling Evaluate per particle. Positions is interleaved x,y.
type Batch struct {
	Positions []float32
	Alpha     []float32
	Size      []float32
	Colors    []float32 // Premultiplied RGBA

	pre     []float32
	ambient []float32
	weights []timeline.PhaseWeights

	set *targets.Set
	u   *Uniforms

	pool *workerPool
}

// NewBatch creates a CPU evaluator. Call Close to stop its workers.
func NewBatch() *Batch {
	return &Batch{pool: newWorkerPool(runtime.GOMAXPROCS(0))}
}

// Close stops the worker goroutines.
func (b *Batch) Close() {
	b.pool.stop()
}

// Output returns the evaluated state of particle i after Run.
func (b *Batch) Output(i int) Output {
	p := geometry.Point{X: b.Positions[2*i], Y: b.Positions[2*i+1]}
	return Output{
		Position: p,
		NDC:      ToNDC(p, b.u.Viewport),
		Color:    [4]float32{b.Colors[4*i], b.Colors[4*i+1], b.Colors[4*i+2], b.Colors[4*i+3]},
		Size:     b.Size[i],
		Alpha:    b.Alpha[i],
	}
}

// Run evaluates every particle of set for the frame described by u.
func (b *Batch) Run(set *targets.Set, u *Uniforms) {
	n := set.Len()
	b.set, b.u = set, u
	b.Positions = grow(b.Positions, 2*n)
	b.pre = grow(b.pre, 2*n)
	b.Alpha = grow(b.Alpha, n)
	b.Size = grow(b.Size, n)
	b.Colors = grow(b.Colors, 4*n)

	ambient := set.Ambient
	if u.AmbientOffset != (geometry.Point{}) {
		b.ambient = grow(b.ambient, 2*n)
		for i := 0; i < n; i++ {
			b.ambient[2*i] = set.Ambient[2*i] + u.AmbientOffset.X
			b.ambient[2*i+1] = set.Ambient[2*i+1] + u.AmbientOffset.Y
		}
		ambient = b.ambient
	}

	// Phase A: position mix per group range (weights are uniform within a group)
	b.weights = b.weights[:0]
	for g, r := range set.Ranges {
		w := u.Weights(g)
		b.weights = append(b.weights, w)
		if r.Len() == 0 {
			continue
		}
		lo, hi := 2*r.Start, 2*r.End
		vec := func(data []float32) blas32.Vector {
			return blas32.Vector{N: hi - lo, Inc: 1, Data: data[lo:hi]}
		}
		pos, pre := vec(b.Positions), vec(b.pre)
		start, cluster, amb, dest := vec(set.Start), vec(set.Cluster), vec(ambient), vec(set.Destination)

		blas32.Copy(cluster, pre)
		mixInto(pre, amb, w.PreMix)
		blas32.Copy(start, pos)
		mixInto(pos, pre, w.Burst)
		mixInto(pos, cluster, w.Cluster)
		mixInto(pos, amb, w.Scatter)
		mixInto(pos, dest, w.Destination)
	}

	// Phase B: per-particle drift and appearance
	if n < parallelThreshold {
		b.computeChunk(0, n)
		return
	}
	b.pool.run(n, b.computeChunk)
}

// computeChunk finishes particles [i0, i1). It reads shared state only.
func (b *Batch) computeChunk(i0, i1 int) {
	set, u := b.set, b.u
	for i := i0; i < i1; i++ {
		g := int(set.Group[i])
		w := b.weights[g]
		a := Attributes{
			Destination: geometry.Point{X: set.Destination[2*i], Y: set.Destination[2*i+1]},
			Group:       g,
		}

		d := Drift(set.Seeds[i], u.Time, u.DriftSpeed, w.Drift)
		p := geometry.Point{X: b.Positions[2*i] + d.X, Y: b.Positions[2*i+1] + d.Y}
		b.Positions[2*i], b.Positions[2*i+1] = p.X, p.Y

		alpha, size := appearance(p, a, w, u)
		b.Alpha[i] = alpha
		b.Size[i] = size
		for c := 0; c < 3; c++ {
			b.Colors[4*i+c] = float32(set.Colors[4*i+c]) / 255 * alpha
		}
		b.Colors[4*i+3] = alpha
	}
}

// mixInto sets x = x*(1-t) + y*t.
func mixInto(x, y blas32.Vector, t float32) {
	if t == 0 {
		return
	}
	blas32.Scal(1-t, x)
	blas32.Axpy(t, y, x)
}

func grow(s []float32, n int) []float32 {
	if cap(s) < n {
		return make([]float32, n)
	}
	return s[:n]
}

// workChunk represents a range of particles for a worker to process.
type workChunk struct {
	start, end int
	fn         func(start, end int)
}

// workerPool holds persistent goroutines that process chunks.
type workerPool struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool(numWorkers int) *workerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &workerPool{numWorkers: numWorkers}
}

// start launches the worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits [0, n) across the workers and waits for every chunk.
func (p *workerPool) run(n int, fn func(start, end int)) {
	p.start()

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, fn: fn}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
