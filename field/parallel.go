package field

import (
	"math/rand"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/spatial/r3"
)

// workChunk is a range of particle indices for one worker.
type workChunk struct {
	start, end int
	targets    []r3.Vec
	params     stepParams
}

// workerPool runs Step over disjoint index ranges on persistent goroutines.
// Every particle index is independent, so chunks need no coordination beyond
// the completion barrier. Each worker owns its random source.
type workerPool struct {
	numWorkers int
	rngs       []*rand.Rand

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newWorkerPool(numWorkers int, seed *rand.Rand) *workerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	rngs := make([]*rand.Rand, numWorkers)
	for i := range rngs {
		rngs[i] = rand.New(rand.NewSource(seed.Int63()))
	}
	return &workerPool{numWorkers: numWorkers, rngs: rngs}
}

// start launches the workers for f. Calling it again is a no-op.
func (p *workerPool) start(f *Field) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(f, p.rngs[i])
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

func (p *workerPool) worker(f *Field, rng *rand.Rand) {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			f.stepRange(chunk.start, chunk.end, chunk.targets, chunk.params, rng)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits the field into one chunk per worker and blocks until all are done.
func (p *workerPool) run(f *Field, targets []r3.Vec, params stepParams) {
	p.start(f)

	n := len(targets)
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	sent := 0
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		p.workChan <- workChunk{start: start, end: end, targets: targets, params: params}
		sent++
	}
	for i := 0; i < sent; i++ {
		<-p.doneChan
	}
}
