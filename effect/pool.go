package effect

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/sparks/lanes"
)

// defaultParallelThreshold is the minimum group count to use the workers.
// Below this, running inline is faster than the channel round trips.
const defaultParallelThreshold = 64

// workChunk is one block of groups for a worker to process.
type workChunk struct {
	r    lanes.UpdateRange
	fn   func(lanes.UpdateRange)
	done *sync.WaitGroup
}

// Pool runs range work on persistent worker goroutines.
//
// Work is always cut into blocks of a fixed group count, inline or not, so
// a block's result does not depend on how many workers exist.
type Pool struct {
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// NewPool creates a pool. workers <= 0 uses GOMAXPROCS; threshold <= 0
// uses the default.
func NewPool(workers, threshold int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	return &Pool{numWorkers: workers, threshold: threshold}
}

// Workers returns the worker count.
func (p *Pool) Workers() int { return p.numWorkers }

// Run calls fn for each block of r and returns when all blocks are done.
// Blocks are disjoint, so fn may write the groups it is given.
func (p *Pool) Run(r lanes.UpdateRange, blockGroups int, fn func(lanes.UpdateRange)) {
	if r.Empty() {
		return
	}
	if p.numWorkers == 1 || r.Len() < p.threshold {
		for b := range r.Blocks(blockGroups) {
			fn(b)
		}
		return
	}

	if !p.running {
		p.start()
	}

	var done sync.WaitGroup
	for b := range r.Blocks(blockGroups) {
		done.Add(1)
		p.workChan <- workChunk{r: b, fn: fn, done: &done}
	}
	done.Wait()
}

// start launches persistent worker goroutines.
func (p *Pool) start() {
	p.workChan = make(chan workChunk, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for range p.numWorkers {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop signals all workers to exit and waits for them.
func (p *Pool) Stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.fn(chunk.r)
			chunk.done.Done()
		}
	}
}
