package postprocess

import (
	"sync"
)

// scratch is the working memory used by a single post process run
type scratch struct {
	// set tracks the best candidates found during decode
	set CandidateSet
	// tmp is the per class NMS buffer
	tmp [MaxBoxNum]BoundingBox
}

// scratchPool hands out scratch memory so concurrent runs do not share state
// and repeated runs do not allocate
type scratchPool struct {
	pool sync.Pool
}

// newScratchPool returns an empty scratchPool
func newScratchPool() *scratchPool {
	p := &scratchPool{}

	p.pool.New = func() any {
		return &scratch{}
	}

	return p
}

// Get returns reset scratch memory from the pool
func (p *scratchPool) Get() *scratch {
	s := p.pool.Get().(*scratch)
	s.set.Reset()
	return s
}

// Put returns scratch memory to the pool
func (p *scratchPool) Put(s *scratch) {
	p.pool.Put(s)
}
