package filtergraph

// maxPooledBuffers bounds the free list of a graph's buffer pool.
const maxPooledBuffers = 32

// buffer is a refcounted block of pixel memory. The last unref hands it back
// to the pool it came from.
type buffer struct {
	data []byte
	refs int
	pool *bufferPool
}

func (b *buffer) ref() {
	b.refs++
}

func (b *buffer) unref() {
	b.refs--
	if b.refs > 0 {
		return
	}
	if b.pool != nil {
		b.pool.put(b)
	}
}

// PoolStats reports buffer pool usage of a graph.
type PoolStats struct {
	// Allocated counts buffers ever created by the pool.
	Allocated int
	// InUse counts buffers currently referenced by at least one frame.
	InUse int
	// Free counts buffers waiting in the pool for reuse.
	Free int
}

// bufferPool recycles frame buffers inside one graph. Graphs are driven by
// a single goroutine so the pool is not locked.
type bufferPool struct {
	free   []*buffer
	stats  PoolStats
	closed bool
}

func newBufferPool() *bufferPool {
	return &bufferPool{}
}

// get returns a buffer of exactly size bytes with one reference held.
func (p *bufferPool) get(size int) *buffer {
	for i, b := range p.free {
		if cap(b.data) >= size {
			p.free = append(p.free[:i], p.free[i+1:]...)
			b.data = b.data[:size]
			b.refs = 1
			p.stats.Free--
			p.stats.InUse++
			return b
		}
	}

	p.stats.Allocated++
	p.stats.InUse++
	return &buffer{
		data: make([]byte, size),
		refs: 1,
		pool: p,
	}
}

func (p *bufferPool) put(b *buffer) {
	p.stats.InUse--
	if p.closed || len(p.free) >= maxPooledBuffers {
		return
	}
	p.free = append(p.free, b)
	p.stats.Free++
}

// close drops every pooled buffer. Buffers still referenced by frames are
// released to the garbage collector when their last reference goes away.
func (p *bufferPool) close() {
	p.closed = true
	p.free = nil
	p.stats.Free = 0
}
