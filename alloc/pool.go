package alloc

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/memkit/internal/arena"
	"github.com/hupe1980/memkit/internal/conv"
)

// Pool is the persistent strategy. Blocks are carved from large off-heap
// chunks, and freed blocks go onto exact-size free lists for reuse. The pool's
// memory survives independently of the containers drawing from it and goes
// back to the OS only on Reset or Close.
//
// Live blocks are tracked by handle, so freeing a block twice or freeing a
// block from another allocator returns ErrInvalidBlock instead of corrupting
// the free lists.
//
// Pool must be created with NewPool. Copies share the same pool.
type Pool struct {
	p *pool
}

type pool struct {
	mu     sync.Mutex
	cfg    config
	arena  *arena.Arena
	live   *roaring64.Bitmap
	free   map[int][]uint64 // aligned size -> handles
	gen    uint32
	closed bool
	counters
}

// NewPool maps the first chunk and returns a ready pool.
func NewPool(opts ...Option) (Pool, error) {
	cfg := newConfig(opts)

	arenaOpts := []arena.Option{arena.WithLogger(cfg.logger)}
	if cfg.controller != nil {
		arenaOpts = append(arenaOpts, arena.WithMemoryAcquirer(cfg.controller))
	}

	a, err := arena.New(cfg.chunkSize, arenaOpts...)
	if err != nil {
		return Pool{}, outOfMemory("pool", cfg.chunkSize, err)
	}

	return Pool{p: &pool{
		cfg:   cfg,
		arena: a,
		live:  roaring64.New(),
		free:  make(map[int][]uint64),
	}}, nil
}

func sizeClass(size int) (int, error) {
	return conv.AlignUp(size, arena.DefaultAlignment)
}

// Allocate implements Allocator.
func (p Pool) Allocate(size int, zero bool) (Block, error) {
	if size < 0 {
		return Block{}, invalidSize(size)
	}
	if p.p == nil {
		return Block{}, ErrClosed
	}
	if size == 0 {
		return Block{}, nil
	}

	b, err := p.p.allocate(size, zero)
	if err != nil {
		if errors.Is(err, ErrClosed) {
			return Block{}, err
		}
		err = outOfMemory("pool", size, err)
		p.p.onFailure()
		p.p.cfg.recordAlloc(p.Name(), size, err)
		return Block{}, err
	}

	p.p.onAlloc(size)
	p.p.cfg.recordAlloc(p.Name(), size, nil)
	return b, nil
}

func (p *pool) allocate(size int, zero bool) (Block, error) {
	class, err := sizeClass(size)
	if err != nil {
		return Block{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return Block{}, ErrClosed
	}

	if handles := p.free[class]; len(handles) > 0 {
		handle := handles[len(handles)-1]
		p.free[class] = handles[:len(handles)-1]

		data, err := p.arena.Bytes(handle, size)
		if err != nil {
			return Block{}, err
		}
		if zero {
			clear(data)
		}
		p.live.Add(handle)
		return Block{data: data, handle: handle, gen: p.gen}, nil
	}

	handle, data, err := p.arena.Alloc(size)
	if err != nil {
		return Block{}, err
	}
	if zero {
		// A rewound chunk may keep old contents after Reset.
		clear(data)
	}
	p.live.Add(handle)
	return Block{data: data, handle: handle, gen: p.gen}, nil
}

// Free implements Allocator.
func (p Pool) Free(b Block) error {
	if b.IsNil() {
		return nil
	}
	if p.p == nil {
		return ErrClosed
	}
	if err := p.p.release(b); err != nil {
		return err
	}
	p.p.onFree(b.Len())
	p.p.cfg.recordFree(p.Name(), b.Len())
	return nil
}

func (p *pool) release(b Block) error {
	class, err := sizeClass(b.Len())
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}
	if b.gen != p.gen {
		return fmt.Errorf("%w: handle %d predates pool reset", ErrInvalidBlock, b.handle)
	}
	if !p.live.Contains(b.handle) {
		return fmt.Errorf("%w: handle %d is not live", ErrInvalidBlock, b.handle)
	}
	data, err := p.arena.Bytes(b.handle, b.Len())
	if err != nil || &data[0] != &b.data[0] {
		return fmt.Errorf("%w: handle %d does not belong to this pool", ErrInvalidBlock, b.handle)
	}

	p.live.Remove(b.handle)
	p.free[class] = append(p.free[class], b.handle)
	return nil
}

// IsPersistent implements Allocator.
func (Pool) IsPersistent() bool { return true }

// Name implements Allocator.
func (Pool) Name() string { return "pool" }

// Stats returns a snapshot of the pool counters.
func (p Pool) Stats() Stats {
	if p.p == nil {
		return Stats{}
	}
	return p.p.snapshot()
}

// LiveBlocks returns the number of blocks handed out and not yet freed.
func (p Pool) LiveBlocks() uint64 {
	if p.p == nil {
		return 0
	}
	p.p.mu.Lock()
	defer p.p.mu.Unlock()
	return p.p.live.GetCardinality()
}

// ReservedBytes returns the bytes currently mapped from the OS.
func (p Pool) ReservedBytes() uint64 {
	if p.p == nil {
		return 0
	}
	p.p.mu.Lock()
	defer p.p.mu.Unlock()
	return p.p.arena.Stats().BytesReserved
}

// Reset invalidates every block handed out so far and unmaps all chunks but
// the first. Containers still holding pool blocks must not be used afterwards.
func (p Pool) Reset() error {
	if p.p == nil {
		return ErrClosed
	}
	p.p.mu.Lock()
	defer p.p.mu.Unlock()

	if p.p.closed {
		return ErrClosed
	}
	dropped := p.p.live.GetCardinality()
	p.p.live.Clear()
	p.p.free = make(map[int][]uint64)
	p.p.gen++
	p.p.logger().Debug("pool reset", "dropped_blocks", dropped)
	return p.p.arena.Reset()
}

// Close unmaps all pool memory. It is idempotent.
func (p Pool) Close() error {
	if p.p == nil {
		return nil
	}
	p.p.mu.Lock()
	defer p.p.mu.Unlock()

	if p.p.closed {
		return nil
	}
	p.p.closed = true
	p.p.live.Clear()
	p.p.free = nil
	return p.p.arena.Free()
}

func (p Pool) String() string {
	if p.p == nil {
		return "Pool{closed}"
	}
	p.p.mu.Lock()
	defer p.p.mu.Unlock()
	return fmt.Sprintf("Pool{%s, %s}", p.p.snapshot(), p.p.arena)
}

func (p *pool) logger() *slog.Logger {
	if p.cfg.logger != nil {
		return p.cfg.logger
	}
	return slog.New(slog.DiscardHandler)
}
