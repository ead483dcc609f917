package alloc

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/hupe1980/memkit/internal/mem"
)

// Heap is the process-heap strategy. Blocks are 64-byte aligned byte slices
// on the Go heap, so they are always zeroed. Live blocks are tracked by
// address: freeing a block twice, or a block from another strategy, returns
// ErrInvalidBlock.
//
// The zero Heap is ready to use and reports into a package-wide default state.
// Element types must not contain Go pointers: the collector does not scan
// byte-typed memory.
type Heap struct {
	s *heapState
}

type heapState struct {
	mu   sync.Mutex
	cfg  config
	live map[unsafe.Pointer]int // block address -> size
	counters
}

var defaultHeap = newHeapState(config{})

func newHeapState(cfg config) *heapState {
	return &heapState{
		cfg:  cfg,
		live: make(map[unsafe.Pointer]int),
	}
}

// NewHeap creates a Heap with its own counters, block registry and options.
func NewHeap(opts ...Option) Heap {
	return Heap{s: newHeapState(newConfig(opts))}
}

func (h Heap) state() *heapState {
	if h.s == nil {
		return defaultHeap
	}
	return h.s
}

// Allocate implements Allocator.
func (h Heap) Allocate(size int, zero bool) (Block, error) {
	_ = zero // Go heap memory is always zeroed

	st := h.state()
	if size < 0 {
		return Block{}, invalidSize(size)
	}
	if size == 0 {
		return Block{}, nil
	}

	if err := st.cfg.controller.AcquireMemory(int64(size)); err != nil {
		return Block{}, st.fail(size, err)
	}

	data, err := heapAlloc(size)
	if err != nil {
		st.cfg.controller.ReleaseMemory(int64(size))
		return Block{}, st.fail(size, err)
	}

	b := Block{data: data}

	st.mu.Lock()
	st.live[b.Ptr()] = size
	st.mu.Unlock()

	st.onAlloc(size)
	st.cfg.recordAlloc(h.Name(), size, nil)
	return b, nil
}

func (st *heapState) fail(size int, cause error) error {
	err := outOfMemory("heap", size, cause)
	st.onFailure()
	st.cfg.recordAlloc("heap", size, err)
	return err
}

// heapAlloc turns the runtime's recoverable size panics into errors. A true
// exhaustion of the Go heap is fatal to the process and cannot be caught.
func heapAlloc(size int) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			if re, ok := r.(runtime.Error); ok {
				err = re
				return
			}
			err = fmt.Errorf("%v", r)
		}
	}()
	return mem.Alloc(size), nil
}

// Free implements Allocator. Freeing a block twice, or a block that came from
// another strategy, returns ErrInvalidBlock.
func (h Heap) Free(b Block) error {
	if b.IsNil() {
		return nil
	}
	st := h.state()

	st.mu.Lock()
	size, ok := st.live[b.Ptr()]
	if ok && size == b.Len() {
		delete(st.live, b.Ptr())
	}
	st.mu.Unlock()

	if !ok || size != b.Len() {
		return fmt.Errorf("%w: %p is not a live heap block", ErrInvalidBlock, b.Ptr())
	}

	st.cfg.controller.ReleaseMemory(int64(b.Len()))
	st.onFree(b.Len())
	st.cfg.recordFree(h.Name(), b.Len())
	return nil
}

// IsPersistent implements Allocator.
func (Heap) IsPersistent() bool { return false }

// Name implements Allocator.
func (Heap) Name() string { return "heap" }

// Stats returns a snapshot of the heap counters.
func (h Heap) Stats() Stats {
	return h.state().snapshot()
}

// Outstanding returns the number of blocks not yet freed.
func (h Heap) Outstanding() int {
	st := h.state()
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.live)
}
