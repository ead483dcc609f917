package alloc

import (
	"sync"
	"unsafe"

	"github.com/hupe1980/memkit/internal/conv"
	"github.com/hupe1980/memkit/internal/mmap"
)

// TaskHeap is the platform task-heap strategy: every block is its own
// anonymous mapping obtained from the operating system, outside the Go heap.
// Mapped pages are zero-filled, and Free unmaps them immediately. Each block
// occupies whole pages; ReservedBytes reports the page-rounded total.
//
// The zero TaskHeap is ready to use and shares a package-wide default state.
type TaskHeap struct {
	s *taskState
}

type taskState struct {
	mu       sync.Mutex
	cfg      config
	live     map[unsafe.Pointer]taskMapping
	reserved uint64
	counters
}

type taskMapping struct {
	m        *mmap.Mapping
	reserved int
}

var defaultTaskHeap = newTaskState(config{})

func newTaskState(cfg config) *taskState {
	return &taskState{
		cfg:  cfg,
		live: make(map[unsafe.Pointer]taskMapping),
	}
}

// NewTaskHeap creates a TaskHeap with its own block registry and options.
func NewTaskHeap(opts ...Option) TaskHeap {
	return TaskHeap{s: newTaskState(newConfig(opts))}
}

func (h TaskHeap) state() *taskState {
	if h.s == nil {
		return defaultTaskHeap
	}
	return h.s
}

// Allocate implements Allocator.
func (h TaskHeap) Allocate(size int, zero bool) (Block, error) {
	_ = zero // anonymous mappings are always zero-filled

	st := h.state()
	if size < 0 {
		return Block{}, invalidSize(size)
	}
	if size == 0 {
		return Block{}, nil
	}

	reserved, err := conv.AlignUp(size, mmap.PageSize())
	if err != nil {
		return Block{}, st.fail(size, err)
	}

	if err := st.cfg.controller.AcquireMemory(int64(size)); err != nil {
		return Block{}, st.fail(size, err)
	}

	m, err := mmap.MapAnon(size)
	if err != nil {
		st.cfg.controller.ReleaseMemory(int64(size))
		return Block{}, st.fail(size, err)
	}

	b := Block{data: m.Bytes()}

	st.mu.Lock()
	st.live[b.Ptr()] = taskMapping{m: m, reserved: reserved}
	st.reserved += uint64(reserved) //nolint:gosec // reserved > 0
	st.mu.Unlock()

	st.onAlloc(size)
	st.cfg.recordAlloc(h.Name(), size, nil)
	return b, nil
}

func (st *taskState) fail(size int, cause error) error {
	err := outOfMemory("taskheap", size, cause)
	st.onFailure()
	st.cfg.recordAlloc("taskheap", size, err)
	return err
}

// Free implements Allocator. Freeing a block twice, or a block that came from
// another strategy, returns ErrInvalidBlock.
func (h TaskHeap) Free(b Block) error {
	if b.IsNil() {
		return nil
	}
	st := h.state()

	st.mu.Lock()
	tm, ok := st.live[b.Ptr()]
	if ok {
		delete(st.live, b.Ptr())
		st.reserved -= uint64(tm.reserved) //nolint:gosec // reserved > 0
	}
	st.mu.Unlock()

	if !ok {
		return ErrInvalidBlock
	}

	size := tm.m.Size()
	if err := tm.m.Close(); err != nil {
		return err
	}
	st.cfg.controller.ReleaseMemory(int64(size))
	st.onFree(size)
	st.cfg.recordFree(h.Name(), size)
	return nil
}

// IsPersistent implements Allocator.
func (TaskHeap) IsPersistent() bool { return false }

// Name implements Allocator.
func (TaskHeap) Name() string { return "taskheap" }

// Stats returns a snapshot of the task heap counters.
func (h TaskHeap) Stats() Stats {
	return h.state().snapshot()
}

// Outstanding returns the number of mappings not yet freed.
func (h TaskHeap) Outstanding() int {
	st := h.state()
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.live)
}

// ReservedBytes returns the page-rounded bytes held by live mappings.
func (h TaskHeap) ReservedBytes() uint64 {
	st := h.state()
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.reserved
}
