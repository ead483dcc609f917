// Package arena provides a chunked bump allocator over off-heap memory.
//
// # Concurrency Model
//
// Arena is NOT safe for concurrent use. The pool allocator strategy that owns
// it serializes every call behind its own mutex.
//
// # Memory Management
//
// Arena maps memory in large chunks (1 MiB default) and hands out aligned
// sub-slices by bumping an offset. Individual allocations are never returned to
// the arena; memory goes back to the OS only on Reset (all chunks but the
// first) or Free (everything). Requests larger than a chunk get a dedicated
// chunk of their own.
//
// # Addressing
//
// Every allocation is identified by a global offset:
//
//	GlobalOffset = (ChunkIndex << ChunkBits) | ChunkOffset
//
// Offset 0 is reserved so that it can act as a null handle.
package arena

import (
	"errors"
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/memkit/internal/conv"
	"github.com/hupe1980/memkit/internal/mmap"
)

// MemoryAcquirer is an interface for acquiring memory.
type MemoryAcquirer interface {
	AcquireMemory(amount int64) error
	ReleaseMemory(amount int64)
}

var (
	// ErrMaxChunksExceeded is returned when the arena exceeds the maximum number of chunks.
	ErrMaxChunksExceeded = errors.New("arena: max chunks exceeded")
	// ErrClosed is returned when allocating from an arena after Free.
	ErrClosed = errors.New("arena: closed")
	// ErrStaleOffset is returned for offsets that do not address live arena memory.
	ErrStaleOffset = errors.New("arena: stale offset")
)

const (
	// DefaultChunkSize is the default size of a chunk (1MB).
	DefaultChunkSize = 1024 * 1024
	// DefaultAlignment is the default memory alignment (8 bytes).
	DefaultAlignment = 8
	// MaxChunks limits the number of chunks to prevent excessive memory usage.
	MaxChunks = 65536
)

// Stats tracks arena memory usage metrics.
//
//   - BytesReserved: total memory currently mapped from the OS
//   - BytesUsed: bytes requested by allocations (before alignment)
//   - BytesWasted: padding added for alignment
//   - ActiveChunks: number of chunks currently held
//   - ChunksAllocated, TotalAllocs: cumulative counters, never reset
type Stats struct {
	ChunksAllocated uint64
	BytesReserved   uint64
	BytesUsed       uint64
	BytesWasted     uint64
	ActiveChunks    uint64
	TotalAllocs     uint64
}

type chunk struct {
	mapping *mmap.Mapping
	data    []byte
	offset  int
	index   uint32
}

// Arena is a memory arena allocator.
type Arena struct {
	chunkSize int
	chunkBits int    // Power of 2 exponent for chunk size
	chunkMask uint64 // Mask for offset within chunk
	alignment int
	chunks    []*chunk
	current   *chunk
	stats     Stats
	acquirer  MemoryAcquirer
	logger    *slog.Logger
	closed    bool
}

// Option is a configuration option for Arena.
type Option func(*Arena)

// WithMemoryAcquirer charges every mapped chunk against acquirer.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(a *Arena) {
		a.acquirer = acquirer
	}
}

// WithLogger sets the logger used for chunk lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Arena) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates a new Arena. chunkSize is rounded up to a power of two;
// non-positive values select DefaultChunkSize.
func New(chunkSize int, opts ...Option) (*Arena, error) {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < DefaultAlignment {
		chunkSize = DefaultAlignment
	}

	// 1024 -> Len(1023)=10 -> 1<<10; 1025 -> Len(1024)=11 -> 2048.
	chunkBits := bits.Len(uint(chunkSize - 1)) //nolint:gosec // chunkSize > 0
	chunkSize = 1 << chunkBits
	chunkMask, err := conv.IntToUint64(chunkSize - 1)
	if err != nil {
		return nil, err
	}

	a := &Arena{
		chunkSize: chunkSize,
		chunkBits: chunkBits,
		chunkMask: chunkMask,
		alignment: DefaultAlignment,
		logger:    slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(a)
	}

	if err := a.addChunk(chunkSize, true); err != nil {
		return nil, err
	}
	a.reserveNull()
	return a, nil
}

// reserveNull burns the first aligned slot of chunk 0 so offset 0 is never handed out.
func (a *Arena) reserveNull() {
	a.chunks[0].offset = a.alignment
}

func (a *Arena) addChunk(size int, makeCurrent bool) error {
	idx := len(a.chunks)
	if idx >= MaxChunks {
		return ErrMaxChunksExceeded
	}

	if a.acquirer != nil {
		if err := a.acquirer.AcquireMemory(int64(size)); err != nil {
			return err
		}
	}

	mapping, err := mmap.MapAnon(size)
	if err != nil {
		if a.acquirer != nil {
			a.acquirer.ReleaseMemory(int64(size))
		}
		return fmt.Errorf("arena: failed to map anonymous memory for chunk: %w", err)
	}

	c := &chunk{
		mapping: mapping,
		data:    mapping.Bytes(),
		index:   uint32(idx), //nolint:gosec // idx < MaxChunks
	}
	a.chunks = append(a.chunks, c)
	if makeCurrent {
		a.current = c
	}

	sizeU64 := uint64(size) //nolint:gosec // size > 0
	a.stats.ChunksAllocated++
	a.stats.BytesReserved += sizeU64
	a.stats.ActiveChunks++

	a.logger.Debug("arena chunk mapped",
		"index", idx,
		"size", humanize.IBytes(sizeU64),
		"dedicated", !makeCurrent,
	)
	return nil
}

// Alloc allocates size bytes and returns the global offset and the byte slice.
// The returned slice is NOT zeroed if the memory was handed out before a Reset.
func (a *Arena) Alloc(size int) (uint64, []byte, error) {
	if a.closed {
		return 0, nil, ErrClosed
	}
	if size <= 0 {
		return 0, nil, nil
	}

	alignedSize, err := conv.AlignUp(size, a.alignment)
	if err != nil {
		return 0, nil, err
	}

	if alignedSize > a.chunkSize {
		return a.allocDedicated(size, alignedSize)
	}

	if a.current.offset+alignedSize > len(a.current.data) {
		if err := a.addChunk(a.chunkSize, true); err != nil {
			return 0, nil, err
		}
	}

	c := a.current
	off := c.offset
	c.offset += alignedSize
	a.account(size, alignedSize)

	return a.globalOffset(c, off), c.data[off : off+size : off+alignedSize], nil
}

func (a *Arena) allocDedicated(size, alignedSize int) (uint64, []byte, error) {
	if err := a.addChunk(alignedSize, false); err != nil {
		return 0, nil, err
	}
	c := a.chunks[len(a.chunks)-1]
	c.offset = alignedSize
	a.account(size, alignedSize)

	return a.globalOffset(c, 0), c.data[0:size:alignedSize], nil
}

func (a *Arena) account(size, alignedSize int) {
	a.stats.BytesUsed += uint64(size)                //nolint:gosec // size > 0
	a.stats.BytesWasted += uint64(alignedSize - size) //nolint:gosec // alignedSize >= size
	a.stats.TotalAllocs++
}

func (a *Arena) globalOffset(c *chunk, off int) uint64 {
	return (uint64(c.index) << a.chunkBits) | uint64(off) //nolint:gosec // off < chunkSize
}

// Bytes returns the size bytes at the given global offset.
func (a *Arena) Bytes(offset uint64, size int) ([]byte, error) {
	if a.closed {
		return nil, ErrClosed
	}
	chunkIdx := offset >> a.chunkBits
	chunkOffset := offset & a.chunkMask

	if chunkIdx >= uint64(len(a.chunks)) {
		return nil, ErrStaleOffset
	}
	c := a.chunks[chunkIdx]
	end := chunkOffset + uint64(size) //nolint:gosec // size checked below
	if size < 0 || end > uint64(c.offset) {
		return nil, ErrStaleOffset
	}
	return c.data[chunkOffset:end:end], nil
}

// Stats returns the current arena statistics.
func (a *Arena) Stats() Stats {
	return a.stats
}

// Free unmaps all arena memory. All slices allocated from this arena become
// invalid. The arena cannot be reused afterwards.
func (a *Arena) Free() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for _, c := range a.chunks {
		if err := c.mapping.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if a.acquirer != nil && a.stats.BytesReserved > 0 {
		a.acquirer.ReleaseMemory(int64(a.stats.BytesReserved)) //nolint:gosec // bounded by MaxChunks*chunk size
	}

	a.logger.Debug("arena freed", "chunks", len(a.chunks), "reserved", humanize.IBytes(a.stats.BytesReserved))

	a.chunks = nil
	a.current = nil
	a.stats.ActiveChunks = 0
	a.stats.BytesReserved = 0
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0

	return errors.Join(errs...)
}

// Reset discards all allocations, unmaps every chunk except the first and
// rewinds the first chunk, advising the OS that its pages are no longer
// needed. Slices allocated before Reset become invalid.
func (a *Arena) Reset() error {
	if a.closed {
		return ErrClosed
	}

	var (
		errs     []error
		released uint64
	)
	for _, c := range a.chunks[1:] {
		released += uint64(len(c.data))
		if err := c.mapping.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if a.acquirer != nil && released > 0 {
		a.acquirer.ReleaseMemory(int64(released)) //nolint:gosec // bounded by reserved bytes
	}

	first := a.chunks[0]
	// Hand the rewound pages back to the OS; they fault in again on reuse.
	if err := first.mapping.Advise(mmap.AccessDontNeed); err != nil {
		errs = append(errs, err)
	}
	a.chunks = a.chunks[:1]
	a.current = first
	a.reserveNull()

	a.stats.ActiveChunks = 1
	a.stats.BytesReserved = uint64(len(first.data))
	a.stats.BytesUsed = 0
	a.stats.BytesWasted = 0

	return errors.Join(errs...)
}

// ChunkSize returns the effective (power of two) chunk size.
func (a *Arena) ChunkSize() int {
	return a.chunkSize
}

// Usage returns the memory usage percentage.
func (a *Arena) Usage() float64 {
	if a.stats.BytesReserved == 0 {
		return 0
	}
	return float64(a.stats.BytesUsed) / float64(a.stats.BytesReserved) * 100
}

func (a *Arena) String() string {
	return fmt.Sprintf(
		"Arena{chunks: %d, reserved: %s, used: %s, wasted: %s, usage: %.1f%%, allocs: %d}",
		a.stats.ActiveChunks,
		humanize.IBytes(a.stats.BytesReserved),
		humanize.IBytes(a.stats.BytesUsed),
		humanize.IBytes(a.stats.BytesWasted),
		a.Usage(),
		a.stats.TotalAllocs,
	)
}
