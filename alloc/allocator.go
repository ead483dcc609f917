package alloc

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/hupe1980/memkit/internal/conv"
)

var (
	// ErrOutOfMemory is returned when a strategy cannot satisfy a request.
	ErrOutOfMemory = errors.New("alloc: out of memory")
	// ErrInvalidBlock is returned when freeing a block the strategy does not own
	// (double free or a block from another allocator).
	ErrInvalidBlock = errors.New("alloc: invalid block")
	// ErrInvalidSize is returned for negative allocation sizes.
	ErrInvalidSize = errors.New("alloc: invalid size")
	// ErrClosed is returned when using a pool after Close.
	ErrClosed = errors.New("alloc: allocator closed")
)

// Allocator is a source and sink of raw memory blocks.
type Allocator interface {
	// Allocate returns a block of size bytes. When zero is true every byte is
	// zero on return. A zero size yields the null block.
	Allocate(size int, zero bool) (Block, error)

	// Free releases a block previously returned by the same strategy.
	// Freeing the null block is a no-op.
	Free(b Block) error

	// IsPersistent reports whether memory outlives the containers using it.
	IsPersistent() bool

	// Name identifies the strategy in logs and metrics.
	Name() string
}

// Compile time checks.
var (
	_ Allocator = Heap{}
	_ Allocator = TaskHeap{}
	_ Allocator = Pool{}
)

// Block is an owned allocation. The zero Block is the null block.
//
// A Block is a handle, not a container: copying it does not copy memory, and
// exactly one copy must eventually be passed to Free.
type Block struct {
	data   []byte
	handle uint64 // strategy specific (pool offset)
	gen    uint32 // pool generation, bumped by Reset
}

// Ptr returns the address of the first byte, or nil for the null block.
func (b Block) Ptr() unsafe.Pointer {
	if len(b.data) == 0 {
		return nil
	}
	return unsafe.Pointer(&b.data[0]) //nolint:gosec // blocks are raw memory by definition
}

// Len returns the block size in bytes.
func (b Block) Len() int {
	return len(b.data)
}

// IsNil reports whether b is the null block.
func (b Block) IsNil() bool {
	return len(b.data) == 0
}

// Bytes returns the block memory. The slice aliases the block.
func (b Block) Bytes() []byte {
	return b.data
}

// AllocateN allocates room for n elements of type T.
func AllocateN[T any, A Allocator](a A, n int, zero bool) (Block, error) {
	var elem T
	size, err := conv.ByteSize(n, unsafe.Sizeof(elem))
	if err != nil {
		if n < 0 {
			return Block{}, fmt.Errorf("%w: %w", ErrInvalidSize, err)
		}
		return Block{}, fmt.Errorf("%w: %s: %w", ErrOutOfMemory, a.Name(), err)
	}
	return a.Allocate(size, zero)
}

// Elements returns how many T fit in b.
func Elements[T any](b Block) int {
	var elem T
	size := int(unsafe.Sizeof(elem))
	if size == 0 {
		return 0
	}
	return b.Len() / size
}

func outOfMemory(strategy string, size int, cause error) error {
	return fmt.Errorf("%w: %s: %d bytes: %w", ErrOutOfMemory, strategy, size, cause)
}

func invalidSize(size int) error {
	return fmt.Errorf("%w: %d", ErrInvalidSize, size)
}
