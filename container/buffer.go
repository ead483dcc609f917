package container

import (
	"fmt"
	"iter"
	"runtime"
	"slices"

	"github.com/hupe1980/memkit/alloc"
	"github.com/hupe1980/memkit/raw"
)

// buffer owns one strategy block viewed as an array of capacity T values,
// of which the first length are live. It carries the read and disposal API
// shared by Array and Vector.
type buffer[T any, A alloc.Allocator] struct {
	alloc    A
	block    alloc.Block
	ptr      *T
	capacity int
	length   int
	cleanup  runtime.Cleanup
	released bool
}

type ownedBlock[A alloc.Allocator] struct {
	alloc A
	block alloc.Block
}

func freeOwned[A alloc.Allocator](o ownedBlock[A]) {
	_ = o.alloc.Free(o.block)
}

// bind makes b, sized for n elements, the backing block of buf and arms the
// cleanup that frees it once owner is unreachable. The previous block, if
// any, is left to the caller.
func bind[O any, T any, A alloc.Allocator](owner *O, buf *buffer[T, A], b alloc.Block, n int) {
	buf.cleanup.Stop()
	buf.cleanup = runtime.Cleanup{}
	buf.block = b
	buf.ptr = (*T)(b.Ptr())
	buf.capacity = n
	if !b.IsNil() {
		buf.cleanup = runtime.AddCleanup(owner, freeOwned[A], ownedBlock[A]{alloc: buf.alloc, block: b})
	}
}

func (b *buffer[T, A]) at(i int) *T {
	return raw.IteratorAt(b.ptr).Advance(i).Ptr()
}

// slots returns the first n slots of the block as a slice.
func (b *buffer[T, A]) slots(n int) []T {
	return raw.NewDescriptor(b.ptr, n).Slice()
}

func (b *buffer[T, A]) live() error {
	if b.released {
		return ErrReleased
	}
	return nil
}

// Len returns the number of live elements.
func (b *buffer[T, A]) Len() int { return b.length }

// IsEmpty reports whether Len is zero.
func (b *buffer[T, A]) IsEmpty() bool { return b.length == 0 }

// Released reports whether Release has been called.
func (b *buffer[T, A]) Released() bool { return b.released }

// Allocator returns the strategy the container draws from.
func (b *buffer[T, A]) Allocator() A { return b.alloc }

// At returns the element at i.
func (b *buffer[T, A]) At(i int) (T, error) {
	if i < 0 || i >= b.length {
		var zero T
		return zero, rangeError("at", i, b.length)
	}
	return *b.at(i), nil
}

// Set overwrites the element at i.
func (b *buffer[T, A]) Set(i int, v T) error {
	if i < 0 || i >= b.length {
		return rangeError("set", i, b.length)
	}
	*b.at(i) = v
	return nil
}

// UncheckedAt returns a pointer to the element at i without a range check.
// The caller guarantees 0 <= i < Len().
func (b *buffer[T, A]) UncheckedAt(i int) *T {
	return b.at(i)
}

// AsDescriptor returns a non-owning view of the live elements.
func (b *buffer[T, A]) AsDescriptor() raw.Descriptor[T] {
	return raw.NewDescriptor(b.ptr, b.length)
}

// ToSlice returns a Go-heap copy of the live elements.
func (b *buffer[T, A]) ToSlice() []T {
	return slices.Clone(b.slots(b.length))
}

// All yields index/value pairs of the live elements.
func (b *buffer[T, A]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i := 0; i < b.length; i++ {
			if !yield(i, *b.at(i)) {
				return
			}
		}
	}
}

// Begin returns an iterator to the first element.
func (b *buffer[T, A]) Begin() raw.Iterator[T] { return b.AsDescriptor().Begin() }

// End returns an iterator one past the last element.
func (b *buffer[T, A]) End() raw.Iterator[T] { return b.AsDescriptor().End() }

// RBegin returns a reverse iterator to the last element.
func (b *buffer[T, A]) RBegin() raw.ReverseIterator[T] { return b.AsDescriptor().RBegin() }

// REnd returns a reverse iterator one before the first element.
func (b *buffer[T, A]) REnd() raw.ReverseIterator[T] { return b.AsDescriptor().REnd() }

func (b *buffer[T, A]) CBegin() raw.ConstIterator[T] { return b.AsDescriptor().CBegin() }

func (b *buffer[T, A]) CEnd() raw.ConstIterator[T] { return b.AsDescriptor().CEnd() }

func (b *buffer[T, A]) CRBegin() raw.ConstReverseIterator[T] { return b.AsDescriptor().CRBegin() }

func (b *buffer[T, A]) CREnd() raw.ConstReverseIterator[T] { return b.AsDescriptor().CREnd() }

// Release returns the backing block to the strategy. Calling it again
// returns ErrReleased.
func (b *buffer[T, A]) Release() error {
	if b.released {
		return ErrReleased
	}
	b.cleanup.Stop()
	block := b.block
	b.cleanup = runtime.Cleanup{}
	b.block = alloc.Block{}
	b.ptr = nil
	b.capacity, b.length = 0, 0
	b.released = true

	if err := b.alloc.Free(block); err != nil {
		return fmt.Errorf("container: release: %w", err)
	}
	return nil
}
