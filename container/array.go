package container

import (
	"fmt"

	"github.com/hupe1980/memkit/alloc"
	"github.com/hupe1980/memkit/raw"
)

// Array is a fixed-length array whose storage comes from an allocation
// strategy. Its length is set at construction and never changes.
type Array[T any, A alloc.Allocator] struct {
	buffer[T, A]
}

// NewArray allocates an array of n elements. When zero is false the
// initial contents are whatever the strategy hands out.
func NewArray[T any, A alloc.Allocator](a A, n int, zero bool) (*Array[T, A], error) {
	if err := raw.CheckLayout[T](); err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, invalidSize("new array", n)
	}

	b, err := alloc.AllocateN[T](a, n, zero)
	if err != nil {
		return nil, fmt.Errorf("container: new array of %d: %w", n, err)
	}
	return adoptArray[T](a, b, n), nil
}

// NewArrayFrom allocates an array holding a copy of src.
func NewArrayFrom[T any, A alloc.Allocator](a A, src []T) (*Array[T, A], error) {
	return NewArrayFromDescriptor(a, raw.FromSlice(src))
}

// NewArrayFromDescriptor allocates an array holding a copy of the elements
// described by d.
func NewArrayFromDescriptor[T any, A alloc.Allocator](a A, d raw.Descriptor[T]) (*Array[T, A], error) {
	arr, err := NewArray[T](a, d.Len(), false)
	if err != nil {
		return nil, err
	}
	raw.Copy(arr.AsDescriptor(), d)
	return arr, nil
}

// AdoptArray takes ownership of b, which must come from a. The array spans
// as many whole elements as fit in the block.
func AdoptArray[T any, A alloc.Allocator](a A, b alloc.Block) (*Array[T, A], error) {
	if err := raw.CheckLayout[T](); err != nil {
		return nil, err
	}
	return adoptArray[T](a, b, alloc.Elements[T](b)), nil
}

func adoptArray[T any, A alloc.Allocator](a A, b alloc.Block, n int) *Array[T, A] {
	arr := &Array[T, A]{buffer: buffer[T, A]{alloc: a}}
	bind(arr, &arr.buffer, b, n)
	arr.length = n
	return arr
}

// Fill sets every element to v.
func (a *Array[T, A]) Fill(v T) {
	raw.Fill(a.AsDescriptor(), v)
}

// Equal reports whether a and o share the same storage.
func (a *Array[T, A]) Equal(o *Array[T, A]) bool {
	return a.AsDescriptor().Equal(o.AsDescriptor())
}
