package container

import (
	"fmt"

	"github.com/hupe1980/memkit/alloc"
	"github.com/hupe1980/memkit/raw"
)

// Vector is a growable array whose storage comes from an allocation
// strategy. It owns a single block; growing replaces that block wholesale,
// which invalidates every iterator and descriptor taken before.
//
// A failed allocation leaves the vector unchanged. If growth succeeds but the
// previous block cannot be freed, the vector keeps the new block and capacity
// and the free error is returned. The element being added is not written.
type Vector[T any, A alloc.Allocator] struct {
	buffer[T, A]
	opts options
}

// NewVector returns an empty vector. Without WithCapacity no memory is
// allocated until the first append.
func NewVector[T any, A alloc.Allocator](a A, opts ...Option) (*Vector[T, A], error) {
	if err := raw.CheckLayout[T](); err != nil {
		return nil, err
	}

	v := &Vector[T, A]{
		buffer: buffer[T, A]{alloc: a},
		opts:   newOptions(opts),
	}
	if v.opts.capacity < 0 {
		return nil, invalidSize("new vector", v.opts.capacity)
	}
	if v.opts.capacity > 0 {
		if err := v.reallocate(v.opts.capacity); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// NewVectorFrom returns a vector holding a copy of src.
func NewVectorFrom[T any, A alloc.Allocator](a A, src []T, opts ...Option) (*Vector[T, A], error) {
	return NewVectorFromDescriptor(a, raw.FromSlice(src), opts...)
}

// NewVectorFromDescriptor returns a vector holding a copy of the elements
// described by d. The capacity is at least d.Len().
func NewVectorFromDescriptor[T any, A alloc.Allocator](a A, d raw.Descriptor[T], opts ...Option) (*Vector[T, A], error) {
	v, err := NewVector[T](a, opts...)
	if err != nil {
		return nil, err
	}
	if err := v.Reserve(d.Len()); err != nil {
		_ = v.Release()
		return nil, err
	}
	v.length = raw.Copy(raw.NewDescriptor(v.ptr, v.capacity), d)
	return v, nil
}

// AdoptVector takes ownership of b, which must come from a, holding size
// live elements. The capacity is the number of whole elements in b.
func AdoptVector[T any, A alloc.Allocator](a A, b alloc.Block, size int, opts ...Option) (*Vector[T, A], error) {
	if err := raw.CheckLayout[T](); err != nil {
		return nil, err
	}
	capacity := alloc.Elements[T](b)
	if size < 0 || size > capacity {
		return nil, rangeError("adopt", size, capacity+1)
	}

	v := &Vector[T, A]{
		buffer: buffer[T, A]{alloc: a},
		opts:   newOptions(opts),
	}
	bind(v, &v.buffer, b, capacity)
	v.length = size
	return v, nil
}

// Cap returns the number of elements the vector holds without growing.
func (v *Vector[T, A]) Cap() int { return v.capacity }

// reallocate moves the live elements into a fresh block of n elements and
// frees the old one. The slots past the live elements are zeroed. An error
// from freeing the old block is returned after the vector has moved.
func (v *Vector[T, A]) reallocate(n int) error {
	b, err := alloc.AllocateN[T](v.alloc, n, false)
	if err != nil {
		return fmt.Errorf("container: grow to %d elements: %w", n, err)
	}

	next := raw.FromPointer[T](b.Ptr(), n)
	raw.Copy(next, v.AsDescriptor())
	raw.Clear(next.Sub(v.length, n))

	old := v.block
	bind(v, &v.buffer, b, n)
	if err := v.alloc.Free(old); err != nil {
		return fmt.Errorf("container: free previous block: %w", err)
	}
	return nil
}

// ensureSpare grows the vector when it is full.
func (v *Vector[T, A]) ensureSpare() error {
	if v.length < v.capacity {
		return nil
	}
	n, err := v.opts.next(v.capacity)
	if err != nil {
		return fmt.Errorf("container: grow past %d elements: %w: %w", v.capacity, alloc.ErrOutOfMemory, err)
	}
	return v.reallocate(n)
}

// PushBack appends x, growing the vector when Len() == Cap().
func (v *Vector[T, A]) PushBack(x T) error {
	if err := v.live(); err != nil {
		return err
	}
	if err := v.ensureSpare(); err != nil {
		return err
	}
	*v.at(v.length) = x
	v.length++
	return nil
}

// PopBack removes and returns the last element. The vacated slot is zeroed.
func (v *Vector[T, A]) PopBack() (T, error) {
	var zero T
	if err := v.live(); err != nil {
		return zero, err
	}
	if v.length == 0 {
		return zero, ErrEmpty
	}
	v.length--
	p := v.at(v.length)
	x := *p
	*p = zero
	return x, nil
}

// Front returns the first element.
func (v *Vector[T, A]) Front() (T, error) {
	var zero T
	if err := v.live(); err != nil {
		return zero, err
	}
	if v.length == 0 {
		return zero, ErrEmpty
	}
	return *v.at(0), nil
}

// Back returns the last element.
func (v *Vector[T, A]) Back() (T, error) {
	var zero T
	if err := v.live(); err != nil {
		return zero, err
	}
	if v.length == 0 {
		return zero, ErrEmpty
	}
	return *v.at(v.length - 1), nil
}

// Insert places x at index i, shifting [i, Len()) one slot toward the tail.
// An index outside [0, Len()) appends instead.
func (v *Vector[T, A]) Insert(i int, x T) error {
	if i < 0 || i >= v.length {
		return v.PushBack(x)
	}
	if err := v.ensureSpare(); err != nil {
		return err
	}
	insertAt(v.slots(v.length+1), i, x)
	v.length++
	return nil
}

// RemoveAt removes the element at i, shifting the tail one slot toward the
// head. It reports false when i is outside [0, Len()), which is always the
// case after Release.
func (v *Vector[T, A]) RemoveAt(i int) bool {
	if i < 0 || i >= v.length {
		return false
	}
	v.length = eraseRange(v.slots(v.length), i, i+1)
	return true
}

// Erase removes the elements in [first, last). Reversed bounds are swapped.
// Both iterators must lie within [Begin(), End()]; otherwise a *RangeError
// is returned and nothing changes.
func (v *Vector[T, A]) Erase(first, last raw.Iterator[T]) error {
	if err := v.live(); err != nil {
		return err
	}
	if last.Less(first) {
		first, last = last, first
	}

	begin, end := v.Begin(), v.End()
	if first.Less(begin) || end.Less(first) {
		return rangeError("erase", begin.Distance(first), v.length+1)
	}
	if last.Less(begin) || end.Less(last) {
		return rangeError("erase", begin.Distance(last), v.length+1)
	}

	v.length = eraseRange(v.slots(v.length), begin.Distance(first), begin.Distance(last))
	return nil
}

// EraseAt removes the element it addresses, which must lie within
// [Begin(), End()).
func (v *Vector[T, A]) EraseAt(it raw.Iterator[T]) error {
	if err := v.live(); err != nil {
		return err
	}
	begin, end := v.Begin(), v.End()
	if it.Less(begin) || !it.Less(end) {
		return rangeError("erase", begin.Distance(it), v.length)
	}
	return v.Erase(it, it.Next())
}

// Clear zeroes and drops every element. The capacity is kept. Clear does
// nothing after Release.
func (v *Vector[T, A]) Clear() {
	clear(v.slots(v.length))
	v.length = 0
}

// truncate drops the elements from n on.
func (v *Vector[T, A]) truncate(n int) {
	clear(v.slots(v.length)[n:])
	v.length = n
}

// Reserve grows the capacity to at least n elements.
func (v *Vector[T, A]) Reserve(n int) error {
	if err := v.live(); err != nil {
		return err
	}
	if n < 0 {
		return invalidSize("reserve", n)
	}
	if n <= v.capacity {
		return nil
	}
	return v.reallocate(n)
}

// ShrinkToFit reallocates so that Cap() == Len().
func (v *Vector[T, A]) ShrinkToFit() error {
	if err := v.live(); err != nil {
		return err
	}
	if v.capacity == v.length {
		return nil
	}
	return v.reallocate(v.length)
}

// Clone returns an independent vector with the same elements, capacity and
// growth policy, drawing from the same strategy.
func (v *Vector[T, A]) Clone() (*Vector[T, A], error) {
	if err := v.live(); err != nil {
		return nil, err
	}
	return NewVectorFromDescriptor(v.alloc, v.AsDescriptor(),
		WithCapacity(v.capacity), WithGrowthPolicy(v.opts.growth))
}
