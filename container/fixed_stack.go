package container

import (
	"slices"

	"github.com/hupe1980/memkit/alloc"
)

// FixedStack is a stack of fixed capacity over an Array. Push and Pop do
// not check bounds; pushing onto a full stack or popping an empty one is a
// programming error with undefined results. TryPop and Peek are the checked
// alternatives.
type FixedStack[T any, A alloc.Allocator] struct {
	arr  *Array[T, A]
	size int
}

// NewFixedStack allocates a stack holding at most capacity elements.
func NewFixedStack[T any, A alloc.Allocator](a A, capacity int) (*FixedStack[T, A], error) {
	arr, err := NewArray[T](a, capacity, true)
	if err != nil {
		return nil, err
	}
	return &FixedStack[T, A]{arr: arr}, nil
}

// Push stores x on top. The caller guarantees Len() < Cap().
func (s *FixedStack[T, A]) Push(x T) {
	*s.arr.at(s.size) = x
	s.size++
}

// Pop removes and returns the top element and zeroes its slot. The caller
// guarantees Len() > 0.
func (s *FixedStack[T, A]) Pop() T {
	var zero T
	s.size--
	p := s.arr.at(s.size)
	x := *p
	*p = zero
	return x
}

// TryPop is Pop with an ErrEmpty check.
func (s *FixedStack[T, A]) TryPop() (T, error) {
	if err := s.arr.live(); err != nil {
		var zero T
		return zero, err
	}
	if s.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return s.Pop(), nil
}

// Peek returns the top element without removing it.
func (s *FixedStack[T, A]) Peek() (T, error) {
	if err := s.arr.live(); err != nil {
		var zero T
		return zero, err
	}
	if s.size == 0 {
		var zero T
		return zero, ErrEmpty
	}
	return *s.arr.at(s.size - 1), nil
}

// Clear zeroes and drops every element.
func (s *FixedStack[T, A]) Clear() {
	clear(s.arr.slots(s.size))
	s.size = 0
}

// Len returns the number of elements on the stack.
func (s *FixedStack[T, A]) Len() int { return s.size }

// Cap returns the fixed capacity.
func (s *FixedStack[T, A]) Cap() int { return s.arr.Len() }

// IsEmpty reports whether the stack holds no elements.
func (s *FixedStack[T, A]) IsEmpty() bool { return s.size == 0 }

// IsFull reports whether Push would overflow.
func (s *FixedStack[T, A]) IsFull() bool { return s.size == s.arr.Len() }

// ToSlice returns a Go-heap copy of the elements, bottom first.
func (s *FixedStack[T, A]) ToSlice() []T {
	return slices.Clone(s.arr.slots(s.size))
}

// Release frees the backing array.
func (s *FixedStack[T, A]) Release() error {
	s.size = 0
	return s.arr.Release()
}
