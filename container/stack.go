package container

import (
	"github.com/hupe1980/memkit/alloc"
)

// Stack is a growable LIFO stack with random access, backed by a Vector.
// The bottom of the stack is index 0.
type Stack[T any, A alloc.Allocator] struct {
	*Vector[T, A]
}

// NewStack returns an empty stack.
func NewStack[T any, A alloc.Allocator](a A, opts ...Option) (*Stack[T, A], error) {
	v, err := NewVector[T](a, opts...)
	if err != nil {
		return nil, err
	}
	return &Stack[T, A]{Vector: v}, nil
}

// Push stores x on top, growing the stack when it is full.
func (s *Stack[T, A]) Push(x T) error {
	return s.PushBack(x)
}

// Pop removes and returns the top element.
func (s *Stack[T, A]) Pop() (T, error) {
	return s.PopBack()
}

// FastPop removes and returns the top element without checks. The caller
// guarantees the stack is not empty.
func (s *Stack[T, A]) FastPop() T {
	var zero T
	s.length--
	p := s.at(s.length)
	x := *p
	*p = zero
	return x
}

// Peek returns the top element without removing it.
func (s *Stack[T, A]) Peek() (T, error) {
	return s.Back()
}
