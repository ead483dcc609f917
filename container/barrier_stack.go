package container

import (
	"errors"

	"github.com/hupe1980/memkit/alloc"
)

// BarrierStack is a Stack that can record marks: saved stack sizes that
// later calls unwind to. Marks live on their own stack drawn from the same
// strategy.
type BarrierStack[T any, A alloc.Allocator] struct {
	*Stack[T, A]
	marks *Stack[int, A]
}

// NewBarrierStack returns an empty barrier stack. The options apply to the
// element stack.
func NewBarrierStack[T any, A alloc.Allocator](a A, opts ...Option) (*BarrierStack[T, A], error) {
	s, err := NewStack[T](a, opts...)
	if err != nil {
		return nil, err
	}
	marks, err := NewStack[int](a)
	if err != nil {
		_ = s.Release()
		return nil, err
	}
	return &BarrierStack[T, A]{Stack: s, marks: marks}, nil
}

// MarkPoint records the current size as a mark.
func (s *BarrierStack[T, A]) MarkPoint() error {
	if err := s.live(); err != nil {
		return err
	}
	return s.marks.Push(s.Len())
}

// UnmarkPoint drops the most recent mark without touching the elements.
func (s *BarrierStack[T, A]) UnmarkPoint() error {
	if _, err := s.popMark(); err != nil {
		return err
	}
	return nil
}

// Marks returns the number of recorded marks.
func (s *BarrierStack[T, A]) Marks() int {
	return s.marks.Len()
}

func (s *BarrierStack[T, A]) popMark() (int, error) {
	if err := s.live(); err != nil {
		return 0, err
	}
	m, err := s.marks.Pop()
	if errors.Is(err, ErrEmpty) {
		return 0, ErrNoMark
	}
	return m, err
}

// RemoveSinceMark pops the most recent mark and discards every element
// pushed after it. Without a mark the whole stack is cleared.
func (s *BarrierStack[T, A]) RemoveSinceMark() error {
	m, err := s.popMark()
	switch {
	case errors.Is(err, ErrNoMark):
		s.Clear()
		return nil
	case err != nil:
		return err
	}
	for s.Len() > m {
		s.FastPop()
	}
	return nil
}

// PopSinceMark pops the most recent mark and returns the elements pushed
// after it, bottom first, removing them from the stack. A mark above the
// current size is skipped in favor of the next older one. When no usable
// mark remains the whole stack is drained.
func (s *BarrierStack[T, A]) PopSinceMark() ([]T, error) {
	for {
		m, err := s.popMark()
		switch {
		case errors.Is(err, ErrNoMark):
			m = 0
		case err != nil:
			return nil, err
		case m > s.Len():
			continue
		}

		out := make([]T, s.Len()-m)
		copy(out, s.slots(s.Len())[m:])
		s.truncate(m)
		return out, nil
	}
}

// Release frees the element and mark storage.
func (s *BarrierStack[T, A]) Release() error {
	return errors.Join(s.Stack.Release(), s.marks.Release())
}
