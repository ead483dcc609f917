package container

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is matched by every *RangeError.
	ErrOutOfRange = errors.New("container: index out of range")
	// ErrEmpty is returned when reading from or popping an empty container.
	ErrEmpty = errors.New("container: empty")
	// ErrReleased is returned when using a container after Release.
	ErrReleased = errors.New("container: released")
	// ErrNoMark is returned by UnmarkPoint when no mark is set.
	ErrNoMark = errors.New("container: no mark")
	// ErrInvalidSize is returned for negative sizes and capacities.
	ErrInvalidSize = errors.New("container: invalid size")
)

// RangeError reports an index outside the valid range of a container.
type RangeError struct {
	Op    string
	Index int
	Len   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("container: %s: index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

// Unwrap returns ErrOutOfRange.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }

func rangeError(op string, index, length int) error {
	return &RangeError{Op: op, Index: index, Len: length}
}

func invalidSize(op string, n int) error {
	return fmt.Errorf("%w: %s: %d", ErrInvalidSize, op, n)
}
