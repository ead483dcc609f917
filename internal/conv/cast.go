package conv

import (
	"errors"
	"fmt"
	"math"
)

// ErrOverflow is returned when a size computation does not fit in an int.
var ErrOverflow = errors.New("integer overflow")

// IntToUint64 converts int to uint64 safely.
func IntToUint64(v int) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: %d cannot be converted to uint64 (negative)", ErrOverflow, v)
	}
	return uint64(v), nil
}

// AddInt adds a and b, failing when the result would overflow int.
func AddInt(a, b int) (int, error) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	case b < 0 && a < math.MinInt-b:
		return 0, fmt.Errorf("%w: %d + %d", ErrOverflow, a, b)
	default:
		return a + b, nil
	}
}

// ByteSize returns count*elemSize. Both operands must be non-negative.
func ByteSize(count int, elemSize uintptr) (int, error) {
	if count < 0 {
		return 0, fmt.Errorf("%w: negative element count %d", ErrOverflow, count)
	}
	if elemSize > uintptr(math.MaxInt) {
		return 0, fmt.Errorf("%w: element size %d", ErrOverflow, elemSize)
	}
	size := int(elemSize)
	if count == 0 || size == 0 {
		return 0, nil
	}
	if count > math.MaxInt/size {
		return 0, fmt.Errorf("%w: %d elements of %d bytes", ErrOverflow, count, size)
	}
	return count * size, nil
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
func AlignUp(n, align int) (int, error) {
	mask := align - 1
	if n > math.MaxInt-mask {
		return 0, fmt.Errorf("%w: align %d to %d", ErrOverflow, n, align)
	}
	return (n + mask) &^ mask, nil
}
