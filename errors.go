package memkit

import (
	"errors"

	"github.com/hupe1980/memkit/alloc"
	"github.com/hupe1980/memkit/container"
	"github.com/hupe1980/memkit/raw"
	"github.com/hupe1980/memkit/resource"
)

// Kind is the coarse category of an error returned by this module.
type Kind int

const (
	// KindUnknown is any error not produced by this module, or nil.
	KindUnknown Kind = iota
	// KindOutOfMemory means a strategy could not satisfy an allocation.
	KindOutOfMemory
	// KindOutOfRange means an index or iterator fell outside a container.
	KindOutOfRange
	// KindInvalidState means the operation does not fit the current state:
	// empty container, released container, missing mark, foreign or freed
	// block, closed pool.
	KindInvalidState
	// KindInvalidArgument means an argument can never be valid, such as a
	// negative size or an element type that is not fixed-layout.
	KindInvalidArgument
)

func (k Kind) String() string {
	switch k {
	case KindOutOfMemory:
		return "out of memory"
	case KindOutOfRange:
		return "out of range"
	case KindInvalidState:
		return "invalid state"
	case KindInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindOutOfMemory, []error{alloc.ErrOutOfMemory, resource.ErrMemoryLimitExceeded, resource.ErrRateLimitExceeded}},
	{KindOutOfRange, []error{container.ErrOutOfRange}},
	{KindInvalidState, []error{
		container.ErrEmpty,
		container.ErrReleased,
		container.ErrNoMark,
		alloc.ErrInvalidBlock,
		alloc.ErrClosed,
	}},
	{KindInvalidArgument, []error{raw.ErrNotFixedLayout, container.ErrInvalidSize, alloc.ErrInvalidSize}},
}

// Classify returns the Kind of err, looking through wrapped errors.
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, k := range kinds {
		for _, target := range k.errs {
			if errors.Is(err, target) {
				return k.kind
			}
		}
	}
	return KindUnknown
}
