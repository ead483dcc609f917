package container

import (
	"math"

	"github.com/hupe1980/memkit/internal/conv"
)

// DefaultGrowthIncrement is the number of elements a vector grows by when it
// runs out of capacity and no other growth policy is configured.
const DefaultGrowthIncrement = 16

// GrowthPolicy returns the next capacity for a container that is full at
// capacity. Results not larger than capacity are bumped to capacity+1.
// The built-in policies saturate at math.MaxInt instead of overflowing.
type GrowthPolicy func(capacity int) int

// LinearGrowth grows by a fixed number of elements.
func LinearGrowth(increment int) GrowthPolicy {
	if increment < 1 {
		increment = DefaultGrowthIncrement
	}
	return func(capacity int) int {
		return saturatingAdd(capacity, increment)
	}
}

// DoublingGrowth doubles the capacity, starting from DefaultGrowthIncrement.
func DoublingGrowth() GrowthPolicy {
	return func(capacity int) int {
		if capacity == 0 {
			return DefaultGrowthIncrement
		}
		return saturatingAdd(capacity, capacity)
	}
}

func saturatingAdd(a, b int) int {
	n, err := conv.AddInt(a, b)
	if err != nil {
		return math.MaxInt
	}
	return n
}

type options struct {
	capacity int
	growth   GrowthPolicy
}

// Option configures a growable container.
type Option func(*options)

// WithCapacity sets the initial capacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithGrowthIncrement selects linear growth by n elements.
func WithGrowthIncrement(n int) Option {
	return func(o *options) {
		o.growth = LinearGrowth(n)
	}
}

// WithDoublingGrowth selects doubling growth.
func WithDoublingGrowth() Option {
	return func(o *options) {
		o.growth = DoublingGrowth()
	}
}

// WithGrowthPolicy sets a custom growth policy.
func WithGrowthPolicy(p GrowthPolicy) Option {
	return func(o *options) {
		if p != nil {
			o.growth = p
		}
	}
}

func newOptions(opts []Option) options {
	o := options{growth: LinearGrowth(DefaultGrowthIncrement)}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) next(capacity int) (int, error) {
	n := o.growth(capacity)
	if n <= capacity {
		return conv.AddInt(capacity, 1)
	}
	return n, nil
}
