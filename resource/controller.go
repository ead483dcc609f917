// Package resource implements a fail-fast budget for allocator strategies.
//
// A Controller caps how many bytes may be live at once (a weighted semaphore)
// and, optionally, how many bytes may be requested per second (a token
// bucket). Both checks are non-blocking: allocation paths never wait, they
// fail immediately and let the caller decide.
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//	heap := alloc.NewHeap(alloc.WithController(rc))
//
// All methods are safe for concurrent use, and all methods treat a nil
// *Controller as "unlimited".
package resource

import (
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

var (
	// ErrMemoryLimitExceeded is returned when memory limit would be exceeded.
	ErrMemoryLimitExceeded = errors.New("memory limit exceeded")
	// ErrRateLimitExceeded is returned when the allocation byte rate would be exceeded.
	ErrRateLimitExceeded = errors.New("allocation rate exceeded")
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for live allocated bytes.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// AllocBytesPerSec caps the sustained allocation rate.
	// If 0, unlimited.
	AllocBytesPerSec int64

	// AllocBurstBytes is the token bucket size for AllocBytesPerSec.
	// If 0, it defaults to AllocBytesPerSec.
	AllocBurstBytes int64
}

// Controller tracks and limits memory handed out by allocator strategies.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64
	peak    atomic.Int64

	allocLimiter *rate.Limiter // nil if unlimited
	now          func() time.Time
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	c := &Controller{
		cfg: cfg,
		now: time.Now,
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.AllocBytesPerSec > 0 {
		burst := cfg.AllocBurstBytes
		if burst <= 0 {
			burst = cfg.AllocBytesPerSec
		}
		c.allocLimiter = rate.NewLimiter(rate.Limit(cfg.AllocBytesPerSec), int(burst))
	}

	return c
}

// AcquireMemory reserves bytes against the budget.
// Returns ErrRateLimitExceeded or ErrMemoryLimitExceeded without blocking.
func (c *Controller) AcquireMemory(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.allocLimiter != nil && !c.allocLimiter.AllowN(c.now(), int(bytes)) {
		return ErrRateLimitExceeded
	}

	if c.memSem != nil && !c.memSem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}

	used := c.memUsed.Add(bytes)
	for {
		peak := c.peak.Load()
		if used <= peak || c.peak.CompareAndSwap(peak, used) {
			break
		}
	}
	return nil
}

// ReleaseMemory returns bytes to the budget.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// PeakMemoryUsage returns the highest observed memory usage in bytes.
func (c *Controller) PeakMemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.peak.Load()
}

// MemoryLimit returns the configured memory limit in bytes (0 if unlimited).
func (c *Controller) MemoryLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MemoryLimitBytes
}
