package alloc

import (
	"fmt"
	"sync/atomic"

	"github.com/dustin/go-humanize"
)

// Stats is a snapshot of a strategy's counters.
type Stats struct {
	Allocs    uint64 // successful allocations
	Frees     uint64 // successful frees
	Failures  uint64 // failed allocations
	LiveBytes int64  // bytes currently allocated
	PeakBytes int64  // highest LiveBytes observed
}

// LiveBlocks returns the number of blocks allocated but not yet freed.
func (s Stats) LiveBlocks() uint64 {
	return s.Allocs - s.Frees
}

func (s Stats) String() string {
	return fmt.Sprintf("allocs=%d frees=%d failures=%d live=%s peak=%s",
		s.Allocs, s.Frees, s.Failures,
		humanize.IBytes(uint64(max(s.LiveBytes, 0))),
		humanize.IBytes(uint64(max(s.PeakBytes, 0))),
	)
}

type counters struct {
	allocs   atomic.Uint64
	frees    atomic.Uint64
	failures atomic.Uint64
	live     atomic.Int64
	peak     atomic.Int64
}

func (c *counters) onAlloc(bytes int) {
	c.allocs.Add(1)
	live := c.live.Add(int64(bytes))
	for {
		peak := c.peak.Load()
		if live <= peak || c.peak.CompareAndSwap(peak, live) {
			return
		}
	}
}

func (c *counters) onFree(bytes int) {
	c.frees.Add(1)
	c.live.Add(-int64(bytes))
}

func (c *counters) onFailure() {
	c.failures.Add(1)
}

func (c *counters) snapshot() Stats {
	return Stats{
		Allocs:    c.allocs.Load(),
		Frees:     c.frees.Load(),
		Failures:  c.failures.Load(),
		LiveBytes: c.live.Load(),
		PeakBytes: c.peak.Load(),
	}
}
