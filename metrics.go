package memkit

import (
	"sync/atomic"

	"github.com/hupe1980/memkit/alloc"
)

// MetricsCollector defines an interface for collecting allocation metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus, then pass it to a strategy with alloc.WithObserver.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    allocBytes prometheus.Counter
//	}
//
//	func (p *PrometheusCollector) RecordAlloc(strategy string, bytes int, err error) {
//	    p.allocBytes.Add(float64(bytes))
//	}
type MetricsCollector interface {
	alloc.Observer
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordAlloc(string, int, error) {}
func (NoopMetricsCollector) RecordFree(string, int)         {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	AllocCount  atomic.Int64
	AllocErrors atomic.Int64
	AllocBytes  atomic.Int64
	FreeCount   atomic.Int64
	FreeBytes   atomic.Int64
}

// RecordAlloc implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAlloc(_ string, bytes int, err error) {
	if err != nil {
		b.AllocErrors.Add(1)
		return
	}
	b.AllocCount.Add(1)
	b.AllocBytes.Add(int64(bytes))
}

// RecordFree implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFree(_ string, bytes int) {
	b.FreeCount.Add(1)
	b.FreeBytes.Add(int64(bytes))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		AllocCount:  b.AllocCount.Load(),
		AllocErrors: b.AllocErrors.Load(),
		AllocBytes:  b.AllocBytes.Load(),
		FreeCount:   b.FreeCount.Load(),
		FreeBytes:   b.FreeBytes.Load(),
	}
	s.LiveBytes = s.AllocBytes - s.FreeBytes
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	AllocCount  int64
	AllocErrors int64
	AllocBytes  int64
	FreeCount   int64
	FreeBytes   int64
	LiveBytes   int64
}

// Observers fans allocation events out to every non-nil observer.
func Observers(obs ...alloc.Observer) alloc.Observer {
	out := make(multiObserver, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multiObserver []alloc.Observer

func (m multiObserver) RecordAlloc(strategy string, bytes int, err error) {
	for _, o := range m {
		o.RecordAlloc(strategy, bytes, err)
	}
}

func (m multiObserver) RecordFree(strategy string, bytes int) {
	for _, o := range m {
		o.RecordFree(strategy, bytes)
	}
}
