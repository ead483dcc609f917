package alloc

import (
	"log/slog"

	"github.com/hupe1980/memkit/resource"
)

// Observer receives allocation events. Implementations must be safe for
// concurrent use: strategies may be shared and the container finalization
// safety net frees from the runtime cleanup goroutine.
type Observer interface {
	// RecordAlloc is called after every allocation attempt, err is nil on success.
	RecordAlloc(strategy string, bytes int, err error)

	// RecordFree is called after every successful free.
	RecordFree(strategy string, bytes int)
}

type config struct {
	controller *resource.Controller
	observer   Observer
	logger     *slog.Logger
	chunkSize  int
}

// Option configures an allocator strategy.
type Option func(*config)

// WithController charges allocations against a memory budget.
// Heap and TaskHeap charge per block; Pool charges per mapped chunk.
func WithController(c *resource.Controller) Option {
	return func(cfg *config) {
		cfg.controller = c
	}
}

// WithObserver reports every allocation and free to o.
func WithObserver(o Observer) Option {
	return func(cfg *config) {
		cfg.observer = o
	}
}

// WithLogger sets the logger used by Pool for chunk lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// WithChunkSize sets the size of the chunks a Pool maps from the OS.
func WithChunkSize(n int) Option {
	return func(cfg *config) {
		cfg.chunkSize = n
	}
}

func newConfig(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (cfg *config) recordAlloc(strategy string, bytes int, err error) {
	if cfg.observer != nil {
		cfg.observer.RecordAlloc(strategy, bytes, err)
	}
}

func (cfg *config) recordFree(strategy string, bytes int) {
	if cfg.observer != nil {
		cfg.observer.RecordFree(strategy, bytes)
	}
}
