// Package memkit is a low-level container toolkit: fixed-capacity arrays,
// growable vectors and stack variants built over pluggable memory
// allocation strategies and pointer-based iterators.
//
// # Packages
//
//   - alloc: the Allocator strategy interface and its implementations
//     (Heap, TaskHeap, Pool)
//   - raw: non-owning memory descriptors and the iterator family
//   - container: Array, Vector, FixedStack, Stack and BarrierStack
//   - resource: memory budget and allocation rate limits for strategies
//
// # Quick Start
//
//	v, err := container.NewVector[int](alloc.Heap{})
//	if err != nil {
//	    return err
//	}
//	defer v.Release()
//
//	_ = v.PushBack(1)
//	for it := v.Begin(); !it.Equal(v.End()); it = it.Next() {
//	    fmt.Println(it.Get())
//	}
//
// # Strategies
//
// The strategy is a type parameter of every container, so the choice is
// made once at construction:
//
//	alloc.Heap{}          // Go heap, 64-byte aligned
//	alloc.TaskHeap{}      // one anonymous OS mapping per block
//	pool, _ := alloc.NewPool()
//	defer pool.Close()    // persistent, chunked, reuses freed blocks
//
// Strategies accept options for a memory budget (alloc.WithController) and
// for observing every allocation (alloc.WithObserver). Logger and
// BasicMetricsCollector in this package both implement alloc.Observer:
//
//	metrics := &memkit.BasicMetricsCollector{}
//	heap := alloc.NewHeap(alloc.WithObserver(memkit.Observers(metrics, memkit.NewTextLogger(slog.LevelDebug))))
//
// # Errors
//
// Each package exports sentinel errors that work with errors.Is. Classify
// maps any of them to a coarse Kind:
//
//	if memkit.Classify(err) == memkit.KindOutOfMemory {
//	    // shed load
//	}
//
// # Lifetime
//
// Containers own their memory and must be released with Release. Iterators
// and descriptors never own memory; they are invalidated by growth, by
// shifting insert and erase, and by Release.
package memkit
