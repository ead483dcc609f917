// Package alloc defines the allocator strategy used by every memkit container.
//
// An Allocator answers one question: where does memory come from. Containers
// are parameterized by the strategy type, so the same Vector code runs over
// the Go heap, over pages mapped straight from the operating system, or over a
// long-lived pool:
//
//	v, err := container.NewVector[int32](alloc.Heap{})
//	v, err := container.NewVector[int32](alloc.TaskHeap{})
//
//	pool, err := alloc.NewPool()
//	defer pool.Close()
//	v, err := container.NewVector[int32](pool)
//
// # Strategies
//
//   - Heap: process heap. 64-byte aligned blocks from the Go heap.
//   - TaskHeap: platform task heap. One anonymous mapping per block, outside
//     the garbage collector. Free unmaps it.
//   - Pool: persistent pool. Blocks are carved from mapped chunks and recycled
//     through exact-size free lists; the memory outlives any single container
//     and is returned to the OS only by Reset or Close.
//
// # Contract
//
// Allocate(n, zero) returns a block of n bytes, all zero when zero is true.
// Free releases a block obtained from the same strategy; freeing the null
// block is a no-op. Failure to obtain memory is reported as ErrOutOfMemory and
// is never retried.
//
// Strategies are small values. Copies share state, so a Pool copied into ten
// containers is still one pool.
package alloc
