// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides 64-byte aligned allocation on the Go heap. This is the backing store
// of the process-heap allocator strategy.
package mem
