// Package arena provides the off-heap chunk arena behind the pool allocator.
//
// # Features
//
//   - Off-heap allocation via anonymous mappings (no GC pressure)
//   - 1 MiB default chunk size, power-of-two rounded
//   - Dedicated chunks for requests larger than a chunk
//   - Optional memory budget through MemoryAcquirer
//
// # Safety
//
// All methods return errors instead of panicking.
package arena
