// Package mmap provides anonymous off-heap memory mappings.
//
// # Overview
//
// MapAnon obtains read-write, zero-filled pages directly from the operating
// system. The Go garbage collector neither scans nor moves this memory, which
// makes it suitable for the task-heap allocator strategy and for arena chunks.
//
//	m, err := mmap.MapAnon(1 << 20)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with MAP_ANON|MAP_PRIVATE, madvise(2) for hints
//   - Windows: VirtualAlloc/VirtualFree (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure no
// goroutine touches Bytes() after Close() returns.
package mmap
