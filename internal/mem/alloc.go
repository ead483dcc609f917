// Package mem provides memory allocation utilities.
package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of every block returned by Alloc (64 bytes,
// one cache line).
const Alignment = 64

// Alloc allocates a zeroed byte slice of the given size on the Go heap with
// 64-byte alignment.
//
// The backing array is Alignment bytes larger than requested, so the address
// one past the last byte of the returned slice still lies inside the same
// allocation. Iterators rely on this to form end pointers safely.
func Alloc(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}
