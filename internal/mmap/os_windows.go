//go:build windows

package mmap

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

func osMapAnon(size int) ([]byte, func([]byte) error, error) {
	// VirtualAlloc with MEM_COMMIT is demand-paged, like an anonymous mmap.
	addr, err := windows.VirtualAlloc(0, uintptr(size),
		windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, err
	}

	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)

	return data, func(b []byte) error {
		// MEM_RELEASE frees the entire region reserved above.
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	}, nil
}

// PageSize returns the operating system's memory page size.
func PageSize() int {
	return windows.Getpagesize()
}

func osAdvise(data []byte, pattern AccessPattern) error {
	// Windows has no madvise equivalent worth wiring here.
	_ = data
	_ = pattern
	return nil
}
