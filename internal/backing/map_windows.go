//go:build windows

package backing

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Map commits n bytes of private read/write memory with VirtualAlloc.
// Committed pages are zero-filled by the system.
func Map(n int) ([]byte, Release, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	addr, err := windows.VirtualAlloc(0, uintptr(n), windows.MEM_COMMIT|windows.MEM_RESERVE, windows.PAGE_READWRITE)
	if err != nil {
		return nil, nil, fmt.Errorf("backing: VirtualAlloc %d bytes: %w", n, err)
	}
	data := unsafe.Slice((*byte)(unsafe.Pointer(addr)), n)
	release := once(func() error {
		return windows.VirtualFree(addr, 0, windows.MEM_RELEASE)
	})
	return data, release, nil
}
