// Package backing obtains and releases the raw byte regions that back an
// allocator arena.
//
// On unix and windows the region is mapped directly from the operating system
// (anonymous mmap, VirtualAlloc) so it lives outside the Go heap and its base
// address never moves. Elsewhere a heap slice is used.
package backing

import (
	"errors"
	"fmt"
)

// ErrBadSize is returned when a region of zero or negative size is requested.
var ErrBadSize = errors.New("backing: region size must be positive")

// Release returns a region to the system. Calling it more than once is a no-op.
type Release func() error

// Func obtains a zero-filled region of exactly n bytes.
type Func func(n int) ([]byte, Release, error)

// Heap allocates regions on the Go heap. It is always available and is what
// tests use when the mapping path does not matter.
func Heap(n int) ([]byte, Release, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	data := make([]byte, n)
	return data, func() error { return nil }, nil
}

// Default is the platform allocator: Map where mapping is supported, Heap otherwise.
var Default Func = Map

// once wraps release so that only the first call reaches the system.
func once(release func() error) Release {
	done := false
	return func() error {
		if done {
			return nil
		}
		done = true
		return release()
	}
}
