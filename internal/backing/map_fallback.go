//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !windows

package backing

// Map falls back to a heap region where anonymous mapping is not wired up.
func Map(n int) ([]byte, Release, error) {
	return Heap(n)
}
