//go:build linux || darwin || freebsd || netbsd || openbsd

package backing

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Map maps an anonymous private region of n bytes. The kernel hands it out
// zero-filled.
func Map(n int) ([]byte, Release, error) {
	if n <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrBadSize, n)
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, fmt.Errorf("backing: mmap %d bytes: %w", n, err)
	}
	release := once(func() error {
		err := unix.Munmap(data)
		if errors.Is(err, unix.EINVAL) {
			// Already unmapped.
			return nil
		}
		return err
	})
	return data, release, nil
}
