package ledger

import "errors"

var (
	// ErrBadSize indicates a ledger of zero or negative words was requested.
	ErrBadSize = errors.New("ledger: total words must be positive")

	// ErrStaleHandle indicates a handle to a node that was merged away or reset.
	ErrStaleHandle = errors.New("ledger: stale handle")

	// ErrCarve indicates a carve whose range is not inside a free node.
	ErrCarve = errors.New("ledger: carve outside free range")

	// ErrNotAllocated indicates a release of a node that is already free.
	ErrNotAllocated = errors.New("ledger: range is not allocated")
)
