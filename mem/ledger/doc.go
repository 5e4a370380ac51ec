// Package ledger tracks which word ranges of an arena are free and which are
// allocated.
//
// # Overview
//
// The ledger is a doubly linked, address-ordered sequence of disjoint ranges
// that exactly covers [0, Total()). Each range is tagged free or allocated.
// Between public calls the following always hold:
//
//   - every range has Len >= 1
//   - ranges are ordered by Start with no gaps and no overlaps
//   - the first range starts at 0 and the last one ends at Total()
//   - no two neighbouring ranges are both free
//
// # Nodes and Handles
//
// Nodes live in a slot table owned by the Ledger; links are slot indices.
// Callers refer to a node through a Handle, which carries the slot index and
// the slot's generation. When a node is merged away its slot generation is
// bumped and the slot is recycled, so any Handle still pointing at it is
// rejected with ErrStaleHandle instead of silently reading a reused node.
//
// # Carving and Releasing
//
// Carve marks a sub-range of a free node allocated, splitting off a leading
// and/or trailing free remainder. Release retags an allocated node free and
// merges it with a free predecessor first, then with a free successor: at
// most two merges per call.
//
// # Thread Safety
//
// A Ledger is not safe for concurrent use.
package ledger
