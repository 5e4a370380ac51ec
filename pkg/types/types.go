package types

import "fmt"

// Addr is a byte address inside a managed arena.
//
// Addresses are only meaningful while the arena that produced them is live.
// After Shutdown or a re-Init every previously returned Addr is stale.
type Addr uintptr

// Hole is a free word range handed to placement strategies.
type Hole struct {
	Start int `json:"start"` // first word of the hole
	Len   int `json:"len"`   // length in words, always >= 1
}

// End returns the first word past the hole.
func (h Hole) End() int { return h.Start + h.Len }

// Fits reports whether a request of words fits inside the hole.
func (h Hole) Fits(words int) bool { return h.Len >= words }

// Contains reports whether the word range [start, start+words) lies in the hole.
func (h Hole) Contains(start, words int) bool {
	return start >= h.Start && start+words <= h.End()
}

// String renders the hole in the text-map layout: "[start, length]".
func (h Hole) String() string {
	return fmt.Sprintf("[%d, %d]", h.Start, h.Len)
}

// Range is a read-only snapshot of one ledger node.
type Range struct {
	Start int  `json:"start"`
	Len   int  `json:"len"`
	Free  bool `json:"free"`
}

// End returns the first word past the range.
func (r Range) End() int { return r.Start + r.Len }

// Hole converts the range to a hole descriptor.
func (r Range) Hole() Hole { return Hole{Start: r.Start, Len: r.Len} }

func (r Range) String() string {
	state := "used"
	if r.Free {
		state = "free"
	}
	return fmt.Sprintf("%s[%d, %d]", state, r.Start, r.Len)
}
