package verify

import (
	"fmt"

	"github.com/joshuapare/wordalloc/internal/buf"
	"github.com/joshuapare/wordalloc/pkg/types"
)

// ValidationError describes the first invariant violation found.
type ValidationError struct {
	Type    string
	Message string
	Index   int // range index, or -1 when not tied to a range
}

func (e *ValidationError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s at range %d: %s", e.Type, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Snapshotter is anything that can report its ranges and coverage.
// *ledger.Ledger satisfies it.
type Snapshotter interface {
	Ranges() []types.Range
	Total() int
}

// AllInvariants validates the ranges of s.
func AllInvariants(s Snapshotter) error {
	return Ranges(s.Ranges(), s.Total())
}

// Ranges validates that rs covers [0, total) contiguously with non-empty,
// ordered ranges and no two neighbouring free ranges.
func Ranges(rs []types.Range, total int) error {
	if total == 0 {
		if len(rs) != 0 {
			return &ValidationError{
				Type:    "Coverage",
				Message: fmt.Sprintf("empty ledger holds %d ranges", len(rs)),
				Index:   -1,
			}
		}
		return nil
	}
	if len(rs) == 0 {
		return &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("no ranges cover %d words", total),
			Index:   -1,
		}
	}

	next := 0
	for i, r := range rs {
		if r.Len < 1 {
			return &ValidationError{
				Type:    "EmptyRange",
				Message: fmt.Sprintf("length %d", r.Len),
				Index:   i,
			}
		}
		if r.Start != next {
			kind := "gap"
			if r.Start < next {
				kind = "overlap"
			}
			return &ValidationError{
				Type:    "Contiguity",
				Message: fmt.Sprintf("%s: range starts at %d, expected %d", kind, r.Start, next),
				Index:   i,
			}
		}
		if i > 0 && r.Free && rs[i-1].Free {
			return &ValidationError{
				Type:    "UnmergedFree",
				Message: fmt.Sprintf("free %v follows free %v", r, rs[i-1]),
				Index:   i,
			}
		}
		next = r.End()
	}

	if next != total {
		return &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("ranges end at %d, expected %d", next, total),
			Index:   len(rs) - 1,
		}
	}
	return nil
}

// Bitmap validates that bitmap is the allocation bitmap of rs over total
// words: a little-endian byte count followed by one bit per word.
func Bitmap(bitmap []byte, rs []types.Range, total int) error {
	want := buf.CeilDiv(total, 8)
	if len(bitmap) != types.BitmapHeaderSize+want {
		return &ValidationError{
			Type:    "Bitmap",
			Message: fmt.Sprintf("length %d, expected %d", len(bitmap), types.BitmapHeaderSize+want),
			Index:   -1,
		}
	}
	if got := int(buf.U16LE(bitmap)); got != want {
		return &ValidationError{
			Type:    "Bitmap",
			Message: fmt.Sprintf("header says %d bytes, expected %d", got, want),
			Index:   -1,
		}
	}

	body := bitmap[types.BitmapHeaderSize:]
	for i, r := range rs {
		for w := r.Start; w < r.End(); w++ {
			set := body[w/8]&(1<<(w%8)) != 0
			if set == r.Free {
				return &ValidationError{
					Type:    "Bitmap",
					Message: fmt.Sprintf("word %d bit=%t but range free=%t", w, set, r.Free),
					Index:   i,
				}
			}
		}
	}
	for w := total; w < len(body)*8; w++ {
		if body[w/8]&(1<<(w%8)) != 0 {
			return &ValidationError{
				Type:    "Bitmap",
				Message: fmt.Sprintf("padding bit %d is set", w),
				Index:   -1,
			}
		}
	}
	return nil
}
