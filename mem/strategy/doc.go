// Package strategy provides placement strategies for the word allocator.
//
// # Overview
//
// A placement strategy decides which hole satisfies an allocation request.
// It sees only an ephemeral, address-ordered snapshot of the free ranges and
// returns the start word of the range to carve:
//
//	type Strategy interface {
//	    Place(words int, holes []types.Hole) (start int, ok bool)
//	}
//
// Strategies never see the ledger itself, so they can be tested in isolation
// and swapped at any time.
//
// # Built-in Strategies
//
//   - BestFit: smallest hole that fits (minimizes leftover space)
//   - WorstFit: largest hole that fits (keeps leftovers usable)
//   - FirstFit: lowest-addressed hole that fits
//
// Ties are always broken by the first qualifying hole in the supplied order,
// which is the lowest address.
//
// # Custom Strategies
//
// Any function with the right signature can be used through Func:
//
//	last := strategy.Func(func(words int, holes []types.Hole) (int, bool) {
//	    for i := len(holes) - 1; i >= 0; i-- {
//	        if holes[i].Fits(words) {
//	            return holes[i].Start, true
//	        }
//	    }
//	    return 0, false
//	})
//
// A strategy may return an interior word of a hole; the allocator then splits
// that hole on both sides. Returning a start that is not backed by a large
// enough hole is a contract violation and surfaces as alloc.ErrStrategyFault.
package strategy
