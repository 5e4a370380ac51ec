package strategy

import (
	"fmt"
	"slices"

	"github.com/joshuapare/wordalloc/pkg/types"
)

// Strategy chooses where a request of words is placed.
//
// Implementations must be pure: no mutation of holes and the same answer for
// the same input. ok is false when no hole qualifies.
//
// Implementations:
//   - BestFit: smallest qualifying hole
//   - WorstFit: largest qualifying hole
//   - FirstFit: first qualifying hole
type Strategy interface {
	Place(words int, holes []types.Hole) (start int, ok bool)
}

// Func adapts an ordinary function to the Strategy interface.
type Func func(words int, holes []types.Hole) (int, bool)

// Place calls f(words, holes).
func (f Func) Place(words int, holes []types.Hole) (int, bool) {
	return f(words, holes)
}

// Built-in strategies.
var (
	BestFit  Strategy = Func(bestFit)
	WorstFit Strategy = Func(worstFit)
	FirstFit Strategy = Func(firstFit)
)

// Default is the strategy used when none is configured.
var Default = BestFit

// Names of the built-in strategies as accepted by ByName.
const (
	NameBest  = "best"
	NameWorst = "worst"
	NameFirst = "first"
)

var registry = map[string]Strategy{
	NameBest:  BestFit,
	NameWorst: WorstFit,
	NameFirst: FirstFit,
}

// ByName returns the built-in strategy registered under name.
func ByName(name string) (Strategy, error) {
	s, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("strategy: unknown strategy %q (want one of %v)", name, Names())
	}
	return s, nil
}

// Names returns the registered strategy names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func bestFit(words int, holes []types.Hole) (int, bool) {
	best := -1
	for i, h := range holes {
		if !h.Fits(words) {
			continue
		}
		// Strict comparison keeps the first of equal-sized holes.
		if best < 0 || h.Len < holes[best].Len {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return holes[best].Start, true
}

func worstFit(words int, holes []types.Hole) (int, bool) {
	worst := -1
	for i, h := range holes {
		if !h.Fits(words) {
			continue
		}
		if worst < 0 || h.Len > holes[worst].Len {
			worst = i
		}
	}
	if worst < 0 {
		return 0, false
	}
	return holes[worst].Start, true
}

func firstFit(words int, holes []types.Hole) (int, bool) {
	for _, h := range holes {
		if h.Fits(words) {
			return h.Start, true
		}
	}
	return 0, false
}
