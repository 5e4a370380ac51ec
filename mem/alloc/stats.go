package alloc

// Stats is a point-in-time view of allocator activity and occupancy.
// Counters reset on Init.
type Stats struct {
	AllocCalls  int // Alloc calls, including unready ones
	Allocs      int // successful allocations
	NoFit       int // requests no hole could satisfy
	Faults      int // strategy faults
	FreeCalls   int // Free calls
	Frees       int // blocks released
	FreeIgnored int // Free calls that matched no block start

	Splits int // remainders created while carving
	Merges int // ranges absorbed while releasing

	Words       int // arena size in words
	UsedWords   int // allocated words
	FreeWords   int // free words
	Holes       int // number of free ranges
	Blocks      int // number of allocated ranges
	LargestHole int // words in the largest free range
}

// Utilization returns UsedWords/Words, or 0 for an empty arena.
func (s Stats) Utilization() float64 {
	if s.Words == 0 {
		return 0
	}
	return float64(s.UsedWords) / float64(s.Words)
}

// Fragmentation returns 1 - LargestHole/FreeWords: 0 when all free space is
// one hole, approaching 1 as free space splinters.
func (s Stats) Fragmentation() float64 {
	if s.FreeWords == 0 {
		return 0
	}
	return 1 - float64(s.LargestHole)/float64(s.FreeWords)
}

// Stats returns current counters and occupancy.
func (m *Manager) Stats() Stats {
	s := Stats{
		AllocCalls:  m.stats.allocCalls,
		Allocs:      m.stats.allocs,
		NoFit:       m.stats.noFit,
		Faults:      m.stats.faults,
		FreeCalls:   m.stats.freeCalls,
		Frees:       m.stats.frees,
		FreeIgnored: m.stats.freeIgnored,
		Words:       m.words,
	}
	if !m.Ready() {
		return s
	}

	ls := m.ledger.Stats()
	s.Splits = ls.Splits
	s.Merges = ls.Merges
	for _, r := range m.ledger.Ranges() {
		if !r.Free {
			s.UsedWords += r.Len
			s.Blocks++
			continue
		}
		s.FreeWords += r.Len
		s.Holes++
		s.LargestHole = max(s.LargestHole, r.Len)
	}
	return s
}
