package ledger

import (
	"fmt"

	"github.com/joshuapare/wordalloc/pkg/types"
)

// nilSlot terminates the prev/next chains.
const nilSlot int32 = -1

// node is one range in the ledger. Dead nodes sit on the spare stack.
type node struct {
	start int
	len   int
	free  bool
	live  bool
	gen   uint32
	prev  int32
	next  int32
}

func (n *node) end() int { return n.start + n.len }

// Handle refers to a live ledger node.
// The zero Handle never refers to a live node.
type Handle struct {
	slot int32
	gen  uint32
}

// Stats counts structural changes since the last Reset.
type Stats struct {
	Splits int // remainders created by Carve
	Merges int // nodes absorbed by Release
}

// Ledger is the address-ordered range list for one arena.
type Ledger struct {
	nodes []node
	spare []int32 // recycled slot indices
	head  int32
	tail  int32
	count int
	total int
	stats Stats
}

// New creates a ledger holding a single free range of totalWords.
func New(totalWords int) (*Ledger, error) {
	l := &Ledger{head: nilSlot, tail: nilSlot}
	if err := l.Reset(totalWords); err != nil {
		return nil, err
	}
	return l, nil
}

// Reset discards every range and installs one free range [0, totalWords).
// All previously issued handles become stale. A zero-word ledger is rejected.
func (l *Ledger) Reset(totalWords int) error {
	if totalWords <= 0 {
		return fmt.Errorf("%w: %d", ErrBadSize, totalWords)
	}
	l.Clear()
	l.total = totalWords
	s := l.newNode(0, totalWords, true)
	l.head, l.tail = s, s
	l.count = 1
	return nil
}

// Clear drops every node and leaves the ledger empty with Total() == 0.
// Slots are kept for reuse but every handle is invalidated.
func (l *Ledger) Clear() {
	l.spare = l.spare[:0]
	for i := range l.nodes {
		n := &l.nodes[i]
		if n.live {
			n.live = false
			n.gen++
		}
		l.spare = append(l.spare, int32(i))
	}
	l.head, l.tail = nilSlot, nilSlot
	l.count = 0
	l.total = 0
	l.stats = Stats{}
}

// Total returns the number of words covered by the ledger.
func (l *Ledger) Total() int { return l.total }

// Len returns the number of ranges in the ledger.
func (l *Ledger) Len() int { return l.count }

// Stats returns split and merge counters.
func (l *Ledger) Stats() Stats { return l.stats }

// Get returns a snapshot of the node behind h.
func (l *Ledger) Get(h Handle) (types.Range, error) {
	n, err := l.lookup(h)
	if err != nil {
		return types.Range{}, err
	}
	return types.Range{Start: n.start, Len: n.len, Free: n.free}, nil
}

// FindContaining scans in address order for the range holding word.
func (l *Ledger) FindContaining(word int) (Handle, bool) {
	for s := l.head; s != nilSlot; s = l.nodes[s].next {
		n := &l.nodes[s]
		if word < n.start {
			break
		}
		if word < n.end() {
			return l.handle(s), true
		}
	}
	return Handle{}, false
}

// Carve marks [start, start+length) allocated inside the free node h.
//
// An exact fit is retagged in place. Otherwise the node is split: a free
// remainder before start and/or a free remainder after the slice. The
// returned handle refers to the allocated slice.
func (l *Ledger) Carve(h Handle, start, length int) (Handle, error) {
	n, err := l.lookup(h)
	if err != nil {
		return Handle{}, err
	}
	switch {
	case !n.free:
		return Handle{}, fmt.Errorf("%w: range %d+%d is allocated", ErrCarve, n.start, n.len)
	case length < 1:
		return Handle{}, fmt.Errorf("%w: length %d", ErrCarve, length)
	case start < n.start || start+length > n.end():
		return Handle{}, fmt.Errorf("%w: [%d, %d) not inside free [%d, %d)",
			ErrCarve, start, start+length, n.start, n.end())
	}

	s := h.slot
	if lead := start - n.start; lead > 0 {
		l.insertBefore(s, l.newNode(n.start, lead, true))
		n = &l.nodes[s] // newNode may grow the slot table
		n.start = start
		n.len -= lead
		l.stats.Splits++
	}
	if trail := n.end() - (start + length); trail > 0 {
		l.insertAfter(s, l.newNode(start+length, trail, true))
		n = &l.nodes[s]
		n.len = length
		l.stats.Splits++
	}
	n.free = false
	return l.handle(s), nil
}

// Release marks the allocated node h free and merges it with free
// neighbours. The predecessor is checked first; if it absorbs h, the merged
// node then checks its own successor once. Handles to absorbed nodes become
// stale. The returned handle refers to the resulting free node.
func (l *Ledger) Release(h Handle) (Handle, error) {
	n, err := l.lookup(h)
	if err != nil {
		return Handle{}, err
	}
	if n.free {
		return Handle{}, fmt.Errorf("%w: [%d, %d)", ErrNotAllocated, n.start, n.end())
	}
	n.free = true

	cur := h.slot
	if p := n.prev; p != nilSlot && l.nodes[p].free {
		l.nodes[p].len += n.len
		l.unlink(cur)
		l.stats.Merges++
		cur = p
	}
	if nx := l.nodes[cur].next; nx != nilSlot && l.nodes[nx].free {
		l.nodes[cur].len += l.nodes[nx].len
		l.unlink(nx)
		l.stats.Merges++
	}
	return l.handle(cur), nil
}

// Free returns the free ranges in address order, for placement strategies.
func (l *Ledger) Free() []types.Hole {
	var holes []types.Hole
	for s := l.head; s != nilSlot; s = l.nodes[s].next {
		if n := &l.nodes[s]; n.free {
			holes = append(holes, types.Hole{Start: n.start, Len: n.len})
		}
	}
	return holes
}

// FreeText returns the same free ranges as Free, for the text map export.
func (l *Ledger) FreeText() []types.Hole {
	return l.Free()
}

// Ranges returns a snapshot of every range in address order.
func (l *Ledger) Ranges() []types.Range {
	out := make([]types.Range, 0, l.count)
	for s := l.head; s != nilSlot; s = l.nodes[s].next {
		n := &l.nodes[s]
		out = append(out, types.Range{Start: n.start, Len: n.len, Free: n.free})
	}
	return out
}

// UsedWords returns the number of allocated words.
func (l *Ledger) UsedWords() int {
	used := 0
	for s := l.head; s != nilSlot; s = l.nodes[s].next {
		if n := &l.nodes[s]; !n.free {
			used += n.len
		}
	}
	return used
}

func (l *Ledger) handle(s int32) Handle {
	return Handle{slot: s, gen: l.nodes[s].gen}
}

func (l *Ledger) lookup(h Handle) (*node, error) {
	if h.slot < 0 || int(h.slot) >= len(l.nodes) {
		return nil, ErrStaleHandle
	}
	n := &l.nodes[h.slot]
	if !n.live || n.gen != h.gen {
		return nil, ErrStaleHandle
	}
	return n, nil
}

// newNode places an unlinked node in a recycled or fresh slot.
// Generations start at 1 so the zero Handle is never valid.
func (l *Ledger) newNode(start, length int, free bool) int32 {
	var s int32
	if k := len(l.spare); k > 0 {
		s = l.spare[k-1]
		l.spare = l.spare[:k-1]
	} else {
		l.nodes = append(l.nodes, node{})
		s = int32(len(l.nodes) - 1)
	}
	n := &l.nodes[s]
	gen := n.gen
	if gen == 0 {
		gen = 1
	}
	*n = node{start: start, len: length, free: free, live: true, gen: gen, prev: nilSlot, next: nilSlot}
	return s
}

func (l *Ledger) insertBefore(at, s int32) {
	p := l.nodes[at].prev
	l.nodes[s].prev = p
	l.nodes[s].next = at
	l.nodes[at].prev = s
	if p == nilSlot {
		l.head = s
	} else {
		l.nodes[p].next = s
	}
	l.count++
}

func (l *Ledger) insertAfter(at, s int32) {
	nx := l.nodes[at].next
	l.nodes[s].prev = at
	l.nodes[s].next = nx
	l.nodes[at].next = s
	if nx == nilSlot {
		l.tail = s
	} else {
		l.nodes[nx].prev = s
	}
	l.count++
}

// unlink removes s from the chain and retires its slot.
func (l *Ledger) unlink(s int32) {
	n := &l.nodes[s]
	if n.prev == nilSlot {
		l.head = n.next
	} else {
		l.nodes[n.prev].next = n.next
	}
	if n.next == nilSlot {
		l.tail = n.prev
	} else {
		l.nodes[n.next].prev = n.prev
	}
	n.live = false
	n.gen++
	n.prev, n.next = nilSlot, nilSlot
	l.spare = append(l.spare, s)
	l.count--
}
