package alloc

import (
	"fmt"
	"log/slog"
	"os"
	"unsafe"

	"github.com/joshuapare/wordalloc/internal/backing"
	"github.com/joshuapare/wordalloc/internal/buf"
	"github.com/joshuapare/wordalloc/internal/logger"
	"github.com/joshuapare/wordalloc/mem/ledger"
	"github.com/joshuapare/wordalloc/mem/strategy"
	"github.com/joshuapare/wordalloc/pkg/types"
)

// Runtime debug flag for per-allocation logging - controlled by WORDALLOC_LOG_ALLOC env var.
var logAlloc = os.Getenv("WORDALLOC_LOG_ALLOC") != ""

// Manager is the allocator facade: it owns the arena, the ledger and the
// current placement strategy.
type Manager struct {
	wordSize int
	strategy strategy.Strategy
	logger   *slog.Logger
	backing  backing.Func

	// Live only between Init and Shutdown.
	arena   []byte
	release backing.Release
	base    types.Addr
	words   int

	ledger *ledger.Ledger
	stats  counters
}

// counters are the Manager's own call statistics.
type counters struct {
	allocCalls  int
	allocs      int
	noFit       int
	faults      int
	freeCalls   int
	frees       int
	freeIgnored int
}

// New creates an uninitialized Manager. Call Init before allocating.
func New(opts ...Option) (*Manager, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.wordSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadWordSize, cfg.wordSize)
	}
	if cfg.strategy == nil {
		return nil, ErrNilStrategy
	}
	if cfg.backing == nil {
		cfg.backing = backing.Default
	}
	return &Manager{
		wordSize: cfg.wordSize,
		strategy: cfg.strategy,
		logger:   cfg.logger,
		backing:  cfg.backing,
	}, nil
}

// Init creates a zero-filled arena of words words covered by a single free
// range. An initialized Manager is shut down first.
func (m *Manager) Init(words int) error {
	if words <= 0 || words > types.MaxWords {
		return fmt.Errorf("%w: %d words (want 1..%d)", ErrBadSize, words, types.MaxWords)
	}
	n, ok := buf.MulOverflowSafe(words, m.wordSize)
	if !ok {
		return fmt.Errorf("%w: %d words of %d bytes overflows", ErrBadSize, words, m.wordSize)
	}

	if err := m.Shutdown(); err != nil {
		return err
	}

	arena, release, err := m.backing(n)
	if err != nil {
		return fmt.Errorf("alloc: obtain arena: %w", err)
	}
	if len(arena) != n {
		_ = release()
		return fmt.Errorf("alloc: obtain arena: got %d bytes, want %d", len(arena), n)
	}
	clear(arena)

	if m.ledger == nil {
		m.ledger, err = ledger.New(words)
	} else {
		err = m.ledger.Reset(words)
	}
	if err != nil {
		_ = release()
		return err
	}

	m.arena = arena
	m.release = release
	m.base = types.Addr(uintptr(unsafe.Pointer(unsafe.SliceData(arena))))
	m.words = words
	m.stats = counters{}

	m.log().Debug("arena initialized", "words", words, "word_size", m.wordSize, "bytes", n)
	return nil
}

// Shutdown releases the arena and every ledger node. It is a no-op when the
// Manager is not initialized.
func (m *Manager) Shutdown() error {
	if m.arena == nil {
		return nil
	}
	release := m.release

	m.ledger.Clear()
	m.arena = nil
	m.release = nil
	m.base = 0
	m.words = 0

	m.log().Debug("arena shut down")
	if err := release(); err != nil {
		return fmt.Errorf("alloc: release arena: %w", err)
	}
	return nil
}

// Close tears the Manager down. It is equivalent to Shutdown.
func (m *Manager) Close() error {
	return m.Shutdown()
}

// Ready reports whether an arena is initialized.
func (m *Manager) Ready() bool {
	return m.arena != nil
}

// Alloc reserves ceil(size/WordSize()) words chosen by the current strategy.
// It returns the block address and a view of its bytes.
//
// The view aliases the arena, which may be an unmapped region after Shutdown
// or a re-Init. Like the address, it must not be used after either call:
// touching a mapped arena's view then is a fatal fault, not a panic.
//
// ErrNotReady, ErrZeroSize and ErrNoFit are recoverable (see IsNone).
// A *FaultError means the strategy returned an unusable start word.
func (m *Manager) Alloc(size int) (types.Addr, []byte, error) {
	m.stats.allocCalls++
	if !m.Ready() {
		return 0, nil, ErrNotReady
	}
	if size <= 0 {
		return 0, nil, ErrZeroSize
	}

	words := size / m.wordSize
	if size%m.wordSize != 0 {
		words++
	}

	holes := m.ledger.Free()
	if len(holes) == 0 {
		m.stats.noFit++
		return 0, nil, ErrNoFit
	}

	start, ok := m.strategy.Place(words, holes)
	if !ok {
		m.stats.noFit++
		if logAlloc {
			m.log().Debug("alloc no fit", "bytes", size, "words", words, "holes", len(holes))
		}
		return 0, nil, ErrNoFit
	}

	h, err := m.backedBy(start, words)
	if err == nil {
		_, err = m.ledger.Carve(h, start, words)
	}
	if err != nil {
		m.stats.faults++
		fault := &FaultError{Start: start, Words: words, Err: err}
		m.log().Error("placement strategy fault", "start", start, "words", words, "err", err)
		return 0, nil, fault
	}

	m.stats.allocs++
	off := start * m.wordSize
	n := words * m.wordSize
	if logAlloc {
		m.log().Debug("alloc", "bytes", size, "start", start, "words", words, "offset", off)
	}
	return m.base + types.Addr(off), m.arena[off : off+n : off+n], nil
}

// backedBy finds the free range that must hold [start, start+words).
func (m *Manager) backedBy(start, words int) (ledger.Handle, error) {
	h, ok := m.ledger.FindContaining(start)
	if !ok {
		return ledger.Handle{}, fmt.Errorf("word %d is outside the arena", start)
	}
	r, err := m.ledger.Get(h)
	if err != nil {
		return ledger.Handle{}, err
	}
	if !r.Free {
		return ledger.Handle{}, fmt.Errorf("word %d is inside allocated %v", start, r)
	}
	if !r.Hole().Contains(start, words) {
		return ledger.Handle{}, fmt.Errorf("hole %v cannot hold %d words from %d", r.Hole(), words, start)
	}
	return h, nil
}

// Free releases the allocated block that starts exactly at addr and merges it
// with free neighbours. Addresses outside the arena, inside a block (not at
// its start), or of a free block are ignored. Free reports whether a block
// was released.
func (m *Manager) Free(addr types.Addr) bool {
	m.stats.freeCalls++
	h, ok := m.blockAt(addr)
	if !ok {
		m.stats.freeIgnored++
		return false
	}
	if _, err := m.ledger.Release(h); err != nil {
		m.stats.freeIgnored++
		return false
	}
	m.stats.frees++
	if logAlloc {
		m.log().Debug("free", "offset", int(addr-m.base))
	}
	return true
}

// Bytes returns a view of the allocated block starting at addr, or nil.
// The view goes stale with the arena, exactly like the one Alloc returns.
func (m *Manager) Bytes(addr types.Addr) []byte {
	h, ok := m.blockAt(addr)
	if !ok {
		return nil
	}
	r, err := m.ledger.Get(h)
	if err != nil {
		return nil
	}
	off := r.Start * m.wordSize
	n := r.Len * m.wordSize
	return m.arena[off : off+n : off+n]
}

// blockAt resolves addr to the allocated block that starts exactly there.
func (m *Manager) blockAt(addr types.Addr) (ledger.Handle, bool) {
	if !m.Ready() || addr < m.base {
		return ledger.Handle{}, false
	}
	off := uintptr(addr - m.base)
	if off >= uintptr(len(m.arena)) || off%uintptr(m.wordSize) != 0 {
		return ledger.Handle{}, false
	}
	word := int(off) / m.wordSize

	h, ok := m.ledger.FindContaining(word)
	if !ok {
		return ledger.Handle{}, false
	}
	r, err := m.ledger.Get(h)
	if err != nil || r.Free || r.Start != word {
		return ledger.Handle{}, false
	}
	return h, true
}

// SetStrategy swaps the placement strategy. It takes effect on the next Alloc.
func (m *Manager) SetStrategy(s strategy.Strategy) error {
	if s == nil {
		return ErrNilStrategy
	}
	m.strategy = s
	m.log().Debug("strategy changed")
	return nil
}

// Strategy returns the current placement strategy.
func (m *Manager) Strategy() strategy.Strategy { return m.strategy }

// WordSize returns the word size in bytes.
func (m *Manager) WordSize() int { return m.wordSize }

// Base returns the address of the first arena byte, or 0 when not ready.
func (m *Manager) Base() types.Addr { return m.base }

// Limit returns the arena size in bytes, or 0 when not ready.
func (m *Manager) Limit() int { return len(m.arena) }

// Words returns the arena size in words, or 0 when not ready.
func (m *Manager) Words() int { return m.words }

// Ranges returns a snapshot of every ledger range in address order.
func (m *Manager) Ranges() []types.Range {
	if !m.Ready() {
		return nil
	}
	return m.ledger.Ranges()
}

// Total implements verify.Snapshotter.
func (m *Manager) Total() int { return m.words }

func (m *Manager) log() *slog.Logger {
	if m.logger != nil {
		return m.logger
	}
	return logger.L
}
