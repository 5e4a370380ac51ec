package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/wordalloc/internal/backing"
	"github.com/joshuapare/wordalloc/mem/verify"
	"github.com/joshuapare/wordalloc/pkg/types"
)

func free(start, n int) types.Range { return types.Range{Start: start, Len: n, Free: true} }
func used(start, n int) types.Range { return types.Range{Start: start, Len: n} }

// newReady creates a heap-backed Manager with the given word size and words.
func newReady(t testing.TB, wordSize, words int, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{WithWordSize(wordSize), WithBacking(backing.Heap)}, opts...)
	m, err := New(opts...)
	require.NoError(t, err)
	require.NoError(t, m.Init(words))
	t.Cleanup(func() { _ = m.Close() })
	return m
}

// mustAlloc allocates size bytes and checks invariants afterwards.
func mustAlloc(t testing.TB, m *Manager, size int) types.Addr {
	t.Helper()
	addr, data, err := m.Alloc(size)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), size)
	require.NoError(t, verify.AllInvariants(m))
	return addr
}

// offset returns addr relative to the arena base.
func offset(m *Manager, addr types.Addr) int {
	return int(addr - m.Base())
}
