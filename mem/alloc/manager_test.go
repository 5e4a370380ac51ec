package alloc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/wordalloc/internal/backing"
	"github.com/joshuapare/wordalloc/mem/strategy"
	"github.com/joshuapare/wordalloc/mem/verify"
	"github.com/joshuapare/wordalloc/pkg/types"
)

func TestNew_Defaults(t *testing.T) {
	m, err := New()
	require.NoError(t, err)
	require.Equal(t, types.DefaultWordSize, m.WordSize())
	require.False(t, m.Ready())
	require.Zero(t, m.Base())
	require.Zero(t, m.Limit())
}

func TestNew_BadConfig(t *testing.T) {
	_, err := New(WithWordSize(0))
	require.ErrorIs(t, err, ErrBadWordSize)

	_, err = New(WithWordSize(-4))
	require.ErrorIs(t, err, ErrBadWordSize)

	_, err = New(WithStrategy(nil))
	require.ErrorIs(t, err, ErrNilStrategy)
}

func TestInit_BadSize(t *testing.T) {
	m, err := New(WithBacking(backing.Heap))
	require.NoError(t, err)

	require.ErrorIs(t, m.Init(0), ErrBadSize)
	require.ErrorIs(t, m.Init(types.MaxWords+1), ErrBadSize)
	require.False(t, m.Ready())
}

func TestInit_ZeroFilledArena(t *testing.T) {
	dirty := func(n int) ([]byte, backing.Release, error) {
		data := make([]byte, n)
		for i := range data {
			data[i] = 0xFF
		}
		return data, func() error { return nil }, nil
	}
	m := newReady(t, 4, 16, WithBacking(dirty))

	require.Equal(t, 64, m.Limit())
	_, data, err := m.Alloc(64)
	require.NoError(t, err)
	for i, b := range data {
		require.Zero(t, b, "byte %d not zeroed", i)
	}
}

func TestInit_MappedArena(t *testing.T) {
	m, err := New(WithWordSize(8))
	require.NoError(t, err)
	require.NoError(t, m.Init(512))
	defer m.Close()

	addr, data, err := m.Alloc(100)
	require.NoError(t, err)
	require.Len(t, data, 104)
	copy(data, "mapped")
	require.Equal(t, "mapped", string(m.Bytes(addr)[:6]))
}

func TestInit_Reinitializes(t *testing.T) {
	releases := 0
	counting := func(n int) ([]byte, backing.Release, error) {
		return make([]byte, n), func() error { releases++; return nil }, nil
	}
	m := newReady(t, 4, 16, WithBacking(counting))
	mustAlloc(t, m, 10)

	require.NoError(t, m.Init(32))
	require.Equal(t, 1, releases, "re-Init must release the previous arena")
	require.Equal(t, 32, m.Words())
	require.Equal(t, 128, m.Limit())
	require.Equal(t, []types.Range{free(0, 32)}, m.Ranges())
}

func TestInit_BackingFailure(t *testing.T) {
	boom := errors.New("out of memory")
	failing := func(int) ([]byte, backing.Release, error) { return nil, nil, boom }

	m, err := New(WithBacking(failing))
	require.NoError(t, err)
	err = m.Init(16)
	require.ErrorIs(t, err, boom)
	require.False(t, m.Ready())
}

func TestShutdown_Idempotent(t *testing.T) {
	m := newReady(t, 4, 16)
	mustAlloc(t, m, 10)

	require.NoError(t, m.Shutdown())
	require.False(t, m.Ready())
	require.NoError(t, m.Shutdown())
	require.False(t, m.Ready())

	require.Zero(t, m.Base())
	require.Zero(t, m.Limit())
	require.Empty(t, m.Ranges())
}

func TestNotReady(t *testing.T) {
	m, err := New(WithBacking(backing.Heap))
	require.NoError(t, err)

	_, _, err = m.Alloc(8)
	require.ErrorIs(t, err, ErrNotReady)
	require.True(t, IsNone(err))
	require.False(t, m.Free(types.Addr(0x1000)))
	require.Nil(t, m.Bytes(types.Addr(0x1000)))

	require.NoError(t, m.Init(4))
	require.NoError(t, m.Shutdown())
	_, _, err = m.Alloc(8)
	require.ErrorIs(t, err, ErrNotReady)
}

func TestAlloc_ZeroSize(t *testing.T) {
	m := newReady(t, 4, 16)

	_, _, err := m.Alloc(0)
	require.ErrorIs(t, err, ErrZeroSize)
	require.True(t, IsNone(err))
	require.Equal(t, []types.Range{free(0, 16)}, m.Ranges())
}

// TestScenario_WordSize4 walks the 64-byte arena scenario end to end.
func TestScenario_WordSize4(t *testing.T) {
	m := newReady(t, 4, 16)
	require.Equal(t, 64, m.Limit())

	a := mustAlloc(t, m, 10)
	require.Equal(t, m.Base(), a)
	require.Equal(t, []types.Hole{{Start: 3, Len: 13}}, m.FreeList().Holes)

	b := mustAlloc(t, m, 52)
	require.Equal(t, 12, offset(m, b))
	require.True(t, m.FreeList().Empty())

	require.True(t, m.Free(a))
	require.Equal(t, []types.Range{free(0, 3), used(3, 13)}, m.Ranges())
	require.NoError(t, verify.AllInvariants(m))

	require.True(t, m.Free(b))
	require.Equal(t, []types.Range{free(0, 16)}, m.Ranges())
}

func TestAlloc_RoundTrip(t *testing.T) {
	for size := 1; size <= 64; size++ {
		m := newReady(t, 4, 16)

		addr := mustAlloc(t, m, size)
		require.Equal(t, m.Base(), addr)
		require.True(t, m.Free(addr))
		require.Equal(t, []types.Range{free(0, 16)}, m.Ranges(), "size %d", size)
	}
}

func TestAlloc_NoFit(t *testing.T) {
	for _, s := range []strategy.Strategy{strategy.BestFit, strategy.WorstFit} {
		m := newReady(t, 4, 16, WithStrategy(s))

		_, _, err := m.Alloc(65)
		require.ErrorIs(t, err, ErrNoFit)
		require.True(t, IsNone(err))

		mustAlloc(t, m, 64)
		_, _, err = m.Alloc(1)
		require.ErrorIs(t, err, ErrNoFit, "full arena has no holes")
		require.Equal(t, 2, m.Stats().NoFit)
	}
}

// holesOf builds holes {10, 4, 7} by allocating separators, then freeing fillers.
func holesOf(t *testing.T, m *Manager) {
	t.Helper()
	h1 := mustAlloc(t, m, 10)
	mustAlloc(t, m, 1)
	h2 := mustAlloc(t, m, 4)
	mustAlloc(t, m, 1)
	h3 := mustAlloc(t, m, 7)
	mustAlloc(t, m, 1)
	for _, addr := range []types.Addr{h1, h2, h3} {
		require.True(t, m.Free(addr))
	}
	require.Equal(t, []types.Hole{{Start: 0, Len: 10}, {Start: 11, Len: 4}, {Start: 16, Len: 7}}, m.FreeList().Holes)
}

func TestAlloc_BestFitPicksSmallest(t *testing.T) {
	m := newReady(t, 1, 24, WithStrategy(strategy.FirstFit))
	holesOf(t, m)
	require.NoError(t, m.SetStrategy(strategy.BestFit))

	addr := mustAlloc(t, m, 4)
	require.Equal(t, 11, offset(m, addr))
}

func TestAlloc_WorstFitPicksLargest(t *testing.T) {
	m := newReady(t, 1, 24, WithStrategy(strategy.FirstFit))
	holesOf(t, m)
	require.NoError(t, m.SetStrategy(strategy.WorstFit))

	addr := mustAlloc(t, m, 4)
	require.Equal(t, 0, offset(m, addr))
	require.Equal(t, []types.Hole{{Start: 4, Len: 6}, {Start: 11, Len: 4}, {Start: 16, Len: 7}}, m.FreeList().Holes)
}

func TestAlloc_InteriorStrategySplitsBothSides(t *testing.T) {
	middle := strategy.Func(func(words int, holes []types.Hole) (int, bool) {
		for _, h := range holes {
			if h.Len >= words+2 {
				return h.Start + (h.Len-words)/2, true
			}
		}
		return 0, false
	})
	m := newReady(t, 4, 16, WithStrategy(middle))

	addr := mustAlloc(t, m, 16)
	require.Equal(t, 24, offset(m, addr))
	require.Equal(t, []types.Range{free(0, 6), used(6, 4), free(10, 6)}, m.Ranges())

	require.True(t, m.Free(addr))
	require.Equal(t, []types.Range{free(0, 16)}, m.Ranges())
}

func TestAlloc_StrategyFault(t *testing.T) {
	tests := []struct {
		name  string
		start int
		want  string
	}{
		{"inside allocated block", 0, "inside allocated"},
		{"outside arena", 100, "outside the arena"},
		{"hole too small", 14, "cannot hold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newReady(t, 4, 16)
			mustAlloc(t, m, 10)
			before := m.Ranges()

			require.NoError(t, m.SetStrategy(strategy.Func(func(int, []types.Hole) (int, bool) {
				return tt.start, true
			})))
			_, _, err := m.Alloc(12)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrStrategyFault)
			require.False(t, IsNone(err), "a fault must not look like an ordinary miss")
			require.Contains(t, err.Error(), tt.want)

			var fault *FaultError
			require.ErrorAs(t, err, &fault)
			require.Equal(t, tt.start, fault.Start)
			require.Equal(t, 3, fault.Words)

			require.Equal(t, before, m.Ranges(), "fault must not change the ledger")
			require.Equal(t, 1, m.Stats().Faults)
		})
	}
}

func TestFree_IgnoredTargets(t *testing.T) {
	m := newReady(t, 4, 16)
	a := mustAlloc(t, m, 12)
	mustAlloc(t, m, 8)
	before := m.Ranges()

	tests := []struct {
		name string
		addr types.Addr
	}{
		{"mid block word", a + 4},
		{"mid block byte", a + 1},
		{"before arena", m.Base() - 4},
		{"past arena", m.Base() + types.Addr(m.Limit())},
		{"free hole start", m.Base() + 20},
		{"zero", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, m.Free(tt.addr))
			require.Equal(t, before, m.Ranges())
		})
	}

	require.True(t, m.Free(a))
	require.False(t, m.Free(a), "double free is ignored")
	require.Equal(t, len(tests)+1, m.Stats().FreeIgnored)
}

func TestFree_MergesPreviousThenNext(t *testing.T) {
	m := newReady(t, 4, 12)
	a := mustAlloc(t, m, 16)
	b := mustAlloc(t, m, 16)
	c := mustAlloc(t, m, 16)

	require.True(t, m.Free(a))
	require.True(t, m.Free(c))
	require.Equal(t, []types.Range{free(0, 4), used(4, 4), free(8, 4)}, m.Ranges())

	require.True(t, m.Free(b))
	require.Equal(t, []types.Range{free(0, 12)}, m.Ranges())
	require.Equal(t, 2, m.Stats().Merges)
}

func TestBytes(t *testing.T) {
	m := newReady(t, 4, 16)
	a := mustAlloc(t, m, 10)
	b := mustAlloc(t, m, 4)

	view := m.Bytes(a)
	require.Len(t, view, 12)
	copy(view, "abcdefghijkl")
	require.Equal(t, "abcdefghijkl", string(m.Bytes(a)))
	require.Len(t, m.Bytes(b), 4)
	require.Zero(t, m.Bytes(b)[0], "neighbouring block untouched")

	require.Nil(t, m.Bytes(a+4))
	require.True(t, m.Free(a))
	require.Nil(t, m.Bytes(a))
}

func TestBytes_StaleAfterShutdownAndReinit(t *testing.T) {
	m := newReady(t, 4, 16)
	a := mustAlloc(t, m, 8)
	require.NotNil(t, m.Bytes(a))

	require.NoError(t, m.Init(16))
	require.Nil(t, m.Bytes(a), "re-Init must not resolve an old address to the new arena's view")

	b := mustAlloc(t, m, 8)
	require.NoError(t, m.Shutdown())
	require.Nil(t, m.Bytes(b))
	require.False(t, m.Free(b))
}

func TestAlloc_ViewCapacityIsBounded(t *testing.T) {
	m := newReady(t, 4, 16)
	_, data, err := m.Alloc(4)
	require.NoError(t, err)
	require.Equal(t, 4, cap(data), "appending must not spill into the next block")
}

func TestSetStrategy(t *testing.T) {
	m := newReady(t, 4, 16)
	require.ErrorIs(t, m.SetStrategy(nil), ErrNilStrategy)

	require.NoError(t, m.SetStrategy(strategy.WorstFit))
	require.NotNil(t, m.Strategy())
}

func TestStats(t *testing.T) {
	m := newReady(t, 4, 16)
	a := mustAlloc(t, m, 10)
	mustAlloc(t, m, 8)
	require.True(t, m.Free(a))
	_, _, _ = m.Alloc(0)

	s := m.Stats()
	require.Equal(t, 3, s.AllocCalls)
	require.Equal(t, 2, s.Allocs)
	require.Equal(t, 1, s.Frees)
	require.Equal(t, 16, s.Words)
	require.Equal(t, 2, s.UsedWords)
	require.Equal(t, 14, s.FreeWords)
	require.Equal(t, 2, s.Holes)
	require.Equal(t, 1, s.Blocks)
	require.Equal(t, 11, s.LargestHole)
	require.InDelta(t, 2.0/16.0, s.Utilization(), 1e-9)
	require.InDelta(t, 1-11.0/14.0, s.Fragmentation(), 1e-9)

	require.Zero(t, Stats{}.Utilization())
	require.Zero(t, Stats{}.Fragmentation())
}
