package alloc

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/joshuapare/wordalloc/mem/strategy"
	"github.com/joshuapare/wordalloc/pkg/types"
)

// BenchmarkAllocFree measures a steady alloc/free churn on a fragmented arena.
func BenchmarkAllocFree(b *testing.B) {
	for _, name := range strategy.Names() {
		for _, words := range []int{256, 4096} {
			b.Run(fmt.Sprintf("%s/%dw", name, words), func(b *testing.B) {
				s, _ := strategy.ByName(name)
				m := newReady(b, 8, words, WithStrategy(s))
				rng := rand.New(rand.NewSource(1))

				live := make([]types.Addr, 0, words)
				b.ReportAllocs()
				b.ResetTimer()
				for range b.N {
					if len(live) > 0 && rng.Intn(2) == 0 {
						i := rng.Intn(len(live))
						m.Free(live[i])
						live[i] = live[len(live)-1]
						live = live[:len(live)-1]
						continue
					}
					if addr, _, err := m.Alloc(8 + rng.Intn(64)); err == nil {
						live = append(live, addr)
					}
				}
			})
		}
	}
}

// BenchmarkBitmap measures bitmap export of a half-allocated arena.
func BenchmarkBitmap(b *testing.B) {
	m := newReady(b, 8, 4096)
	addrs := make([]types.Addr, 0, 2048)
	for range 2048 {
		addr, _, err := m.Alloc(16)
		if err != nil {
			b.Fatal(err)
		}
		addrs = append(addrs, addr)
	}
	for i := 0; i < len(addrs); i += 2 {
		m.Free(addrs[i])
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		_ = m.Bitmap()
	}
}
