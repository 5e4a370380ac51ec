package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/wordalloc/mem/alloc"
	"github.com/joshuapare/wordalloc/pkg/types"
)

var (
	exportAllocs []int
	exportFrees  []int
)

func init() {
	for _, cmd := range []*cobra.Command{newMapCmd(), newBitmapCmd(), newHolesCmd()} {
		cmd.Flags().IntSliceVar(&exportAllocs, "alloc", nil, "Allocate these byte sizes in order")
		cmd.Flags().
			IntSliceVar(&exportFrees, "free", nil, "Then free these allocations (0-based index into --alloc)")
		rootCmd.AddCommand(cmd)
	}
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Print the free-range map",
		Long: `The map command prints the free ranges of an arena as "[start, length]"
joined by " - ". Allocated ranges are omitted.

Example:
  memctl map --words 16 --word-size 4 --alloc 10,52 --free 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(func(m *alloc.Manager) (any, string) {
				return map[string]string{"map": m.MapText()}, renderMap(m)
			})
		},
	}
}

func newBitmapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bitmap",
		Short: "Print the allocation bitmap in hex",
		Long: `The bitmap command prints the allocation bitmap: a 2-byte little-endian
byte count followed by one bit per word (1 = allocated).

Example:
  memctl bitmap --words 16 --word-size 4 --alloc 10,52 --free 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(func(m *alloc.Manager) (any, string) {
				bitmap := hex.EncodeToString(m.Bitmap())
				return map[string]string{"bitmap": bitmap}, bitmap
			})
		},
	}
}

func newHolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "holes",
		Short: "Print the free-range list",
		Long: `The holes command prints the hole count followed by every free range
in address order, in word units.

Example:
  memctl holes --words 24 --word-size 1 --alloc 10,1,4,1,7,1 --free 0,2,4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(func(m *alloc.Manager) (any, string) {
				fl := m.FreeList()
				return map[string]any{"count": fl.Count(), "holes": fl.Holes}, renderHoles(fl)
			})
		},
	}
}

// prepare applies --alloc and then --free to a fresh arena.
func prepare() (*alloc.Manager, error) {
	m, err := newManager()
	if err != nil {
		return nil, err
	}
	addrs := make([]types.Addr, 0, len(exportAllocs))
	for i, size := range exportAllocs {
		addr, _, err := m.Alloc(size)
		if err != nil {
			m.Close()
			return nil, fmt.Errorf("--alloc[%d]=%d: %w", i, size, err)
		}
		addrs = append(addrs, addr)
	}
	for _, idx := range exportFrees {
		if idx < 0 || idx >= len(addrs) {
			m.Close()
			return nil, fmt.Errorf("--free %d: no such allocation", idx)
		}
		m.Free(addrs[idx])
	}
	return m, nil
}

// runExport prepares an arena and prints one export as JSON or text.
func runExport(render func(m *alloc.Manager) (any, string)) error {
	m, err := prepare()
	if err != nil {
		return err
	}
	defer m.Close()

	jsonView, text := render(m)
	if jsonOut {
		return printJSON(jsonView)
	}
	printInfo("%s\n", text)
	return nil
}
