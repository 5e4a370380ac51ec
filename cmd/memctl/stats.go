package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/wordalloc/mem/alloc"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats <script>",
		Short: "Replay a script and report allocator statistics",
		Long: `The stats command replays an allocation script silently and reports
call counters, occupancy, and fragmentation of the final arena.

Example:
  memctl stats script.txt
  memctl stats script.txt --strategy worst --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(args)
		},
	}
	return cmd
}

func runStats(args []string) error {
	m, err := newManager()
	if err != nil {
		return err
	}
	defer m.Close()

	if err := replay(m, args[0], io.Discard); err != nil {
		return err
	}

	st := m.Stats()
	if jsonOut {
		return printJSON(st)
	}
	if !quiet {
		writeStats(os.Stdout, m, st)
	}
	return nil
}

// writeStats prints st with locale-aware digit grouping.
func writeStats(w io.Writer, m *alloc.Manager, st alloc.Stats) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "\nArena:\n")
	p.Fprintf(w, "  Words:        %d x %d bytes (%d bytes)\n", st.Words, m.WordSize(), m.Limit())
	p.Fprintf(w, "  Used words:   %d (%.1f%%)\n", st.UsedWords, st.Utilization()*100)
	p.Fprintf(w, "  Free words:   %d in %d holes (largest %d)\n", st.FreeWords, st.Holes, st.LargestHole)
	p.Fprintf(w, "  Blocks:       %d\n", st.Blocks)
	p.Fprintf(w, "  Fragmentation: %.1f%%\n", st.Fragmentation()*100)

	p.Fprintf(w, "\nCalls:\n")
	p.Fprintf(w, "  Alloc:        %d (%d ok, %d no fit, %d faults)\n", st.AllocCalls, st.Allocs, st.NoFit, st.Faults)
	p.Fprintf(w, "  Free:         %d (%d ok, %d ignored)\n", st.FreeCalls, st.Frees, st.FreeIgnored)
	p.Fprintf(w, "  Splits:       %d\n", st.Splits)
	p.Fprintf(w, "  Merges:       %d\n", st.Merges)
}
