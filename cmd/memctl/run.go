package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/wordalloc/mem/alloc"
	"github.com/joshuapare/wordalloc/pkg/types"
)

var runDumpPath string

func init() {
	cmd := newRunCmd()
	cmd.Flags().StringVar(&runDumpPath, "dump", "", "Write the final free-range map to this file")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "Replay an allocation script",
		Long: `The run command replays an allocation script against a fresh arena.

Script commands (one per line, '#' starts a comment):
  alloc <bytes> [name]   allocate; name defaults to b1, b2, ...
  free <name|@offset>    free a named block or a byte offset
  strategy <name>        switch placement strategy (best, worst, first)
  reset [words]          re-initialize the arena
  map | bitmap | holes   print an export

Use "-" to read the script from stdin.

Example:
  memctl run script.txt
  memctl run script.txt --words 16 --word-size 4 --strategy worst
  memctl run script.txt --dump map.txt --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(args)
		},
	}
	return cmd
}

// snapshot is the JSON view of an arena.
type snapshot struct {
	WordSize int           `json:"word_size"`
	Words    int           `json:"words"`
	Map      string        `json:"map"`
	Holes    []types.Hole  `json:"holes"`
	Bitmap   string        `json:"bitmap"`
	Ranges   []types.Range `json:"ranges"`
	Stats    alloc.Stats   `json:"stats"`
}

func takeSnapshot(m *alloc.Manager) snapshot {
	return snapshot{
		WordSize: m.WordSize(),
		Words:    m.Words(),
		Map:      m.MapText(),
		Holes:    m.FreeList().Holes,
		Bitmap:   hex.EncodeToString(m.Bitmap()),
		Ranges:   m.Ranges(),
		Stats:    m.Stats(),
	}
}

func openScript(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// replay runs the script at path against m, writing command output to out.
func replay(m *alloc.Manager, path string, out io.Writer) error {
	f, err := openScript(path)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer f.Close()

	return newSession(m, out).run(f)
}

func runScript(args []string) error {
	scriptPath := args[0]
	printVerbose("Running script: %s\n", scriptPath)

	m, err := newManager()
	if err != nil {
		return err
	}
	defer m.Close()

	var out io.Writer = os.Stdout
	if quiet || jsonOut {
		out = io.Discard
	}
	if err := replay(m, scriptPath, out); err != nil {
		return err
	}

	if runDumpPath != "" {
		if err := m.DumpMap(runDumpPath); err != nil {
			return err
		}
		printVerbose("Map written to %s\n", runDumpPath)
	}

	if jsonOut {
		return printJSON(takeSnapshot(m))
	}
	printInfo("final: %s\n", renderMap(m))
	return nil
}
