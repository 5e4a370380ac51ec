package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/wordalloc/internal/logger"
	"github.com/joshuapare/wordalloc/mem/alloc"
	"github.com/joshuapare/wordalloc/mem/strategy"
	"github.com/joshuapare/wordalloc/pkg/types"
)

var (
	// Global flags
	verbose      bool
	quiet        bool
	jsonOut      bool
	wordSize     int
	arenaWords   int
	strategyName string
	logDir       string
)

var rootCmd = &cobra.Command{
	Use:   "memctl",
	Short: "Drive a simulated word-addressed allocator",
	Long: `memctl runs allocation scripts against a simulated word-addressed
allocator and prints the resulting free list, allocation bitmap, and free-range
map. Placement strategies (best, worst, first) can be chosen per run or switched
inside a script.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initLogging()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output and debug logs on stderr")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().
		IntVarP(&wordSize, "word-size", "w", types.DefaultWordSize, "Word size in bytes")
	rootCmd.PersistentFlags().IntVarP(&arenaWords, "words", "n", 64, "Arena size in words")
	rootCmd.PersistentFlags().
		StringVarP(&strategyName, "strategy", "s", strategy.NameBest, "Placement strategy (best, worst, first)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write JSON debug logs to this directory")
}

func execute() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		printError("%v\n", err)
		os.Exit(1)
	}
}

// initLogging wires the process logger from the global flags.
func initLogging() error {
	opts := logger.Options{Enabled: verbose || logDir != ""}
	switch {
	case logDir != "":
		opts.LogDir = logDir
		opts.Level = slog.LevelDebug
	case verbose:
		opts.Writer = os.Stderr
		opts.Level = slog.LevelDebug
	}
	return logger.Init(opts)
}

// newManager builds and initializes a Manager from the global flags.
func newManager() (*alloc.Manager, error) {
	s, err := strategy.ByName(strategyName)
	if err != nil {
		return nil, err
	}
	m, err := alloc.New(alloc.WithWordSize(wordSize), alloc.WithStrategy(s))
	if err != nil {
		return nil, err
	}
	if err := m.Init(arenaWords); err != nil {
		return nil, err
	}
	printVerbose("Arena: %d words x %d bytes, strategy %s\n", arenaWords, wordSize, strategyName)
	return m, nil
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	return writeJSON(os.Stdout, v)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
