package alloc

import (
	"log/slog"

	"github.com/joshuapare/wordalloc/internal/backing"
	"github.com/joshuapare/wordalloc/mem/strategy"
	"github.com/joshuapare/wordalloc/pkg/types"
)

// config holds construction settings for a Manager.
type config struct {
	wordSize int
	strategy strategy.Strategy
	logger   *slog.Logger
	backing  backing.Func
}

func defaultConfig() config {
	return config{
		wordSize: types.DefaultWordSize,
		strategy: strategy.Default,
		backing:  backing.Default,
	}
}

// Option configures a Manager.
type Option func(*config)

// WithWordSize sets the word size in bytes. It must be positive.
func WithWordSize(n int) Option {
	return func(c *config) { c.wordSize = n }
}

// WithStrategy sets the initial placement strategy.
func WithStrategy(s strategy.Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithLogger routes Manager logs to l instead of the process logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithBacking replaces the function that obtains arena memory.
func WithBacking(fn backing.Func) Option {
	return func(c *config) { c.backing = fn }
}
