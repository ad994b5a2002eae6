package brace

import (
	"runtime"

	"github.com/ardnew/bexpand/log"
)

// DefaultMaxWidth is the default ceiling on the zero-padded width of a numeric
// range element. Wider ranges fail lazily with [ErrOverflow].
var DefaultMaxWidth = 1024

// config holds parse, expand, and batch settings.
type config struct {
	logger   log.Logger
	maxWidth int
	workers  int
	limit    int
}

// Option configures parsing, expansion, or batch behavior.
type Option func(*config)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxWidth sets the maximum zero-padded width of numeric range elements.
func WithMaxWidth(width int) Option {
	return func(c *config) {
		c.maxWidth = width
	}
}

// WithWorkers sets the number of inputs [Batch] processes concurrently.
// Values less than 1 select [runtime.GOMAXPROCS].
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLimit caps the number of expansions [Batch] and [Strings] collect per
// input. Zero means no limit.
func WithLimit(n int) Option {
	return func(c *config) {
		c.limit = n
	}
}

func makeConfig(opts ...Option) config {
	c := config{
		maxWidth: DefaultMaxWidth,
		workers:  runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(&c)
	}

	if c.workers < 1 {
		c.workers = runtime.GOMAXPROCS(0)
	}

	return c
}
