package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/ardnew/bexpand/brace"
	"github.com/ardnew/bexpand/cli/cmd/repl"
	"github.com/ardnew/bexpand/log"
)

var errPreviewRange = errors.New("preview must be at least 1")

// Repl previews expansions interactively while a pattern is typed.
type Repl struct {
	Preview  int `default:"8"    help:"Number of expansions previewed while typing."`
	MaxWidth int `default:"1024" help:"Maximum width of a zero-padded range item."`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if r.Preview < 1 {
		return ErrInvalidFlag.
			With(slog.Int("preview", r.Preview)).
			Wrap(errPreviewRange)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ErrNoTerminal
	}

	cacheDir, _ := kongVar(ctx, CacheIdentifier)

	return repl.Run(
		ctx,
		cacheDir,
		r.Preview,
		log.Default(),
		brace.WithMaxWidth(r.MaxWidth),
	)
}
