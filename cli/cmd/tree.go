package cmd

import (
	"bufio"
	"context"
	"log/slog"

	"github.com/ardnew/bexpand/brace"
	"github.com/ardnew/bexpand/log"
)

// Tree formats the parsed structure of each input pattern.
type Tree struct {
	Format string `default:"native" enum:"native,json,yaml,ast" help:"Output format (${enum})."            short:"f"`
	Indent int    `default:"2"                                  help:"Indent width for JSON and YAML output." short:"i"`

	Patterns []string `arg:"" help:"Patterns to parse (default: one per line from --source or stdin)." name:"pattern" optional:""`
}

// Run executes the tree command.
func (t *Tree) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	streams := streamsFrom(ctx)
	w := bufio.NewWriter(streams.Out)

	defer func() {
		if ferr := w.Flush(); err == nil && ferr != nil {
			err = ErrWriteOutput.Wrap(ferr)
		}
	}()

	for input, err := range patterns(ctx, t.Patterns) {
		if err != nil {
			return err
		}

		expr, err := brace.Parse(ctx, input, brace.WithLogger(log.Default()))
		if err != nil {
			_ = w.Flush()

			if s := brace.Snippet(err); s != "" {
				_, _ = streams.Err.Write([]byte(s))
			}

			return ErrParse.
				With(slog.String("input", input)).
				Wrap(err)
		}

		switch t.Format {
		case "json":
			err = expr.FormatJSON(w, t.Indent)

		case "yaml":
			err = expr.FormatYAML(ctx, w, t.Indent)

		case "ast":
			err = expr.Print(w)

		default:
			err = expr.Format(w)
		}

		if err != nil {
			return ErrWriteOutput.
				With(slog.String("format", t.Format)).
				Wrap(err)
		}
	}

	return nil
}
