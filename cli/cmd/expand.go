package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ardnew/bexpand/brace"
	"github.com/ardnew/bexpand/log"
)

// Expand prints the brace expansions of each input pattern.
type Expand struct {
	Patterns []string `arg:"" help:"Patterns to expand (default: one per line from --source or stdin)." name:"pattern" optional:""`

	Output  string `default:"lines" enum:"lines,nul,json,yaml,join" help:"Output format (${enum})."                        short:"o"`
	Flatten bool   `                                                 help:"Emit a single JSON or YAML array of all items."`
	Delim   string `default:":"                                      help:"Delimiter for join output."                       short:"d"`

	Match  string `                help:"Keep items matching a regular expression."                        short:"m"`
	Filter string `                help:"Keep items for which an expression (item, index, input) is true." short:"x"`
	Limit  int    `default:"0"     help:"Stop each input after N items (0 for no limit)."                   short:"n"`

	Workers   int  `default:"1"    help:"Expand inputs on N concurrent workers."    short:"j"`
	MaxWidth  int  `default:"1024" help:"Maximum width of a zero-padded range item."`
	KeepGoing bool `               help:"Continue past inputs that fail to expand." short:"k"`
}

// Run executes the expand command.
func (e *Expand) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	f, err := compileFilter(e.Match, e.Filter)
	if err != nil {
		return err
	}

	streams := streamsFrom(ctx)

	x := expansion{
		Expand: e,
		filter: f,
		sink:   newSink(ctx, streams.Out, e),
		stderr: streams.Err,
	}

	if e.Workers > 1 {
		err = x.batch(ctx)
	} else {
		err = x.serial(ctx)
	}

	if ferr := x.sink.flush(); err == nil {
		err = ferr
	}

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "expand complete",
		slog.Int("inputs", x.inputs),
		slog.Int("items", x.items),
		slog.Int("failed", x.failed),
	)

	if x.failed > 0 {
		return ErrExpand.With(
			slog.Int("failed", x.failed),
			slog.Int("inputs", x.inputs),
		)
	}

	return nil
}

// expansion carries the state of a single run of the expand command.
type expansion struct {
	*Expand

	filter *filter
	sink   sink
	stderr io.Writer

	inputs, items, failed int
}

func (x *expansion) options() []brace.Option {
	return []brace.Option{
		brace.WithLogger(log.Default()),
		brace.WithMaxWidth(x.MaxWidth),
	}
}

// serial expands each input lazily, in order.
func (x *expansion) serial(ctx context.Context) error {
	opts := x.options()

	for input, err := range patterns(ctx, x.Patterns) {
		if err != nil {
			return err
		}

		if err := x.sink.begin(input); err != nil {
			return err
		}

		x.inputs++

		emitted, index := 0, 0

		var failure error

		for s, err := range brace.Expand(ctx, input, opts...) {
			if err != nil {
				failure = err

				break
			}

			ok, err := x.filter.keep(s, index, input)
			index++

			if err != nil {
				failure = err

				break
			}

			if !ok {
				continue
			}

			if err := x.sink.item(s); err != nil {
				return err
			}

			emitted++

			if x.Limit > 0 && emitted >= x.Limit {
				break
			}
		}

		x.items += emitted

		if err := x.sink.end(); err != nil {
			return err
		}

		if failure != nil {
			if err := x.fail(ctx, input, failure); err != nil {
				return err
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}

	return nil
}

// batch reads every input, expands them concurrently with [brace.Batch], and
// writes the results in input order.
func (x *expansion) batch(ctx context.Context) error {
	var inputs []string

	for input, err := range patterns(ctx, x.Patterns) {
		if err != nil {
			return err
		}

		inputs = append(inputs, input)
	}

	opts := append(x.options(), brace.WithWorkers(x.Workers))

	// Filtering happens after collection, so the limit can only be pushed
	// down when nothing is filtered out.
	if !x.filter.active() {
		opts = append(opts, brace.WithLimit(x.Limit))
	}

	results, err := brace.Batch(ctx, inputs, opts...)
	if err != nil {
		return err
	}

	for _, res := range results {
		if err := x.sink.begin(res.Input); err != nil {
			return err
		}

		x.inputs++

		failure := res.Err
		emitted := 0

		for index, s := range res.Outputs {
			ok, err := x.filter.keep(s, index, res.Input)
			if err != nil {
				failure = err

				break
			}

			if !ok {
				continue
			}

			if err := x.sink.item(s); err != nil {
				return err
			}

			emitted++

			if x.Limit > 0 && emitted >= x.Limit {
				break
			}
		}

		x.items += emitted

		if err := x.sink.end(); err != nil {
			return err
		}

		if failure != nil {
			if err := x.fail(ctx, res.Input, failure); err != nil {
				return err
			}
		}
	}

	return nil
}

// fail records a failed input and writes its caret diagnostic. Without
// --keep-going the failure is returned and ends the run; otherwise it is
// logged and the run continues.
func (x *expansion) fail(ctx context.Context, input string, err error) error {
	x.failed++

	wrapped := ErrExpand.With(slog.String("input", input)).Wrap(err)

	if !x.KeepGoing {
		x.snippet(err)

		return wrapped
	}

	log.ErrorContext(ctx, "input failed", slog.Any("error", wrapped))
	x.snippet(err)

	return nil
}

// snippet writes the caret diagnostic of a pattern error to stderr.
func (x *expansion) snippet(err error) {
	if s := brace.Snippet(err); s != "" {
		fmt.Fprint(x.stderr, s)
	}
}
