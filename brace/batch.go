package brace

import (
	"context"
	"log/slog"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Result holds the expansion of one input of a [Batch].
type Result struct {
	Index   int      // position of Input in the batch
	Input   string   // source pattern
	Outputs []string // expansions produced before Err, if any
	Err     error    // a *ParseError or *ExpandError, or nil
}

// Batch parses and expands each input on a bounded pool of workers
// ([WithWorkers]), collecting at most [WithLimit] items per input.
//
// Results are returned in input order. Repeated inputs are expanded once and
// their Results share the same Outputs slice. A failing input records its
// error in its own Result and does not affect the others; the returned error
// is non-nil only if ctx is done before every input is processed.
func Batch(ctx context.Context, inputs []string, opts ...Option) ([]Result, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "batch start",
		slog.Int("inputs", len(inputs)),
		slog.Int("workers", cfg.workers))

	results := make([]Result, len(inputs))

	// first maps an input hash to the index of its first occurrence; repeat
	// maps the index of each later occurrence to that first index.
	first := make(map[uint64]int, len(inputs))
	repeat := make(map[int]int)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)

	for i, input := range inputs {
		if gctx.Err() != nil {
			break
		}

		h := xxh3.HashString(input)
		if j, ok := first[h]; ok && inputs[j] == input {
			repeat[i] = j

			continue
		}

		first[h] = i

		g.Go(func() error {
			results[i] = collect(gctx, i, input, cfg.limit, opts)

			return gctx.Err()
		})
	}

	err := g.Wait()

	for i, j := range repeat {
		results[i] = results[j]
		results[i].Index = i
	}

	if err != nil {
		return results, err
	}

	// The loop may have stopped early without any worker observing it.
	if err := ctx.Err(); err != nil {
		return results, err
	}

	cfg.logger.TraceContext(ctx, "batch complete", slog.Int("inputs", len(inputs)))

	return results, nil
}

// collect expands one batch input, stopping early when ctx is done.
func collect(ctx context.Context, index int, input string, limit int, opts []Option) Result {
	res := Result{Index: index, Input: input}

	for s, err := range Expand(ctx, input, opts...) {
		if err != nil {
			res.Err = err

			break
		}

		if ctx.Err() != nil {
			break
		}

		res.Outputs = append(res.Outputs, s)

		if limit > 0 && len(res.Outputs) >= limit {
			break
		}
	}

	return res
}
