package brace

import (
	"context"
	"iter"
	"log/slog"
	"math"
)

// Expand returns the lazy sequence of expansions of e. The sequence is
// restartable: every iteration reproduces the same items.
//
// When an element cannot be produced, the sequence yields a single
// [*ExpandError] and stops; items yielded before it remain valid.
func (e *Expression) Expand() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		x := &expander{expr: e}

		count := 0

		_, err := x.node(e.Root, func() bool {
			count++

			return yield(string(x.buf), nil)
		})

		e.opts.logger.Trace("expand complete",
			slog.Int("count", count),
			slog.Bool("failed", err != nil))

		if err != nil {
			yield("", err)
		}
	}
}

// Expand parses input and returns its expansions. A parse failure is yielded
// as the first and only item.
func Expand(
	ctx context.Context,
	input string,
	opts ...Option,
) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		expr, err := Parse(ctx, input, opts...)
		if err != nil {
			yield("", err)

			return
		}

		for s, err := range expr.Expand() {
			if !yield(s, err) {
				return
			}
		}
	}
}

// Strings parses input and collects its expansions, honoring [WithLimit].
// On failure it returns the items produced before the error.
func Strings(ctx context.Context, input string, opts ...Option) ([]string, error) {
	cfg := makeConfig(opts...)

	var out []string

	for s, err := range Expand(ctx, input, opts...) {
		if err != nil {
			return out, err
		}

		out = append(out, s)

		if cfg.limit > 0 && len(out) >= cfg.limit {
			break
		}
	}

	return out, nil
}

// expander walks an expression tree. Each expansion is built in buf: a node
// appends its own text, calls the continuation, and truncates buf back.
type expander struct {
	expr *Expression
	buf  []byte
}

// next is called once buf holds the text of every node expanded so far. It
// reports whether to continue.
type next func() bool

// node expands n into buf for each of its variants in turn. It reports false
// if next asked to stop.
func (x *expander) node(n *Node, k next) (bool, error) {
	switch n.Kind {
	case KindLiteral:
		mark := len(x.buf)
		x.buf = append(x.buf, n.Text...)
		ok := k()
		x.buf = x.buf[:mark]

		return ok, nil

	case KindSequence:
		return x.product(n.Items, k)

	case KindAlternation:
		for _, b := range n.Items {
			ok, err := x.node(b, k)
			if err != nil || !ok {
				return ok, err
			}
		}

		return true, nil

	case KindRange:
		return x.walkRange(n, k)

	default:
		return true, nil
	}
}

// product expands the Cartesian product of items, with the last item varying
// fastest.
func (x *expander) product(items []*Node, k next) (bool, error) {
	if len(items) == 0 {
		return k(), nil
	}

	var inner error

	ok, err := x.node(items[0], func() bool {
		more, err := x.product(items[1:], k)
		if err != nil {
			inner = err

			return false
		}

		return more
	})
	if inner != nil {
		return false, inner
	}

	return ok, err
}

// walkRange emits each element of a range group.
//
// The step is validated before its direction, so a step of MinInt64 is
// reported as ErrOverflow even when its sign also contradicts the bounds.
func (x *expander) walkRange(n *Node, k next) (bool, error) {
	r := n.Range

	if r.Width > x.expr.opts.maxWidth {
		return false, x.errorf(ErrOverflow, n)
	}

	if r.Step == 0 {
		return false, x.errorf(ErrZeroStep, n)
	}

	if r.Step == math.MinInt64 {
		return false, x.errorf(ErrOverflow, n)
	}

	stride := uint64(r.Step)
	if r.Step < 0 {
		stride = uint64(-r.Step)
	}

	ascending := r.Start <= r.End

	if r.Signed && r.Start < r.End {
		return false, x.errorf(ErrStepDirection, n)
	}

	for cur := r.Start; ; {
		mark := len(x.buf)
		x.buf = r.appendFormat(x.buf, cur)
		ok := k()
		x.buf = x.buf[:mark]

		if !ok {
			return false, nil
		}

		// Distances are computed in uint64 so no intermediate overflows.
		var dist uint64
		if ascending {
			dist = uint64(r.End) - uint64(cur)
		} else {
			dist = uint64(cur) - uint64(r.End)
		}

		if dist < stride {
			return true, nil
		}

		if ascending {
			cur = int64(uint64(cur) + stride)
		} else {
			cur = int64(uint64(cur) - stride)
		}
	}
}

func (x *expander) errorf(err *Error, n *Node) *ExpandError {
	return &ExpandError{
		Err:    err,
		Offset: n.Offset,
		Text:   n.String(),
		Source: x.expr.Source,
	}
}
