package brace

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/ardnew/bexpand/log"
)

// Expression is the immutable root of a parsed brace pattern.
// It is safe for repeated and concurrent expansion.
type Expression struct {
	Root   *Node
	Source string
	opts   config
}

// String returns the canonical brace syntax of the expression.
func (e *Expression) String() string { return e.Root.String() }

// ParseReader parses an expression from all of r.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Expression, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, WrapError(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses input into an [Expression]. On failure it returns a
// [*ParseError] and no partial result.
func Parse(ctx context.Context, input string, opts ...Option) (*Expression, error) {
	cfg := makeConfig(opts...)

	cfg.logger.TraceContext(ctx, "parse start",
		slog.Int("source_length", len(input)))

	p := &parser{
		input:  input,
		logger: cfg.logger,
	}

	items, err := p.parseItems(false)
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	root := NewSequence(items...)

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.String("root", root.Kind.String()),
		slog.Int("groups", p.groups))

	return &Expression{
		Root:   root,
		Source: input,
		opts:   cfg,
	}, nil
}

// parser holds the parser state.
type parser struct {
	input  string
	pos    int
	groups int
	logger log.Logger
}

// parseItems parses literal runs and groups until end of input or, when
// inGroup is set, until a top-level ',' or '}'.
func (p *parser) parseItems(inGroup bool) ([]*Node, error) {
	var (
		items    []*Node
		lit      strings.Builder
		litStart = p.pos
	)

	flush := func() {
		if lit.Len() > 0 {
			items = appendNode(items, &Node{
				Kind:   KindLiteral,
				Text:   lit.String(),
				Offset: litStart,
			})
			lit.Reset()
		}
	}

	for !p.eof() {
		ch := p.input[p.pos]

		switch {
		case ch == '\\':
			if lit.Len() == 0 {
				litStart = p.pos
			}

			if p.pos+1 < len(p.input) && isEscapable(p.input[p.pos+1]) {
				lit.WriteByte(p.input[p.pos+1])
				p.pos += 2
			} else {
				lit.WriteByte(ch)
				p.pos++
			}

		case ch == '{':
			flush()

			group, err := p.parseGroup()
			if err != nil {
				return nil, err
			}

			for _, n := range group {
				items = appendNode(items, n)
			}

		case ch == '}' && !inGroup:
			return nil, p.errorf(ErrUnbalancedBrace, p.pos, "")

		case (ch == '}' || ch == ',') && inGroup:
			flush()

			return items, nil

		default:
			if lit.Len() == 0 {
				litStart = p.pos
			}

			lit.WriteByte(ch)
			p.pos++
		}
	}

	flush()

	return items, nil
}

// parseGroup parses the group opening at the current position. It returns
// either a single Alternation or Range node, or, for a group without a
// top-level comma, the braces as literal text around the parsed interior.
func (p *parser) parseGroup() ([]*Node, error) {
	open := p.pos

	p.groups++

	node, ok, err := p.parseRange(open)
	if err != nil {
		return nil, err
	}

	if ok {
		return []*Node{node}, nil
	}

	p.pos = open + 1

	var branches []*Node

	for {
		start := p.pos

		items, err := p.parseItems(true)
		if err != nil {
			return nil, err
		}

		if p.eof() {
			return nil, p.errorf(ErrUnbalancedBrace, open, "")
		}

		branch := NewSequence(items...)
		if len(items) != 1 {
			branch.Offset = start
		}

		branches = append(branches, branch)

		// parseItems stops on ',' or the matching '}'
		sep := p.input[p.pos]
		p.pos++

		if sep == '}' {
			break
		}
	}

	if alt := NewAlternation(branches...); alt != nil {
		alt.Offset = open

		return []*Node{alt}, nil
	}

	// No top-level comma: the braces are literal text.
	group := make([]*Node, 0, 2+len(branches[0].Items))
	group = append(group, &Node{Kind: KindLiteral, Text: "{", Offset: open})

	if branches[0].Kind == KindSequence {
		group = append(group, branches[0].Items...)
	} else {
		group = append(group, branches[0])
	}

	return append(group,
		&Node{Kind: KindLiteral, Text: "}", Offset: p.pos - 1}), nil
}

// parseRange classifies the group opening at open as a range group, and on
// success advances past its closing '}'. Only the bytes up to the first
// structural character are examined; ok=false means the group does not have
// the shape {tok..tok[..tok]}. Shaped groups with unusable tokens are errors.
func (p *parser) parseRange(open int) (*Node, bool, error) {
	closing := open + 1
	for closing < len(p.input) && !isEscapable(p.input[closing]) {
		closing++
	}

	if closing >= len(p.input) || p.input[closing] != '}' {
		return nil, false, nil
	}

	interior := p.input[open+1 : closing]

	toks := strings.Split(interior, "..")
	if len(toks) != 2 && len(toks) != 3 {
		return nil, false, nil
	}

	// offs[i] is the byte offset of toks[i] in the input.
	offs := make([]int, len(toks))
	off := open + 1

	for i, tok := range toks {
		if !isIntToken(tok) && !isLetterToken(tok) {
			return nil, false, nil
		}

		offs[i] = off
		off += len(tok) + len("..")
	}

	r := Range{Step: 1}

	switch {
	case isLetterToken(toks[0]) && isLetterToken(toks[1]):
		r.Type = RangeAlphabetic
		r.Start, r.End = int64(toks[0][0]), int64(toks[1][0])

		if isUpper(toks[0][0]) != isUpper(toks[1][0]) {
			return nil, false, p.errorf(ErrMixedCaseRange, open, "{"+interior+"}")
		}

	case isIntToken(toks[0]) && isIntToken(toks[1]):
		r.Type = RangeNumeric

		var err error

		for i, bound := range []*int64{&r.Start, &r.End} {
			*bound, err = strconv.ParseInt(toks[i], 10, 64)
			if err != nil {
				return nil, false, p.errorf(ErrInvalidRangeToken, offs[i], toks[i])
			}
		}

		if isPadded(toks[0]) || isPadded(toks[1]) {
			r.Width = max(len(toks[0]), len(toks[1]))
		}

	default:
		// a letter bound paired with a numeric bound
		return nil, false, p.errorf(ErrInvalidRangeToken, offs[1], toks[1])
	}

	if len(toks) == 3 {
		if !isIntToken(toks[2]) {
			return nil, false, p.errorf(ErrInvalidRangeToken, offs[2], toks[2])
		}

		step, err := strconv.ParseInt(toks[2], 10, 64)
		if err != nil {
			return nil, false, p.errorf(ErrInvalidRangeToken, offs[2], toks[2])
		}

		r.Step = step
		r.Signed = toks[2][0] == '-'
	}

	node := NewRange(r)
	node.Offset = open
	p.pos = closing + 1

	return node, true, nil
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) errorf(err *Error, offset int, text string) *ParseError {
	return &ParseError{
		Err:    err,
		Offset: offset,
		Text:   text,
		Source: p.input,
	}
}

// appendNode appends n to items, merging adjacent literals and splicing
// nested sequences.
func appendNode(items []*Node, n *Node) []*Node {
	if n.Kind == KindSequence {
		for _, c := range n.Items {
			items = appendNode(items, c)
		}

		return items
	}

	if n.Kind == KindLiteral && len(items) > 0 {
		if last := items[len(items)-1]; last.Kind == KindLiteral {
			items[len(items)-1] = &Node{
				Kind:   KindLiteral,
				Text:   last.Text + n.Text,
				Offset: last.Offset,
			}

			return items
		}
	}

	return append(items, n)
}

// Character classification

func isEscapable(c byte) bool {
	return c == '{' || c == '}' || c == ',' || c == '\\'
}

func isIntToken(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func isLetterToken(s string) bool {
	return len(s) == 1 && (isUpper(s[0]) || isLower(s[0]))
}

func isUpper(c byte) bool { return 'A' <= c && c <= 'Z' }

func isLower(c byte) bool { return 'a' <= c && c <= 'z' }

// isPadded reports whether an integer token requests zero-padding.
func isPadded(tok string) bool {
	digits := strings.TrimPrefix(tok, "-")

	return len(digits) > 1 && digits[0] == '0'
}
