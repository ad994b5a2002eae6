package brace

import (
	"iter"
	"strconv"
	"strings"
)

// Kind indicates the kind of a [Node].
type Kind int

const (
	// KindLiteral represents verbatim text.
	KindLiteral Kind = iota

	// KindSequence represents the concatenation of its items.
	KindSequence

	// KindAlternation represents a {a,b,c} group.
	KindAlternation

	// KindRange represents a {x..y[..step]} group.
	KindRange
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"

	case KindSequence:
		return "Sequence"

	case KindAlternation:
		return "Alternation"

	case KindRange:
		return "Range"

	default:
		return "Unknown"
	}
}

// RangeType distinguishes numeric ranges from alphabetic ranges.
type RangeType int

const (
	// RangeNumeric walks signed decimal integers.
	RangeNumeric RangeType = iota

	// RangeAlphabetic walks single ASCII letters.
	RangeAlphabetic
)

// String returns a string representation of the range type.
func (t RangeType) String() string {
	switch t {
	case RangeNumeric:
		return "numeric"

	case RangeAlphabetic:
		return "alphabetic"

	default:
		return "unknown"
	}
}

// Range holds the concrete bounds of a range group.
//
// For alphabetic ranges Start and End hold ASCII code points.
type Range struct {
	Type  RangeType
	Start int64
	End   int64
	Step  int64 // 1 when omitted
	// Signed reports whether the step was written with an explicit sign,
	// which pins the direction instead of inferring it from the bounds.
	Signed bool
	// Width is the zero-padded output width; 0 disables padding.
	Width int
}

// Node is one unit of the expression tree.
type Node struct {
	Kind Kind
	// Exactly one of these is meaningful based on Kind
	Text  string  // KindLiteral
	Items []*Node // KindSequence, KindAlternation
	Range *Range  // KindRange
	// Offset is the byte offset of the node's first source character.
	Offset int
}

// NewLiteral returns a literal node holding text.
func NewLiteral(text string) *Node {
	return &Node{Kind: KindLiteral, Text: text}
}

// NewSequence returns a sequence node over items.
// A single item is returned unwrapped, and no items yield an empty literal.
func NewSequence(items ...*Node) *Node {
	switch len(items) {
	case 0:
		return NewLiteral("")

	case 1:
		return items[0]
	}

	return &Node{Kind: KindSequence, Items: items}
}

// NewAlternation returns an alternation node over branches.
// Fewer than two branches do not form a group and yield nil.
func NewAlternation(branches ...*Node) *Node {
	if len(branches) < 2 {
		return nil
	}

	return &Node{Kind: KindAlternation, Items: branches}
}

// NewRange returns a range node.
func NewRange(r Range) *Node {
	return &Node{Kind: KindRange, Range: &r}
}

// Children returns an iterator over the node's direct children.
func (n *Node) Children() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.Items {
			if !yield(c) {
				return
			}
		}
	}
}

// Walk calls fn for n and every descendant in depth-first pre-order,
// passing the depth of each node. Walk stops descending when fn returns false.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int) bool, depth int) {
	if !fn(n, depth) {
		return
	}

	for _, c := range n.Items {
		c.walk(fn, depth+1)
	}
}

// String returns the canonical brace syntax for the node. Parsing the result
// yields a tree with identical expansions.
func (n *Node) String() string {
	var sb strings.Builder

	n.writeTo(&sb)

	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	switch n.Kind {
	case KindLiteral:
		sb.WriteString(escape(n.Text))

	case KindSequence:
		for _, c := range n.Items {
			c.writeTo(sb)
		}

	case KindAlternation:
		sb.WriteByte('{')

		for i, c := range n.Items {
			if i > 0 {
				sb.WriteByte(',')
			}

			c.writeTo(sb)
		}

		sb.WriteByte('}')

	case KindRange:
		r := n.Range

		sb.WriteByte('{')
		sb.WriteString(r.format(r.Start))
		sb.WriteString("..")
		sb.WriteString(r.format(r.End))

		if r.Step != 1 || r.Signed {
			sb.WriteString("..")
			sb.WriteString(strconv.FormatInt(r.Step, 10))
		}

		sb.WriteByte('}')
	}
}

// escape quotes the characters that carry structure in brace syntax.
func escape(s string) string {
	if !strings.ContainsAny(s, `{},\`) {
		return s
	}

	var sb strings.Builder

	sb.Grow(len(s) + 2)

	for i := 0; i < len(s); i++ {
		if isEscapable(s[i]) {
			sb.WriteByte('\\')
		}

		sb.WriteByte(s[i])
	}

	return sb.String()
}

// format renders a single range element.
func (r *Range) format(v int64) string {
	return string(r.appendFormat(nil, v))
}

// appendFormat appends the element v of the range to dst.
func (r *Range) appendFormat(dst []byte, v int64) []byte {
	if r.Type == RangeAlphabetic {
		return append(dst, byte(v))
	}

	neg := v < 0

	mag := uint64(v)
	if neg {
		mag = -mag
		dst = append(dst, '-')
	}

	width := r.Width
	if neg {
		width-- // the sign takes a slot but is never padded
	}

	for range width - digitCount(mag) {
		dst = append(dst, '0')
	}

	return strconv.AppendUint(dst, mag, 10)
}

// digitCount returns the number of decimal digits of v.
func digitCount(v uint64) int {
	n := 1
	for ; v >= 10; v /= 10 {
		n++
	}

	return n
}
