// Package brace implements lazy shell-style brace expansion.
//
// A pattern mixes literal text with alternation groups and range groups,
// nested to any depth:
//
//	a{b,c}d        → abd acd
//	file{1..3}     → file1 file2 file3
//	{x..z}{0..4..2} → x0 x2 x4 y0 y2 y4 z0 z2 z4
//	v{01..10..3}   → v01 v04 v07 v10
//
// # Parsing
//
// [Parse] builds an immutable [Expression] in a single left-to-right scan.
// Braces must balance; a group without a top-level comma and without the
// shape of a range keeps its braces as literal text, while nested groups in
// its interior still expand. A backslash quotes '{', '}', ',' and itself;
// any other backslash is literal.
//
// # Expansion
//
// [Expression.Expand] returns an [iter.Seq2] that produces one string per
// combination. Sequences expand in odometer order (the last group varies
// fastest), alternations in branch order, and ranges inclusively from start
// toward end. Nothing is materialized ahead of the consumer, so patterns with
// astronomically many expansions are safe to iterate partially.
//
// Errors that depend only on range values, such as a zero step, are raised
// lazily as an [*ExpandError] in place of the element that would have
// triggered them. Syntax errors are reported by [Parse] as a [*ParseError].
// Both locate the offending byte and render a caret diagnostic with
// [Snippet].
//
// # Concurrency
//
// An Expression may be expanded by any number of goroutines at once.
// [Batch] expands many inputs on a bounded worker pool and returns their
// results in input order.
package brace
