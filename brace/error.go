package brace

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Predefined errors (sentinel values).
var (
	ErrUnbalancedBrace   = NewError("unbalanced brace")
	ErrInvalidRangeToken = NewError("invalid range token")
	ErrMixedCaseRange    = NewError("mixed-case alphabetic range")
	ErrStepDirection     = NewError("step direction mismatch")
	ErrZeroStep          = NewError("zero range step")
	ErrOverflow          = NewError("numeric overflow")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// Position locates a byte offset within a source string.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, in runes
}

// Locate converts a byte offset in source into a [Position].
func Locate(source string, offset int) Position {
	offset = min(max(offset, 0), len(source))

	pos := Position{Offset: offset, Line: 1, Column: 1}

	lineStart := strings.LastIndexByte(source[:offset], '\n') + 1
	pos.Line += strings.Count(source[:lineStart], "\n")
	pos.Column += utf8.RuneCountInString(source[lineStart:offset])

	return pos
}

// String returns "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// ParseError reports malformed brace syntax. It unwraps to one of
// [ErrUnbalancedBrace], [ErrInvalidRangeToken], or [ErrMixedCaseRange].
type ParseError struct {
	Err    *Error
	Offset int    // byte offset of the offending character
	Text   string // offending token, if any
	Source string // the original input
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return describe(e.Err, e.Offset, e.Text)
}

// Unwrap returns the sentinel error.
func (e *ParseError) Unwrap() error { return e.Err }

// Position returns the location of the offending character.
func (e *ParseError) Position() Position { return Locate(e.Source, e.Offset) }

// Snippet renders the offending source line with a caret beneath the
// offending character.
func (e *ParseError) Snippet() string { return snippet(e.Source, e.Offset) }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return logValue(e.Err, e.Offset, e.Text, e.Source)
}

// ExpandError reports a structurally valid expression whose expansion cannot
// proceed. It unwraps to one of [ErrStepDirection], [ErrZeroStep], or
// [ErrOverflow].
type ExpandError struct {
	Err    *Error
	Offset int    // byte offset of the range group
	Text   string // canonical text of the range group
	Source string
}

// Error implements the error interface.
func (e *ExpandError) Error() string {
	return describe(e.Err, e.Offset, e.Text)
}

// Unwrap returns the sentinel error.
func (e *ExpandError) Unwrap() error { return e.Err }

// Position returns the location of the failing range group.
func (e *ExpandError) Position() Position { return Locate(e.Source, e.Offset) }

// Snippet renders the failing source line with a caret beneath the range
// group.
func (e *ExpandError) Snippet() string { return snippet(e.Source, e.Offset) }

// LogValue implements slog.LogValuer.
func (e *ExpandError) LogValue() slog.Value {
	return logValue(e.Err, e.Offset, e.Text, e.Source)
}

// Snippet returns the caret diagnostic of a [ParseError] or [ExpandError]
// found in err's chain, or the empty string.
func Snippet(err error) string {
	var (
		pe *ParseError
		ee *ExpandError
	)

	switch {
	case errors.As(err, &pe):
		return pe.Snippet()

	case errors.As(err, &ee):
		return ee.Snippet()

	default:
		return ""
	}
}

func describe(err *Error, offset int, text string) string {
	var sb strings.Builder

	if err != nil {
		sb.WriteString(err.Error())
	}

	sb.WriteString(" at offset ")
	sb.WriteString(strconv.Itoa(offset))

	if text != "" {
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(text))
	}

	return sb.String()
}

func logValue(err *Error, offset int, text, source string) slog.Value {
	attrs := make([]slog.Attr, 0, 5)

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}

	attrs = append(attrs,
		slog.Int("offset", offset),
		slog.String("position", Locate(source, offset).String()),
	)

	if text != "" {
		attrs = append(attrs, slog.String("text", text))
	}

	attrs = append(attrs, slog.String("source", source))

	return slog.GroupValue(attrs...)
}

// snippet formats the line containing offset with a marker beneath it.
func snippet(source string, offset int) string {
	pos := Locate(source, offset)
	lines := strings.Split(source, "\n")

	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}

	var sb strings.Builder

	lineNum := strconv.Itoa(pos.Line)

	// Print the line with line number
	sb.WriteString("  ")
	sb.WriteString(lineNum)
	sb.WriteString(" | ")
	sb.WriteString(lines[pos.Line-1])
	sb.WriteByte('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	sb.WriteString(strings.Repeat(" ", len(lineNum)+5+pos.Column-1))
	sb.WriteString("^\n")

	return sb.String()
}
