package brace

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the expression in canonical brace syntax to the writer,
// followed by a newline.
func (e *Expression) Format(w io.Writer) error {
	_, err := fmt.Fprintln(w, e.String())

	return err
}

// FormatJSON writes the expression tree as JSON to the writer.
// A positive indent pretty-prints with that many spaces per level.
func (e *Expression) FormatJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	if indent > 0 {
		data, err = json.MarshalIndent(e, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(e)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// FormatYAML writes the expression tree as YAML to the writer.
// A positive indent selects block style; otherwise flow style is used.
func (e *Expression) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, e.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

// Print writes an indented dump of the expression tree, one node per line.
func (e *Expression) Print(w io.Writer) error {
	var err error

	e.Root.Walk(func(n *Node, depth int) bool {
		if err != nil {
			return false
		}

		_, err = fmt.Fprintf(w, "%s%s @%s\n",
			strings.Repeat("  ", depth),
			n.describe(),
			Locate(e.Source, n.Offset))

		return true
	})

	return err
}

// describe summarizes a single node without its children.
func (n *Node) describe() string {
	switch n.Kind {
	case KindLiteral:
		return "Literal " + strconv.Quote(n.Text)

	case KindSequence, KindAlternation:
		return n.Kind.String() + " (" + strconv.Itoa(len(n.Items)) + ")"

	case KindRange:
		r := n.Range

		s := fmt.Sprintf("Range %s %s..%s step %d",
			r.Type, r.format(r.Start), r.format(r.End), r.Step)

		if r.Width > 0 {
			s += " width " + strconv.Itoa(r.Width)
		}

		return s

	default:
		return n.Kind.String()
	}
}
