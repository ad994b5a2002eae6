package brace

import (
	"encoding/json"
	"strings"
)

// MarshalJSON implements json.Marshaler for Expression.
func (e *Expression) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// ToMap converts the expression to a native Go map structure holding the
// source text and the node tree.
func (e *Expression) ToMap() map[string]any {
	return map[string]any{
		"source": e.Source,
		"root":   e.Root.ToMap(),
	}
}

// MarshalJSON implements json.Marshaler for Node.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.ToMap())
}

// ToMap converts the node and its descendants to native Go values.
func (n *Node) ToMap() map[string]any {
	m := map[string]any{
		"kind":   strings.ToLower(n.Kind.String()),
		"offset": n.Offset,
	}

	switch n.Kind {
	case KindLiteral:
		m["text"] = n.Text

	case KindSequence, KindAlternation:
		items := make([]any, len(n.Items))
		for i, c := range n.Items {
			items[i] = c.ToMap()
		}

		m["items"] = items

	case KindRange:
		m["range"] = n.Range.toMap()
	}

	return m
}

func (r *Range) toMap() map[string]any {
	m := map[string]any{
		"type": r.Type.String(),
		"step": r.Step,
	}

	if r.Type == RangeAlphabetic {
		m["start"] = string(rune(r.Start))
		m["end"] = string(rune(r.End))
	} else {
		m["start"] = r.Start
		m["end"] = r.End
	}

	if r.Signed {
		m["signed"] = true
	}

	if r.Width > 0 {
		m["width"] = r.Width
	}

	return m
}
