package brace

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpression_Print(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			input: "a{b,c}d",
			want: `Sequence (3) @1:1
  Literal "a" @1:1
  Alternation (2) @1:2
    Literal "b" @1:3
    Literal "c" @1:5
  Literal "d" @1:7
`,
		},
		{
			input: "x{01..10..3}",
			want: `Sequence (2) @1:1
  Literal "x" @1:1
  Range numeric 01..10 step 3 width 2 @1:2
`,
		},
		{
			input: "{e..a}",
			want:  "Range alphabetic e..a step 1 @1:1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(t.Context(), tt.input)
			if err != nil {
				t.Fatal(err)
			}

			var buf bytes.Buffer
			if err := expr.Print(&buf); err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("Print mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpression_Format(t *testing.T) {
	expr, err := Parse(t.Context(), "{x}{1..03}")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := expr.Format(&buf); err != nil {
		t.Fatal(err)
	}

	if got, want := buf.String(), "\\{x\\}{01..03}\n"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestExpression_FormatJSON(t *testing.T) {
	expr, err := Parse(t.Context(), "a{b,c}{1..2}")
	if err != nil {
		t.Fatal(err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := expr.FormatJSON(&buf, indent); err != nil {
			t.Fatal(err)
		}

		var doc struct {
			Source string `json:"source"`
			Root   struct {
				Kind  string `json:"kind"`
				Items []struct {
					Kind  string         `json:"kind"`
					Text  string         `json:"text"`
					Range map[string]any `json:"range"`
				} `json:"items"`
			} `json:"root"`
		}

		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("indent %d: invalid JSON: %v\n%s", indent, err, buf.String())
		}

		if doc.Source != "a{b,c}{1..2}" || doc.Root.Kind != "sequence" {
			t.Errorf("indent %d: unexpected document %+v", indent, doc)
		}

		kinds := make([]string, 0, len(doc.Root.Items))
		for _, item := range doc.Root.Items {
			kinds = append(kinds, item.Kind)
		}

		if diff := cmp.Diff([]string{"literal", "alternation", "range"}, kinds); diff != "" {
			t.Errorf("indent %d: item kinds (-want +got):\n%s", indent, diff)
		}

		if r := doc.Root.Items[2].Range; r["type"] != "numeric" || r["end"] != float64(2) {
			t.Errorf("indent %d: range = %v", indent, r)
		}

		if multiline := strings.Count(buf.String(), "\n") > 1; multiline != (indent > 0) {
			t.Errorf("indent %d: unexpected layout:\n%s", indent, buf.String())
		}
	}
}

func TestExpression_FormatYAML(t *testing.T) {
	expr, err := Parse(t.Context(), "{a..c}{x,y}")
	if err != nil {
		t.Fatal(err)
	}

	for _, indent := range []int{0, 2} {
		var buf bytes.Buffer
		if err := expr.FormatYAML(t.Context(), &buf, indent); err != nil {
			t.Fatal(err)
		}

		out := buf.String()
		for _, want := range []string{"kind: alternation", "type: alphabetic", "kind: range"} {
			if !strings.Contains(out, want) {
				t.Errorf("indent %d: expected %q in YAML:\n%s", indent, want, out)
			}
		}
	}
}
