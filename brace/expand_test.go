package brace

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"product odometer order", "{a,b}{1,2}", []string{"a1", "a2", "b1", "b2"}},
		{"single branch is literal", "{x}", []string{"{x}"}},
		{"padded range", "{01..03}", []string{"01", "02", "03"}},
		{"padding from widest token", "{1..03}", []string{"01", "02", "03"}},
		{"unpadded range", "{8..10}", []string{"8", "9", "10"}},
		{"descending range", "{5..1}", []string{"5", "4", "3", "2", "1"}},
		{"alphabetic range", "{a..e}", []string{"a", "b", "c", "d", "e"}},
		{"descending alphabetic", "{Z..X}", []string{"Z", "Y", "X"}},
		{"alphabetic step", "{z..a..5}", []string{"z", "u", "p", "k", "f", "a"}},
		{"nested alternation", "{a,b{1,2}}", []string{"a", "b1", "b2"}},
		{"escaped braces", `\{a,b\}`, []string{"{a,b}"}},
		{"step", "{1..10..3}", []string{"1", "4", "7", "10"}},
		{"step past end", "{1..10..4}", []string{"1", "5", "9"}},
		{"inferred descending step", "{10..1..3}", []string{"10", "7", "4", "1"}},
		{"signed step matching direction", "{10..1..-3}", []string{"10", "7", "4", "1"}},
		{"signed step on single value", "{1..1..-1}", []string{"1"}},
		{"negative bounds", "{-5..5..5}", []string{"-5", "0", "5"}},
		{"sign takes a width slot", "{-05..5..5}", []string{"-05", "000", "005"}},
		{"negative ascending", "{-3..-1..1}", []string{"-3", "-2", "-1"}},
		{"comma wins over range", "{1..3,x}", []string{"1..3", "x"}},
		{"empty alternation branches", "x{,}y", []string{"xy", "xy"}},
		{"empty group", "{}", []string{"{}"}},
		{"nested group in literal braces", "{a{1,2}}", []string{"{a1}", "{a2}"}},
		{"three-way product", "{a,b}{1,2}{x,y}", []string{
			"a1x", "a1y", "a2x", "a2y", "b1x", "b1y", "b2x", "b2y",
		}},
		{"range inside alternation", "v{0,{7..9}}", []string{"v0", "v7", "v8", "v9"}},
		{"max int64 bounds", "{9223372036854775800..9223372036854775807..5}", []string{
			"9223372036854775800", "9223372036854775805",
		}},
		{"min int64 bounds", "{-9223372036854775807..-9223372036854775808}", []string{
			"-9223372036854775807", "-9223372036854775808",
		}},
		{"multibyte literals", "ü{ñ,é}", []string{"üñ", "üé"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Strings(t.Context(), tt.input)
			if err != nil {
				t.Fatalf("Strings(%q) failed: %v", tt.input, err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Strings(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestExpand_NoBraces_Identity(t *testing.T) {
	for _, input := range []string{
		"",
		"hello world",
		"a..b",
		"x,y,z",
		`C:\path\file`,
		"tab\tand\nnewline",
	} {
		got, err := Strings(t.Context(), input)
		if err != nil {
			t.Fatalf("Strings(%q) failed: %v", input, err)
		}

		if diff := cmp.Diff([]string{input}, got); diff != "" {
			t.Errorf("Strings(%q) mismatch (-want +got):\n%s", input, diff)
		}
	}
}

func TestExpand_Restartable(t *testing.T) {
	expr, err := Parse(t.Context(), "{a..c}{1..3}{x,y}")
	if err != nil {
		t.Fatal(err)
	}

	first, err := collectAll(expr)
	if err != nil {
		t.Fatal(err)
	}

	second, err := collectAll(expr)
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != 18 {
		t.Errorf("expected 18 expansions, got %d", len(first))
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second expansion differs (-first +second):\n%s", diff)
	}
}

func TestExpand_Concurrent(t *testing.T) {
	expr, err := Parse(t.Context(), "{a,b,c}{01..20}")
	if err != nil {
		t.Fatal(err)
	}

	want, err := collectAll(expr)
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup

	results := make([][]string, 8)

	for i := range results {
		wg.Add(1)

		go func() {
			defer wg.Done()

			results[i], _ = collectAll(expr)
		}()
	}

	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("goroutine %d mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestExpand_Lazy(t *testing.T) {
	expr, err := Parse(t.Context(), "{1..9223372036854775807}{a,b}")
	if err != nil {
		t.Fatal(err)
	}

	var got []string

	for s, err := range expr.Expand() {
		if err != nil {
			t.Fatal(err)
		}

		got = append(got, s)

		if len(got) == 3 {
			break
		}
	}

	if diff := cmp.Diff([]string{"1a", "1b", "2a"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		input   string
		opts    []Option
		want    error
		offset  int
		text    string
		outputs []string
	}{
		{input: "{1..5..0}", want: ErrZeroStep, offset: 0, text: "{1..5..0}"},
		{input: "{a..c..0}", want: ErrZeroStep, offset: 0, text: "{a..c..0}"},
		{input: "a{1..3..-1}", want: ErrStepDirection, offset: 1, text: "{1..3..-1}"},
		{input: "{a..c..-1}", want: ErrStepDirection, offset: 0, text: "{a..c..-1}"},
		{
			input:  "{1..2..-9223372036854775808}",
			want:   ErrOverflow,
			offset: 0,
			text:   "{1..2..-9223372036854775808}",
		},
		{
			input:  "x{0001..2}",
			opts:   []Option{WithMaxWidth(3)},
			want:   ErrOverflow,
			offset: 1,
			text:   "{0001..0002}",
		},
		{
			input:   "{1,{3..1..-1},{1..2..-1}}",
			want:    ErrStepDirection,
			offset:  14,
			text:    "{1..2..-1}",
			outputs: []string{"1", "3", "2", "1"},
		},
		{
			input:   "{a,b}{1,{2..3..0}}",
			want:    ErrZeroStep,
			offset:  8,
			text:    "{2..3..0}",
			outputs: []string{"a1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expr, err := Parse(t.Context(), tt.input, tt.opts...)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}

			got, err := collectAll(expr)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expand error = %v, want %v", err, tt.want)
			}

			var ee *ExpandError
			if !errors.As(err, &ee) {
				t.Fatalf("expand error type = %T, want *ExpandError", err)
			}

			if ee.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", ee.Offset, tt.offset)
			}

			if ee.Text != tt.text {
				t.Errorf("Text = %q, want %q", ee.Text, tt.text)
			}

			if diff := cmp.Diff(tt.outputs, got); diff != "" {
				t.Errorf("outputs before error (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpand_ErrorEndsSequence(t *testing.T) {
	var items, errs int

	for _, err := range Expand(t.Context(), "{1,{2..3..0}}") {
		if err != nil {
			errs++
		} else {
			items++
		}
	}

	if items != 1 || errs != 1 {
		t.Errorf("got %d items and %d errors, want 1 and 1", items, errs)
	}
}

func TestExpand_ParseErrorIsOnlyItem(t *testing.T) {
	var got []error

	for s, err := range Expand(t.Context(), "{a,b") {
		if s != "" {
			t.Errorf("unexpected item %q", s)
		}

		got = append(got, err)
	}

	if len(got) != 1 || !errors.Is(got[0], ErrUnbalancedBrace) {
		t.Errorf("got %v, want a single unbalanced brace error", got)
	}
}

func TestStrings_Limit(t *testing.T) {
	got, err := Strings(t.Context(), "{1..1000000}", WithLimit(3))
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"1", "2", "3"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStrings_PartialOnError(t *testing.T) {
	got, err := Strings(t.Context(), "{x,y,{1..2..0}}")
	if !errors.Is(err, ErrZeroStep) {
		t.Fatalf("error = %v, want %v", err, ErrZeroStep)
	}

	if diff := cmp.Diff([]string{"x", "y"}, got); diff != "" {
		t.Errorf("partial output mismatch (-want +got):\n%s", diff)
	}
}

func TestExpand_Cardinality(t *testing.T) {
	tests := []struct {
		input string
		count int
	}{
		{"{a,b,c}{d,e}{f,g,h,i}", 3 * 2 * 4},
		{"{1..100}{a..z}", 100 * 26},
		{"{{a,b},{c,d,e}}", 5},
		{"{0..99..10}{x,y}", 10 * 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Strings(t.Context(), tt.input)
			if err != nil {
				t.Fatal(err)
			}

			if len(got) != tt.count {
				t.Errorf("got %d expansions, want %d", len(got), tt.count)
			}

			unique := slices.Compact(slices.Sorted(slices.Values(got)))
			if len(unique) != tt.count {
				t.Errorf("got %d distinct expansions, want %d", len(unique), tt.count)
			}
		})
	}
}

func TestExpand_ManyGroups(t *testing.T) {
	const groups = 12

	stem := strings.Repeat("x", 256)
	input := strings.Repeat(stem+"{a,b}", groups)

	got, err := Strings(t.Context(), input)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 1<<groups {
		t.Fatalf("got %d expansions, want %d", len(got), 1<<groups)
	}

	first := strings.Repeat(stem+"a", groups)
	last := strings.Repeat(stem+"b", groups)

	if got[0] != first || got[len(got)-1] != last {
		t.Errorf("first/last expansions do not match the odometer order")
	}

	// Earlier items must not be overwritten by later ones.
	if got[1] != strings.Repeat(stem+"a", groups-1)+stem+"b" {
		t.Errorf("got[1] = %q", got[1])
	}
}
