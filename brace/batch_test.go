package brace

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBatch_PreservesOrder(t *testing.T) {
	inputs := []string{"a{1,2}", "{a,b", "x{1..3..0}", "{1..3}", "plain"}

	results, err := Batch(t.Context(), inputs, WithWorkers(2))
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != len(inputs) {
		t.Fatalf("got %d results, want %d", len(results), len(inputs))
	}

	for i, res := range results {
		if res.Index != i || res.Input != inputs[i] {
			t.Errorf("results[%d] = {Index: %d, Input: %q}", i, res.Index, res.Input)
		}
	}

	if diff := cmp.Diff([]string{"a1", "a2"}, results[0].Outputs); diff != "" {
		t.Errorf("results[0] (-want +got):\n%s", diff)
	}

	var pe *ParseError
	if !errors.As(results[1].Err, &pe) || !errors.Is(pe, ErrUnbalancedBrace) {
		t.Errorf("results[1].Err = %v, want unbalanced brace", results[1].Err)
	}

	if !errors.Is(results[2].Err, ErrZeroStep) || len(results[2].Outputs) != 0 {
		t.Errorf("results[2] = %+v, want zero step failure", results[2])
	}

	if diff := cmp.Diff([]string{"1", "2", "3"}, results[3].Outputs); diff != "" {
		t.Errorf("results[3] (-want +got):\n%s", diff)
	}

	if results[4].Err != nil || len(results[4].Outputs) != 1 {
		t.Errorf("results[4] = %+v", results[4])
	}
}

func TestBatch_ManyInputs(t *testing.T) {
	inputs := make([]string, 200)
	for i := range inputs {
		inputs[i] = fmt.Sprintf("n%d{a,b}", i)
	}

	for _, workers := range []int{0, 1, 7} {
		results, err := Batch(t.Context(), inputs, WithWorkers(workers))
		if err != nil {
			t.Fatal(err)
		}

		for i, res := range results {
			want := []string{fmt.Sprintf("n%da", i), fmt.Sprintf("n%db", i)}
			if diff := cmp.Diff(want, res.Outputs); diff != "" {
				t.Fatalf("workers %d, results[%d] (-want +got):\n%s", workers, i, diff)
			}
		}
	}
}

func TestBatch_Limit(t *testing.T) {
	results, err := Batch(t.Context(), []string{"{1..1000000}", "{a..z}"}, WithLimit(2))
	if err != nil {
		t.Fatal(err)
	}

	for i, want := range [][]string{{"1", "2"}, {"a", "b"}} {
		if diff := cmp.Diff(want, results[i].Outputs); diff != "" {
			t.Errorf("results[%d] (-want +got):\n%s", i, diff)
		}
	}
}

func TestBatch_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := Batch(ctx, []string{"{1..3}", "{a..c}"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Batch error = %v, want %v", err, context.Canceled)
	}
}

func TestBatch_Empty(t *testing.T) {
	results, err := Batch(t.Context(), nil)
	if err != nil || len(results) != 0 {
		t.Errorf("Batch(nil) = %v, %v", results, err)
	}
}

func TestBatch_RepeatedInputs(t *testing.T) {
	inputs := []string{"{a,b}", "x{1..2}", "{a,b}", "{a", "{a"}

	results, err := Batch(t.Context(), inputs, WithWorkers(2))
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}

	for i, res := range results {
		if res.Index != i || res.Input != inputs[i] {
			t.Errorf("results[%d] = {Index: %d, Input: %q}", i, res.Index, res.Input)
		}
	}

	if diff := cmp.Diff(results[0].Outputs, results[2].Outputs); diff != "" {
		t.Errorf("repeated outputs mismatch (-first +repeat):\n%s", diff)
	}

	if results[3].Err == nil || results[4].Err == nil {
		t.Errorf("repeated failing input errors = %v, %v", results[3].Err, results[4].Err)
	}
}
