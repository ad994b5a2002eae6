package brace

import (
	"context"
	"strings"
	"testing"
)

func BenchmarkParse(b *testing.B) {
	ctx := context.Background()

	for b.Loop() {
		if _, err := Parse(ctx, "src/{lib,cmd/{a,b,c}}/file{001..100}.{go,txt}"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_DeepNesting(b *testing.B) {
	const depth = 100_000

	input := strings.Repeat("{a,", depth) + strings.Repeat("}", depth)
	ctx := context.Background()

	for b.Loop() {
		if _, err := Parse(ctx, input); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExpand_Product(b *testing.B) {
	expr, err := Parse(context.Background(), "{a..z}{0..99}{x,y,z}")
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		for _, err := range expr.Expand() {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkExpand_PaddedRange(b *testing.B) {
	expr, err := Parse(context.Background(), "{00000..10000}")
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		for _, err := range expr.Expand() {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}

func BenchmarkBatch(b *testing.B) {
	inputs := make([]string, 64)
	for i := range inputs {
		inputs[i] = "{a,b,c}{1..100}"
	}

	ctx := context.Background()

	for b.Loop() {
		if _, err := Batch(ctx, inputs); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkExpand_ManyGroups(b *testing.B) {
	expr, err := Parse(context.Background(), strings.Repeat(strings.Repeat("x", 256)+"{a,b}", 12))
	if err != nil {
		b.Fatal(err)
	}

	for b.Loop() {
		for _, err := range expr.Expand() {
			if err != nil {
				b.Fatal(err)
			}
		}
	}
}
