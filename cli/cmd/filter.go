package cmd

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/wasilibs/go-re2"
)

// filterEnv is the environment visible to --filter expressions.
type filterEnv struct {
	Item  string `expr:"item"`
	Index int    `expr:"index"`
	Input string `expr:"input"`
}

// filter selects the expansions that reach the output.
// The zero value keeps every item.
type filter struct {
	match   *re2.Regexp
	program *vm.Program
}

// compileFilter compiles the --match regular expression and the --filter
// expression. Either may be empty.
func compileFilter(match, source string) (*filter, error) {
	var f filter

	if match != "" {
		re, err := re2.Compile(match)
		if err != nil {
			return nil, ErrFilter.
				With(slog.String("match", match)).
				Wrap(err)
		}

		f.match = re
	}

	if source != "" {
		program, err := expr.Compile(source, expr.Env(filterEnv{}), expr.AsBool())
		if err != nil {
			return nil, ErrFilter.
				With(slog.String("filter", source)).
				Wrap(err)
		}

		f.program = program
	}

	return &f, nil
}

// active reports whether the filter can reject anything.
func (f *filter) active() bool {
	return f.match != nil || f.program != nil
}

// keep reports whether item, the index-th expansion of input, passes the
// filter.
func (f *filter) keep(item string, index int, input string) (bool, error) {
	if f.match != nil && !f.match.MatchString(item) {
		return false, nil
	}

	if f.program == nil {
		return true, nil
	}

	out, err := expr.Run(f.program, filterEnv{Item: item, Index: index, Input: input})
	if err != nil {
		return false, ErrFilter.
			With(slog.String("item", item), slog.Int("index", index)).
			Wrap(err)
	}

	ok, _ := out.(bool)

	return ok, nil
}
