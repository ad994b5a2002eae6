package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"
)

// Output formats accepted by --output.
const (
	outputLines = "lines"
	outputNUL   = "nul"
	outputJSON  = "json"
	outputYAML  = "yaml"
	outputJoin  = "join"
)

// sink receives the expansions of each input in order.
//
// Every input is bracketed by begin and end, even when it fails part way.
// flush is called once after the last input.
type sink interface {
	begin(input string) error
	item(s string) error
	end() error
	flush() error
}

// newSink returns the sink for the given --output format.
func newSink(ctx context.Context, w io.Writer, e *Expand) sink {
	bw := bufio.NewWriter(w)

	switch e.Output {
	case outputNUL:
		return &lineSink{w: bw, sep: 0}

	case outputJSON:
		return &jsonSink{w: bw, flatten: e.Flatten}

	case outputYAML:
		return &yamlSink{ctx: ctx, w: bw, flatten: e.Flatten}

	case outputJoin:
		return &joinSink{w: bw, delim: e.Delim}

	default:
		return &lineSink{w: bw, sep: '\n'}
	}
}

// lineSink writes each item followed by a separator byte.
type lineSink struct {
	w   *bufio.Writer
	sep byte
}

func (s *lineSink) begin(string) error { return nil }

func (s *lineSink) item(str string) error {
	if _, err := s.w.WriteString(str); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if err := s.w.WriteByte(s.sep); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (s *lineSink) end() error { return nil }

func (s *lineSink) flush() error {
	if err := s.w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// jsonSink writes one JSON array per input, or a single array of every item
// when flattened.
type jsonSink struct {
	w       *bufio.Writer
	flatten bool
	cur     []string
}

func (s *jsonSink) begin(string) error {
	if !s.flatten || s.cur == nil {
		s.cur = []string{}
	}

	return nil
}

func (s *jsonSink) item(str string) error {
	s.cur = append(s.cur, str)

	return nil
}

func (s *jsonSink) end() error {
	if s.flatten {
		return nil
	}

	return s.write()
}

func (s *jsonSink) flush() error {
	if s.flatten {
		if s.cur == nil {
			s.cur = []string{}
		}

		if err := s.write(); err != nil {
			return err
		}
	}

	if err := s.w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (s *jsonSink) write() error {
	data, err := json.Marshal(s.cur)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := s.w.Write(append(data, '\n')); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// yamlEntry is one input of a non-flattened YAML document.
type yamlEntry struct {
	Input   string   `yaml:"input"`
	Outputs []string `yaml:"outputs"`
}

// yamlSink buffers every input and writes a single YAML document on flush.
type yamlSink struct {
	ctx     context.Context
	w       *bufio.Writer
	flatten bool
	entries []yamlEntry
	items   []string
}

func (s *yamlSink) begin(input string) error {
	if !s.flatten {
		s.entries = append(s.entries, yamlEntry{Input: input, Outputs: []string{}})
	}

	return nil
}

func (s *yamlSink) item(str string) error {
	if s.flatten {
		s.items = append(s.items, str)
	} else {
		last := &s.entries[len(s.entries)-1]
		last.Outputs = append(last.Outputs, str)
	}

	return nil
}

func (s *yamlSink) end() error { return nil }

func (s *yamlSink) flush() error {
	var doc any = s.entries
	if s.flatten {
		doc = s.items
	}

	data, err := yaml.MarshalContext(s.ctx, doc)
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if _, err := s.w.Write(data); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	if err := s.w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// joinSink writes each input's items on one line, joined PATH-style with a
// delimiter. Repeated items are dropped.
type joinSink struct {
	w     *bufio.Writer
	delim string
	cur   []string
}

func (s *joinSink) begin(string) error {
	s.cur = s.cur[:0]

	return nil
}

func (s *joinSink) item(str string) error {
	s.cur = append(s.cur, str)

	return nil
}

func (s *joinSink) end() error {
	line := mung.Make(
		mung.WithDelim(s.delim),
		mung.WithPrefixItems(s.cur...),
	).String()

	if _, err := s.w.WriteString(line + "\n"); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (s *joinSink) flush() error {
	if err := s.w.Flush(); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
