package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// kongVar looks up a kong variable in the kong.Context stored in ctx.
func kongVar(ctx context.Context, name string) (string, bool) {
	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return "", false
	}

	val, ok := ktx.Model.Vars()[name]

	return val, ok
}

type streamsKey struct{}

// Streams are the standard streams a command reads patterns from and writes
// expansions and diagnostics to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// WithStreams returns a new context.Context whose commands use the given
// streams in place of the process's standard streams. Nil fields keep the
// process default.
func WithStreams(ctx context.Context, s Streams) context.Context {
	return context.WithValue(ctx, streamsKey{}, s)
}

func streamsFrom(ctx context.Context) Streams {
	s, _ := ctx.Value(streamsKey{}).(Streams)

	if s.In == nil {
		s.In = os.Stdin
	}

	if s.Out == nil {
		s.Out = os.Stdout
	}

	if s.Err == nil {
		s.Err = os.Stderr
	}

	return s
}

type (
	sourceFilesKey struct{}
	sourceFiles    struct {
		files    []*os.File
		hasStdin bool
		stdin    io.Reader
		multi    io.Reader
	}

	// SourceFiles reads the source files in order, followed by stdin when it
	// was named. Each file is closed once it has been read to the end, and
	// Close closes any that remain open. Stdin is never closed.
	SourceFiles interface {
		IsZero() bool
		io.ReadCloser
	}
)

// IsZero reports whether there are no source files.
func (s *sourceFiles) IsZero() bool { return len(s.files) == 0 && !s.hasStdin }

func (s *sourceFiles) reader() io.Reader {
	if s.multi == nil {
		readers := make([]io.Reader, 0, len(s.files)+1)
		for _, f := range s.files {
			readers = append(readers, eofCloser{f})
		}

		if s.hasStdin {
			readers = append(readers, s.stdin)
		}

		s.multi = io.MultiReader(readers...)
	}

	return s.multi
}

// Read implements io.Reader by reading from all source files in order,
// including stdin if present.
func (s *sourceFiles) Read(p []byte) (n int, err error) {
	return s.reader().Read(p)
}

// Close closes the source files not yet read to the end.
func (s *sourceFiles) Close() error {
	var errs []error

	for _, f := range s.files {
		if err := f.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// eofCloser closes its file when a read reaches the end of it.
type eofCloser struct{ f *os.File }

func (r eofCloser) Read(p []byte) (int, error) {
	n, err := r.f.Read(p)
	if errors.Is(err, io.EOF) {
		_ = r.f.Close()
	}

	return n, err
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// WithSourceFiles returns a new context.Context containing an [io.Reader] that
// reads from the given source files.
//
// The function deduplicates readers by resolving symlinks and comparing device/
// inode pairs. All occurrences of "-" are replaced with a single stdin reader.
// The stdin reader is placed last so it reads after all regular files.
func WithSourceFiles(ctx context.Context, sources []string) context.Context {
	return context.WithValue(
		ctx,
		sourceFilesKey{},
		buildSourceFiles(sources, streamsFrom(ctx).In),
	)
}

// buildSourceFiles constructs a SourceFiles from the given source paths.
func buildSourceFiles(sources []string, stdin io.Reader) SourceFiles {
	if len(sources) == 0 {
		return nil
	}

	srcs := sourceFiles{stdin: stdin}

	srcs.files = make([]*os.File, 0, len(sources))
	seen := make(map[fileKey]struct{})

	stdinKey := fileKey{dev: ^uint64(0), ino: ^uint64(0)}

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil {
			if key, ok := makeFileKey(info); ok {
				stdinKey = key
			}
		}
	}

	for _, src := range sources {
		if src == stdinSource {
			seen[stdinKey] = struct{}{}

			continue
		}

		file, ok := openUniqueFile(src, seen)
		if !ok {
			continue
		}

		srcs.files = append(srcs.files, file)
	}

	// Stdin may have been included via "-" or as a named file.
	// Both of which will be represented by stdinKey in seen.
	_, srcs.hasStdin = seen[stdinKey]

	if len(srcs.files) == 0 && !srcs.hasStdin {
		return nil
	}

	return &srcs
}

// openUniqueFile opens the file at path if it hasn't been seen before.
// It resolves symlinks and uses device/inode to detect duplicates.
// Returns the opened file and true if successful, or nil and false if the file
// is a duplicate or cannot be opened.
func openUniqueFile(path string, seen map[fileKey]struct{}) (*os.File, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return nil, false
	}

	key, ok := makeFileKey(info)
	if !ok {
		return nil, false
	}

	if _, exists := seen[key]; exists {
		return nil, false
	}

	seen[key] = struct{}{}

	file, err := os.Open(resolved)
	if err != nil {
		return nil, false
	}

	return file, true
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// sourceFilesFrom retrieves the io.Reader stored in ctx by WithSourceFiles.
// Returns nil if no reader was stored.
func sourceFilesFrom(ctx context.Context) SourceFiles {
	r, _ := ctx.Value(sourceFilesKey{}).(SourceFiles)

	return r
}

// maxPatternLen bounds a single line of pattern input.
const maxPatternLen = 1 << 20

// patterns yields the given positional patterns, or else one pattern per
// non-empty line of the source files stored in ctx, or else of standard
// input. Trailing carriage returns are removed.
func patterns(ctx context.Context, args []string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if len(args) > 0 {
			for _, arg := range args {
				if !yield(arg, nil) {
					return
				}
			}

			return
		}

		var r io.Reader = streamsFrom(ctx).In
		if src := sourceFilesFrom(ctx); src != nil {
			r = src

			defer func() { _ = src.Close() }()
		}

		ra := readahead.NewReader(r)
		defer ra.Close()

		scanner := bufio.NewScanner(ra)
		scanner.Buffer(make([]byte, 0, 64*1024), maxPatternLen)

		for scanner.Scan() {
			if ctx.Err() != nil {
				yield("", ctx.Err())

				return
			}

			line := strings.TrimSuffix(scanner.Text(), "\r")
			if line == "" {
				continue
			}

			if !yield(line, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield("", ErrReadInput.Wrap(err))
		}
	}
}
