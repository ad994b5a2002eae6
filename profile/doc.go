// Package profile provides optional runtime profiling for bexpand.
//
// Profiling is compiled in only with the "pprof" build tag, which integrates
// [github.com/pkg/profile] and registers the [net/http/pprof] handlers.
// Without the tag, [Modes] is empty and [Profiler.Start] is a no-op.
//
//	go build -tags pprof .
//	bexpand --pprof-mode cpu 'file{1..100000}'
//	go tool pprof -http=: ~/.cache/bexpand/pprof/cpu.pprof
//
// Profile files are named after their mode (cpu.pprof, mem.pprof, ...) and
// written to [Profiler.Path].
package profile
