// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("expansion started", slog.String("input", pattern))
//
// The zero [Logger] discards everything, so libraries can accept one as an
// optional dependency without nil checks.
//
// # Configuration
//
// Loggers are configured with functional options at creation time, or
// derived from an existing logger with [Logger.Wrap]:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Package-Level Logger
//
// Functions [Trace], [Debug], [Info], [Warn], and [Error] (and their
// Context variants) write to a package-level logger on stderr, reconfigured
// with [Config]. Context-unaware functions use [DefaultContextProvider].
//
// # Levels
//
// In addition to the four slog levels, [LevelTrace] sits below
// [LevelDebug] and renders as "TRACE".
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON] are supported. With [WithPretty]
// enabled, both are colorized for terminals and nested attribute groups are
// flattened to dotted keys.
package log
