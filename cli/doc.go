// Package cli contains the command line interface for bexpand.
//
// # Usage
//
// Patterns given as arguments are expanded by default:
//
//	bexpand 'img{01..03}.{png,jpg}'
//
// Without arguments, patterns are read one per line from --source files or
// standard input. The tree, init, and repl commands parse patterns, write a
// configuration file, and start an interactive session respectively.
//
// # Configuration
//
// Flag defaults are read from a YAML file in the user configuration
// directory (for example ~/.config/bexpand/config.yaml). Top-level keys name
// flags; a mapping under a command name scopes its keys to that command:
//
//	log-level: debug
//	expand:
//	  output: json
//	  workers: 4
//
// The init command writes the current flag values to this file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o bexpand .
//
// The --pprof-mode flag selects a profile and --pprof-dir sets the output
// directory (default ~/.cache/bexpand/pprof).
package cli
