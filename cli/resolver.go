package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolve returns a [kong.ConfigurationLoader] that parses YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// The document is a mapping from flag names to values. Top-level keys apply
// to flags of any command; a mapping under a command name applies only to
// that command's flags and takes precedence:
//
//	log-level: debug
//	log_pretty: false
//	expand:
//	  output: json
//	  workers: 4
//
// Keys may use hyphens or underscores. Command-line flags override config
// file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		if err := yaml.UnmarshalContext(ctx, data, &doc); err != nil {
			return nil, err
		}

		return config(doc), nil
	}
}

// config implements [kong.Resolver] for YAML configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if sub, ok := r[parent.Command.Name].(map[string]any); ok {
			if value, ok := config(sub).lookup(flag.Name); ok {
				return value, nil
			}
		}
	}

	if value, ok := r.lookup(flag.Name); ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// lookup finds a flag value by its hyphenated or underscored name.
func (r config) lookup(name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		if value, ok := r[key]; ok {
			if _, nested := value.(map[string]any); nested {
				continue
			}

			return native(value), true
		}
	}

	return nil, false
}

// native converts a decoded YAML value to a form Kong can map onto a flag.
// Kong requires numbers as strings for parsing, and lists as comma-separated
// strings.
func native(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case uint64:
		return strconv.FormatUint(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(native(item))
		}

		return strings.Join(parts, ",")

	default:
		return v
	}
}
