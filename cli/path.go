package cli

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/bexpand/pkg"
)

// baseConfig is the base name of the YAML configuration file.
const baseConfig = "config.yaml"

// defaultDirMode is the permission mode of created runtime directories.
const defaultDirMode os.FileMode = 0o700

// executableRename rewrites executable base names that make poor directory
// names.
var executableRename = []struct {
	rex *regexp.Regexp
	rep string
}{
	{regexp.MustCompile(`^__debug_bin\d*$`), pkg.Name}, // dlv default output
	{regexp.MustCompile(`^\.+`), ""},                   // leading dot(s)
}

// basePrefix returns the name of the per-user configuration and cache
// directories: the base name of the executable without extension, after
// applying [executableRename]. It falls back to [pkg.Name] if nothing is left.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		for _, r := range executableRename {
			id = r.rex.ReplaceAllString(id, r.rep)
		}

		if id == "" {
			return pkg.Name
		}

		return id
	},
)

// userDir returns the [basePrefix] subdirectory of the directory reported by
// lookup. If lookup fails, the hidden fallback directory in the user's home
// is used, and failing that the working directory.
func userDir(lookup func() (string, error), fallback string) string {
	dir, err := lookup()
	if err != nil {
		var home string

		if home, err = os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, fallback)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir returns the cache directory path used for REPL history and
// profiles.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath returns the path formed by joining [configDir] with elem.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates the configuration and cache directories.
func mkdirAllRequired() error {
	return errors.Join(
		os.MkdirAll(configDir(), defaultDirMode),
		os.MkdirAll(cacheDir(), defaultDirMode),
	)
}
