//go:build pprof

package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bexpand/log"
	"github.com/ardnew/bexpand/profile"
)

type pprofConfig struct {
	Mode string `default:""            enum:",${pprofModeEnum}" help:"Enable profiling"         placeholder:"${enum}" short:"p"`
	Dir  string `default:"${pprofDir}"                          help:"Profile output directory"                                 type:"path"`
}

func (pprofConfig) vars() kong.Vars {
	return kong.Vars{
		"pprofModeEnum": strings.Join(profile.Modes(), ","),
		"pprofDir":      filepath.Join(cacheDir(), profile.Tag),
	}
}

func (pprofConfig) group() kong.Group {
	var group kong.Group

	group.Key = "pprof"
	group.Title = "Profiling (pprof)"

	return group
}

// start writes a profile of the selected mode to a subdirectory of Dir named
// after the mode. The returned function stops profiling.
func (f pprofConfig) start(ctx context.Context) (stop func()) {
	if f.Mode == "" {
		return func() {}
	}

	attrs := slog.Group(profile.Tag,
		slog.String("mode", f.Mode),
		slog.String("dir", filepath.Join(f.Dir, f.Mode)),
	)

	log.DebugContext(ctx, "profiling started", attrs)

	began := time.Now()
	profiler := profile.Profiler{
		Mode:  f.Mode,
		Path:  filepath.Join(f.Dir, f.Mode),
		Quiet: true,
	}.Start()

	return func() {
		profiler.Stop()
		log.DebugContext(ctx, "profiling stopped", attrs,
			slog.Duration("elapsed", time.Since(began)),
		)
	}
}
