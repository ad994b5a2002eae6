package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper ends a running profile and flushes its output.
type Stopper interface{ Stop() }

// Profiler selects a profiling mode and its output directory.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory; empty uses the working directory
	Quiet bool   // suppress the profiler's own log lines
}

// Start begins profiling and returns a [Stopper] that ends it.
// With an empty or unsupported Mode, or when built without the pprof tag,
// Start returns a no-op. Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
