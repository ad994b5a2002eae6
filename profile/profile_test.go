package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_EmptyModeIsNoop(t *testing.T) {
	stop := Profiler{Path: t.TempDir()}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", stop)
	}

	stop.Stop()
}

func TestProfiler_Start_UnknownModeIsNoop(t *testing.T) {
	stop := Profiler{Mode: "bogus", Path: t.TempDir(), Quiet: true}.Start()
	if _, ok := stop.(ignore); !ok {
		t.Errorf("expected no-op stopper, got %T", stop)
	}

	stop.Stop()
}

func TestModes_MatchBuild(t *testing.T) {
	modes := Modes()

	if !Enabled {
		if len(modes) != 0 {
			t.Errorf("expected no modes without the %s tag, got %v", Tag, modes)
		}

		return
	}

	if !slices.IsSorted(modes) {
		t.Errorf("expected sorted modes, got %v", modes)
	}

	if !slices.Contains(modes, "cpu") {
		t.Errorf("expected cpu mode, got %v", modes)
	}
}
