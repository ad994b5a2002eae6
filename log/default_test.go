package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

// useDefault points the package-level logger at a buffer for one test.
func useDefault(t *testing.T, opts ...Option) *bytes.Buffer {
	t.Helper()

	original := Default()
	t.Cleanup(func() { defaultLog.Store(&original) })

	var buf bytes.Buffer

	l := Make(&buf, opts...)
	defaultLog.Store(&l)

	return &buf
}

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Trace", Trace, "TRACE"},
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, "package message") {
				t.Errorf("expected message in output, got: %s", output)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf("expected level %q in output, got: %s", tt.level, output)
			}
			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected attribute in output, got: %s", output)
			}
		})
	}
}

func TestPackage_ContextFunctions_UseDefaultLogger(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelTrace))

	fns := []func(context.Context, string, ...slog.Attr){
		TraceContext, DebugContext, InfoContext, WarnContext, ErrorContext,
	}

	for _, fn := range fns {
		buf.Reset()
		fn(context.Background(), "package context test")

		if !strings.Contains(buf.String(), "package context test") {
			t.Error("expected message to be logged using package context function")
		}
	}
}

func TestPackage_Config_WrapsDefaultLogger(t *testing.T) {
	buf := useDefault(t, WithLevel(LevelError), WithPretty(false))

	Info("suppressed")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at error level, got: %s", buf.String())
	}

	Config(WithLevel(LevelInfo))
	With(slog.String("component", "cli")).Info("visible")

	output := buf.String()
	if !strings.Contains(output, "visible") || !strings.Contains(output, "component=cli") {
		t.Errorf("expected reconfigured output, got: %s", output)
	}
}

func TestPackage_Caller_PointsAtCallSite(t *testing.T) {
	buf := useDefault(t, WithCaller(true), WithPretty(false))

	Info("where")

	if !strings.Contains(buf.String(), "default_test.go") {
		t.Errorf("expected caller in default_test.go, got: %s", buf.String())
	}
}
