package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	defaultLog = Make(&buf, WithLevel(LevelDebug), WithFormat(FormatJSON))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("message", slog.String("key", "value"))

			out := buf.String()
			if !strings.Contains(out, `"level":"`+tt.level+`"`) {
				t.Errorf("expected level %s, got %s", tt.level, out)
			}
			if !strings.Contains(out, `"key":"value"`) {
				t.Errorf("expected attribute, got %s", out)
			}
		})
	}
}

func TestPackage_Config_Wraps(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	defaultLog = Make(&buf)

	Config(WithLevel(LevelTrace))
	TraceContext(t.Context(), "deep")

	if Default().Level() != LevelTrace {
		t.Errorf("expected trace level, got %v", Default().Level())
	}
	if !strings.Contains(buf.String(), "deep") {
		t.Errorf("expected trace output, got %q", buf.String())
	}
}
