package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
}

func TestLogger_ZeroValue_IsNoop(t *testing.T) {
	var logger Logger

	logger.Trace("ignored")
	logger.ErrorContext(t.Context(), "ignored", slog.Int("n", 1))

	if logger.With(slog.String("k", "v")).Logger != nil {
		t.Error("expected With on zero value to stay zero")
	}
	if logger.Level() != DefaultLevel {
		t.Errorf("expected default level, got %v", logger.Level())
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	tests := []struct {
		name   string
		level  Level
		log    func(Logger)
		logged bool
	}{
		{"trace below info", LevelInfo, func(l Logger) { l.Trace("m") }, false},
		{"trace at trace", LevelTrace, func(l Logger) { l.Trace("m") }, true},
		{"debug at debug", LevelDebug, func(l Logger) { l.Debug("m") }, true},
		{"info below error", LevelError, func(l Logger) { l.Info("m") }, false},
		{"error at error", LevelError, func(l Logger) { l.Error("m") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(Make(&buf, WithLevel(tt.level)))

			if got := buf.Len() > 0; got != tt.logged {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.logged, buf.String())
			}
		})
	}
}

func TestLogger_JSON_LevelNames(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON))

	logger.Trace("step", slog.Int("line", 3))

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}

	if record["level"] != "TRACE" {
		t.Errorf("level = %v, want TRACE", record["level"])
	}
	if record["line"] != float64(3) {
		t.Errorf("line = %v, want 3", record["line"])
	}
}

func TestLogger_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		absent bool
	}{
		{"named", "RFC3339", false},
		{"kitchen", "Kitchen", false},
		{"none", "none", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Make(&buf, WithTimeLayout(tt.layout)).Info("hello")

			has := strings.Contains(buf.String(), "time=")
			if has == tt.absent {
				t.Errorf("time present = %v, output %q", has, buf.String())
			}
		})
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf).With(slog.String("component", "lang"))

	logger.Info("ready")

	if !strings.Contains(buf.String(), "component=lang") {
		t.Errorf("expected attribute in output, got %q", buf.String())
	}
}

func TestLogger_Wrap_KeepsBase(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithFormat(FormatJSON))
	wrapped := base.Wrap(WithLevel(LevelDebug))

	if wrapped.Format() != FormatJSON {
		t.Errorf("expected JSON format to carry over, got %v", wrapped.Format())
	}
	if base.Level() != LevelInfo {
		t.Errorf("base level mutated to %v", base.Level())
	}

	wrapped.Debug("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("expected debug output, got %q", buf.String())
	}
}

func TestLogger_Caller(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithCaller(true)).Info("where")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got %q", buf.String())
	}
}

func TestLogger_Pretty(t *testing.T) {
	var buf bytes.Buffer
	Make(&buf, WithPretty(true), WithTimeLayout("none")).
		Warn("careful", slog.String("name", "x y"))

	out := buf.String()
	if !strings.Contains(out, colorYellow+"WARN") {
		t.Errorf("expected colorized level, got %q", out)
	}
	if !strings.Contains(out, `"x y"`) {
		t.Errorf("expected quoted value, got %q", out)
	}
}
