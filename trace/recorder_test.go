package trace

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jsviz/lang"
)

func record(t *testing.T, src string, opts ...RecorderOption) (*Recorder, error) {
	t.Helper()

	r := NewRecorder(opts...)

	return r, lang.New(lang.WithHost(r)).Run(t.Context(), src)
}

func TestRecorder_Events(t *testing.T) {
	var out bytes.Buffer

	r, err := record(t, "let a = [1];\na[1] = 2;\nconsole.log('a is', a);", WithConsole(&out))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := out.String(), "a is [1, 2]\n"; got != want {
		t.Errorf("console = %q, want %q", got, want)
	}

	var (
		checkpoints int
		indexed     *Event
	)

	for i, ev := range r.Events() {
		if ev.Seq != i {
			t.Errorf("event %d has Seq %d", i, ev.Seq)
		}

		switch ev.Kind {
		case KindCheckpoint:
			checkpoints++
		case KindWrite:
			if ev.Index != nil {
				indexed = &ev
			}
		}
	}

	if checkpoints != 3 {
		t.Errorf("checkpoints = %d, want 3", checkpoints)
	}

	if indexed == nil || *indexed.Index != 1 || indexed.Name != "a" || indexed.Address == "" {
		t.Errorf("indexed write = %+v", indexed)
	}
}

func TestRecorder_HaltWhen(t *testing.T) {
	c, err := Compile("i == 3")
	if err != nil {
		t.Fatal(err)
	}

	r, err := record(t, "let s = 0;\nfor (let i = 0; i < 10; i++) {\n  s += i;\n}", WithHaltWhen(c))
	if !lang.IsHalted(err) || !errors.Is(err, ErrConditionMet) {
		t.Fatalf("Run() error = %v, want halted by condition", err)
	}

	events := r.Events()
	if last := events[len(events)-1]; last.Kind != KindCheckpoint || last.Line != 3 {
		t.Errorf("last event = %+v, want checkpoint at line 3", last)
	}
}

func TestRecorder_Limit(t *testing.T) {
	r, err := record(t, "let n = 0; while (n < 50) n++;", WithLimit(10))
	if err != nil {
		t.Fatal(err)
	}

	events := r.Events()
	if len(events) != 10 {
		t.Fatalf("len = %d, want 10", len(events))
	}

	if events[0].Seq == 0 {
		t.Error("oldest events were not discarded")
	}
}

func TestRecorder_Document(t *testing.T) {
	r, err := record(t, "document.body.innerHTML = '<p class=\"x\">hi</p>';")
	if err != nil {
		t.Fatal(err)
	}

	if got, want := r.Document(), `<p class="x">hi</p>`; got != want {
		t.Errorf("Document() = %q, want %q", got, want)
	}
}

func TestRecorder_Export(t *testing.T) {
	r, err := record(t, "let x = 1;")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := r.Export(t.Context(), &buf, EncodingJSON, 2); err != nil {
			t.Fatal(err)
		}

		var events []Event
		if err := json.Unmarshal(buf.Bytes(), &events); err != nil {
			t.Fatal(err)
		}

		if len(events) != r.Len() {
			t.Errorf("decoded %d events, want %d", len(events), r.Len())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := r.Export(t.Context(), &buf, EncodingYAML, 2); err != nil {
			t.Fatal(err)
		}

		var events []map[string]any
		if err := yaml.Unmarshal(buf.Bytes(), &events); err != nil {
			t.Fatal(err)
		}

		if len(events) != r.Len() || events[0]["kind"] == nil {
			t.Errorf("decoded %v", events)
		}
	})

	t.Run("none", func(t *testing.T) {
		var buf bytes.Buffer
		if err := r.Export(t.Context(), &buf, EncodingNone, 0); err != nil || buf.Len() != 0 {
			t.Errorf("Export(none) wrote %q, %v", buf.String(), err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		err := r.Export(t.Context(), &bytes.Buffer{}, "xml", 0)
		if !errors.Is(err, ErrEncoding) {
			t.Errorf("Export(xml) error = %v", err)
		}
	})
}

func TestConsoleText(t *testing.T) {
	got := ConsoleText([]lang.Value{lang.String("n"), lang.Number(2), lang.NewArray(lang.String("a"))})
	if want := `n 2 ["a"]`; got != want {
		t.Errorf("ConsoleText() = %q, want %q", got, want)
	}

	if !strings.HasPrefix(FramePath(lang.NewEnv()), "global") {
		t.Error("FramePath() does not start at the global frame")
	}
}
