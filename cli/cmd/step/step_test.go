package step

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/jsviz/log"
)

const program = `let notes = [12, 15];
function add(a, b) {
  return a + b;
}
notes.push(add(4, 6));
console.log(notes.length);`

// next runs a command the way the program loop would and feeds its
// message back into the model.
func next(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()

	if cmd == nil {
		t.Fatal("no command to run")
	}

	msgs := make(chan tea.Msg, 1)
	go func() { msgs <- cmd() }()

	select {
	case msg := <-msgs:
		updated, _ := m.Update(msg)

		return updated.(model)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the evaluator")
	}

	return m
}

func newTestModel(t *testing.T, src string) model {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	t.Cleanup(cancel)

	m := newModel(ctx, Config{Source: src}, NewHistory(""), log.Logger{})
	t.Cleanup(func() { m.sess.stop() })

	return next(t, m, m.sess.wait())
}

func TestModel_Step(t *testing.T) {
	m := newTestModel(t, program)

	if !m.paused || m.snap.line != 1 {
		t.Fatalf("paused = %v at line %d, want paused at line 1", m.paused, m.snap.line)
	}

	var lines []int

	for m.paused {
		lines = append(lines, m.snap.line)

		var cmd tea.Cmd

		m, cmd = m.execute(command{verb: verbStep})
		m = next(t, m, cmd)
	}

	want := []int{1, 5, 3, 6}
	if len(lines) != len(want) {
		t.Fatalf("lines = %v, want %v", lines, want)
	}

	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("lines = %v, want %v", lines, want)

			break
		}
	}

	if m.status != "finished" || m.failure != "" {
		t.Errorf("status = %q, failure = %q", m.status, m.failure)
	}

	if len(m.snap.console) != 1 || m.snap.console[0] != "3" {
		t.Errorf("console = %v, want [3]", m.snap.console)
	}
}

func TestModel_Frames(t *testing.T) {
	m := newTestModel(t, program)

	// 1 -> 5 -> 3 (inside add)
	for range 2 {
		var cmd tea.Cmd

		m, cmd = m.execute(command{verb: verbStep})
		m = next(t, m, cmd)
	}

	if m.snap.line != 3 {
		t.Fatalf("line = %d, want 3", m.snap.line)
	}

	if len(m.snap.calls) != 1 || m.snap.calls[0] != 5 {
		t.Errorf("calls = %v, want [5]", m.snap.calls)
	}

	view := m.memoryView()
	for _, want := range []string{"global/add", "param a = 4", "param b = 6", "let notes = [12, 15]"} {
		if !strings.Contains(view, want) {
			t.Errorf("memory view missing %q:\n%s", want, view)
		}
	}
}

func TestModel_Breakpoint(t *testing.T) {
	m := newTestModel(t, program)

	m, _ = m.execute(parseCommand("b 6"))
	if !strings.Contains(m.status, "line 6") {
		t.Errorf("status = %q", m.status)
	}

	var cmd tea.Cmd

	m, cmd = m.execute(parseCommand("c"))
	m = next(t, m, cmd)

	if !m.paused || m.snap.line != 6 {
		t.Errorf("paused = %v at line %d, want paused at line 6", m.paused, m.snap.line)
	}
}

func TestModel_RuntimeError(t *testing.T) {
	m := newTestModel(t, "let a = 1;\nmissing();")

	var cmd tea.Cmd

	m, cmd = m.execute(parseCommand("c"))
	m = next(t, m, cmd)

	if m.status != "failed" || !strings.Contains(m.failure, "ReferenceError") {
		t.Errorf("status = %q, failure = %q", m.status, m.failure)
	}
}

func TestModel_Restart(t *testing.T) {
	m := newTestModel(t, program)
	first := m.sess.id

	m, _ = m.execute(parseCommand("b 3"))

	m, cmd := m.execute(parseCommand("restart"))
	m = next(t, m, cmd)

	if m.sess.id == first {
		t.Fatal("restart reused the session")
	}

	if bs := m.sess.stepper.Breakpoints(); len(bs) != 1 || bs[0] != 3 {
		t.Errorf("breakpoints = %v, want [3]", bs)
	}

	if !m.paused || m.snap.line != 1 {
		t.Errorf("paused = %v at line %d after restart", m.paused, m.snap.line)
	}
}

func TestModel_UnknownCommand(t *testing.T) {
	m := newTestModel(t, program)

	m, _ = m.execute(parseCommand("frob"))
	if !strings.Contains(m.failure, "unknown command") {
		t.Errorf("failure = %q", m.failure)
	}

	m, _ = m.execute(parseCommand("w i >"))
	if !strings.HasPrefix(m.failure, "error: ") {
		t.Errorf("failure = %q", m.failure)
	}

	if v := m.View(); !strings.Contains(v, "jsviz step") {
		t.Errorf("View() = %q", v)
	}
}
