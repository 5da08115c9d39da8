package step

import (
	"context"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/jsviz/lang"
	"github.com/ardnew/jsviz/trace"
)

// session is one run of the program under a stepper.
type session struct {
	id      int
	rec     *trace.Recorder
	stepper *trace.Stepper
	in      *lang.Interpreter
	done    chan error
	cancel  context.CancelFunc
}

// pausedMsg is sent when the evaluator waits at a checkpoint.
type pausedMsg struct {
	id int
	cp lang.Checkpoint
}

// doneMsg is sent when a run ends.
type doneMsg struct {
	id  int
	err error
}

// start runs cfg.Source in a new session. Breakpoints and the condition
// carry over from the previous session.
func start(ctx context.Context, id int, cfg Config, prev *session) *session {
	ctx, cancel := context.WithCancel(ctx)

	rec := trace.NewRecorder()
	st := trace.NewStepper(rec)

	if prev != nil {
		for _, line := range prev.stepper.Breakpoints() {
			st.ToggleBreakpoint(line)
		}
	}

	for _, line := range cfg.Breakpoints {
		if !slices.Contains(st.Breakpoints(), line) {
			st.ToggleBreakpoint(line)
		}
	}

	if cfg.When != nil {
		st.SetCondition(cfg.When)
	}

	opts := append(slices.Clone(cfg.Options), lang.WithHost(st), lang.WithHTML(cfg.HTML))

	s := &session{
		id:      id,
		rec:     rec,
		stepper: st,
		in:      lang.New(opts...),
		done:    make(chan error, 1),
		cancel:  cancel,
	}

	go func() { s.done <- s.in.Run(ctx, cfg.Source) }()

	return s
}

// wait returns a command delivering the next pause or the end of the run.
func (s *session) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case cp := <-s.stepper.Paused():
			return pausedMsg{id: s.id, cp: cp}
		case err := <-s.done:
			return doneMsg{id: s.id, err: err}
		}
	}
}

// stop halts the run and releases its goroutine.
func (s *session) stop() {
	s.stepper.Stop()
	s.cancel()
}

// frameView is the rendered content of one environment frame.
type frameView struct {
	path     string
	bindings []string
}

// snapshot is the state shown while paused. It is taken while the
// evaluator is blocked, so reading the environment is safe.
type snapshot struct {
	line     int
	calls    []int
	frames   []frameView
	console  []string
	document string
}

func takeSnapshot(cp lang.Checkpoint, rec *trace.Recorder) snapshot {
	return snapshot{
		line:     cp.Line,
		calls:    cp.CallLines,
		frames:   frames(cp.Env),
		console:  consoleLines(rec),
		document: rec.Document(),
	}
}

func consoleLines(rec *trace.Recorder) []string {
	var out []string

	for _, ev := range rec.Events() {
		if ev.Kind == trace.KindConsole {
			out = append(out, ev.Value)
		}
	}

	return out
}

// frames renders the frames visible from env innermost first, following
// display parents and skipping frames without bindings.
func frames(env *lang.Env) []frameView {
	var out []frameView

	for f := env; f != nil; f = f.DisplayParent() {
		bs := f.Bindings()
		if len(bs) == 0 {
			continue
		}

		view := frameView{path: trace.FramePath(f)}

		for _, b := range bs {
			view.bindings = append(view.bindings, formatBinding(b))
		}

		out = append(out, view)
	}

	return out
}

func formatBinding(b *lang.Binding) string {
	var sb strings.Builder

	sb.WriteString(b.Decl.String())
	sb.WriteByte(' ')
	sb.WriteString(b.Name)
	sb.WriteString(" = ")

	if b.Initialized {
		sb.WriteString(lang.Inspect(b.Value))
	} else {
		sb.WriteString("<uninitialized>")
	}

	sb.WriteString("  @")
	sb.WriteString(b.Address)

	return sb.String()
}
