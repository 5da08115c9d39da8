package step

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/jsviz/lang"
	"github.com/ardnew/jsviz/log"
	"github.com/ardnew/jsviz/trace"
)

// Config describes the program to step through.
type Config struct {
	// Path is the file the source was read from. Edits are written back to
	// it. It may be empty.
	Path string
	// Source is the program text.
	Source string
	// HTML seeds the document body.
	HTML string
	// Breakpoints are the initial breakpoint lines.
	Breakpoints []int
	// When is the initial break condition.
	When *trace.Condition
	// Options configure every interpreter the stepper creates.
	Options []lang.Option
}

// editedMsg is sent when editing completes with a program that parses.
type editedMsg struct{ source string }

// editCancelledMsg is sent when the user cleared the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user declined to re-edit after a parse
// error.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the edit process encounters a non-parse error.
type editErrorMsg struct{ err error }

const prompt = "➜ "

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("3"))
	callStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	breakStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	lineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	frameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	resultStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	haltStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	paneStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

// model is the Bubble Tea model for the stepper.
type model struct {
	ctxFunc    func() context.Context
	cfg        Config
	logger     log.Logger
	input      textinput.Model
	history    *History
	historyIdx int
	sess       *session
	nextID     int
	snap       snapshot
	paused     bool
	status     string
	failure    string
	help       bool
	width      int
	height     int
	quitting   bool
}

// Run starts the stepper on the program in cfg.
func Run(
	ctx context.Context,
	cfg Config,
	cacheDir string,
	logger log.Logger,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	logger.TraceContext(ctx, "step start",
		slog.String("cache_dir", cacheDir),
		slog.String("path", cfg.Path),
		slog.Int("bytes", len(cfg.Source)),
	)

	if strings.TrimSpace(cfg.Source) == "" {
		return ErrNoSource
	}

	if _, err := lang.ParseString(cfg.Source); err != nil {
		return err
	}

	history := NewHistory(historyPath(cacheDir))
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	m := newModel(ctx, cfg, history, logger)

	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())

	final, err := p.Run()

	if fm, ok := final.(model); ok && fm.sess != nil {
		fm.sess.stop()
	}

	return err
}

const (
	defaultWidth  = 100
	defaultHeight = 30
)

func newModel(
	ctx context.Context,
	cfg Config,
	history *History,
	logger log.Logger,
) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Placeholder = "step"
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = defaultWidth - len(prompt) - 2

	m := model{
		ctxFunc:    func() context.Context { return ctx },
		cfg:        cfg,
		logger:     logger,
		input:      ti,
		history:    history,
		historyIdx: history.Len(),
		width:      defaultWidth,
		height:     defaultHeight,
	}

	m, _ = m.restart()

	return m
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.sess.wait())
}

// restart stops the current session, if any, and starts a new one.
func (m model) restart() (model, tea.Cmd) {
	prev := m.sess
	if prev != nil {
		prev.stop()
	}

	m.nextID++
	m.sess = start(m.ctxFunc(), m.nextID, m.cfg, prev)
	m.snap = snapshot{}
	m.paused = false
	m.failure = ""
	m.status = "running"

	m.logger.TraceContext(m.ctxFunc(), "step session",
		slog.Int("id", m.sess.id),
		slog.Any("breakpoints", m.sess.stepper.Breakpoints()),
	)

	return m, m.sess.wait()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case pausedMsg:
		if m.sess == nil || msg.id != m.sess.id {
			return m, nil
		}

		m.snap = takeSnapshot(msg.cp, m.sess.rec)
		m.paused = true
		m.status = "paused at line " + strconv.Itoa(msg.cp.Line)

		return m, nil

	case doneMsg:
		if m.sess == nil || msg.id != m.sess.id {
			return m, nil
		}

		m.paused = false
		m.snap.line = 0
		m.snap.calls = nil
		m.snap.console = consoleLines(m.sess.rec)
		m.snap.document = m.sess.rec.Document()
		m.status, m.failure = outcome(msg.err, m.cfg.Source)

		return m, nil

	case editedMsg:
		m.cfg.Source = msg.source

		return m.restart()

	case editCancelledMsg:
		m.status = "edit cancelled"

		return m, nil

	case editDeclinedMsg:
		m.quitting = true

		return m, tea.Quit

	case editErrorMsg:
		m.failure = "edit: " + msg.err.Error()

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

// outcome describes how a run ended.
func outcome(err error, source string) (status, failure string) {
	var (
		rerr *lang.RuntimeError
		perr *lang.ParseError
	)

	switch {
	case err == nil:
		return "finished", ""
	case lang.IsHalted(err):
		return "halted", ""
	case errors.As(err, &rerr):
		return "failed", strings.TrimRight(rerr.Report(source), "\n")
	case errors.As(err, &perr):
		return "failed", perr.Error() + "\n" + strings.TrimRight(perr.Snippet(), "\n")
	}

	return "failed", err.Error()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true

		return m, tea.Quit

	case tea.KeyEnter:
		input := m.input.Value()
		m.input.SetValue("")

		if strings.TrimSpace(input) != "" {
			_ = m.history.Write(input)
		}

		m.historyIdx = m.history.Len()

		return m.execute(parseCommand(input))

	case tea.KeyUp:
		if m.historyIdx > 0 {
			m.historyIdx--

			if entry, err := m.history.Entry(m.historyIdx); err == nil {
				m.input.SetValue(entry)
				m.input.CursorEnd()
			}
		}

		return m, nil

	case tea.KeyDown:
		if m.historyIdx < m.history.Len() {
			m.historyIdx++
			entry, _ := m.history.Entry(m.historyIdx)
			m.input.SetValue(entry)
			m.input.CursorEnd()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) execute(cmd command) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "step command",
		slog.Int("verb", int(cmd.verb)),
		slog.String("arg", cmd.arg),
	)

	if strings.HasPrefix(m.failure, "error: ") {
		m.failure = ""
	}

	switch cmd.verb {
	case verbStep, verbContinue:
		if !m.paused {
			return m, nil
		}

		m.paused = false
		m.status = "running"

		if cmd.verb == verbStep {
			m.sess.stepper.Step()
		} else {
			m.sess.stepper.Continue()
		}

		return m, m.sess.wait()

	case verbBreak:
		if m.sess.stepper.ToggleBreakpoint(cmd.line) {
			m.status = "breakpoint set at line " + strconv.Itoa(cmd.line)
		} else {
			m.status = "breakpoint cleared at line " + strconv.Itoa(cmd.line)
		}

		m.cfg.Breakpoints = m.sess.stepper.Breakpoints()

		return m, nil

	case verbWhen:
		if cmd.arg == "" {
			m.cfg.When = nil
			m.sess.stepper.SetCondition(nil)
			m.status = "condition cleared"

			return m, nil
		}

		cond, err := trace.Compile(cmd.arg)
		if err != nil {
			m.failure = "error: " + err.Error()

			return m, nil
		}

		m.cfg.When = cond
		m.sess.stepper.SetCondition(cond)
		m.status = "break when " + cond.String()

		return m, nil

	case verbRestart:
		return m.restart()

	case verbEdit:
		return m.handleEdit()

	case verbHelp:
		m.help = !m.help

		return m, nil

	case verbQuit:
		m.quitting = true

		return m, tea.Quit
	}

	m.failure = "error: unknown command " + strconv.Quote(cmd.arg) + " (try 'help')"

	return m, nil
}

func (m model) handleEdit() (model, tea.Cmd) {
	cmd := &editSourceCommand{
		source:  m.cfg.Source,
		path:    m.cfg.Path,
		ctxFunc: m.ctxFunc,
		logger:  m.logger,
	}

	return m, tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editDeclinedMsg{}
		}

		if err != nil {
			return editErrorMsg{err: err}
		}

		if cmd.edited == "" {
			return editCancelledMsg{}
		}

		return editedMsg{source: cmd.edited}
	})
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("jsviz step"))
	b.WriteString("  ")
	b.WriteString(m.statusView())
	b.WriteString("\n")

	half := max(m.width/2-2, 20)

	source := paneStyle.Width(half).Render(m.sourceView())
	memory := paneStyle.Width(half).Render(m.memoryView())

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, source, memory))
	b.WriteString("\n")

	if m.help {
		b.WriteString(hintStyle.Render(strings.Trim(helpMessage(), "\n")))
		b.WriteString("\n")
	} else if out := m.outputView(); out != "" {
		b.WriteString(paneStyle.Width(m.width - 4).Render(out))
		b.WriteString("\n")
	}

	if m.failure != "" {
		b.WriteString(errorStyle.Render(m.failure))
		b.WriteString("\n")
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")

	return b.String()
}

func (m model) statusView() string {
	switch m.status {
	case "finished":
		return resultStyle.Render("✔ " + m.status)
	case "halted":
		return haltStyle.Render("■ " + m.status)
	case "failed":
		return errorStyle.Render("✘ " + m.status)
	}

	return hintStyle.Render(m.status)
}

// sourceView renders the lines around the current line with markers for
// the current statement, active call sites and breakpoints.
func (m model) sourceView() string {
	lines := strings.Split(m.cfg.Source, "\n")

	rows := max(m.height-12, 5)
	first := 0

	if m.snap.line > rows/2 {
		first = m.snap.line - rows/2 - 1
	}

	last := min(first+rows, len(lines))
	first = max(last-rows, 0)

	breaks := m.sess.stepper.Breakpoints()
	width := len(strconv.Itoa(len(lines)))

	var b strings.Builder

	for i := first; i < last; i++ {
		n := i + 1

		marker := " "

		switch {
		case slices.Contains(breaks, n):
			marker = breakStyle.Render("●")
		case slices.Contains(m.snap.calls, n):
			marker = callStyle.Render("↳")
		}

		num := lineStyle.Render(fmt.Sprintf("%*d", width, n))
		text := lines[i]

		if n == m.snap.line {
			text = currentStyle.Render(text)
		}

		b.WriteString(marker + " " + num + "  " + text)

		if i < last-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func (m model) memoryView() string {
	if len(m.snap.frames) == 0 {
		return hintStyle.Render("no bindings")
	}

	var b strings.Builder

	for i, f := range m.snap.frames {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(frameStyle.Render(f.path))

		for _, line := range f.bindings {
			b.WriteString("\n  ")
			b.WriteString(line)
		}
	}

	return b.String()
}

// maxConsoleLines bounds the console pane.
const maxConsoleLines = 6

func (m model) outputView() string {
	var parts []string

	if n := len(m.snap.console); n > 0 {
		lines := m.snap.console[max(n-maxConsoleLines, 0):]
		parts = append(parts, titleStyle.Render("console")+"\n"+strings.Join(lines, "\n"))
	}

	if m.snap.document != "" {
		parts = append(parts, titleStyle.Render("document")+"\n"+m.snap.document)
	}

	return strings.Join(parts, "\n")
}
