package lang

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/jsviz/dom"
	"github.com/ardnew/jsviz/log"
)

// DefaultMaxCallDepth bounds the call stack of a run.
const DefaultMaxCallDepth = 512

// Interpreter evaluates programs against its own environment and virtual
// document. It is not safe for concurrent use; a new Run discards all state
// left by the previous one.
type Interpreter struct {
	host     Host
	logger   log.Logger
	seedHTML string
	maxDepth int
	seed     uint64

	source    string
	tokens    []Token
	global    *Env
	env       *Env
	funcs     map[string]*Function
	ambient   map[string]Value
	doc       *dom.Document
	calls     []*callFrame
	mutations int
	rand      *rand.Rand
	quiet     int
}

// callFrame is one entry of the call stack. Line tracks the statement being
// executed in the frame and site the line of the call that created it.
type callFrame struct {
	name string
	line int
	site int
	env  *Env
}

// Option configures an [Interpreter].
type Option func(*Interpreter)

// WithHost sets the host receiving instrumentation events.
func WithHost(h Host) Option {
	return func(in *Interpreter) {
		if h != nil {
			in.host = h
		}
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithHTML seeds the document body of every run with an HTML fragment.
func WithHTML(html string) Option {
	return func(in *Interpreter) {
		in.seedHTML = html
	}
}

// WithMaxCallDepth sets the maximum number of nested calls.
func WithMaxCallDepth(depth int) Option {
	return func(in *Interpreter) {
		if depth > 0 {
			in.maxDepth = depth
		}
	}
}

// WithRandSeed makes Math.random reproducible across runs.
func WithRandSeed(seed uint64) Option {
	return func(in *Interpreter) {
		in.seed = seed
	}
}

// New returns an interpreter with an empty environment and document.
func New(opts ...Option) *Interpreter {
	in := &Interpreter{
		host:     NopHost{},
		maxDepth: DefaultMaxCallDepth,
		seed:     rand.Uint64(),
	}

	for _, opt := range opts {
		opt(in)
	}

	_ = in.reset("")

	return in
}

func (in *Interpreter) reset(source string) error {
	in.source = source
	in.tokens = Tokenize(source)
	in.global = NewEnv()
	in.env = in.global
	in.funcs = map[string]*Function{}
	in.calls = []*callFrame{{name: "(global)", env: in.global}}
	in.rand = rand.New(rand.NewPCG(in.seed, in.seed>>1|1))
	in.doc = dom.NewDocument()
	in.ambient = in.ambientGlobals()

	var err error
	if in.seedHTML != "" {
		err = in.doc.LoadHTML(in.seedHTML)
	}

	in.mutations = in.doc.Mutations()

	return err
}

// Run resets all state, then parses and executes source. A parse error is
// returned before anything executes. Runtime failures are returned as
// [*RuntimeError]; cancellation as [ErrHalted].
func (in *Interpreter) Run(ctx context.Context, source string) error {
	if err := in.reset(source); err != nil {
		return ErrDOM.Wrap(err)
	}

	in.logger.TraceContext(ctx, "run start",
		slog.Int("bytes", len(source)),
		slog.Int("tokens", len(in.tokens)),
	)

	prog, err := Parse(in.tokens)
	if err != nil {
		in.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return err
	}

	err = in.finish(in.execList(ctx, prog.Body, in.global))

	in.logger.TraceContext(ctx, "run end",
		slog.Int("bindings", len(in.global.names)),
		slog.Int("functions", len(in.funcs)),
		slog.Bool("ok", err == nil),
	)

	return err
}

// Invoke calls fn with the current environment and document, as an external
// event would. The call stack is cleared first.
func (in *Interpreter) Invoke(ctx context.Context, fn Value, args ...Value) (Value, error) {
	in.calls = []*callFrame{{name: "(invoke)", env: in.global}}
	in.env = in.global

	v, err := in.callValue(ctx, fn, args, nil)

	return v, in.finish(err)
}

// DispatchEvent calls every listener registered on el for the event type
// with an event object. It stops at the first failure.
func (in *Interpreter) DispatchEvent(ctx context.Context, el *dom.Element, event string) error {
	for _, l := range el.Listeners(event) {
		fn, ok := l.(Value)
		if !ok {
			continue
		}

		ev := NewObject()
		ev.Set("type", String(event))
		ev.Set("target", Element{el})

		in.calls = []*callFrame{{name: "(" + event + ")", env: in.global}}
		in.env = in.global

		if _, err := in.callValue(ctx, fn, []Value{ev}, nil); err != nil {
			return in.finish(err)
		}
	}

	return nil
}

// Global returns the global frame of the current run.
func (in *Interpreter) Global() *Env { return in.global }

// Document returns the virtual document of the current run.
func (in *Interpreter) Document() *dom.Document { return in.doc }

// Tokens returns the token stream of the current run.
func (in *Interpreter) Tokens() []Token { return in.tokens }

// Source returns the source text of the current run.
func (in *Interpreter) Source() string { return in.source }

// Lookup resolves name the way an identifier expression would, without
// notifying the host.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	if b, _, err := in.global.Get(name); err == nil {
		return b.Value, true
	}

	if fn, ok := in.funcs[name]; ok {
		return fn, true
	}

	v, ok := in.ambient[name]

	return v, ok
}

// Control flow signals unwind nested statements until absorbed by the
// enclosing loop, switch or call.
type (
	breakSignal    struct{}
	continueSignal struct{}
	returnSignal   struct {
		value  Value
		source *Span
	}
)

func (breakSignal) Error() string    { return "break" }
func (continueSignal) Error() string { return "continue" }
func (returnSignal) Error() string   { return "return" }

// finish converts signals that escaped every construct able to absorb them.
func (in *Interpreter) finish(err error) error {
	var msg string

	switch err.(type) {
	case nil:
		return nil
	case breakSignal:
		msg = "Illegal break statement"
	case continueSignal:
		msg = "Illegal continue statement: no surrounding iteration statement"
	case returnSignal:
		msg = "Illegal return statement"
	default:
		return err
	}

	return in.decorate(newRuntimeError(SyntaxError, ErrIllegal, msg))
}

// decorate fills the location and stack of a runtime error raised by the
// statement currently executing. Errors already located are returned as is.
func (in *Interpreter) decorate(err error) error {
	var rerr *RuntimeError
	if !errors.As(err, &rerr) || rerr.Line > 0 {
		return err
	}

	rerr.Line = in.top().line
	rerr.Stack = in.stackTrace()

	return err
}

func (in *Interpreter) top() *callFrame { return in.calls[len(in.calls)-1] }

// stackTrace lists active frames innermost first.
func (in *Interpreter) stackTrace() []StackFrame {
	out := make([]StackFrame, 0, len(in.calls))

	for _, f := range slices.Backward(in.calls) {
		out = append(out, StackFrame{Name: f.name, Line: f.line})
	}

	return out
}

// callLines lists the call sites of active functions, outermost first.
func (in *Interpreter) callLines() []int {
	out := make([]int, 0, len(in.calls)-1)

	for _, f := range in.calls[1:] {
		out = append(out, f.site)
	}

	return out
}

// halted polls for cancellation.
func (in *Interpreter) halted(ctx context.Context) error {
	if err := context.Cause(ctx); err != nil {
		return ErrHalted.Wrap(err)
	}

	if in.host.CancellationRequested() {
		return ErrHalted
	}

	return nil
}

// checkpoint hands control to the host before a statement takes effect.
// Statements of template-defined functions are not reported.
func (in *Interpreter) checkpoint(ctx context.Context, s Stmt) error {
	if in.quiet > 0 {
		return in.halted(ctx)
	}

	span := s.Pos()
	in.top().line = span.Line

	if err := in.halted(ctx); err != nil {
		return err
	}

	cp := Checkpoint{
		Line:      span.Line,
		CallLines: in.callLines(),
		Env:       in.env,
		Span:      span,
	}

	if err := in.host.Checkpoint(ctx, cp); err != nil {
		return ErrHalted.Wrap(err)
	}

	return in.halted(ctx)
}

// syncDocument notifies the host when the document changed since the last
// notification.
func (in *Interpreter) syncDocument() {
	if n := in.doc.Mutations(); n != in.mutations {
		in.mutations = n
		in.host.DocumentMutated(in.doc)
	}
}

// withEnv runs fn with env as the current frame.
func (in *Interpreter) withEnv(env *Env, fn func() error) error {
	saved := in.env
	in.env = env

	defer func() { in.env = saved }()

	return fn()
}

// hint suggests a known name close to an undefined one.
func (in *Interpreter) hint(name string) string {
	candidates := in.env.reachable()
	for n := range in.funcs {
		candidates = append(candidates, n)
	}

	for n := range in.ambient {
		candidates = append(candidates, n)
	}

	slices.Sort(candidates)

	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 || matches[0].Str == name {
		return ""
	}

	return "did you mean '" + matches[0].Str + "'?"
}
