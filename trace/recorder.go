package trace

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/jsviz/dom"
	"github.com/ardnew/jsviz/lang"
	"github.com/ardnew/jsviz/log"
)

// Recorder is a [lang.Host] that records every event. It is safe to read
// the recorded events from another goroutine while a run is in progress.
type Recorder struct {
	console  io.Writer
	haltWhen *Condition
	delay    time.Duration
	logger   log.Logger
	limit    int

	mu     sync.Mutex
	events []Event
	doc    string
}

var _ lang.Host = (*Recorder)(nil)

// RecorderOption configures a [Recorder].
type RecorderOption func(*Recorder)

// WithConsole echoes console output to w, one line per call.
func WithConsole(w io.Writer) RecorderOption {
	return func(r *Recorder) { r.console = w }
}

// WithHaltWhen halts the run at the first checkpoint where c holds.
func WithHaltWhen(c *Condition) RecorderOption {
	return func(r *Recorder) { r.haltWhen = c }
}

// WithDelay pauses for d at every checkpoint.
func WithDelay(d time.Duration) RecorderOption {
	return func(r *Recorder) { r.delay = d }
}

// WithRecorderLogger sets the logger for trace-level event logging.
func WithRecorderLogger(logger log.Logger) RecorderOption {
	return func(r *Recorder) { r.logger = logger }
}

// WithLimit keeps only the most recent n events. Zero keeps all.
func WithLimit(n int) RecorderOption {
	return func(r *Recorder) {
		if n >= 0 {
			r.limit = n
		}
	}
}

// NewRecorder returns an empty recorder.
func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Events returns a copy of the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Len returns the number of recorded events.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.events)
}

// Document returns the body markup captured at the last document mutation.
func (r *Recorder) Document() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.doc
}

// Reset discards all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events, r.doc = nil, ""
}

func (r *Recorder) add(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n := len(r.events); n > 0 {
		ev.Seq = r.events[n-1].Seq + 1
	}

	r.events = append(r.events, ev)

	if r.limit > 0 && len(r.events) > r.limit {
		r.events = slices.Delete(r.events, 0, len(r.events)-r.limit)
	}
}

func binding(frame *lang.Env, kind Kind, name string, v lang.Value) Event {
	ev := Event{
		Kind:  kind,
		Frame: FramePath(frame),
		Name:  name,
		Value: lang.Inspect(v),
	}

	if b := frame.Own(name); b != nil {
		ev.Address = b.Address
	}

	return ev
}

// Checkpoint records the statement, then applies the delay and the halt
// condition.
func (r *Recorder) Checkpoint(ctx context.Context, cp lang.Checkpoint) error {
	r.add(Event{
		Kind:   KindCheckpoint,
		Line:   cp.Line,
		Calls:  cp.CallLines,
		Frame:  FramePath(cp.Env),
		Tokens: cp.Span.Tokens,
	})

	if r.delay > 0 {
		t := time.NewTimer(r.delay)
		defer t.Stop()

		select {
		case <-ctx.Done():
			return context.Cause(ctx)
		case <-t.C:
		}
	}

	if r.haltWhen == nil {
		return nil
	}

	ok, err := r.haltWhen.Eval(cp.Env)
	if err != nil {
		r.logger.TraceContext(ctx, "halt condition", slog.Any("error", err))

		return nil
	}

	if ok {
		r.logger.DebugContext(ctx, "halt condition met",
			slog.String("condition", r.haltWhen.String()),
			slog.Int("line", cp.Line),
		)

		return ErrConditionMet.With(slog.Int("line", cp.Line))
	}

	return nil
}

func (r *Recorder) BindingDeclared(frame *lang.Env, name string, v lang.Value) {
	r.add(binding(frame, KindDeclare, name, v))
}

func (r *Recorder) BindingWritten(frame *lang.Env, name string, v lang.Value, index int) {
	ev := binding(frame, KindWrite, name, v)
	if index != lang.NoIndex {
		ev.Index = &index
	}

	r.add(ev)
}

func (r *Recorder) BindingRead(frame *lang.Env, name string, v lang.Value) {
	r.add(binding(frame, KindRead, name, v))
}

func (r *Recorder) ExpressionResult(span lang.Span, v lang.Value) {
	r.add(Event{
		Kind:   KindResult,
		Line:   span.Line,
		Value:  lang.Inspect(v),
		Tokens: span.Tokens,
	})
}

func (r *Recorder) FunctionEnter(frame *lang.Env) {
	r.add(Event{Kind: KindEnter, Frame: FramePath(frame), Name: frame.Name})
}

func (r *Recorder) FunctionExit(frame *lang.Env) {
	r.add(Event{Kind: KindExit, Frame: FramePath(frame), Name: frame.Name})
}

func (r *Recorder) CallReturn(span lang.Span, v lang.Value, source *lang.Span) {
	ev := Event{
		Kind:   KindReturn,
		Line:   span.Line,
		Value:  lang.Inspect(v),
		Tokens: span.Tokens,
	}

	if source != nil {
		ev.Source = source.Tokens
	}

	r.add(ev)
}

func (r *Recorder) DocumentMutated(doc *dom.Document) {
	html := doc.Body().InnerHTML()

	r.mu.Lock()
	r.doc = html
	r.mu.Unlock()

	r.add(Event{Kind: KindDocument, Value: html})
}

func (r *Recorder) ConsoleOutput(values []lang.Value) {
	text := ConsoleText(values)

	r.add(Event{Kind: KindConsole, Value: text})

	if r.console != nil {
		fmt.Fprintln(r.console, text)
	}
}

// CancellationRequested always reports false; halting is done through the
// checkpoint.
func (r *Recorder) CancellationRequested() bool { return false }

// Encoding names an export format for [Recorder.Export].
type Encoding string

const (
	EncodingNone Encoding = "none"
	EncodingJSON Encoding = "json"
	EncodingYAML Encoding = "yaml"
)

// Encodings returns the names of the supported export formats.
func Encodings() []string {
	return []string{string(EncodingNone), string(EncodingJSON), string(EncodingYAML)}
}

// Export writes the recorded events to w in the given encoding. Indent of
// zero selects the compact form.
func (r *Recorder) Export(ctx context.Context, w io.Writer, enc Encoding, indent int) error {
	switch Encoding(strings.ToLower(string(enc))) {
	case EncodingNone, "":
		return nil
	case EncodingJSON:
		return r.WriteJSON(w, indent)
	case EncodingYAML:
		return r.WriteYAML(ctx, w, indent)
	}

	return ErrEncoding.With(slog.String("encoding", string(enc)))
}

// WriteJSON writes the recorded events as a JSON array.
func (r *Recorder) WriteJSON(w io.Writer, indent int) error {
	var (
		data []byte
		err  error
	)

	events := r.Events()

	if indent > 0 {
		data, err = json.MarshalIndent(events, "", strings.Repeat(" ", indent))
	} else {
		data, err = json.Marshal(events)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}

// WriteYAML writes the recorded events as a YAML sequence.
func (r *Recorder) WriteYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	data, err := yaml.MarshalContext(ctx, r.Events(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(data))

	return err
}
