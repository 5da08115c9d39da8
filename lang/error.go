package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values). Runtime errors wrap one of these so
// callers can test them with [errors.Is].
var (
	ErrNotDefined     = NewError("not defined")
	ErrUninitialized  = NewError("access before initialization")
	ErrConstAssign    = NewError("assignment to constant")
	ErrRedeclared     = NewError("identifier already declared")
	ErrNotFunction    = NewError("not a function")
	ErrNotConstructor = NewError("not a constructor")
	ErrNullAccess     = NewError("property access on null or undefined")
	ErrNodeNotFound   = NewError("node not found")
	ErrArrowParams    = NewError("malformed arrow parameters")
	ErrIllegal        = NewError("illegal statement")
	ErrCallDepth      = NewError("maximum call stack size exceeded")
	ErrInvalidArg     = NewError("invalid argument")
	ErrDOM            = NewError("document operation failed")

	// ErrHalted is returned when the host cancels a run. It is not a
	// [*RuntimeError].
	ErrHalted = NewError("halted")
)

// Error represents an error with optional structured logging attributes.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is matches sentinel errors by message so that wrapped copies made with
// [Error.Wrap] or [Error.With] still compare equal to their sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.err == nil && t.msg == e.msg
}

// LogValue implements slog.LogValuer.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{msg: e.msg, err: err, attrs: e.attrs}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{msg: e.msg, err: e.err, attrs: newAttrs}
}

// ErrorKind classifies a [RuntimeError] the way the evaluated language
// would name it.
type ErrorKind int

const (
	ReferenceError ErrorKind = iota
	TypeError
	SyntaxError
	RangeError
)

func (k ErrorKind) String() string {
	switch k {
	case TypeError:
		return "TypeError"
	case SyntaxError:
		return "SyntaxError"
	case RangeError:
		return "RangeError"
	default:
		return "ReferenceError"
	}
}

// StackFrame is one entry of a pedagogical stack trace.
type StackFrame struct {
	Name string
	Line int
}

// RuntimeError aborts a run. Stack lists the active functions innermost
// first, ending with the top-level program.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Stack   []StackFrame
	Hint    string
	err     error
}

func newRuntimeError(kind ErrorKind, sentinel *Error, msg string) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: msg, err: sentinel}
}

func (e *RuntimeError) Error() string {
	msg := e.Kind.String() + ": " + e.Message
	if e.Line > 0 {
		msg += " (line " + strconv.Itoa(e.Line) + ")"
	}

	return msg
}

func (e *RuntimeError) Unwrap() error { return e.err }

// LogValue implements slog.LogValuer.
func (e *RuntimeError) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", e.Kind.String()),
		slog.String("message", e.Message),
		slog.Int("line", e.Line),
	}

	if e.Hint != "" {
		attrs = append(attrs, slog.String("hint", e.Hint))
	}

	if len(e.Stack) > 0 {
		frames := make([]string, len(e.Stack))
		for i, f := range e.Stack {
			frames[i] = f.Name + ":" + strconv.Itoa(f.Line)
		}

		attrs = append(attrs, slog.Any("stack", frames))
	}

	return slog.GroupValue(attrs...)
}

// Report renders the error for a learner: kind and message, the offending
// source line, and the call stack innermost first.
func (e *RuntimeError) Report(source string) string {
	var b strings.Builder

	b.WriteString(e.Kind.String())
	b.WriteString(": ")
	b.WriteString(e.Message)
	b.WriteByte('\n')

	if e.Hint != "" {
		b.WriteString("  hint: ")
		b.WriteString(e.Hint)
		b.WriteByte('\n')
	}

	if line, ok := sourceLine(source, e.Line); ok {
		b.WriteString("  ")
		b.WriteString(strconv.Itoa(e.Line))
		b.WriteString(" | ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	for _, f := range e.Stack {
		b.WriteString("    at ")
		b.WriteString(f.Name)
		b.WriteString(" (line ")
		b.WriteString(strconv.Itoa(f.Line))
		b.WriteString(")\n")
	}

	return b.String()
}

func sourceLine(source string, line int) (string, bool) {
	if line <= 0 {
		return "", false
	}

	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}

	return strings.TrimRight(lines[line-1], "\r"), true
}

// ParseError reports the first token the parser could not accept.
type ParseError struct {
	Line     int
	Column   int
	Expected string
	Found    string
	Source   string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var b strings.Builder

	b.WriteString("parse error at line ")
	b.WriteString(strconv.Itoa(e.Line))
	b.WriteString(", column ")
	b.WriteString(strconv.Itoa(e.Column))
	b.WriteString(": expected ")
	b.WriteString(e.Expected)
	b.WriteString(", found ")
	b.WriteString(e.Found)

	return b.String()
}

// Snippet returns the offending line with a caret under the error column.
func (e *ParseError) Snippet() string {
	line, ok := sourceLine(e.Source, e.Line)
	if !ok {
		return ""
	}

	num := strconv.Itoa(e.Line)

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(line)
	b.WriteByte('\n')

	// 2 leading spaces + " | "
	b.WriteString(strings.Repeat(" ", len(num)+5))

	if e.Column > 1 {
		b.WriteString(strings.Repeat(" ", e.Column-1))
	}

	b.WriteString("^\n")

	return b.String()
}

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
		slog.String("expected", e.Expected),
		slog.String("found", e.Found),
	)
}

// IsHalted reports whether err is a cancellation rather than a failure.
func IsHalted(err error) bool { return errors.Is(err, ErrHalted) }
