package lang

import (
	"context"

	"github.com/ardnew/jsviz/dom"
)

// NoIndex is the index reported for writes that do not target an array
// element.
const NoIndex = -1

// Checkpoint describes the statement about to execute.
type Checkpoint struct {
	// Line is the 1-based source line of the statement.
	Line int
	// CallLines holds the lines of the active call sites, outermost first.
	CallLines []int
	// Env is the frame the statement executes in.
	Env *Env
	// Span locates the statement in the token stream.
	Span Span
}

// Host observes and paces an [Interpreter]. Every method is called
// synchronously from the evaluating goroutine.
//
// Checkpoint blocks the evaluator until it returns. A non-nil error halts
// the run with [ErrHalted].
type Host interface {
	Checkpoint(ctx context.Context, cp Checkpoint) error
	BindingDeclared(frame *Env, name string, value Value)
	BindingWritten(frame *Env, name string, value Value, index int)
	BindingRead(frame *Env, name string, value Value)
	ExpressionResult(span Span, value Value)
	FunctionEnter(frame *Env)
	FunctionExit(frame *Env)
	CallReturn(span Span, value Value, source *Span)
	DocumentMutated(doc *dom.Document)
	ConsoleOutput(values []Value)
	CancellationRequested() bool
}

// NopHost ignores every event and never cancels. Embed it to implement only
// the methods of interest.
type NopHost struct{}

var _ Host = NopHost{}

func (NopHost) Checkpoint(context.Context, Checkpoint) error { return nil }
func (NopHost) BindingDeclared(*Env, string, Value)          {}
func (NopHost) BindingWritten(*Env, string, Value, int)      {}
func (NopHost) BindingRead(*Env, string, Value)              {}
func (NopHost) ExpressionResult(Span, Value)                 {}
func (NopHost) FunctionEnter(*Env)                           {}
func (NopHost) FunctionExit(*Env)                            {}
func (NopHost) CallReturn(Span, Value, *Span)                {}
func (NopHost) DocumentMutated(*dom.Document)                {}
func (NopHost) ConsoleOutput([]Value)                        {}
func (NopHost) CancellationRequested() bool                  { return false }
