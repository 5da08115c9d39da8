package lang

import (
	"context"
	"log/slog"
)

// call is the context handed to a [Builtin].
type call struct {
	in   *Interpreter
	ctx  context.Context
	site *Call
}

// apply calls a function value from inside a builtin.
func (c *call) apply(fn Value, args ...Value) (Value, error) {
	return c.in.callValue(c.ctx, fn, args, c.site)
}

func (in *Interpreter) evalCall(ctx context.Context, x *Call) (Value, error) {
	var (
		callee Value
		err    error
	)

	if id, ok := x.Callee.(*Ident); ok {
		callee, err = in.identifier(id.Name)
	} else {
		callee, err = in.eval(ctx, x.Callee)
	}

	if err != nil {
		return nil, err
	}

	args, err := in.evalList(ctx, x.Args)
	if err != nil {
		return nil, err
	}

	v, err := in.callValue(ctx, callee, args, x)
	if err != nil {
		return nil, err
	}

	if b, ok := callee.(*Builtin); ok && b.mutates {
		in.receiverWritten(x.Callee)
	}

	return v, nil
}

// receiverWritten reports a binding write when a mutating method was called
// on a value held directly by a binding.
func (in *Interpreter) receiverWritten(callee Expr) {
	m, ok := callee.(*Member)
	if !ok {
		return
	}

	id, ok := m.Object.(*Ident)
	if !ok {
		return
	}

	if b, frame, err := in.env.Get(id.Name); err == nil {
		in.host.BindingWritten(frame, id.Name, b.Value, NoIndex)
	}
}

// callValue calls a function value. site is nil for calls made on behalf of
// the host.
func (in *Interpreter) callValue(ctx context.Context, callee Value, args []Value, site *Call) (Value, error) {
	switch fn := callee.(type) {
	case *Builtin:
		v, err := fn.Fn(&call{in: in, ctx: ctx, site: site}, args)
		if err != nil {
			return nil, err
		}

		in.syncDocument()

		return v, nil
	case *Function:
		return in.invoke(ctx, fn, args, site)
	}

	name := Inspect(callee)
	if site != nil {
		name = in.text(site.Callee)
	}

	return nil, newRuntimeError(TypeError, ErrNotFunction, name+" is not a function")
}

// invoke runs a user function in a new frame whose lexical parent is the
// environment the function was defined in.
func (in *Interpreter) invoke(ctx context.Context, fn *Function, args []Value, site *Call) (Value, error) {
	if err := in.halted(ctx); err != nil {
		return nil, err
	}

	if len(in.calls) > in.maxDepth {
		return nil, newRuntimeError(RangeError, ErrCallDepth, "Maximum call stack size exceeded")
	}

	name := fn.Name
	if name == "" {
		name = "(anonymous)"
	}

	env := fn.Env.child(name, true)
	frame := &callFrame{name: name, line: fn.Span.Line, site: in.top().line, env: env}

	siteSpan := fn.Span
	if site != nil {
		frame.site = site.Line
		siteSpan = site.Span
	}

	for i, p := range fn.Params {
		var v Value = Undefined{}
		if i < len(args) {
			v = args[i]
		}

		b := env.Own(p)
		if b == nil {
			b, _, _ = env.Define(p, DeclParam)
		}

		b.Value, b.Initialized = v, true
		in.host.BindingDeclared(env, p, v)
	}

	// The body is reported against the source it was written in. Calls made
	// from a template substitution stay quiet only for template-defined
	// functions.
	tokens, quiet := in.tokens, in.quiet
	in.tokens = fn.tokens

	if fn.quiet {
		in.quiet++
	} else {
		in.quiet = 0
	}

	in.calls = append(in.calls, frame)

	defer func() {
		in.calls = in.calls[:len(in.calls)-1]
		in.tokens, in.quiet = tokens, quiet
	}()

	in.logger.TraceContext(ctx, "call",
		slog.String("function", name),
		slog.Int("args", len(args)),
		slog.Int("depth", len(in.calls)-1),
	)

	in.host.FunctionEnter(env)

	var (
		result Value = Undefined{}
		source *Span
		err    error
	)

	if fn.Body == nil {
		err = in.withEnv(env, func() error {
			v, err := in.eval(ctx, fn.Expr)
			result = v

			return err
		})

		span := fn.Expr.Pos()
		source = &span
	} else {
		err = in.execList(ctx, fn.Body.Body, env)
		if ret, ok := err.(returnSignal); ok {
			result, source, err = ret.value, ret.source, nil
		}
	}

	err = in.decorate(in.finish(err))

	in.host.FunctionExit(env)

	if err != nil {
		return nil, err
	}

	if fn.quiet {
		source = nil
	}

	if quiet == 0 && (site != nil || !fn.quiet) {
		in.host.CallReturn(siteSpan, result, source)
	}

	return result, nil
}
