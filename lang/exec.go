package lang

import (
	"context"
	"log/slog"
)

// execList hoists the declarations of a statement list into env and then
// executes the statements in order.
func (in *Interpreter) execList(ctx context.Context, list []Stmt, env *Env) error {
	return in.withEnv(env, func() error {
		if err := in.hoist(list, env); err != nil {
			return in.decorate(err)
		}

		for _, s := range list {
			if err := in.exec(ctx, s); err != nil {
				return err
			}
		}

		return nil
	})
}

// hoist registers function declarations in the function table, declares
// let and const names of list uninitialized in env, and declares every var
// reachable without crossing a function boundary in the nearest function
// frame.
func (in *Interpreter) hoist(list []Stmt, env *Env) error {
	for _, s := range list {
		switch s := s.(type) {
		case *FuncDecl:
			in.funcs[s.Name] = &Function{
				Name:   s.Name,
				Params: s.Params,
				Body:   s.Body,
				Env:    env,
				Span:   s.Span,
				tokens: in.tokens,
				quiet:  in.quiet > 0,
			}
		case *VarDecl:
			if s.Kind == DeclVar {
				continue
			}

			for _, d := range s.Decls {
				b, frame, err := env.Define(d.Name, s.Kind)
				if err != nil {
					in.top().line = d.Line

					return err
				}

				in.host.BindingDeclared(frame, d.Name, b.Value)
			}
		}
	}

	return in.hoistVars(list, env)
}

func (in *Interpreter) hoistVars(list []Stmt, env *Env) error {
	for _, s := range list {
		var nested []Stmt

		switch s := s.(type) {
		case *VarDecl:
			if s.Kind != DeclVar {
				continue
			}

			for _, d := range s.Decls {
				known := env.functionScope().Own(d.Name) != nil

				b, frame, err := env.Define(d.Name, DeclVar)
				if err != nil {
					in.top().line = d.Line

					return err
				}

				// A repeated var names the binding already reported.
				if !known {
					in.host.BindingDeclared(frame, d.Name, b.Value)
				}
			}
		case *Block:
			nested = s.Body
		case *If:
			nested = []Stmt{s.Then}
			if s.Else != nil {
				nested = append(nested, s.Else)
			}
		case *While:
			nested = []Stmt{s.Body}
		case *DoWhile:
			nested = []Stmt{s.Body}
		case *For:
			nested = []Stmt{s.Body}
			if s.Init != nil {
				nested = append(nested, s.Init)
			}
		case *Switch:
			for _, c := range s.Cases {
				nested = append(nested, c.Body...)
			}
		}

		if err := in.hoistVars(nested, env); err != nil {
			return err
		}
	}

	return nil
}

// exec runs one statement, firing its checkpoint first.
func (in *Interpreter) exec(ctx context.Context, s Stmt) error {
	switch s.(type) {
	case *Block, *FuncDecl:
	default:
		if err := in.checkpoint(ctx, s); err != nil {
			return err
		}
	}

	return in.decorate(in.execStmt(ctx, s))
}

func (in *Interpreter) execStmt(ctx context.Context, s Stmt) error {
	switch s := s.(type) {
	case *Block:
		return in.execList(ctx, s.Body, in.env.child("block", false))
	case *VarDecl:
		return in.execVarDecl(ctx, s)
	case *FuncDecl, *Empty:
		return nil
	case *ExprStmt:
		_, err := in.eval(ctx, s.X)

		return err
	case *If:
		return in.execIf(ctx, s)
	case *While:
		return in.execWhile(ctx, s)
	case *DoWhile:
		return in.execDoWhile(ctx, s)
	case *For:
		return in.execFor(ctx, s)
	case *Switch:
		return in.execSwitch(ctx, s)
	case *Break:
		return breakSignal{}
	case *Continue:
		return continueSignal{}
	case *Return:
		return in.execReturn(ctx, s)
	}

	return nil
}

func (in *Interpreter) execVarDecl(ctx context.Context, s *VarDecl) error {
	for _, d := range s.Decls {
		var v Value = Undefined{}

		if d.Init != nil {
			var err error
			if v, err = in.eval(ctx, d.Init); err != nil {
				return err
			}

			nameFunction(v, d.Name)
		}

		if s.Kind == DeclVar {
			b, frame, err := in.env.Define(d.Name, DeclVar)
			if err != nil {
				return err
			}

			if d.Init != nil {
				b.Value = v
				in.host.BindingWritten(frame, d.Name, v, NoIndex)
			}

			continue
		}

		if b := in.env.Own(d.Name); b == nil || b.Initialized {
			b, frame, err := in.env.Define(d.Name, s.Kind)
			if err != nil {
				return err
			}

			in.host.BindingDeclared(frame, d.Name, b.Value)
		}

		frame, err := in.env.Initialize(d.Name, v)
		if err != nil {
			return err
		}

		in.host.BindingWritten(frame, d.Name, v, NoIndex)
	}

	return nil
}

func (in *Interpreter) execIf(ctx context.Context, s *If) error {
	cond, err := in.eval(ctx, s.Cond)
	if err != nil {
		return err
	}

	switch {
	case Truthy(cond):
		return in.exec(ctx, s.Then)
	case s.Else != nil:
		return in.exec(ctx, s.Else)
	}

	return nil
}

// loopBody runs one pass of a loop body. It reports whether the loop must
// stop, absorbing break and continue.
func (in *Interpreter) loopBody(ctx context.Context, body Stmt) (bool, error) {
	switch err := in.exec(ctx, body); err.(type) {
	case nil, continueSignal:
		return false, nil
	case breakSignal:
		return true, nil
	default:
		return true, err
	}
}

// pace runs before every pass of a loop. Passes after the first checkpoint
// the loop itself when its body reaches no checkpoint of its own.
func (in *Interpreter) pace(ctx context.Context, loop, body Stmt, first bool) error {
	if first || !silent(body) {
		return in.halted(ctx)
	}

	return in.checkpoint(ctx, loop)
}

// silent reports whether s runs without reaching a checkpoint.
func silent(s Stmt) bool {
	switch s := s.(type) {
	case *Block:
		for _, x := range s.Body {
			if !silent(x) {
				return false
			}
		}

		return true
	case *FuncDecl:
		return true
	}

	return false
}

func (in *Interpreter) execWhile(ctx context.Context, s *While) error {
	for n := 0; ; n++ {
		if err := in.pace(ctx, s, s.Body, n == 0); err != nil {
			return err
		}

		cond, err := in.eval(ctx, s.Cond)
		if err != nil || !Truthy(cond) {
			return err
		}

		if stop, err := in.loopBody(ctx, s.Body); stop {
			return err
		}
	}
}

func (in *Interpreter) execDoWhile(ctx context.Context, s *DoWhile) error {
	for n := 0; ; n++ {
		if err := in.pace(ctx, s, s.Body, n == 0); err != nil {
			return err
		}

		if stop, err := in.loopBody(ctx, s.Body); stop {
			return err
		}

		cond, err := in.eval(ctx, s.Cond)
		if err != nil || !Truthy(cond) {
			return err
		}
	}
}

// execFor runs the loop body in a fresh frame per iteration. The frame is a
// copy of the previous one taken before the update expression runs, so a
// closure created during one iteration keeps that iteration's bindings.
func (in *Interpreter) execFor(ctx context.Context, s *For) error {
	loop := in.env.child("for", false)

	if s.Init != nil {
		err := in.withEnv(loop, func() error {
			if err := in.hoist([]Stmt{s.Init}, loop); err != nil {
				return err
			}

			switch init := s.Init.(type) {
			case *VarDecl:
				return in.execVarDecl(ctx, init)
			case *ExprStmt:
				_, err := in.eval(ctx, init.X)

				return err
			}

			return nil
		})
		if err != nil {
			return err
		}
	}

	iter := loop.iteration(loop, 1)

	for n := 1; ; n++ {
		if err := in.pace(ctx, s, s.Body, n == 1); err != nil {
			return err
		}

		stop, err := in.forPass(ctx, s, iter)
		if stop || err != nil {
			return err
		}

		next := iter.iteration(loop, n+1)

		if s.Update != nil {
			err := in.withEnv(next, func() error {
				_, err := in.eval(ctx, s.Update)

				return err
			})
			if err != nil {
				return err
			}
		}

		iter = next
	}
}

func (in *Interpreter) forPass(ctx context.Context, s *For, iter *Env) (stop bool, err error) {
	err = in.withEnv(iter, func() error {
		if s.Cond != nil {
			cond, err := in.eval(ctx, s.Cond)
			if err != nil {
				return err
			}

			if !Truthy(cond) {
				stop = true

				return nil
			}
		}

		var berr error
		stop, berr = in.loopBody(ctx, s.Body)

		return berr
	})

	return stop || err != nil, err
}

// execSwitch compares the discriminant with each case test by strict
// equality. Execution starts at the first match, or at default, and falls
// through until a break.
func (in *Interpreter) execSwitch(ctx context.Context, s *Switch) error {
	disc, err := in.eval(ctx, s.Disc)
	if err != nil {
		return err
	}

	var body []Stmt
	for _, c := range s.Cases {
		body = append(body, c.Body...)
	}

	env := in.env.child("switch", false)

	return in.withEnv(env, func() error {
		if err := in.hoist(body, env); err != nil {
			return err
		}

		start, def := -1, -1

		for i, c := range s.Cases {
			if c.Test == nil {
				def = i

				continue
			}

			v, err := in.eval(ctx, c.Test)
			if err != nil {
				return err
			}

			match := StrictEquals(disc, v)

			in.logger.TraceContext(ctx, "switch compare",
				slog.String("discriminant", inspect(disc, 0)),
				slog.String("case", inspect(v, 0)),
				slog.Bool("match", match),
			)

			if match {
				start = i

				break
			}
		}

		if start < 0 {
			start = def
		}

		if start < 0 {
			return nil
		}

		for _, c := range s.Cases[start:] {
			for _, st := range c.Body {
				switch err := in.exec(ctx, st); err.(type) {
				case nil:
				case breakSignal:
					return nil
				default:
					return err
				}
			}
		}

		return nil
	})
}

func (in *Interpreter) execReturn(ctx context.Context, s *Return) error {
	if s.Value == nil {
		return returnSignal{value: Undefined{}}
	}

	v, err := in.eval(ctx, s.Value)
	if err != nil {
		return err
	}

	span := s.Value.Pos()

	return returnSignal{value: v, source: &span}
}

// nameFunction gives an anonymous function the name it is bound to.
func nameFunction(v Value, name string) {
	if fn, ok := v.(*Function); ok && fn.Name == "" {
		fn.Name = name
	}
}
