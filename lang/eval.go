package lang

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// eval evaluates x and reports the result to the host.
func (in *Interpreter) eval(ctx context.Context, x Expr) (Value, error) {
	v, err := in.evalExpr(ctx, x)
	if err != nil {
		return nil, err
	}

	if in.quiet == 0 {
		switch x.(type) {
		case *NumberLit, *StringLit, *BoolLit, *NullLit, *UndefinedLit:
		default:
			in.host.ExpressionResult(x.Pos(), v)
		}
	}

	return v, nil
}

func (in *Interpreter) evalExpr(ctx context.Context, x Expr) (Value, error) {
	switch x := x.(type) {
	case *NumberLit:
		return Number(x.Value), nil
	case *StringLit:
		return String(x.Value), nil
	case *TemplateLit:
		return in.template(ctx, x.Raw)
	case *BoolLit:
		return Bool(x.Value), nil
	case *NullLit:
		return Null{}, nil
	case *UndefinedLit:
		return Undefined{}, nil
	case *Ident:
		return in.identifier(x.Name)
	case *ArrayLit:
		elems, err := in.evalList(ctx, x.Elems)
		if err != nil {
			return nil, err
		}

		return NewArray(elems...), nil
	case *ObjectLit:
		return in.evalObject(ctx, x)
	case *Unary:
		return in.evalUnary(ctx, x)
	case *Binary:
		l, err := in.eval(ctx, x.L)
		if err != nil {
			return nil, err
		}

		r, err := in.eval(ctx, x.R)
		if err != nil {
			return nil, err
		}

		return binary(x.Op, l, r), nil
	case *Logical:
		return in.evalLogical(ctx, x)
	case *Conditional:
		cond, err := in.eval(ctx, x.Cond)
		if err != nil {
			return nil, err
		}

		if Truthy(cond) {
			return in.eval(ctx, x.Then)
		}

		return in.eval(ctx, x.Else)
	case *Update:
		return in.evalUpdate(ctx, x)
	case *Assign:
		v, err := in.eval(ctx, x.Value)
		if err != nil {
			return nil, err
		}

		if id, ok := unparen(x.Target).(*Ident); ok {
			nameFunction(v, id.Name)
		}

		if err := in.assign(ctx, x.Target, v); err != nil {
			return nil, err
		}

		return v, nil
	case *Member:
		obj, key, err := in.evalMember(ctx, x)
		if err != nil {
			return nil, err
		}

		return in.member(obj, key)
	case *Call:
		return in.evalCall(ctx, x)
	case *NewExpr:
		return in.evalNew(ctx, x)
	case *FuncExpr:
		return &Function{
			Name:   x.Name,
			Params: x.Params,
			Body:   x.Body,
			Env:    in.env,
			Span:   x.Span,
			tokens: in.tokens,
			quiet:  in.quiet > 0,
		}, nil
	case *Arrow:
		if x.ParamErr != "" {
			return nil, newRuntimeError(SyntaxError, ErrArrowParams, x.ParamErr)
		}

		return &Function{
			Params: x.Params,
			Body:   x.Body,
			Expr:   x.Expr,
			Arrow:  true,
			Env:    in.env,
			Span:   x.Span,
			tokens: in.tokens,
			quiet:  in.quiet > 0,
		}, nil
	case *Paren:
		var v Value = Undefined{}

		for _, e := range x.List {
			var err error
			if v, err = in.eval(ctx, e); err != nil {
				return nil, err
			}
		}

		return v, nil
	}

	return nil, fmt.Errorf("unhandled expression %T", x)
}

func (in *Interpreter) evalList(ctx context.Context, list []Expr) ([]Value, error) {
	out := make([]Value, 0, len(list))

	for _, x := range list {
		v, err := in.eval(ctx, x)
		if err != nil {
			return nil, err
		}

		out = append(out, v)
	}

	return out, nil
}

func (in *Interpreter) evalObject(ctx context.Context, x *ObjectLit) (Value, error) {
	obj := NewObject()

	for _, p := range x.Props {
		v, err := in.eval(ctx, p.Value)
		if err != nil {
			return nil, err
		}

		nameFunction(v, p.Key)
		obj.Set(p.Key, v)
	}

	return obj, nil
}

// identifier resolves a name: a binding first, then the function table,
// then the ambient globals.
func (in *Interpreter) identifier(name string) (Value, error) {
	b, frame, err := in.env.Get(name)
	if err == nil {
		in.host.BindingRead(frame, name, b.Value)

		return b.Value, nil
	}

	if !errors.Is(err, ErrNotDefined) {
		return nil, err
	}

	if fn, ok := in.funcs[name]; ok {
		return fn, nil
	}

	if v, ok := in.ambient[name]; ok {
		return v, nil
	}

	rerr := notDefined(name)
	rerr.Hint = in.hint(name)

	return nil, rerr
}

func (in *Interpreter) evalUnary(ctx context.Context, x *Unary) (Value, error) {
	if x.Op == "typeof" {
		if id, ok := x.X.(*Ident); ok {
			v, err := in.identifier(id.Name)
			if errors.Is(err, ErrNotDefined) {
				return String("undefined"), nil
			}

			if err != nil {
				return nil, err
			}

			return String(v.TypeOf()), nil
		}
	}

	v, err := in.eval(ctx, x.X)
	if err != nil {
		return nil, err
	}

	switch x.Op {
	case "!":
		return Bool(!Truthy(v)), nil
	case "-":
		return Number(-ToNumber(v)), nil
	case "+":
		return Number(ToNumber(v)), nil
	case "typeof":
		return String(v.TypeOf()), nil
	}

	return nil, fmt.Errorf("unhandled unary operator %q", x.Op)
}

// evalLogical never evaluates the operand a short circuit skips.
func (in *Interpreter) evalLogical(ctx context.Context, x *Logical) (Value, error) {
	l, err := in.eval(ctx, x.L)
	if err != nil {
		return nil, err
	}

	if (x.Op == "&&") != Truthy(l) {
		return l, nil
	}

	return in.eval(ctx, x.R)
}

func binary(op string, l, r Value) Value {
	switch op {
	case "+":
		lp, rp := primitive(l), primitive(r)

		_, ls := lp.(String)
		_, rs := rp.(String)

		if ls || rs {
			return String(ToString(lp) + ToString(rp))
		}

		return Number(ToNumber(lp) + ToNumber(rp))
	case "-":
		return Number(ToNumber(l) - ToNumber(r))
	case "*":
		return Number(ToNumber(l) * ToNumber(r))
	case "/":
		return Number(ToNumber(l) / ToNumber(r))
	case "%":
		return Number(math.Mod(ToNumber(l), ToNumber(r)))
	case "==":
		return Bool(LooseEquals(l, r))
	case "!=":
		return Bool(!LooseEquals(l, r))
	case "===":
		return Bool(StrictEquals(l, r))
	case "!==":
		return Bool(!StrictEquals(l, r))
	case "<", ">", "<=", ">=":
		return Bool(compare(op, primitive(l), primitive(r)))
	}

	return Undefined{}
}

func compare(op string, l, r Value) bool {
	ls, lok := l.(String)
	rs, rok := r.(String)

	var c int

	if lok && rok {
		c = strings.Compare(string(ls), string(rs))
	} else {
		a, b := ToNumber(l), ToNumber(r)
		if math.IsNaN(a) || math.IsNaN(b) {
			return false
		}

		switch {
		case a < b:
			c = -1
		case a > b:
			c = 1
		}
	}

	switch op {
	case "<":
		return c < 0
	case ">":
		return c > 0
	case "<=":
		return c <= 0
	default:
		return c >= 0
	}
}

// evalUpdate evaluates the target once, so side effects in a member key
// happen a single time.
func (in *Interpreter) evalUpdate(ctx context.Context, x *Update) (Value, error) {
	step := func(old Value) (Value, Value) {
		n := ToNumber(old)
		next := n + 1

		if x.Op == "--" {
			next = n - 1
		}

		if x.Prefix {
			return Number(next), Number(next)
		}

		return Number(next), Number(n)
	}

	m, ok := unparen(x.Target).(*Member)
	if !ok {
		old, err := in.eval(ctx, x.Target)
		if err != nil {
			return nil, err
		}

		next, result := step(old)

		if err := in.assign(ctx, x.Target, next); err != nil {
			return nil, err
		}

		return result, nil
	}

	obj, key, err := in.evalMember(ctx, m)
	if err != nil {
		return nil, err
	}

	old, err := in.member(obj, key)
	if err != nil {
		return nil, err
	}

	next, result := step(old)

	if err := in.storeMember(m, obj, key, next); err != nil {
		return nil, err
	}

	return result, nil
}

func unparen(x Expr) Expr {
	for {
		p, ok := x.(*Paren)
		if !ok || len(p.List) != 1 {
			return x
		}

		x = p.List[0]
	}
}

// assign stores v into an identifier or member target.
func (in *Interpreter) assign(ctx context.Context, target Expr, v Value) error {
	switch t := unparen(target).(type) {
	case *Ident:
		frame, err := in.env.Assign(t.Name, v)
		if err != nil {
			if errors.Is(err, ErrNotDefined) {
				var rerr *RuntimeError
				if errors.As(err, &rerr) {
					rerr.Hint = in.hint(t.Name)
				}
			}

			return err
		}

		in.host.BindingWritten(frame, t.Name, v, NoIndex)

		return nil
	case *Member:
		obj, key, err := in.evalMember(ctx, t)
		if err != nil {
			return err
		}

		return in.storeMember(t, obj, key, v)
	}

	return newRuntimeError(SyntaxError, ErrInvalidArg, "Invalid left-hand side in assignment")
}

// storeMember writes v to the evaluated object and key of m and reports the
// write against the binding m reads from.
func (in *Interpreter) storeMember(m *Member, obj, key, v Value) error {
	index, err := in.setMember(obj, key, v)
	if err != nil {
		return err
	}

	in.syncDocument()

	if id, ok := m.Object.(*Ident); ok {
		if b, frame, err := in.env.Get(id.Name); err == nil {
			in.host.BindingWritten(frame, id.Name, b.Value, index)
		}
	}

	return nil
}

// evalMember evaluates the object and key of a member expression.
func (in *Interpreter) evalMember(ctx context.Context, x *Member) (Value, Value, error) {
	obj, err := in.eval(ctx, x.Object)
	if err != nil {
		return nil, nil, err
	}

	if !x.Computed {
		return obj, String(x.Name), nil
	}

	key, err := in.eval(ctx, x.Index)
	if err != nil {
		return nil, nil, err
	}

	return obj, key, nil
}

// arrayIndex converts a property key to an array index.
func arrayIndex(key Value) (int, bool) {
	var f float64

	switch k := key.(type) {
	case Number:
		f = float64(k)
	case String:
		n, err := strconv.Atoi(string(k))
		if err != nil {
			return 0, false
		}

		f = float64(n)
	default:
		return 0, false
	}

	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}

	return int(f), true
}

// maxArrayLength bounds the number of elements an array may hold.
const maxArrayLength = 1 << 20

// arrayLength validates v as the new length of an array.
func arrayLength(v Value) (int, error) {
	n, ok := arrayIndex(v)
	if !ok || n > maxArrayLength {
		return 0, newRuntimeError(RangeError, ErrInvalidArg, "Invalid array length")
	}

	return n, nil
}

func (in *Interpreter) evalNew(ctx context.Context, x *NewExpr) (Value, error) {
	if x.Callee.Name != "Array" {
		return nil, newRuntimeError(TypeError, ErrNotConstructor,
			x.Callee.Name+" is not a constructor")
	}

	args, err := in.evalList(ctx, x.Args)
	if err != nil {
		return nil, err
	}

	if len(args) == 1 {
		if n, ok := args[0].(Number); ok {
			size, err := arrayLength(n)
			if err != nil {
				return nil, err
			}

			elems := make([]Value, size)
			for i := range elems {
				elems[i] = Undefined{}
			}

			return NewArray(elems...), nil
		}
	}

	return NewArray(args...), nil
}

// text returns the source text of a node.
func (in *Interpreter) text(n Node) string {
	return strings.TrimSpace(n.Pos().Text(in.tokens))
}
