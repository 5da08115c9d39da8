package trace

import (
	"log/slog"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/jsviz/lang"
)

// Condition is a compiled boolean expression over the bindings visible from
// a frame. Names that are not visible evaluate to nil.
type Condition struct {
	source  string
	program *vm.Program
}

// Compile compiles source as an expr-lang boolean expression.
func Compile(source string) (*Condition, error) {
	program, err := expr.Compile(source,
		expr.AsBool(),
		expr.AllowUndefinedVariables(),
	)
	if err != nil {
		return nil, ErrCondition.Wrap(err).
			With(slog.String("source", source))
	}

	return &Condition{source: source, program: program}, nil
}

// Eval reports whether the condition holds in env.
func (c *Condition) Eval(env *lang.Env) (bool, error) {
	out, err := expr.Run(c.program, Vars(env))
	if err != nil {
		return false, ErrCondition.Wrap(err).
			With(slog.String("source", c.source))
	}

	ok, _ := out.(bool)

	return ok, nil
}

// String returns the condition source.
func (c *Condition) String() string { return c.source }
