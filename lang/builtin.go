package lang

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

func builtin(name string, fn func(c *call, args []Value) (Value, error)) *Builtin {
	return &Builtin{Name: name, Fn: fn}
}

func mutator(name string, fn func(c *call, args []Value) (Value, error)) *Builtin {
	return &Builtin{Name: name, Fn: fn, mutates: true}
}

// arg returns args[i], or undefined.
func arg(args []Value, i int) Value {
	if i < len(args) {
		return args[i]
	}

	return Undefined{}
}

// ambientGlobals returns the names every run can resolve without declaring
// them: the document, console output and the math namespace.
func (in *Interpreter) ambientGlobals() map[string]Value {
	g := map[string]Value{
		"document": Document{in.doc},
		"Math.PI":  Number(math.Pi),
		"Math.E":   Number(math.E),
	}

	for _, method := range []string{"log", "info", "warn", "error", "debug"} {
		name := "console." + method
		g[name] = builtin(name, func(c *call, args []Value) (Value, error) {
			c.in.console(c, method, args)

			return Undefined{}, nil
		})
	}

	unary := map[string]func(float64) float64{
		"abs":   math.Abs,
		"ceil":  math.Ceil,
		"floor": math.Floor,
		"round": func(f float64) float64 { return math.Floor(f + 0.5) },
		"sqrt":  math.Sqrt,
		"trunc": math.Trunc,
		"sign": func(f float64) float64 {
			switch {
			case f > 0:
				return 1
			case f < 0:
				return -1
			}

			return f
		},
	}

	for name, fn := range unary {
		g["Math."+name] = builtin("Math."+name, func(_ *call, args []Value) (Value, error) {
			return Number(fn(ToNumber(arg(args, 0)))), nil
		})
	}

	g["Math.pow"] = builtin("Math.pow", func(_ *call, args []Value) (Value, error) {
		return Number(math.Pow(ToNumber(arg(args, 0)), ToNumber(arg(args, 1)))), nil
	})
	g["Math.max"] = builtin("Math.max", func(_ *call, args []Value) (Value, error) {
		return Number(fold(args, math.Inf(-1), math.Max)), nil
	})
	g["Math.min"] = builtin("Math.min", func(_ *call, args []Value) (Value, error) {
		return Number(fold(args, math.Inf(1), math.Min)), nil
	})
	g["Math.random"] = builtin("Math.random", func(c *call, _ []Value) (Value, error) {
		return Number(c.in.rand.Float64()), nil
	})

	g["parseInt"] = builtin("parseInt", func(_ *call, args []Value) (Value, error) {
		return Number(parseInt(ToString(arg(args, 0)))), nil
	})
	g["parseFloat"] = builtin("parseFloat", func(_ *call, args []Value) (Value, error) {
		return Number(parseFloat(ToString(arg(args, 0)))), nil
	})
	g["isNaN"] = builtin("isNaN", func(_ *call, args []Value) (Value, error) {
		return Bool(math.IsNaN(ToNumber(arg(args, 0)))), nil
	})
	g["String"] = builtin("String", func(_ *call, args []Value) (Value, error) {
		if len(args) == 0 {
			return String(""), nil
		}

		return String(ToString(args[0])), nil
	})
	g["Number"] = builtin("Number", func(_ *call, args []Value) (Value, error) {
		if len(args) == 0 {
			return Number(0), nil
		}

		return Number(ToNumber(args[0])), nil
	})
	g["Boolean"] = builtin("Boolean", func(_ *call, args []Value) (Value, error) {
		return Bool(Truthy(arg(args, 0))), nil
	})

	return g
}

func (in *Interpreter) console(c *call, method string, args []Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		if s, ok := a.(String); ok {
			parts[i] = string(s)
		} else {
			parts[i] = Inspect(a)
		}
	}

	in.logger.DebugContext(c.ctx, "console",
		slog.String("method", method),
		slog.String("text", strings.Join(parts, " ")),
	)

	in.host.ConsoleOutput(args)
}

func fold(args []Value, init float64, fn func(a, b float64) float64) float64 {
	acc := init

	for _, a := range args {
		f := ToNumber(a)
		if math.IsNaN(f) {
			return f
		}

		acc = fn(acc, f)
	}

	return acc
}

// parseInt reads the longest leading decimal integer of s.
func parseInt(s string) float64 {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}

	if end == digits {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

// parseFloat reads the longest leading decimal number of s.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)

	for end := len(s); end > 0; end-- {
		if strings.ContainsAny(s[end-1:end], "0123456789.") {
			if f := stringToNumber(s[:end]); !math.IsNaN(f) {
				return f
			}
		}
	}

	return math.NaN()
}
