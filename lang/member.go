package lang

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// member reads a property. Methods come back as builtins bound to obj.
func (in *Interpreter) member(obj, key Value) (Value, error) {
	name := ToString(key)

	switch o := obj.(type) {
	case Undefined, Null:
		return nil, newRuntimeError(TypeError, ErrNullAccess,
			fmt.Sprintf("Cannot read properties of %s (reading '%s')", ToString(o), name))
	case *Array:
		return arrayMember(o, key, name), nil
	case String:
		return stringMember(o, key, name), nil
	case Number:
		return numberMember(o, name), nil
	case *Object:
		return o.Get(name), nil
	case Element:
		return in.elementMember(o, name), nil
	case Document:
		return in.documentMember(o, name), nil
	case ClassList:
		return classListMember(o, name), nil
	case Style:
		return styleMember(o, name), nil
	case *Function:
		switch name {
		case "name":
			return String(o.Name), nil
		case "length":
			return Number(len(o.Params)), nil
		}
	case *Builtin:
		if name == "name" {
			return String(o.Name), nil
		}
	}

	return Undefined{}, nil
}

// setMember writes a property. It returns the array index written, or
// [NoIndex].
func (in *Interpreter) setMember(obj, key, v Value) (int, error) {
	name := ToString(key)

	switch o := obj.(type) {
	case Undefined, Null:
		return NoIndex, newRuntimeError(TypeError, ErrNullAccess,
			fmt.Sprintf("Cannot set properties of %s (setting '%s')", ToString(o), name))
	case *Array:
		if name == "length" {
			n, err := arrayLength(Number(ToNumber(v)))
			if err != nil {
				return NoIndex, err
			}

			o.resize(n)

			return NoIndex, nil
		}

		if i, ok := arrayIndex(key); ok {
			if i >= len(o.Elems) {
				n, err := arrayLength(Number(i + 1))
				if err != nil {
					return NoIndex, err
				}

				o.resize(n)
			}

			o.Elems[i] = v

			return i, nil
		}
	case *Object:
		o.Set(name, v)
	case Element:
		return NoIndex, in.setElementMember(o, name, v)
	case Style:
		o.Style().Set(name, ToString(v))
	case ClassList:
		if name == "value" {
			o.SetClassName(ToString(v))
		}
	}

	return NoIndex, nil
}

func (a *Array) resize(n int) {
	switch {
	case n < len(a.Elems):
		a.Elems = a.Elems[:n]
	default:
		for len(a.Elems) < n {
			a.Elems = append(a.Elems, Undefined{})
		}
	}
}

// relative resolves a possibly negative position against length n.
func relative(v Value, n, def int) int {
	if _, ok := v.(Undefined); ok {
		return def
	}

	f := math.Trunc(ToNumber(v))

	switch {
	case math.IsNaN(f):
		return 0
	case f < 0:
		return n + int(max(f, -float64(n)))
	default:
		return int(min(f, float64(n)))
	}
}

func arrayMember(a *Array, key Value, name string) Value {
	if i, ok := arrayIndex(key); ok {
		if i < len(a.Elems) {
			return a.Elems[i]
		}

		return Undefined{}
	}

	switch name {
	case "length":
		return Number(len(a.Elems))
	case "push":
		return mutator(name, func(_ *call, args []Value) (Value, error) {
			a.Elems = append(a.Elems, args...)

			return Number(len(a.Elems)), nil
		})
	case "pop":
		return mutator(name, func(*call, []Value) (Value, error) {
			if len(a.Elems) == 0 {
				return Undefined{}, nil
			}

			last := a.Elems[len(a.Elems)-1]
			a.Elems = a.Elems[:len(a.Elems)-1]

			return last, nil
		})
	case "shift":
		return mutator(name, func(*call, []Value) (Value, error) {
			if len(a.Elems) == 0 {
				return Undefined{}, nil
			}

			first := a.Elems[0]
			a.Elems = slices.Delete(a.Elems, 0, 1)

			return first, nil
		})
	case "unshift":
		return mutator(name, func(_ *call, args []Value) (Value, error) {
			a.Elems = slices.Insert(a.Elems, 0, args...)

			return Number(len(a.Elems)), nil
		})
	case "splice":
		return mutator(name, func(_ *call, args []Value) (Value, error) {
			if len(args) == 0 {
				return NewArray(), nil
			}

			n := len(a.Elems)
			start := relative(arg(args, 0), n, 0)

			count := n - start
			if len(args) > 1 {
				count = 0
				if f := ToNumber(args[1]); f > 0 {
					count = int(min(f, float64(n-start)))
				}
			}

			var items []Value
			if len(args) > 2 {
				items = args[2:]
			}

			removed := slices.Clone(a.Elems[start : start+count])
			a.Elems = slices.Replace(a.Elems, start, start+count, items...)

			return NewArray(removed...), nil
		})
	case "slice":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			n := len(a.Elems)
			start, end := relative(arg(args, 0), n, 0), relative(arg(args, 1), n, n)

			if end < start {
				end = start
			}

			return NewArray(slices.Clone(a.Elems[start:end])...), nil
		})
	case "indexOf":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return Number(slices.IndexFunc(a.Elems, func(e Value) bool {
				return StrictEquals(e, arg(args, 0))
			})), nil
		})
	case "includes":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return Bool(slices.ContainsFunc(a.Elems, func(e Value) bool {
				return sameValueZero(e, arg(args, 0))
			})), nil
		})
	case "join":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			sep := ","
			if v := arg(args, 0); v.TypeOf() != "undefined" {
				sep = ToString(v)
			}

			parts := make([]string, len(a.Elems))
			for i, e := range a.Elems {
				if !isNullish(e) {
					parts[i] = ToString(e)
				}
			}

			return String(strings.Join(parts, sep)), nil
		})
	case "forEach", "map", "filter":
		return builtin(name, func(c *call, args []Value) (Value, error) {
			return iterate(c, a, name, arg(args, 0))
		})
	}

	return Undefined{}
}

// iterate runs fn over a snapshot of the elements of a.
func iterate(c *call, a *Array, method string, fn Value) (Value, error) {
	var out []Value

	for i, e := range slices.Clone(a.Elems) {
		v, err := c.apply(fn, e, Number(i), a)
		if err != nil {
			return nil, err
		}

		switch method {
		case "map":
			out = append(out, v)
		case "filter":
			if Truthy(v) {
				out = append(out, e)
			}
		}
	}

	if method == "forEach" {
		return Undefined{}, nil
	}

	return NewArray(out...), nil
}

func sameValueZero(a, b Value) bool {
	an, aok := a.(Number)
	bn, bok := b.(Number)

	if aok && bok && math.IsNaN(float64(an)) && math.IsNaN(float64(bn)) {
		return true
	}

	return StrictEquals(a, b)
}

func stringMember(s String, key Value, name string) Value {
	runes := []rune(string(s))

	if i, ok := arrayIndex(key); ok {
		if i < len(runes) {
			return String(runes[i])
		}

		return Undefined{}
	}

	str := string(s)

	switch name {
	case "length":
		return Number(len(runes))
	case "trim":
		return builtin(name, func(*call, []Value) (Value, error) {
			return String(strings.TrimSpace(str)), nil
		})
	case "toUpperCase":
		return builtin(name, func(*call, []Value) (Value, error) {
			return String(strings.ToUpper(str)), nil
		})
	case "toLowerCase":
		return builtin(name, func(*call, []Value) (Value, error) {
			return String(strings.ToLower(str)), nil
		})
	case "replace":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return String(strings.Replace(str, ToString(arg(args, 0)), ToString(arg(args, 1)), 1)), nil
		})
	case "includes":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return Bool(strings.Contains(str, ToString(arg(args, 0)))), nil
		})
	case "indexOf":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			i := strings.Index(str, ToString(arg(args, 0)))
			if i > 0 {
				i = len([]rune(str[:i]))
			}

			return Number(i), nil
		})
	case "slice":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			n := len(runes)
			start, end := relative(arg(args, 0), n, 0), relative(arg(args, 1), n, n)

			if end < start {
				end = start
			}

			return String(runes[start:end]), nil
		})
	case "split":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			if _, ok := arg(args, 0).(Undefined); ok {
				return NewArray(s), nil
			}

			parts := strings.Split(str, ToString(args[0]))
			out := make([]Value, len(parts))

			for i, p := range parts {
				out[i] = String(p)
			}

			return NewArray(out...), nil
		})
	}

	return Undefined{}
}

func numberMember(n Number, name string) Value {
	switch name {
	case "toFixed":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			f := ToNumber(arg(args, 0))
			if math.IsNaN(f) {
				f = 0
			}

			if f < 0 || f > 100 {
				return nil, newRuntimeError(RangeError, ErrInvalidArg,
					"toFixed() digits argument must be between 0 and 100")
			}

			digits := int(f)

			return String(strconv.FormatFloat(float64(n), 'f', digits, 64)), nil
		})
	case "toString":
		return builtin(name, func(*call, []Value) (Value, error) {
			return String(FormatNumber(float64(n))), nil
		})
	}

	return Undefined{}
}
