package lang

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/jsviz/dom"
)

// Value is a runtime value of the evaluated language.
type Value interface {
	// TypeOf returns the result of the typeof operator.
	TypeOf() string
}

type (
	Undefined struct{}
	Null      struct{}
	Bool      bool
	Number    float64
	String    string

	// Array is a mutable list shared by reference.
	Array struct {
		Elems []Value
	}

	// Object is a generic object with insertion-ordered keys.
	Object struct {
		keys  []string
		props map[string]Value
	}

	// Function is a user-defined function, function expression or arrow
	// closure. Env is the environment it was defined in.
	Function struct {
		Name   string
		Params []string
		Body   *Block
		Expr   Expr
		Arrow  bool
		Env    *Env
		Span   Span

		// tokens is the stream the spans of Body and Expr index into.
		tokens []Token
		// quiet is set for functions defined inside a template substitution.
		quiet bool
	}

	// Builtin is a host function. Methods of arrays, strings and document
	// objects are builtins bound to their receiver.
	Builtin struct {
		Name    string
		Fn      func(c *call, args []Value) (Value, error)
		mutates bool
	}

	// Element exposes a virtual document element.
	Element struct{ *dom.Element }

	// Document exposes the virtual document.
	Document struct{ *dom.Document }

	// ClassList exposes the class list view of an element.
	ClassList struct{ *dom.Element }

	// Style exposes the inline style view of an element.
	Style struct{ *dom.Element }
)

func (Undefined) TypeOf() string { return "undefined" }
func (Null) TypeOf() string      { return "object" }
func (Bool) TypeOf() string      { return "boolean" }
func (Number) TypeOf() string    { return "number" }
func (String) TypeOf() string    { return "string" }
func (*Array) TypeOf() string    { return "object" }
func (*Object) TypeOf() string   { return "object" }
func (*Function) TypeOf() string { return "function" }
func (*Builtin) TypeOf() string  { return "function" }
func (Element) TypeOf() string   { return "object" }
func (Document) TypeOf() string  { return "object" }
func (ClassList) TypeOf() string { return "object" }
func (Style) TypeOf() string     { return "object" }

// NewArray returns an array holding elems.
func NewArray(elems ...Value) *Array { return &Array{Elems: elems} }

// NewObject returns an empty object.
func NewObject() *Object { return &Object{props: map[string]Value{}} }

// Get returns the property named key, or undefined.
func (o *Object) Get(key string) Value {
	if v, ok := o.props[key]; ok {
		return v
	}

	return Undefined{}
}

// Has reports whether the object has its own property key.
func (o *Object) Has(key string) bool {
	_, ok := o.props[key]

	return ok
}

// Set assigns key, appending it to the key order if new.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.props[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.props[key] = v
}

// Keys returns the property names in insertion order.
func (o *Object) Keys() []string { return o.keys }

// Truthy converts v to a boolean.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Undefined, Null:
		return false
	case Bool:
		return bool(v)
	case Number:
		return v != 0 && !math.IsNaN(float64(v))
	case String:
		return v != ""
	}

	return true
}

// ToNumber converts v to a number.
func ToNumber(v Value) float64 {
	switch v := v.(type) {
	case Undefined:
		return math.NaN()
	case Null:
		return 0
	case Bool:
		if v {
			return 1
		}

		return 0
	case Number:
		return float64(v)
	case String:
		return stringToNumber(string(v))
	case *Array:
		return stringToNumber(ToString(v))
	}

	return math.NaN()
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)

	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	for _, r := range s {
		if !strings.ContainsRune("0123456789.eE+-", r) {
			return math.NaN()
		}
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}

	return f
}

// ToString converts v to a string the way string concatenation does.
func ToString(v Value) string {
	switch v := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(v))
	case Number:
		return FormatNumber(float64(v))
	case String:
		return string(v)
	case *Array:
		parts := make([]string, len(v.Elems))

		for i, e := range v.Elems {
			switch e.(type) {
			case Undefined, Null:
			default:
				parts[i] = ToString(e)
			}
		}

		return strings.Join(parts, ",")
	case *Object:
		return "[object Object]"
	case *Function, *Builtin:
		return Inspect(v)
	case Element:
		return "[object HTMLElement]"
	case Document:
		return "[object HTMLDocument]"
	case ClassList:
		return v.ClassList().String()
	case Style:
		return "[object CSSStyleDeclaration]"
	}

	return ""
}

// FormatNumber renders f the way the evaluated language prints numbers.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")

		return mant + "e" + sign + digits
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StrictEquals implements ===.
func StrictEquals(a, b Value) bool {
	switch a := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)

		return ok
	case Null:
		_, ok := b.(Null)

		return ok
	case Number:
		bn, ok := b.(Number)

		return ok && float64(a) == float64(bn)
	case Bool, String, Element, Document, ClassList, Style:
		return a == b
	case *Array:
		bv, ok := b.(*Array)

		return ok && a == bv
	case *Object:
		bv, ok := b.(*Object)

		return ok && a == bv
	case *Function:
		bv, ok := b.(*Function)

		return ok && a == bv
	case *Builtin:
		bv, ok := b.(*Builtin)

		return ok && a == bv
	}

	return false
}

// LooseEquals implements ==.
func LooseEquals(a, b Value) bool {
	if sameType(a, b) {
		return StrictEquals(a, b)
	}

	switch {
	case isNullish(a) && isNullish(b):
		return true
	case isNullish(a) || isNullish(b):
		return false
	}

	if ab, ok := a.(Bool); ok {
		return LooseEquals(Number(ToNumber(ab)), b)
	}

	if bb, ok := b.(Bool); ok {
		return LooseEquals(a, Number(ToNumber(bb)))
	}

	_, an := a.(Number)
	_, as := a.(String)
	_, bn := b.(Number)
	_, bs := b.(String)

	switch {
	case (an && bs) || (as && bn):
		return ToNumber(a) == ToNumber(b)
	case an || as:
		return LooseEquals(a, primitive(b))
	case bn || bs:
		return LooseEquals(primitive(a), b)
	}

	return false
}

func primitive(v Value) Value {
	switch v.(type) {
	case Undefined, Null, Bool, Number, String:
		return v
	}

	return String(ToString(v))
}

func isNullish(v Value) bool {
	switch v.(type) {
	case Undefined, Null:
		return true
	}

	return false
}

func sameType(a, b Value) bool {
	switch a.(type) {
	case Undefined:
		_, ok := b.(Undefined)

		return ok
	case Null:
		_, ok := b.(Null)

		return ok
	case Bool:
		_, ok := b.(Bool)

		return ok
	case Number:
		_, ok := b.(Number)

		return ok
	case String:
		_, ok := b.(String)

		return ok
	}

	return !isPrimitive(b)
}

func isPrimitive(v Value) bool {
	switch v.(type) {
	case Undefined, Null, Bool, Number, String:
		return true
	}

	return false
}
