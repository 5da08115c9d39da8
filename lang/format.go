package lang

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// Inspect renders v for display in a memory panel or console. Strings nested
// inside arrays and objects are quoted; a top-level string is not.
func Inspect(v Value) string {
	if s, ok := v.(String); ok {
		return string(s)
	}

	return inspect(v, 0)
}

// maxInspectDepth bounds rendering of self-referencing structures.
const maxInspectDepth = 4

func inspect(v Value, depth int) string {
	switch v := v.(type) {
	case String:
		return strconv.Quote(string(v))

	case *Array:
		if depth >= maxInspectDepth {
			return "[Array]"
		}

		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = inspect(e, depth+1)
		}

		return "[" + strings.Join(parts, ", ") + "]"

	case *Object:
		if depth >= maxInspectDepth {
			return "[Object]"
		}

		if len(v.keys) == 0 {
			return "{}"
		}

		parts := make([]string, len(v.keys))
		for i, k := range v.keys {
			parts[i] = k + ": " + inspect(v.props[k], depth+1)
		}

		return "{ " + strings.Join(parts, ", ") + " }"

	case *Function:
		name := v.Name
		if name == "" {
			name = "anonymous"
		}

		if v.Arrow {
			return "(" + strings.Join(v.Params, ", ") + ") => {…}"
		}

		return "ƒ " + name + "(" + strings.Join(v.Params, ", ") + ")"

	case *Builtin:
		return "ƒ " + v.Name + "() [native]"

	case Element:
		var b strings.Builder

		b.WriteString("<" + v.Tag)

		if id := v.ID(); id != "" {
			b.WriteString("#" + id)
		}

		for _, c := range v.ClassList().Items() {
			b.WriteString("." + c)
		}

		b.WriteString(">")

		return b.String()

	case Document:
		return "#document"

	case ClassList:
		return "DOMTokenList " + inspect(stringArray(v.ClassList().Items()), depth+1)

	case Style:
		return "CSSStyleDeclaration {" + v.Style().String() + "}"

	case nil:
		return "undefined"
	}

	return ToString(v)
}

func stringArray(items []string) *Array {
	arr := &Array{Elems: make([]Value, len(items))}
	for i, s := range items {
		arr.Elems[i] = String(s)
	}

	return arr
}

// Print writes an indented listing of the syntax tree. Spans are omitted so
// that two parses of equivalent source produce identical output.
func (p *Program) Print(w io.Writer) error {
	d := dumper{w: w}

	for _, s := range p.Body {
		d.node(reflect.ValueOf(s), 0)
	}

	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

var spanType = reflect.TypeOf(Span{})

func (d *dumper) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}

	_, d.err = fmt.Fprintf(d.w, strings.Repeat("  ", depth)+format+"\n", args...)
}

func (d *dumper) node(v reflect.Value, depth int) {
	if v.Kind() == reflect.Interface {
		v = v.Elem()
	}

	if !v.IsValid() || (v.Kind() == reflect.Pointer && v.IsNil()) {
		d.printf(depth, "nil")

		return
	}

	v = reflect.Indirect(v)
	t := v.Type()

	d.printf(depth, "%s (line %d)", t.Name(), v.FieldByName("Line").Int())

	for i := range t.NumField() {
		f := t.Field(i)
		if f.Type == spanType {
			continue
		}

		fv := v.Field(i)

		switch {
		case f.Type.Kind() == reflect.Slice && f.Type.Elem().Kind() == reflect.String:
			d.printf(depth+1, "%s: %q", f.Name, fv.Interface())

		case f.Type.Kind() == reflect.Slice:
			d.printf(depth+1, "%s: %d", f.Name, fv.Len())

			for j := range fv.Len() {
				d.node(fv.Index(j), depth+2)
			}

		case f.Type.Kind() == reflect.Interface, f.Type.Kind() == reflect.Pointer:
			if fv.IsNil() {
				continue
			}

			d.printf(depth+1, "%s:", f.Name)
			d.node(fv, depth+2)

		case f.Type.Kind() == reflect.String:
			d.printf(depth+1, "%s: %q", f.Name, fv.String())

		default:
			d.printf(depth+1, "%s: %v", f.Name, fv.Interface())
		}
	}
}
