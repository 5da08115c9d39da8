package lang

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ardnew/jsviz/dom"
)

func elementOrNull(e *dom.Element) Value {
	if e == nil {
		return Null{}
	}

	return Element{e}
}

func elementArray(es []*dom.Element) *Array {
	out := make([]Value, len(es))
	for i, e := range es {
		out[i] = Element{e}
	}

	return NewArray(out...)
}

func toElement(v Value, method string) (*dom.Element, error) {
	if e, ok := v.(Element); ok {
		return e.Element, nil
	}

	return nil, newRuntimeError(TypeError, ErrInvalidArg,
		fmt.Sprintf("Failed to execute '%s': parameter 1 is not of type 'Node'.", method))
}

func domError(method string, err error) error {
	switch {
	case errors.Is(err, dom.ErrNotFound):
		return newRuntimeError(TypeError, ErrNodeNotFound,
			fmt.Sprintf("Failed to execute '%s': %v", method, err))
	case errors.Is(err, dom.ErrInvalidSelector):
		return newRuntimeError(SyntaxError, ErrInvalidArg,
			fmt.Sprintf("Failed to execute '%s': %v", method, err))
	default:
		return newRuntimeError(TypeError, ErrDOM,
			fmt.Sprintf("Failed to execute '%s': %v", method, err))
	}
}

// query binds the selector methods shared by documents and elements.
func query(name string, one func(string) (*dom.Element, error), all func(string) ([]*dom.Element, error)) Value {
	switch name {
	case "querySelector":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			e, err := one(ToString(arg(args, 0)))
			if err != nil {
				return nil, domError(name, err)
			}

			return elementOrNull(e), nil
		})
	case "querySelectorAll":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			es, err := all(ToString(arg(args, 0)))
			if err != nil {
				return nil, domError(name, err)
			}

			return elementArray(es), nil
		})
	}

	return Undefined{}
}

func (in *Interpreter) documentMember(d Document, name string) Value {
	switch name {
	case "body":
		return Element{d.Body()}
	case "documentElement":
		return Element{d.Root()}
	case "getElementById":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return elementOrNull(d.GetElementByID(ToString(arg(args, 0)))), nil
		})
	case "createElement":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			tag := strings.TrimSpace(ToString(arg(args, 0)))
			if tag == "" || strings.ContainsAny(tag, " <>/\"'=") {
				return nil, newRuntimeError(SyntaxError, ErrInvalidArg,
					fmt.Sprintf("Failed to execute 'createElement': The tag name provided ('%s') is not a valid name.", tag))
			}

			return Element{d.CreateElement(tag)}, nil
		})
	case "querySelector", "querySelectorAll":
		return query(name, d.QuerySelector, d.QuerySelectorAll)
	}

	return Undefined{}
}

func (in *Interpreter) elementMember(e Element, name string) Value {
	switch name {
	case "id":
		return String(e.ID())
	case "className":
		return String(e.ClassName())
	case "tagName":
		return String(strings.ToUpper(e.Tag))
	case "innerText":
		return String(e.InnerText())
	case "textContent":
		return String(e.TextContent())
	case "innerHTML":
		return String(e.InnerHTML())
	case "outerHTML":
		return String(e.OuterHTML())
	case "value":
		return String(e.Value())
	case "classList":
		return ClassList(e)
	case "style":
		return Style(e)
	case "children":
		return elementArray(e.ElementChildren())
	case "childElementCount":
		return Number(len(e.ElementChildren()))
	case "parentElement", "parentNode":
		return elementOrNull(e.Parent())
	case "firstElementChild":
		if cs := e.ElementChildren(); len(cs) > 0 {
			return Element{cs[0]}
		}

		return Null{}
	case "lastElementChild":
		if cs := e.ElementChildren(); len(cs) > 0 {
			return Element{cs[len(cs)-1]}
		}

		return Null{}
	case "appendChild":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			child, err := toElement(arg(args, 0), name)
			if err != nil {
				return nil, err
			}

			if err := e.AppendChild(child); err != nil {
				return nil, domError(name, err)
			}

			return Element{child}, nil
		})
	case "insertBefore":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			child, err := toElement(arg(args, 0), name)
			if err != nil {
				return nil, err
			}

			var ref dom.Node
			if r, ok := arg(args, 1).(Element); ok {
				ref = r.Element
			}

			if err := e.InsertBefore(child, ref); err != nil {
				return nil, domError(name, err)
			}

			return Element{child}, nil
		})
	case "removeChild":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			child, err := toElement(arg(args, 0), name)
			if err != nil {
				return nil, err
			}

			if err := e.RemoveChild(child); err != nil {
				return nil, domError(name, err)
			}

			return Element{child}, nil
		})
	case "remove":
		return builtin(name, func(*call, []Value) (Value, error) {
			e.Remove()

			return Undefined{}, nil
		})
	case "contains":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			other, ok := arg(args, 0).(Element)

			return Bool(ok && e.Contains(other.Element)), nil
		})
	case "matches":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			ok, err := e.Matches(ToString(arg(args, 0)))
			if err != nil {
				return nil, domError(name, err)
			}

			return Bool(ok), nil
		})
	case "getAttribute":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			if v, ok := e.GetAttribute(ToString(arg(args, 0))); ok {
				return String(v), nil
			}

			return Null{}, nil
		})
	case "setAttribute":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			if err := e.SetAttribute(ToString(arg(args, 0)), ToString(arg(args, 1))); err != nil {
				return nil, domError(name, err)
			}

			return Undefined{}, nil
		})
	case "removeAttribute":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			e.RemoveAttribute(ToString(arg(args, 0)))

			return Undefined{}, nil
		})
	case "hasAttribute":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return Bool(e.HasAttribute(ToString(arg(args, 0)))), nil
		})
	case "addEventListener":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			fn := arg(args, 1)
			if fn.TypeOf() != "function" {
				return nil, newRuntimeError(TypeError, ErrNotFunction,
					"Failed to execute 'addEventListener': parameter 2 is not a function.")
			}

			e.AddEventListener(ToString(arg(args, 0)), fn)

			return Undefined{}, nil
		})
	case "querySelector", "querySelectorAll":
		return query(name, e.QuerySelector, e.QuerySelectorAll)
	}

	if v, ok := e.GetAttribute(name); ok {
		return String(v)
	}

	return Undefined{}
}

func (in *Interpreter) setElementMember(e Element, name string, v Value) error {
	s := ToString(v)

	switch name {
	case "id":
		return e.SetAttribute("id", s)
	case "className":
		e.SetClassName(s)
	case "innerText":
		e.SetInnerText(s)
	case "textContent":
		e.SetTextContent(s)
	case "innerHTML":
		if err := e.SetInnerHTML(s); err != nil {
			return domError("innerHTML", err)
		}
	case "value":
		e.SetValue(s)
	case "tagName", "children", "parentElement", "classList", "style":
	default:
		if err := e.SetAttribute(name, s); err != nil {
			return domError(name, err)
		}
	}

	return nil
}

func classListMember(c ClassList, name string) Value {
	cl := c.ClassList()

	strs := func(args []Value) []string {
		out := make([]string, len(args))
		for i, a := range args {
			out[i] = ToString(a)
		}

		return out
	}

	switch name {
	case "length":
		return Number(cl.Len())
	case "value":
		return String(cl.String())
	case "add":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			cl.Add(strs(args)...)

			return Undefined{}, nil
		})
	case "remove":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			cl.Remove(strs(args)...)

			return Undefined{}, nil
		})
	case "contains":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return Bool(cl.Contains(ToString(arg(args, 0)))), nil
		})
	case "toggle":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return Bool(cl.Toggle(ToString(arg(args, 0)))), nil
		})
	}

	if i, ok := arrayIndex(String(name)); ok {
		if items := cl.Items(); i < len(items) {
			return String(items[i])
		}
	}

	return Undefined{}
}

func styleMember(s Style, name string) Value {
	st := s.Style()

	switch name {
	case "cssText":
		return String(st.String())
	case "length":
		return Number(st.Len())
	case "getPropertyValue":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			return String(st.Get(ToString(arg(args, 0)))), nil
		})
	case "setProperty":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			st.Set(ToString(arg(args, 0)), ToString(arg(args, 1)))

			return Undefined{}, nil
		})
	case "removeProperty":
		return builtin(name, func(_ *call, args []Value) (Value, error) {
			prop := ToString(arg(args, 0))
			old := st.Get(prop)
			st.Remove(prop)

			return String(old), nil
		})
	}

	return String(st.Get(name))
}
