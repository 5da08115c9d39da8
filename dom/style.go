package dom

import (
	"strings"
	"unicode"

	"github.com/gorilla/css/scanner"
)

// Style is a live view of an element's inline style attribute.
type Style struct{ el *Element }

type declaration struct {
	prop  string
	value string
}

// Get returns the value of a property. Names may be given in CSS form
// (background-color) or script form (backgroundColor).
func (s *Style) Get(prop string) string {
	prop = CSSProperty(prop)

	for _, d := range parseDeclarations(s.el.attr("style")) {
		if d.prop == prop {
			return d.value
		}
	}

	return ""
}

// Set assigns a property. An empty value removes it.
func (s *Style) Set(prop, value string) {
	prop = CSSProperty(prop)
	value = strings.TrimSpace(value)
	decls := parseDeclarations(s.el.attr("style"))

	i := 0
	for ; i < len(decls); i++ {
		if decls[i].prop == prop {
			break
		}
	}

	switch {
	case value == "" && i < len(decls):
		decls = append(decls[:i], decls[i+1:]...)
	case value == "":
		return
	case i < len(decls):
		decls[i].value = value
	default:
		decls = append(decls, declaration{prop: prop, value: value})
	}

	if len(decls) == 0 {
		s.el.RemoveAttribute("style")

		return
	}

	_ = s.el.SetAttribute("style", formatDeclarations(decls))
}

// Remove deletes a property.
func (s *Style) Remove(prop string) { s.Set(prop, "") }

// Len returns the number of declared properties.
func (s *Style) Len() int { return len(parseDeclarations(s.el.attr("style"))) }

// Properties returns the declared property names in order.
func (s *Style) Properties() []string {
	decls := parseDeclarations(s.el.attr("style"))
	out := make([]string, len(decls))

	for i, d := range decls {
		out[i] = d.prop
	}

	return out
}

func (s *Style) String() string {
	return formatDeclarations(parseDeclarations(s.el.attr("style")))
}

// CSSProperty converts a script-style property name to its CSS form.
func CSSProperty(name string) string {
	if name == "cssFloat" {
		return "float"
	}

	var b strings.Builder

	for _, r := range strings.TrimSpace(name) {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}

// parseDeclarations reads "prop: value; ..." pairs. Malformed declarations
// are skipped up to the next semicolon.
func parseDeclarations(src string) []declaration {
	var (
		out   []declaration
		prop  string
		value strings.Builder
		state int // 0 want property, 1 want colon, 2 in value, 3 skip
	)

	flush := func() {
		if v := strings.TrimSpace(value.String()); state == 2 && v != "" {
			out = setDeclaration(out, prop, v)
		}

		prop, state = "", 0
		value.Reset()
	}

	s := scanner.New(src)

	for {
		t := s.Next()
		if t.Type == scanner.TokenEOF || t.Type == scanner.TokenError {
			break
		}

		if t.Type == scanner.TokenComment {
			continue
		}

		if t.Type == scanner.TokenChar && t.Value == ";" {
			flush()

			continue
		}

		switch state {
		case 0:
			switch t.Type {
			case scanner.TokenS:
			case scanner.TokenIdent:
				prop, state = strings.ToLower(t.Value), 1
			default:
				state = 3
			}
		case 1:
			switch {
			case t.Type == scanner.TokenS:
			case t.Type == scanner.TokenChar && t.Value == ":":
				state = 2
			default:
				state = 3
			}
		case 2:
			if t.Type == scanner.TokenS {
				value.WriteByte(' ')
			} else {
				value.WriteString(t.Value)
			}
		}
	}

	flush()

	return out
}

func setDeclaration(decls []declaration, prop, value string) []declaration {
	for i := range decls {
		if decls[i].prop == prop {
			decls[i].value = value

			return decls
		}
	}

	return append(decls, declaration{prop: prop, value: value})
}

func formatDeclarations(decls []declaration) string {
	parts := make([]string, len(decls))

	for i, d := range decls {
		parts[i] = d.prop + ": " + d.value
	}

	return strings.Join(parts, "; ")
}
