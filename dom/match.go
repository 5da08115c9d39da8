package dom

import (
	"slices"
	"strings"
)

// Match reports whether e matches any selector in the group.
func (s *Selector) Match(e *Element) bool {
	for _, c := range s.group {
		if c.match(len(c.compounds)-1, e) {
			return true
		}
	}

	return false
}

// match tests compound i against e and then the combinators to its left.
func (c complexSelector) match(i int, e *Element) bool {
	if e == nil || !c.compounds[i].match(e) {
		return false
	}

	if i == 0 {
		return true
	}

	switch c.combinators[i-1] {
	case combChild:
		return c.match(i-1, e.parent)
	case combDescendant:
		for p := e.parent; p != nil; p = p.parent {
			if c.match(i-1, p) {
				return true
			}
		}
	case combAdjacent:
		return c.match(i-1, e.prevElement())
	case combSibling:
		for s := e.prevElement(); s != nil; s = s.prevElement() {
			if c.match(i-1, s) {
				return true
			}
		}
	}

	return false
}

func (c *compound) match(e *Element) bool {
	if c.tag != "" && c.tag != "*" && c.tag != e.Tag {
		return false
	}

	if c.id != "" && c.id != e.ID() {
		return false
	}

	if len(c.classes) > 0 {
		have := strings.Fields(e.ClassName())
		for _, cls := range c.classes {
			if !slices.Contains(have, cls) {
				return false
			}
		}
	}

	for _, a := range c.attrs {
		if !a.match(e) {
			return false
		}
	}

	for _, p := range c.pseudos {
		if !p.match(e) {
			return false
		}
	}

	return true
}

func (a attrConstraint) match(e *Element) bool {
	v, ok := e.GetAttribute(a.name)
	if !ok {
		return false
	}

	switch a.op {
	case "":
		return true
	case "=":
		return v == a.value
	case "~=":
		return a.value != "" && slices.Contains(strings.Fields(v), a.value)
	case "|=":
		return v == a.value || strings.HasPrefix(v, a.value+"-")
	case "^=":
		return a.value != "" && strings.HasPrefix(v, a.value)
	case "$=":
		return a.value != "" && strings.HasSuffix(v, a.value)
	case "*=":
		return a.value != "" && strings.Contains(v, a.value)
	}

	return false
}

func (p pseudoClass) match(e *Element) bool {
	anyElement := func(*Element) bool { return true }
	sameType := func(s *Element) bool { return s.Tag == e.Tag }

	switch p.name {
	case "not":
		return !p.not.Match(e)
	case "root":
		return e.owner != nil && e.owner.root == e
	case "empty":
		return len(e.children) == 0
	case "first-child":
		pos, _ := e.index(false, anyElement)

		return pos == 1
	case "last-child":
		pos, _ := e.index(true, anyElement)

		return pos == 1
	case "only-child":
		_, n := e.index(false, anyElement)

		return n == 1
	case "first-of-type":
		pos, _ := e.index(false, sameType)

		return pos == 1
	case "last-of-type":
		pos, _ := e.index(true, sameType)

		return pos == 1
	case "only-of-type":
		_, n := e.index(false, sameType)

		return n == 1
	case "nth-child":
		pos, _ := e.index(false, anyElement)

		return nth(p.a, p.b, pos)
	case "nth-last-child":
		pos, _ := e.index(true, anyElement)

		return nth(p.a, p.b, pos)
	case "nth-of-type":
		pos, _ := e.index(false, sameType)

		return nth(p.a, p.b, pos)
	case "nth-last-of-type":
		pos, _ := e.index(true, sameType)

		return nth(p.a, p.b, pos)
	}

	return false
}

// nth reports whether pos = a*n + b for some n >= 0.
func nth(a, b, pos int) bool {
	if a == 0 {
		return pos == b
	}

	d := pos - b

	return d%a == 0 && d/a >= 0
}

// Matches reports whether e matches the selector.
func (e *Element) Matches(sel string) (bool, error) {
	s, err := ParseSelector(sel)
	if err != nil {
		return false, err
	}

	return s.Match(e), nil
}

// QuerySelector returns the first descendant of e in document order
// matching sel. Ancestors of e still count toward combinators.
func (e *Element) QuerySelector(sel string) (*Element, error) {
	all, err := e.query(sel, true)
	if err != nil || len(all) == 0 {
		return nil, err
	}

	return all[0], nil
}

// QuerySelectorAll returns every descendant of e matching sel.
func (e *Element) QuerySelectorAll(sel string) ([]*Element, error) {
	return e.query(sel, false)
}

func (e *Element) query(sel string, first bool) ([]*Element, error) {
	s, err := ParseSelector(sel)
	if err != nil {
		return nil, err
	}

	var found []*Element

	e.walk(func(d *Element) bool {
		if d != e && s.Match(d) {
			found = append(found, d)

			return !first
		}

		return true
	})

	return found, nil
}
