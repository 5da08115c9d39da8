package dom

import (
	"slices"
	"strings"
)

// Node is an [*Element] or a [*Text].
type Node interface {
	Parent() *Element
	setParent(*Element)
}

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a document element. Attributes keep their insertion order.
type Element struct {
	Tag       string
	attrs     []Attr
	children  []Node
	parent    *Element
	owner     *Document
	value     *string
	listeners map[string][]any
}

// Text is a text node.
type Text struct {
	Data   string
	parent *Element
}

// Parent returns the containing element, or nil when detached.
func (t *Text) Parent() *Element { return t.parent }

func (t *Text) setParent(e *Element) { t.parent = e }

// Parent returns the containing element, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

func (e *Element) setParent(p *Element) { e.parent = p }

// Document owns a tree rooted at an html element with a body child.
type Document struct {
	root      *Element
	body      *Element
	mutations int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	d := &Document{}
	d.root = d.CreateElement("html")
	d.body = d.CreateElement("body")
	d.root.children = []Node{d.body}
	d.body.parent = d.root

	return d
}

// Root returns the html element.
func (d *Document) Root() *Element { return d.root }

// Body returns the body element.
func (d *Document) Body() *Element { return d.body }

// Mutations returns the number of changes made to elements owned by d.
func (d *Document) Mutations() int { return d.mutations }

// CreateElement returns a detached element owned by d.
func (d *Document) CreateElement(tag string) *Element {
	return &Element{Tag: strings.ToLower(tag), owner: d}
}

// CreateTextNode returns a detached text node.
func (d *Document) CreateTextNode(data string) *Text {
	return &Text{Data: data}
}

// GetElementByID returns the first element in document order whose id
// attribute equals id, or nil.
func (d *Document) GetElementByID(id string) *Element {
	var found *Element

	d.root.walk(func(e *Element) bool {
		if e.ID() == id {
			found = e

			return false
		}

		return true
	})

	return found
}

// QuerySelector returns the first element in document order matching sel.
func (d *Document) QuerySelector(sel string) (*Element, error) {
	s, err := ParseSelector(sel)
	if err != nil {
		return nil, err
	}

	var found *Element

	d.root.walk(func(e *Element) bool {
		if s.Match(e) {
			found = e

			return false
		}

		return true
	})

	return found, nil
}

// QuerySelectorAll returns every element in document order matching sel.
func (d *Document) QuerySelectorAll(sel string) ([]*Element, error) {
	s, err := ParseSelector(sel)
	if err != nil {
		return nil, err
	}

	var found []*Element

	d.root.walk(func(e *Element) bool {
		if s.Match(e) {
			found = append(found, e)
		}

		return true
	})

	return found, nil
}

// walk visits e and its descendant elements in pre-order until fn returns
// false. It reports whether the walk ran to completion.
func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}

	for _, c := range e.children {
		if ce, ok := c.(*Element); ok && !ce.walk(fn) {
			return false
		}
	}

	return true
}

// Owner returns the document that created e.
func (e *Element) Owner() *Document { return e.owner }

func (e *Element) touch() {
	if e != nil && e.owner != nil {
		e.owner.mutations++
	}
}

// Attrs returns a copy of the attributes in order.
func (e *Element) Attrs() []Attr { return slices.Clone(e.attrs) }

// GetAttribute returns the value of the named attribute.
func (e *Element) GetAttribute(name string) (string, bool) {
	name = strings.ToLower(name)

	for _, a := range e.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// SetAttribute sets the named attribute, keeping its position if present.
func (e *Element) SetAttribute(name, value string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, " \t\n\"'<>/=") {
		return ErrInvalidName.Wrapf("%q", name)
	}

	for i, a := range e.attrs {
		if a.Name == name {
			e.attrs[i].Value = value
			e.touch()

			return nil
		}
	}

	e.attrs = append(e.attrs, Attr{Name: name, Value: value})
	e.touch()

	return nil
}

// RemoveAttribute deletes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	name = strings.ToLower(name)
	n := len(e.attrs)

	e.attrs = slices.DeleteFunc(e.attrs, func(a Attr) bool { return a.Name == name })
	if len(e.attrs) != n {
		e.touch()
	}
}

// HasAttribute reports whether the named attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)

	return ok
}

func (e *Element) attr(name string) string {
	v, _ := e.GetAttribute(name)

	return v
}

// ID returns the id attribute.
func (e *Element) ID() string { return e.attr("id") }

// ClassName returns the class attribute.
func (e *Element) ClassName() string { return e.attr("class") }

// SetClassName replaces the class attribute.
func (e *Element) SetClassName(s string) { _ = e.SetAttribute("class", s) }

// ClassList returns a live view of the class attribute.
func (e *Element) ClassList() *ClassList { return &ClassList{el: e} }

// Style returns a live view of the style attribute.
func (e *Element) Style() *Style { return &Style{el: e} }

// Value returns the form value. Until it is set it mirrors the value
// attribute.
func (e *Element) Value() string {
	if e.value != nil {
		return *e.value
	}

	return e.attr("value")
}

// SetValue sets the form value without touching the attribute.
func (e *Element) SetValue(v string) {
	e.value = &v
	e.touch()
}

// Children returns the child nodes.
func (e *Element) Children() []Node { return slices.Clone(e.children) }

// ElementChildren returns the child elements.
func (e *Element) ElementChildren() []*Element {
	var out []*Element

	for _, c := range e.children {
		if ce, ok := c.(*Element); ok {
			out = append(out, ce)
		}
	}

	return out
}

// Contains reports whether n is e or a descendant of e.
func (e *Element) Contains(n Node) bool {
	for p := n; p != nil; {
		if pe, ok := p.(*Element); ok && pe == e {
			return true
		}

		parent := p.Parent()
		if parent == nil {
			return false
		}

		p = parent
	}

	return false
}

// AppendChild appends n as the last child of e, detaching it from its
// previous parent.
func (e *Element) AppendChild(n Node) error {
	return e.InsertBefore(n, nil)
}

// InsertBefore inserts n before ref, or appends it when ref is nil.
func (e *Element) InsertBefore(n, ref Node) error {
	if ne, ok := n.(*Element); ok && ne.Contains(e) {
		return ErrCycle.Wrapf("<%s> into <%s>", ne.Tag, e.Tag)
	}

	if ref != nil && ref.Parent() != e {
		return ErrNotFound.Wrapf("reference node")
	}

	// Inserting a node before itself leaves it in place.
	if n == ref {
		return nil
	}

	detach(n)

	i := len(e.children)
	if ref != nil {
		i = slices.IndexFunc(e.children, func(c Node) bool { return c == ref })
	}

	e.children = slices.Insert(e.children, i, n)
	n.setParent(e)
	e.touch()

	return nil
}

// RemoveChild removes n from wherever it sits in the subtree of e. It fails
// when n is e itself or is not inside e.
func (e *Element) RemoveChild(n Node) error {
	if n == nil || n == Node(e) || !e.Contains(n) {
		return ErrNotFound.Wrapf("<%s>", e.Tag)
	}

	detach(n)

	return nil
}

// Remove detaches e from its parent.
func (e *Element) Remove() { detach(e) }

func detach(n Node) {
	p := n.Parent()
	if p == nil {
		return
	}

	p.children = slices.DeleteFunc(p.children, func(c Node) bool { return c == n })
	n.setParent(nil)
	p.touch()
}

// TextContent returns the concatenated text of all descendants.
func (e *Element) TextContent() string {
	var b strings.Builder

	e.text(&b)

	return b.String()
}

func (e *Element) text(b *strings.Builder) {
	for _, c := range e.children {
		switch c := c.(type) {
		case *Text:
			b.WriteString(c.Data)
		case *Element:
			c.text(b)
		}
	}
}

// SetTextContent replaces all children with a single text node.
func (e *Element) SetTextContent(s string) {
	e.replaceChildren()

	if s != "" {
		e.children = []Node{&Text{Data: s, parent: e}}
	}
}

// InnerText returns the rendered text. Without layout it equals
// [Element.TextContent].
func (e *Element) InnerText() string { return e.TextContent() }

// SetInnerText replaces all children with a single text node.
func (e *Element) SetInnerText(s string) { e.SetTextContent(s) }

func (e *Element) replaceChildren(nodes ...Node) {
	for _, c := range e.children {
		c.setParent(nil)
	}

	e.children = nil

	for _, n := range nodes {
		detach(n)
		n.setParent(e)
		e.children = append(e.children, n)
	}

	e.touch()
}

// AddEventListener records fn as a listener for the event type.
func (e *Element) AddEventListener(event string, fn any) {
	if e.listeners == nil {
		e.listeners = map[string][]any{}
	}

	e.listeners[event] = append(e.listeners[event], fn)
}

// Listeners returns the listeners registered for the event type.
func (e *Element) Listeners(event string) []any {
	return slices.Clone(e.listeners[event])
}

// index returns the 1-based position of e among its parent's element
// children satisfying keep, counted from the end when last is set.
func (e *Element) index(last bool, keep func(*Element) bool) (pos, total int) {
	if e.parent == nil {
		return 1, 1
	}

	for _, s := range e.parent.ElementChildren() {
		if !keep(s) {
			continue
		}

		total++

		if s == e {
			pos = total
		}
	}

	if last {
		pos = total - pos + 1
	}

	return pos, total
}

func (e *Element) prevElement() *Element {
	if e.parent == nil {
		return nil
	}

	var prev *Element

	for _, c := range e.parent.children {
		if c == Node(e) {
			return prev
		}

		if ce, ok := c.(*Element); ok {
			prev = ce
		}
	}

	return nil
}
