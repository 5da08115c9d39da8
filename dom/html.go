package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"source": true, "track": true, "wbr": true,
}

// ParseHTML parses an HTML fragment in a body context into detached nodes
// owned by d. Comments and doctypes are dropped.
func (d *Document) ParseHTML(src string) ([]Node, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

	nodes, err := html.ParseFragment(strings.NewReader(src), body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var out []Node

	for _, n := range nodes {
		if c := d.convert(n); c != nil {
			out = append(out, c)
		}
	}

	return out, nil
}

// LoadHTML replaces the body content with the parsed fragment.
func (d *Document) LoadHTML(src string) error {
	nodes, err := d.ParseHTML(src)
	if err != nil {
		return err
	}

	d.body.replaceChildren(nodes...)

	return nil
}

func (d *Document) convert(n *html.Node) Node {
	switch n.Type {
	case html.TextNode:
		return &Text{Data: n.Data}
	case html.ElementNode:
		e := d.CreateElement(n.Data)
		for _, a := range n.Attr {
			e.attrs = append(e.attrs, Attr{Name: a.Key, Value: a.Val})
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if cn := d.convert(c); cn != nil {
				cn.setParent(e)
				e.children = append(e.children, cn)
			}
		}

		return e
	default:
		return nil
	}
}

// InnerHTML serializes the children of e.
func (e *Element) InnerHTML() string {
	var b strings.Builder

	for _, c := range e.children {
		writeHTML(&b, c)
	}

	return b.String()
}

// SetInnerHTML replaces the children of e with the parsed fragment.
func (e *Element) SetInnerHTML(src string) error {
	d := e.owner
	if d == nil {
		d = &Document{}
	}

	nodes, err := d.ParseHTML(src)
	if err != nil {
		return err
	}

	e.replaceChildren(nodes...)

	return nil
}

// OuterHTML serializes e and its subtree.
func (e *Element) OuterHTML() string {
	var b strings.Builder

	writeHTML(&b, e)

	return b.String()
}

func writeHTML(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		if p := n.parent; p != nil && (p.Tag == "script" || p.Tag == "style") {
			b.WriteString(n.Data)
		} else {
			b.WriteString(html.EscapeString(n.Data))
		}
	case *Element:
		b.WriteByte('<')
		b.WriteString(n.Tag)

		for _, a := range n.attrs {
			fmt.Fprintf(b, " %s=\"%s\"", a.Name, html.EscapeString(a.Value))
		}

		b.WriteByte('>')

		if voidElements[n.Tag] {
			return
		}

		for _, c := range n.children {
			writeHTML(b, c)
		}

		b.WriteString("</")
		b.WriteString(n.Tag)
		b.WriteByte('>')
	}
}
