package dom

import (
	"errors"
	"strings"
	"testing"
)

func TestAppendChild(t *testing.T) {
	d := NewDocument()
	ul := d.CreateElement("UL")
	li := d.CreateElement("li")

	if err := d.Body().AppendChild(ul); err != nil {
		t.Fatal(err)
	}

	if err := ul.AppendChild(li); err != nil {
		t.Fatal(err)
	}

	if li.Parent() != ul || ul.Tag != "ul" {
		t.Fatalf("parent = %v, tag = %q", li.Parent(), ul.Tag)
	}

	t.Run("cycle", func(t *testing.T) {
		if err := li.AppendChild(ul); !errors.Is(err, ErrCycle) {
			t.Errorf("AppendChild(ancestor) error = %v, want ErrCycle", err)
		}

		if err := ul.AppendChild(ul); !errors.Is(err, ErrCycle) {
			t.Errorf("AppendChild(self) error = %v, want ErrCycle", err)
		}
	})

	t.Run("move", func(t *testing.T) {
		ol := d.CreateElement("ol")
		_ = d.Body().AppendChild(ol)

		if err := ol.AppendChild(li); err != nil {
			t.Fatal(err)
		}

		if len(ul.Children()) != 0 || li.Parent() != ol {
			t.Errorf("li was not detached from its previous parent")
		}
	})
}

func TestInsertBefore(t *testing.T) {
	tags := func(e *Element) string {
		var out []string
		for _, c := range e.ElementChildren() {
			out = append(out, c.Tag)
		}

		return strings.Join(out, ",")
	}

	tests := []struct {
		name    string
		insert  func(p, a, b, c *Element) error
		want    string
		wantErr error
	}{
		{"before first", func(p, a, _, c *Element) error { return p.InsertBefore(c, a) }, "i,a,b", nil},
		{"before itself", func(p, _, b, _ *Element) error { return p.InsertBefore(b, b) }, "a,b", nil},
		{"move earlier", func(p, a, b, _ *Element) error { return p.InsertBefore(b, a) }, "b,a", nil},
		{"append", func(p, _, _, c *Element) error { return p.InsertBefore(c, nil) }, "a,b,i", nil},
		{"foreign reference", func(p, _, _, c *Element) error { return p.InsertBefore(c, c) }, "a,b", ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDocument()
			p, a, b, c := d.Body(), d.CreateElement("a"), d.CreateElement("b"), d.CreateElement("i")

			_ = p.AppendChild(a)
			_ = p.AppendChild(b)

			if err := tt.insert(p, a, b, c); !errors.Is(err, tt.wantErr) {
				t.Fatalf("InsertBefore() error = %v, want %v", err, tt.wantErr)
			}

			if got := tags(p); got != tt.want {
				t.Errorf("children = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRemoveChild(t *testing.T) {
	d := NewDocument()
	if err := d.LoadHTML(`<ul id="list"><li><b id="x">x</b></li></ul>`); err != nil {
		t.Fatal(err)
	}

	b := d.GetElementByID("x")

	if err := d.Body().RemoveChild(b); err != nil {
		t.Fatalf("RemoveChild(descendant) error = %v", err)
	}

	if b.Parent() != nil || d.GetElementByID("x") != nil {
		t.Error("descendant still attached")
	}

	err := d.Body().RemoveChild(b)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveChild(detached) error = %v, want ErrNotFound", err)
	}

	if !strings.Contains(err.Error(), "<body>") {
		t.Errorf("error %q does not name the parent", err)
	}
}

func TestClassList(t *testing.T) {
	e := NewDocument().CreateElement("li")
	cl := e.ClassList()

	cl.Add("a", "b", "a")
	if got := e.ClassName(); got != "a b" {
		t.Errorf("ClassName() = %q", got)
	}

	if !cl.Toggle("c") || cl.Toggle("a") {
		t.Error("Toggle() returned the wrong state")
	}

	cl.Remove("b")

	if got := cl.String(); got != "c" || cl.Len() != 1 || !cl.Contains("c") {
		t.Errorf("classList = %q", got)
	}
}

func TestStyle(t *testing.T) {
	e := NewDocument().CreateElement("div")
	_ = e.SetAttribute("style", "color: red; /* note */ border:1px  solid blue;bogus")
	s := e.Style()

	tests := []struct {
		prop string
		want string
	}{
		{"color", "red"},
		{"border", "1px solid blue"},
		{"bogus", ""},
	}

	for _, tt := range tests {
		if got := s.Get(tt.prop); got != tt.want {
			t.Errorf("Get(%q) = %q, want %q", tt.prop, got, tt.want)
		}
	}

	s.Set("backgroundColor", "#fff")
	s.Set("color", "")

	if got := e.attr("style"); got != "border: 1px solid blue; background-color: #fff" {
		t.Errorf("style = %q", got)
	}

	if s.Get("background-color") != "#fff" || s.Len() != 2 {
		t.Errorf("style view = %q", s)
	}

	s.Remove("border")
	s.Remove("backgroundColor")

	if e.HasAttribute("style") {
		t.Error("empty style attribute not removed")
	}
}

func TestCSSProperty(t *testing.T) {
	for in, want := range map[string]string{
		"color":           "color",
		"backgroundColor": "background-color",
		"font-size":       "font-size",
		"cssFloat":        "float",
	} {
		if got := CSSProperty(in); got != want {
			t.Errorf("CSSProperty(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestInnerHTML(t *testing.T) {
	d := NewDocument()
	body := d.Body()

	if err := body.SetInnerHTML(`<p class="x">a &amp; b<br></p>text`); err != nil {
		t.Fatal(err)
	}

	if got, want := body.InnerHTML(), `<p class="x">a &amp; b<br></p>text`; got != want {
		t.Errorf("InnerHTML() = %q, want %q", got, want)
	}

	if got := body.TextContent(); got != "a & btext" {
		t.Errorf("TextContent() = %q", got)
	}

	p, _ := d.QuerySelector("p")
	p.SetInnerText("<i>")

	if got := p.OuterHTML(); got != `<p class="x">&lt;i&gt;</p>` {
		t.Errorf("OuterHTML() = %q", got)
	}
}

func TestValue(t *testing.T) {
	d := NewDocument()
	_ = d.LoadHTML(`<input id="in" value="seed">`)
	in := d.GetElementByID("in")

	if in.Value() != "seed" {
		t.Errorf("Value() = %q", in.Value())
	}

	in.SetValue("typed")

	if v, _ := in.GetAttribute("value"); in.Value() != "typed" || v != "seed" {
		t.Errorf("Value() = %q, attribute = %q", in.Value(), v)
	}
}

func TestMutations(t *testing.T) {
	d := NewDocument()
	n := d.Mutations()
	e := d.CreateElement("p")

	_ = d.Body().AppendChild(e)
	e.ClassList().Add("on")
	e.Remove()

	if got := d.Mutations() - n; got != 3 {
		t.Errorf("Mutations() delta = %d, want 3", got)
	}
}

func TestSanitize(t *testing.T) {
	got := Sanitize(`<div id="a" class="b" style="color: red" onclick="x()">` +
		`<script>alert(1)</script><button type="button">go</button></div>`)

	for _, want := range []string{`class="b"`, `style="color: red"`, `<button type="button">go</button>`} {
		if !strings.Contains(got, want) {
			t.Errorf("Sanitize() = %q, missing %q", got, want)
		}
	}

	for _, bad := range []string{"script", "onclick"} {
		if strings.Contains(got, bad) {
			t.Errorf("Sanitize() = %q, kept %q", got, bad)
		}
	}
}
