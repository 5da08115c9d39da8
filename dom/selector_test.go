package dom

import (
	"errors"
	"strings"
	"testing"
)

const fixture = `<div id="app">
<h1 class="title">Notes</h1>
<ul id="list"><li class="active">a</li><li>b</li><li class="active done">c</li><li>d</li></ul>
<ol><li>x</li></ol>
<p lang="en-US" data-kind="note">p1</p><p>p2</p>
<input type="text" value="seed">
</div>`

func load(t *testing.T) *Document {
	t.Helper()

	d := NewDocument()
	if err := d.LoadHTML(fixture); err != nil {
		t.Fatalf("LoadHTML() error = %v", err)
	}

	return d
}

func texts(es []*Element) string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.TextContent()
	}

	return strings.Join(out, ",")
}

func TestQuerySelectorAll(t *testing.T) {
	d := load(t)

	tests := []struct {
		sel  string
		want string
	}{
		{"li", "a,b,c,d,x"},
		{"ul#list > li.active", "a,c"},
		{"#list li:nth-child(2)", "b"},
		{"li:nth-child(odd)", "a,c,x"},
		{"li:nth-child(2n)", "b,d"},
		{"li:nth-last-child(1)", "d,x"},
		{"ul li:not(.active)", "b,d"},
		{"li.active.done", "c"},
		{"li:first-child", "a,x"},
		{"li:last-child", "d,x"},
		{"li:only-child", "x"},
		{"li.active + li", "b,d"},
		{"li.active ~ li", "b,c,d"},
		{"div li", "a,b,c,d,x"},
		{"div > li", ""},
		{"h1, ol > li", "Notes,x"},
		{"[lang|=en]", "p1"},
		{"p[data-kind]", "p1"},
		{`p[data-kind="note"]`, "p1"},
		{"[lang^=en]", "p1"},
		{"[lang$=US]", "p1"},
		{"[lang*=n-U]", "p1"},
		{"[class~=done]", "c"},
		{"p:first-of-type", "p1"},
		{"p:last-of-type", "p2"},
		{"h1:only-of-type", "Notes"},
		{"p:nth-of-type(2)", "p2"},
		{"li:nth-child(-n+2)", "a,b,x"},
		{"li:empty", ""},
		{"ul *", "a,b,c,d"},
	}

	for _, tt := range tests {
		t.Run(tt.sel, func(t *testing.T) {
			got, err := d.QuerySelectorAll(tt.sel)
			if err != nil {
				t.Fatalf("QuerySelectorAll(%q) error = %v", tt.sel, err)
			}

			if s := texts(got); s != tt.want {
				t.Errorf("QuerySelectorAll(%q) = %q, want %q", tt.sel, s, tt.want)
			}
		})
	}
}

func TestQuerySelectorRoot(t *testing.T) {
	d := load(t)

	e, err := d.QuerySelector(":root")
	if err != nil {
		t.Fatal(err)
	}

	if e != d.Root() {
		t.Errorf(":root = %v, want html element", e)
	}

	input, _ := d.QuerySelector("input")
	if got, _ := input.Matches(":empty"); !got {
		t.Error("input should match :empty")
	}
}

func TestParseSelectorErrors(t *testing.T) {
	tests := []string{
		"",
		"li >",
		"li..x",
		"[lang",
		"li:hover",
		"li:nth-child(x)",
		"li:nth-child(2",
		"a, ",
		`[title="x]`,
		"li:has(a)",
	}

	for _, sel := range tests {
		t.Run(sel, func(t *testing.T) {
			if _, err := ParseSelector(sel); !errors.Is(err, ErrInvalidSelector) {
				t.Errorf("ParseSelector(%q) error = %v, want ErrInvalidSelector", sel, err)
			}
		})
	}
}

func TestParseNth(t *testing.T) {
	tests := []struct {
		in   string
		a, b int
	}{
		{"odd", 2, 1},
		{"even", 2, 0},
		{"3", 0, 3},
		{"n", 1, 0},
		{"-n+3", -1, 3},
		{"2n-1", 2, -1},
		{"+n + 4", 1, 4},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			a, b, err := parseNth(tt.in)
			if err != nil {
				t.Fatal(err)
			}

			if a != tt.a || b != tt.b {
				t.Errorf("parseNth(%q) = %d,%d want %d,%d", tt.in, a, b, tt.a, tt.b)
			}
		})
	}
}

func TestElementQueryScope(t *testing.T) {
	d := load(t)
	list := d.GetElementByID("list")

	got, err := list.QuerySelectorAll("div li")
	if err != nil {
		t.Fatal(err)
	}

	if s := texts(got); s != "a,b,c,d" {
		t.Errorf("scoped query = %q", s)
	}

	first, _ := list.QuerySelector("li:not(.active)")
	if first == nil || first.TextContent() != "b" {
		t.Errorf("QuerySelector() = %v", first)
	}
}
