package lang

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func printAST(t *testing.T, src string) string {
	t.Helper()

	prog, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) error = %v", src, err)
	}

	var buf bytes.Buffer
	if err := prog.Print(&buf); err != nil {
		t.Fatalf("Print() error = %v", err)
	}

	return buf.String()
}

func TestParse_Deterministic(t *testing.T) {
	src := `
let notes = [12, 15, 18];
function add(a, b) { return a + b; }
const f = (x, y) => x * y, g = n => { return n; };
for (let i = 0; i < 3; i++) { if (i % 2) continue; else notes.push(i); }
switch (notes.length) { case 4: break; default: notes.pop(); }
do { i -= 1 } while (i > 0)
let s = typeof notes === "object" ? ` + "`ok ${add(1, 2)}`" + ` : null;
let o = { a: 1, "b": [2], c };
new Array(3);
`
	first := printAST(t, src)

	if again := printAST(t, src); again != first {
		t.Errorf("parsing twice differs:\n%s\n---\n%s", first, again)
	}

	// Extra indentation shifts every token id but leaves the tree alone.
	if shifted := printAST(t, strings.ReplaceAll(src, "\n", "\n\t")); shifted != first {
		t.Errorf("token ids leaked into the tree:\n%s\n---\n%s", first, shifted)
	}
}

func TestParse_Precedence(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"a = 1 + 2 * 3;", []string{"Assign", "Binary", "Op: \"+\"", "Binary", "Op: \"*\""}},
		{"a || b && c;", []string{"Logical", "Op: \"||\"", "Logical", "Op: \"&&\""}},
		{"x += 2;", []string{"Assign", "Op: \"+=\"", "Binary", "Op: \"+\""}},
		{"console.log(1);", []string{"Call", "Ident", "Name: \"console.log\""}},
		{"a[0].b;", []string{"Member", "Member", "Computed: true", "Name: \"b\""}},
		{"-x++;", []string{"Unary", "Update", "Prefix: false"}},
		{"c ? 1 : 2;", []string{"Conditional"}},
		{"x => x;", []string{"Arrow", "Params: [\"x\"]"}},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			got := printAST(t, tt.src)

			pos := 0
			for _, w := range tt.want {
				i := strings.Index(got[pos:], w)
				if i < 0 {
					t.Fatalf("missing %q after offset %d in:\n%s", w, pos, got)
				}

				pos += i + len(w)
			}
		})
	}
}

func TestParse_CompoundAssignSpan(t *testing.T) {
	prog, err := ParseString("total += 5;")
	if err != nil {
		t.Fatal(err)
	}

	as := prog.Body[0].(*ExprStmt).X.(*Assign)
	bin, ok := as.Value.(*Binary)

	if !ok {
		t.Fatalf("value = %T, want *Binary", as.Value)
	}

	if got := bin.Text(prog.Tokens); got != "total" {
		t.Errorf("synthesized span text = %q, want %q", got, "total")
	}

	if got := as.Text(prog.Tokens); got != "total += 5" {
		t.Errorf("assignment span text = %q", got)
	}
}

func TestParse_ArrowParamError(t *testing.T) {
	prog, err := ParseString("let f = (a + 1) => a;")
	if err != nil {
		t.Fatalf("malformed arrow parameters must parse, got %v", err)
	}

	arrow := prog.Body[0].(*VarDecl).Decls[0].Init.(*Arrow)
	if arrow.ParamErr == "" {
		t.Error("ParamErr not recorded")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		src  string
		line int
	}{
		{"let = 1;", 1},
		{"let x = 1\nconst y;", 2},
		{"if (x {", 1},
		{"a + ;", 1},
		{"\n\nfoo(1, 2", 3},
		{"1 = 2;", 1},
		{"(a, b);", 1},
		{"let x = 1 let y = 2;", 1},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			_, err := ParseString(tt.src)

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("ParseString(%q) error = %v, want *ParseError", tt.src, err)
			}

			if perr.Line != tt.line {
				t.Errorf("Line = %d, want %d", perr.Line, tt.line)
			}

			if !strings.Contains(perr.Snippet(), "^") && perr.Found != "end of input" {
				t.Errorf("Snippet() = %q", perr.Snippet())
			}
		})
	}
}

func TestParse_ASI(t *testing.T) {
	prog, err := ParseString("let a = 1\nlet b = 2\n{ a = b }")
	if err != nil {
		t.Fatal(err)
	}

	if len(prog.Body) != 3 {
		t.Errorf("statements = %d, want 3", len(prog.Body))
	}
}
