package lang

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func join(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}

	return b.String()
}

func TestTokenize_RoundTrip(t *testing.T) {
	tests := []string{
		"",
		"let x = 1;",
		"// comment\nlet s = 'a\\'b'; /* block\ncomment */ x += .5e-3",
		"let t = `multi\nline ${x + 1}`;\n",
		"a === b !== c => d",
		"\"unterminated",
		"/* unterminated",
		"@#¤ weird ☃ chars",
		"\xff\xfe invalid utf8",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			toks := Tokenize(src)

			if got := join(toks); got != src {
				t.Errorf("round trip = %q, want %q", got, src)
			}

			if last := toks[len(toks)-1]; last.Kind != KindEOF {
				t.Errorf("last token kind = %v, want eof", last.Kind)
			}

			for i, tok := range toks {
				if tok.ID != i {
					t.Errorf("token %d has id %d", i, tok.ID)
				}
			}
		})
	}
}

func TestTokenize_Kinds(t *testing.T) {
	tests := []struct {
		src   string
		kinds []Kind
		texts []string
	}{
		{
			src:   "let x=1.5e3;",
			kinds: []Kind{KindKeyword, KindWhitespace, KindIdentifier, KindOperator, KindNumber, KindPunctuation, KindEOF},
			texts: []string{"let", " ", "x", "=", "1.5e3", ";", ""},
		},
		{
			src:   "a===b",
			kinds: []Kind{KindIdentifier, KindOperator, KindIdentifier, KindEOF},
			texts: []string{"a", "===", "b", ""},
		},
		{
			src:   "x=>true",
			kinds: []Kind{KindIdentifier, KindOperator, KindBoolean, KindEOF},
			texts: []string{"x", "=>", "true", ""},
		},
		{
			src:   "`a${b}`#",
			kinds: []Kind{KindTemplate, KindUnknown, KindEOF},
			texts: []string{"`a${b}`", "#", ""},
		},
		{
			src:   "i++ // done",
			kinds: []Kind{KindIdentifier, KindOperator, KindWhitespace, KindComment, KindEOF},
			texts: []string{"i", "++", " ", "// done", ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := Tokenize(tt.src)
			if len(toks) != len(tt.kinds) {
				t.Fatalf("Tokenize(%q) = %d tokens, want %d: %v", tt.src, len(toks), len(tt.kinds), toks)
			}

			for i, tok := range toks {
				if tok.Kind != tt.kinds[i] || tok.Text != tt.texts[i] {
					t.Errorf("token %d = %v %q, want %v %q", i, tok.Kind, tok.Text, tt.kinds[i], tt.texts[i])
				}
			}
		})
	}
}

func TestTokenize_Lines(t *testing.T) {
	toks := Tokenize("a\n/* x\ny */ b\n`c\nd` e")

	want := map[string]int{"a": 1, "b": 3, "e": 5}
	for _, tok := range toks {
		if line, ok := want[tok.Text]; ok && tok.Line != line {
			t.Errorf("token %q on line %d, want %d", tok.Text, tok.Line, line)
		}
	}
}

func FuzzTokenize(f *testing.F) {
	f.Add("let x = 1;")
	f.Add("function add(a, b) { return a + b; }")
	f.Add("`t ${x}`")
	f.Add("'unterminated")
	f.Add("/* open")
	f.Add("x >>>= 2 !== 3")

	f.Fuzz(func(t *testing.T, src string) {
		toks := Tokenize(src)

		if got := join(toks); got != src {
			t.Errorf("round trip = %q, want %q", got, src)
		}

		if utf8.ValidString(src) {
			if _, err := Parse(toks); err != nil {
				if _, ok := err.(*ParseError); !ok {
					t.Errorf("Parse() error type %T, want *ParseError", err)
				}
			}
		}
	})
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindWhitespace, "whitespace"},
		{KindTemplate, "template"},
		{KindPunctuation, "punctuation"},
		{KindEOF, "eof"},
		{Kind(-1), "Kind(-1)"},
		{KindEOF + 1, "Kind(12)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
