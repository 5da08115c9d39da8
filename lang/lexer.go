package lang

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

var operators = [...][]string{
	{"===", "!=="},
	{"==", "!=", "<=", ">=", "&&", "||", "=>", "++", "--", "+=", "-=", "*=", "/=", "%="},
	{"+", "-", "*", "/", "%", "<", ">", "=", "!", "?"},
}

const punctuation = "(){}[];,.:"

// Tokenize splits source into tokens. It never fails: characters it does not
// recognize, and unterminated strings, become [KindUnknown] tokens so that
// errors surface during parsing. The final token is always [KindEOF].
func Tokenize(source string) []Token {
	lx := lexer{src: source, line: 1, col: 1}

	for lx.pos < len(lx.src) {
		lx.next()
	}

	lx.emit(KindEOF, lx.pos)

	return lx.toks
}

type lexer struct {
	src  string
	pos  int
	line int
	col  int
	toks []Token
}

func (lx *lexer) peekRune(off int) rune {
	if lx.pos+off >= len(lx.src) {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos+off:])

	return r
}

// emit records src[pos:end] as a token and advances past it.
func (lx *lexer) emit(kind Kind, end int) {
	text := lx.src[lx.pos:end]

	lx.toks = append(lx.toks, Token{
		ID:   len(lx.toks),
		Kind: kind,
		Text: text,
		Line: lx.line,
		Col:  lx.col,
	})

	if n := strings.Count(text, "\n"); n > 0 {
		lx.line += n
		lx.col = utf8.RuneCountInString(text[strings.LastIndexByte(text, '\n')+1:]) + 1
	} else {
		lx.col += utf8.RuneCountInString(text)
	}

	lx.pos = end
}

func (lx *lexer) next() {
	r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])
	rest := lx.src[lx.pos:]

	switch {
	case unicode.IsSpace(r):
		end := lx.pos
		for end < len(lx.src) {
			c, n := utf8.DecodeRuneInString(lx.src[end:])
			if !unicode.IsSpace(c) {
				break
			}

			end += n
		}

		lx.emit(KindWhitespace, end)

	case strings.HasPrefix(rest, "//"):
		end := strings.IndexByte(rest, '\n')
		if end < 0 {
			end = len(rest)
		}

		lx.emit(KindComment, lx.pos+end)

	case strings.HasPrefix(rest, "/*"):
		end := strings.Index(rest[2:], "*/")
		if end < 0 {
			lx.emit(KindComment, len(lx.src))
		} else {
			lx.emit(KindComment, lx.pos+2+end+2)
		}

	case isDigit(r) || (r == '.' && isDigit(lx.peekRune(1))):
		lx.emit(KindNumber, lx.pos+scanNumber(rest))

	case r == '"' || r == '\'':
		end, ok := scanQuoted(rest, byte(r), false)
		if ok {
			lx.emit(KindString, lx.pos+end)
		} else {
			lx.emit(KindUnknown, lx.pos+end)
		}

	case r == '`':
		end, ok := scanQuoted(rest, '`', true)
		if ok {
			lx.emit(KindTemplate, lx.pos+end)
		} else {
			lx.emit(KindUnknown, lx.pos+end)
		}

	case isIdentStart(r):
		end := size
		for end < len(rest) {
			c, n := utf8.DecodeRuneInString(rest[end:])
			if !isIdentPart(c) {
				break
			}

			end += n
		}

		word := rest[:end]

		switch {
		case word == "true" || word == "false":
			lx.emit(KindBoolean, lx.pos+end)
		case keywords[word]:
			lx.emit(KindKeyword, lx.pos+end)
		default:
			lx.emit(KindIdentifier, lx.pos+end)
		}

	default:
		for _, group := range operators {
			for _, op := range group {
				if strings.HasPrefix(rest, op) {
					lx.emit(KindOperator, lx.pos+len(op))

					return
				}
			}
		}

		if strings.ContainsRune(punctuation, r) {
			lx.emit(KindPunctuation, lx.pos+size)

			return
		}

		lx.emit(KindUnknown, lx.pos+size)
	}
}

// scanNumber returns the length of the decimal literal at the start of s.
func scanNumber(s string) int {
	i := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}

	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(rune(s[i])) {
			i++
		}
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}

		if j < len(s) && isDigit(rune(s[j])) {
			for j < len(s) && isDigit(rune(s[j])) {
				j++
			}

			i = j
		}
	}

	return i
}

// scanQuoted returns the length of the quoted literal at the start of s and
// whether it was terminated. Unless multiline is set, a newline ends an
// unterminated literal before the newline.
func scanQuoted(s string, quote byte, multiline bool) (int, bool) {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && (multiline || s[i+1] != '\n') {
				i++
			}
		case '\n':
			if !multiline {
				return i, false
			}
		case quote:
			return i + 1, true
		}
	}

	return len(s), false
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
