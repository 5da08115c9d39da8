package lang

//go:generate go tool stringer --linecomment --type Kind --output token_string.go

import "strconv"

// Kind classifies a [Token].
type Kind int

const (
	KindWhitespace  Kind = iota // whitespace
	KindComment                 // comment
	KindNumber                  // number
	KindString                  // string
	KindTemplate                // template
	KindIdentifier              // identifier
	KindKeyword                 // keyword
	KindBoolean                 // boolean
	KindOperator                // operator
	KindPunctuation             // punctuation
	KindUnknown                 // unknown
	KindEOF                     // eof
)

// Token is one lexeme of source text. Text is the exact source slice, so
// concatenating the Text of every token reproduces the input.
type Token struct {
	ID   int
	Kind Kind
	Text string
	Line int
	Col  int
}

// Trivia reports whether the token is whitespace or a comment.
func (t Token) Trivia() bool {
	return t.Kind == KindWhitespace || t.Kind == KindComment
}

// Is reports whether the token is an operator, punctuation or keyword with
// the given text.
func (t Token) Is(text string) bool {
	switch t.Kind {
	case KindOperator, KindPunctuation, KindKeyword:
		return t.Text == text
	}

	return false
}

func (t Token) String() string {
	if t.Kind == KindEOF {
		return "end of input"
	}

	return strconv.Quote(t.Text)
}

var keywords = map[string]bool{
	"var": true, "let": true, "const": true, "function": true,
	"return": true, "if": true, "else": true, "while": true, "do": true,
	"for": true, "switch": true, "case": true, "default": true,
	"break": true, "continue": true, "new": true, "null": true,
	"undefined": true, "typeof": true,
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool { return keywords[name] }
