package lang

import (
	"context"
	"errors"
	"strings"
)

// template interpolates the raw text of a template literal. Each ${...}
// segment is lexed, parsed and evaluated when it is reached, left to right.
func (in *Interpreter) template(ctx context.Context, raw string) (Value, error) {
	var (
		b    strings.Builder
		text strings.Builder
	)

	flush := func() {
		b.WriteString(unescape(text.String()))
		text.Reset()
	}

	for i := 0; i < len(raw); i++ {
		switch {
		case raw[i] == '\\' && i+1 < len(raw):
			if raw[i+1] == '$' {
				text.WriteByte('$')
			} else {
				text.WriteString(raw[i : i+2])
			}

			i++
		case strings.HasPrefix(raw[i:], "${"):
			end, ok := segmentEnd(raw, i+2)
			if !ok {
				return nil, newRuntimeError(SyntaxError, ErrInvalidArg,
					"Unterminated template literal substitution")
			}

			flush()

			v, err := in.interpolate(ctx, raw[i+2:end])
			if err != nil {
				return nil, err
			}

			b.WriteString(ToString(v))

			i = end
		default:
			text.WriteByte(raw[i])
		}
	}

	flush()

	return String(b.String()), nil
}

// segmentEnd returns the index of the brace closing a substitution that
// starts at i.
func segmentEnd(raw string, i int) (int, bool) {
	depth := 1

	for ; i < len(raw); i++ {
		switch c := raw[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		case '"', '\'', '`':
			for i++; i < len(raw) && raw[i] != c; i++ {
				if raw[i] == '\\' {
					i++
				}
			}
		}
	}

	return 0, false
}

func (in *Interpreter) interpolate(ctx context.Context, src string) (Value, error) {
	tokens := Tokenize(src)

	x, err := ParseExpression(tokens)
	if err != nil {
		msg := err.Error()

		var perr *ParseError
		if errors.As(err, &perr) {
			msg = "expected " + perr.Expected + " but found " + perr.Found
		}

		return nil, newRuntimeError(SyntaxError, ErrInvalidArg,
			"Invalid template substitution ${"+src+"}: "+msg)
	}

	saved := in.tokens
	in.tokens = tokens
	in.quiet++

	defer func() {
		in.tokens = saved
		in.quiet--
	}()

	return in.eval(ctx, x)
}
