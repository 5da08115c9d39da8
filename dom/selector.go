package dom

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// Selector is a parsed selector group. An element matches when any member
// of the group matches.
type Selector struct {
	source string
	group  []complexSelector
}

// complexSelector is a chain of compounds. combinators[i] joins
// compounds[i] and compounds[i+1].
type complexSelector struct {
	compounds   []compound
	combinators []byte
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrConstraint
	pseudos []pseudoClass
}

type attrConstraint struct {
	name  string
	op    string
	value string
}

type pseudoClass struct {
	name string
	a, b int
	not  *Selector
}

const (
	combDescendant = ' '
	combChild      = '>'
	combAdjacent   = '+'
	combSibling    = '~'
)

var simplePseudo = map[string]bool{
	"first-child": true, "last-child": true, "only-child": true,
	"first-of-type": true, "last-of-type": true, "only-of-type": true,
	"empty": true, "root": true,
}

var nthPseudo = map[string]bool{
	"nth-child": true, "nth-last-child": true,
	"nth-of-type": true, "nth-last-of-type": true,
}

func (s *Selector) String() string { return s.source }

// ParseSelector parses a selector group.
func ParseSelector(src string) (*Selector, error) {
	toks, err := scanSelector(src)
	if err != nil {
		return nil, err
	}

	p := &selectorParser{src: src, toks: toks}

	sel, err := p.group()
	if err != nil {
		return nil, err
	}

	return sel, nil
}

func scanSelector(src string) ([]*scanner.Token, error) {
	var toks []*scanner.Token

	s := scanner.New(src)

	for {
		t := s.Next()

		switch t.Type {
		case scanner.TokenEOF:
			return append(toks, t), nil
		case scanner.TokenError:
			return nil, ErrInvalidSelector.Wrapf("%q: %s", src, t.Value)
		case scanner.TokenComment:
		default:
			toks = append(toks, t)
		}
	}
}

type selectorParser struct {
	src  string
	toks []*scanner.Token
	pos  int
}

func (p *selectorParser) peek() *scanner.Token { return p.toks[p.pos] }

func (p *selectorParser) next() *scanner.Token {
	t := p.toks[p.pos]
	if t.Type != scanner.TokenEOF {
		p.pos++
	}

	return t
}

func (p *selectorParser) isChar(c string) bool {
	t := p.peek()

	return t.Type == scanner.TokenChar && t.Value == c
}

func (p *selectorParser) skipSpace() bool {
	skipped := false

	for p.peek().Type == scanner.TokenS {
		p.next()

		skipped = true
	}

	return skipped
}

func (p *selectorParser) errorf(format string, args ...any) error {
	t := p.peek()
	found := t.Value

	if t.Type == scanner.TokenEOF {
		found = "end of selector"
	}

	return ErrInvalidSelector.Wrapf("%q: %s near %q (column %d)",
		p.src, fmt.Sprintf(format, args...), found, t.Column)
}

func (p *selectorParser) group() (*Selector, error) {
	sel := &Selector{source: strings.TrimSpace(p.src)}

	for {
		p.skipSpace()

		c, err := p.complex()
		if err != nil {
			return nil, err
		}

		sel.group = append(sel.group, c)

		p.skipSpace()

		switch {
		case p.isChar(","):
			p.next()
		case p.peek().Type == scanner.TokenEOF:
			return sel, nil
		default:
			return nil, p.errorf("unexpected token")
		}
	}
}

func (p *selectorParser) complex() (complexSelector, error) {
	var c complexSelector

	first, err := p.compound()
	if err != nil {
		return c, err
	}

	c.compounds = append(c.compounds, first)

	for {
		mark := p.pos
		spaced := p.skipSpace()

		var comb byte

		switch {
		case p.isChar(">"), p.isChar("+"), p.isChar("~"):
			comb = p.next().Value[0]
			p.skipSpace()
		case spaced && p.startsCompound():
			comb = combDescendant
		default:
			p.pos = mark

			return c, nil
		}

		next, err := p.compound()
		if err != nil {
			return c, err
		}

		c.combinators = append(c.combinators, comb)
		c.compounds = append(c.compounds, next)
	}
}

func (p *selectorParser) startsCompound() bool {
	t := p.peek()

	switch t.Type {
	case scanner.TokenIdent, scanner.TokenHash:
		return true
	case scanner.TokenChar:
		switch t.Value {
		case "*", ".", "[", ":":
			return true
		}
	}

	return false
}

func (p *selectorParser) compound() (compound, error) {
	var c compound

	if !p.startsCompound() {
		return c, p.errorf("expected selector")
	}

	switch t := p.peek(); {
	case t.Type == scanner.TokenIdent:
		c.tag = strings.ToLower(p.next().Value)
	case p.isChar("*"):
		p.next()

		c.tag = "*"
	}

	for {
		t := p.peek()

		switch {
		case t.Type == scanner.TokenHash:
			c.id = p.next().Value[1:]
		case p.isChar("."):
			p.next()

			if p.peek().Type != scanner.TokenIdent {
				return c, p.errorf("expected class name")
			}

			c.classes = append(c.classes, p.next().Value)
		case p.isChar("["):
			a, err := p.attr()
			if err != nil {
				return c, err
			}

			c.attrs = append(c.attrs, a)
		case p.isChar(":"):
			ps, err := p.pseudo()
			if err != nil {
				return c, err
			}

			c.pseudos = append(c.pseudos, ps)
		default:
			return c, nil
		}
	}
}

func (p *selectorParser) attr() (attrConstraint, error) {
	var a attrConstraint

	p.next() // [
	p.skipSpace()

	if p.peek().Type != scanner.TokenIdent {
		return a, p.errorf("expected attribute name")
	}

	a.name = strings.ToLower(p.next().Value)

	p.skipSpace()

	switch t := p.peek(); t.Type {
	case scanner.TokenIncludes, scanner.TokenDashMatch, scanner.TokenPrefixMatch,
		scanner.TokenSuffixMatch, scanner.TokenSubstringMatch:
		a.op = p.next().Value
	case scanner.TokenChar:
		if t.Value == "=" {
			a.op = p.next().Value
		}
	}

	if a.op != "" {
		p.skipSpace()

		switch t := p.peek(); t.Type {
		case scanner.TokenIdent, scanner.TokenNumber:
			a.value = p.next().Value
		case scanner.TokenString:
			a.value = unquote(p.next().Value)
		default:
			return a, p.errorf("expected attribute value")
		}

		p.skipSpace()
	}

	if !p.isChar("]") {
		return a, p.errorf("expected ]")
	}

	p.next()

	return a, nil
}

func (p *selectorParser) pseudo() (pseudoClass, error) {
	var ps pseudoClass

	p.next() // :

	switch t := p.peek(); t.Type {
	case scanner.TokenIdent:
		ps.name = strings.ToLower(p.next().Value)
		if !simplePseudo[ps.name] {
			return ps, ErrInvalidSelector.Wrapf("%q: unsupported pseudo-class :%s",
				p.src, ps.name)
		}

		return ps, nil
	case scanner.TokenFunction:
		ps.name = strings.ToLower(strings.TrimSuffix(p.next().Value, "("))
	default:
		return ps, p.errorf("expected pseudo-class")
	}

	arg, err := p.argument()
	if err != nil {
		return ps, err
	}

	switch {
	case ps.name == "not":
		ps.not, err = ParseSelector(arg)
		if err != nil {
			return ps, err
		}
	case nthPseudo[ps.name]:
		ps.a, ps.b, err = parseNth(arg)
		if err != nil {
			return ps, ErrInvalidSelector.Wrapf("%q: :%s(%s): %w",
				p.src, ps.name, arg, err)
		}
	default:
		return ps, ErrInvalidSelector.Wrapf("%q: unsupported pseudo-class :%s()",
			p.src, ps.name)
	}

	return ps, nil
}

// argument returns the raw text up to the parenthesis closing the current
// function token.
func (p *selectorParser) argument() (string, error) {
	var b strings.Builder

	for depth := 1; ; {
		t := p.next()

		switch {
		case t.Type == scanner.TokenEOF:
			return "", p.errorf("expected )")
		case t.Type == scanner.TokenFunction, t.Type == scanner.TokenChar && t.Value == "(":
			depth++
		case t.Type == scanner.TokenChar && t.Value == ")":
			depth--
			if depth == 0 {
				return strings.TrimSpace(b.String()), nil
			}
		}

		b.WriteString(t.Value)
	}
}

// parseNth parses an+b, odd, even or an integer.
func parseNth(s string) (a, b int, err error) {
	s = strings.ToLower(strings.ReplaceAll(s, " ", ""))

	switch s {
	case "odd":
		return 2, 1, nil
	case "even":
		return 2, 0, nil
	case "":
		return 0, 0, strconv.ErrSyntax
	}

	i := strings.IndexByte(s, 'n')
	if i < 0 {
		b, err = strconv.Atoi(s)

		return 0, b, err
	}

	switch coef := s[:i]; coef {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		if a, err = strconv.Atoi(coef); err != nil {
			return 0, 0, err
		}
	}

	if rest := s[i+1:]; rest != "" {
		if rest[0] != '+' && rest[0] != '-' {
			return 0, 0, strconv.ErrSyntax
		}

		if b, err = strconv.Atoi(rest); err != nil {
			return 0, 0, err
		}
	}

	return a, b, nil
}

func unquote(s string) string {
	if len(s) >= 2 {
		s = s[1 : len(s)-1]
	}

	return strings.NewReplacer(`\"`, `"`, `\'`, `'`, `\\`, `\`).Replace(s)
}
