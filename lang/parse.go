package lang

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// ParseString tokenizes and parses source.
func ParseString(source string) (*Program, error) {
	return Parse(Tokenize(source))
}

// Parse builds a [Program] from a token stream produced by [Tokenize].
// Trivia tokens are skipped. Parsing stops at the first error, which is
// always a [*ParseError].
func Parse(tokens []Token) (*Program, error) {
	p := newParser(tokens)
	prog := &Program{Tokens: tokens}

	for p.peek().Kind != KindEOF {
		s, err := p.statement()
		if err != nil {
			return nil, err
		}

		prog.Body = append(prog.Body, s)
	}

	return prog, nil
}

// ParseExpression parses a token stream holding exactly one expression.
func ParseExpression(tokens []Token) (Expr, error) {
	p := newParser(tokens)

	x, err := p.expression()
	if err != nil {
		return nil, err
	}

	if p.peek().Kind != KindEOF {
		return nil, p.fail("end of expression")
	}

	return x, nil
}

func newParser(tokens []Token) *parser {
	p := &parser{all: tokens}

	for _, t := range tokens {
		if !t.Trivia() {
			p.toks = append(p.toks, t)
		}
	}

	if n := len(p.toks); n == 0 || p.toks[n-1].Kind != KindEOF {
		line := 1
		if len(tokens) > 0 {
			last := tokens[len(tokens)-1]
			line = last.Line + strings.Count(last.Text, "\n")
		}

		p.toks = append(p.toks, Token{ID: len(tokens), Kind: KindEOF, Line: line})
	}

	return p
}

type parser struct {
	all  []Token
	toks []Token
	pos  int
}

var assignOps = map[string]string{
	"=": "", "+=": "+", "-=": "-", "*=": "*", "/=": "/", "%=": "%",
}

func (p *parser) peek() Token { return p.toks[p.pos] }

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if t.Kind != KindEOF {
		p.pos++
	}

	return t
}

func (p *parser) is(text string) bool { return p.peek().Is(text) }

func (p *parser) accept(text string) bool {
	if p.is(text) {
		p.advance()

		return true
	}

	return false
}

func (p *parser) expect(text string) (Token, error) {
	if !p.is(text) {
		return Token{}, p.fail(strconv.Quote(text))
	}

	return p.advance(), nil
}

func (p *parser) ident() (Token, error) {
	if p.peek().Kind != KindIdentifier {
		return Token{}, p.fail("identifier")
	}

	return p.advance(), nil
}

// fail reports that the current token is not what was expected.
func (p *parser) fail(expected string) error {
	t := p.peek()

	var src strings.Builder
	for _, tok := range p.all {
		src.WriteString(tok.Text)
	}

	return &ParseError{
		Line:     t.Line,
		Column:   t.Col,
		Expected: expected,
		Found:    t.String(),
		Source:   src.String(),
	}
}

// span covers the significant tokens consumed since start.
func (p *parser) span(start int) Span {
	end := p.pos
	if end <= start {
		end = start + 1
	}

	ids := make([]int, 0, end-start)
	for _, t := range p.toks[start:end] {
		ids = append(ids, t.ID)
	}

	return Span{Line: p.toks[start].Line, Tokens: ids}
}

// newlineBefore reports whether a line break separates the current token from
// the previous one.
func (p *parser) newlineBefore() bool {
	if p.pos == 0 {
		return false
	}

	prev := p.toks[p.pos-1]

	return p.peek().Line > prev.Line+strings.Count(prev.Text, "\n")
}

// semicolon consumes a statement terminator. It may be omitted before a
// closing brace, the end of input, or a line break.
func (p *parser) semicolon() error {
	if p.accept(";") || p.is("}") || p.peek().Kind == KindEOF || p.newlineBefore() {
		return nil
	}

	return p.fail(`";"`)
}

func (p *parser) statement() (Stmt, error) {
	start := p.pos
	t := p.peek()

	if t.Kind == KindPunctuation {
		switch t.Text {
		case "{":
			return p.block()
		case ";":
			p.advance()

			return &Empty{Span: p.span(start)}, nil
		}
	}

	if t.Kind == KindKeyword {
		switch t.Text {
		case "var", "let", "const":
			d, err := p.varDecl()
			if err != nil {
				return nil, err
			}

			if err := p.semicolon(); err != nil {
				return nil, err
			}

			d.Span = p.span(start)

			return d, nil

		case "function":
			return p.funcDecl()
		case "if":
			return p.ifStmt()
		case "while":
			return p.whileStmt()
		case "do":
			return p.doWhileStmt()
		case "for":
			return p.forStmt()
		case "switch":
			return p.switchStmt()

		case "break", "continue":
			p.advance()

			if err := p.semicolon(); err != nil {
				return nil, err
			}

			if t.Text == "break" {
				return &Break{Span: p.span(start)}, nil
			}

			return &Continue{Span: p.span(start)}, nil

		case "return":
			p.advance()

			r := &Return{}
			if !p.is(";") && !p.is("}") && p.peek().Kind != KindEOF && !p.newlineBefore() {
				x, err := p.expression()
				if err != nil {
					return nil, err
				}

				r.Value = x
			}

			if err := p.semicolon(); err != nil {
				return nil, err
			}

			r.Span = p.span(start)

			return r, nil
		}
	}

	x, err := p.expression()
	if err != nil {
		return nil, err
	}

	if err := p.semicolon(); err != nil {
		return nil, err
	}

	return &ExprStmt{Span: p.span(start), X: x}, nil
}

func (p *parser) block() (*Block, error) {
	start := p.pos
	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	b := &Block{}

	for !p.is("}") {
		if p.peek().Kind == KindEOF {
			return nil, p.fail(`"}"`)
		}

		s, err := p.statement()
		if err != nil {
			return nil, err
		}

		b.Body = append(b.Body, s)
	}

	p.advance()
	b.Span = p.span(start)

	return b, nil
}

func (p *parser) varDecl() (*VarDecl, error) {
	start := p.pos
	d := &VarDecl{}

	switch p.advance().Text {
	case "let":
		d.Kind = DeclLet
	case "const":
		d.Kind = DeclConst
	default:
		d.Kind = DeclVar
	}

	for {
		dstart := p.pos

		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		decl := &Declarator{Name: name.Text}

		if p.accept("=") {
			decl.Init, err = p.assignment()
			if err != nil {
				return nil, err
			}
		} else if d.Kind == DeclConst {
			return nil, p.fail(`"="`)
		}

		decl.Span = p.span(dstart)
		d.Decls = append(d.Decls, decl)

		if !p.accept(",") {
			break
		}
	}

	d.Span = p.span(start)

	return d, nil
}

func (p *parser) params() ([]string, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	var names []string

	for !p.accept(")") {
		if len(names) > 0 {
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}

		name, err := p.ident()
		if err != nil {
			return nil, err
		}

		names = append(names, name.Text)
	}

	return names, nil
}

func (p *parser) funcDecl() (Stmt, error) {
	start := p.pos
	p.advance()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	params, err := p.params()
	if err != nil {
		return nil, err
	}

	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{
		Span:   p.span(start),
		Name:   name.Text,
		Params: params,
		Body:   body,
	}, nil
}

// condition parses a parenthesized expression.
func (p *parser) condition() (Expr, error) {
	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	x, err := p.expression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	return x, nil
}

func (p *parser) ifStmt() (Stmt, error) {
	start := p.pos
	p.advance()

	cond, err := p.condition()
	if err != nil {
		return nil, err
	}

	then, err := p.statement()
	if err != nil {
		return nil, err
	}

	s := &If{Cond: cond, Then: then}

	if p.accept("else") {
		s.Else, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	s.Span = p.span(start)

	return s, nil
}

func (p *parser) whileStmt() (Stmt, error) {
	start := p.pos
	p.advance()

	cond, err := p.condition()
	if err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	return &While{Span: p.span(start), Cond: cond, Body: body}, nil
}

func (p *parser) doWhileStmt() (Stmt, error) {
	start := p.pos
	p.advance()

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect("while"); err != nil {
		return nil, err
	}

	cond, err := p.condition()
	if err != nil {
		return nil, err
	}

	p.accept(";")

	return &DoWhile{Span: p.span(start), Body: body, Cond: cond}, nil
}

func (p *parser) forStmt() (Stmt, error) {
	start := p.pos
	p.advance()

	if _, err := p.expect("("); err != nil {
		return nil, err
	}

	s := &For{}

	switch {
	case p.is(";"):
	case p.is("var") || p.is("let") || p.is("const"):
		d, err := p.varDecl()
		if err != nil {
			return nil, err
		}

		s.Init = d

	default:
		istart := p.pos

		x, err := p.expression()
		if err != nil {
			return nil, err
		}

		s.Init = &ExprStmt{Span: p.span(istart), X: x}
	}

	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	if !p.is(";") {
		cond, err := p.expression()
		if err != nil {
			return nil, err
		}

		s.Cond = cond
	}

	if _, err := p.expect(";"); err != nil {
		return nil, err
	}

	if !p.is(")") {
		update, err := p.expression()
		if err != nil {
			return nil, err
		}

		s.Update = update
	}

	if _, err := p.expect(")"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	s.Body = body
	s.Span = p.span(start)

	return s, nil
}

func (p *parser) switchStmt() (Stmt, error) {
	start := p.pos
	p.advance()

	disc, err := p.condition()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect("{"); err != nil {
		return nil, err
	}

	s := &Switch{Disc: disc}

	for !p.accept("}") {
		cstart := p.pos
		c := &Case{}

		switch {
		case p.accept("case"):
			c.Test, err = p.expression()
			if err != nil {
				return nil, err
			}

		case p.accept("default"):

		default:
			return nil, p.fail(`"case" or "default"`)
		}

		if _, err := p.expect(":"); err != nil {
			return nil, err
		}

		for !p.is("case") && !p.is("default") && !p.is("}") {
			if p.peek().Kind == KindEOF {
				return nil, p.fail(`"}"`)
			}

			stmt, err := p.statement()
			if err != nil {
				return nil, err
			}

			c.Body = append(c.Body, stmt)
		}

		c.Span = p.span(cstart)
		s.Cases = append(s.Cases, c)
	}

	s.Span = p.span(start)

	return s, nil
}

func (p *parser) expression() (Expr, error) { return p.assignment() }

func (p *parser) assignment() (Expr, error) {
	start := p.pos

	left, err := p.conditional()
	if err != nil {
		return nil, err
	}

	if p.is("=>") {
		return p.arrow(start, left)
	}

	op := p.peek()

	binop, ok := assignOps[op.Text]
	if !ok || op.Kind != KindOperator {
		return left, nil
	}

	if !assignable(left) {
		return nil, p.fail("end of expression")
	}

	p.advance()

	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	if binop != "" {
		target := left.Pos()
		value = &Binary{
			Span: Span{Line: target.Line, Tokens: append([]int(nil), target.Tokens...)},
			Op:   binop,
			L:    left,
			R:    value,
		}
	}

	return &Assign{Span: p.span(start), Op: op.Text, Target: left, Value: value}, nil
}

func assignable(x Expr) bool {
	switch x := x.(type) {
	case *Ident:
		return true
	case *Member:
		return true
	case *Paren:
		return len(x.List) == 1 && assignable(x.List[0])
	}

	return false
}

// arrow reinterprets an already parsed expression as the parameter list of an
// arrow function. A malformed list is recorded on the node rather than
// rejected here.
func (p *parser) arrow(start int, head Expr) (Expr, error) {
	params, perr := arrowParams(head)

	p.advance()

	fn := &Arrow{Params: params, ParamErr: perr}

	var err error
	if p.is("{") {
		fn.Body, err = p.block()
	} else {
		fn.Expr, err = p.assignment()
	}

	if err != nil {
		return nil, err
	}

	fn.Span = p.span(start)

	return fn, nil
}

func arrowParams(head Expr) ([]string, string) {
	var list []Expr

	switch h := head.(type) {
	case *Ident:
		list = []Expr{h}
	case *Paren:
		list = h.List
	default:
		return nil, "Malformed arrow function parameter list"
	}

	names := make([]string, 0, len(list))

	for _, x := range list {
		id, ok := x.(*Ident)
		if !ok || strings.Contains(id.Name, ".") {
			return nil, "Malformed arrow function parameter list"
		}

		names = append(names, id.Name)
	}

	return names, ""
}

func (p *parser) conditional() (Expr, error) {
	start := p.pos

	cond, err := p.logicalOr()
	if err != nil || !p.accept("?") {
		return cond, err
	}

	then, err := p.assignment()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(":"); err != nil {
		return nil, err
	}

	els, err := p.assignment()
	if err != nil {
		return nil, err
	}

	return &Conditional{Span: p.span(start), Cond: cond, Then: then, Else: els}, nil
}

func (p *parser) logicalOr() (Expr, error) {
	start := p.pos

	left, err := p.logicalAnd()
	if err != nil {
		return nil, err
	}

	for p.is("||") {
		p.advance()

		right, err := p.logicalAnd()
		if err != nil {
			return nil, err
		}

		left = &Logical{Span: p.span(start), Op: "||", L: left, R: right}
	}

	return left, nil
}

func (p *parser) logicalAnd() (Expr, error) {
	start := p.pos

	left, err := p.binary(0)
	if err != nil {
		return nil, err
	}

	for p.is("&&") {
		p.advance()

		right, err := p.binary(0)
		if err != nil {
			return nil, err
		}

		left = &Logical{Span: p.span(start), Op: "&&", L: left, R: right}
	}

	return left, nil
}

// binaryLevels lists the left-associative operators from loosest to
// tightest binding.
var binaryLevels = [][]string{
	{"==", "!=", "===", "!=="},
	{"<", ">", "<=", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

func (p *parser) binary(level int) (Expr, error) {
	if level == len(binaryLevels) {
		return p.unary()
	}

	start := p.pos

	left, err := p.binary(level + 1)
	if err != nil {
		return nil, err
	}

	for {
		t := p.peek()
		if t.Kind != KindOperator || !contains(binaryLevels[level], t.Text) {
			return left, nil
		}

		p.advance()

		right, err := p.binary(level + 1)
		if err != nil {
			return nil, err
		}

		left = &Binary{Span: p.span(start), Op: t.Text, L: left, R: right}
	}
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}

	return false
}

func (p *parser) unary() (Expr, error) {
	start := p.pos
	t := p.peek()

	switch {
	case t.Is("!"), t.Is("-"), t.Is("+"), t.Is("typeof"):
		p.advance()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &Unary{Span: p.span(start), Op: t.Text, X: x}, nil

	case t.Is("++"), t.Is("--"):
		p.advance()

		x, err := p.unary()
		if err != nil {
			return nil, err
		}

		if !assignable(x) {
			return nil, p.fail("assignable operand")
		}

		return &Update{Span: p.span(start), Op: t.Text, Prefix: true, Target: x}, nil
	}

	x, err := p.callMember()
	if err != nil {
		return nil, err
	}

	if (p.is("++") || p.is("--")) && !p.newlineBefore() {
		if !assignable(x) {
			return nil, p.fail("end of expression")
		}

		op := p.advance()

		return &Update{Span: p.span(start), Op: op.Text, Target: x}, nil
	}

	return x, nil
}

func (p *parser) callMember() (Expr, error) {
	start := p.pos

	x, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.accept("."):
			name := p.peek()
			if name.Kind != KindIdentifier && name.Kind != KindKeyword && name.Kind != KindBoolean {
				return nil, p.fail("property name")
			}

			p.advance()

			if id, ok := x.(*Ident); ok && (id.Name == "console" || id.Name == "Math") {
				x = &Ident{Span: p.span(start), Name: id.Name + "." + name.Text}

				continue
			}

			x = &Member{Span: p.span(start), Object: x, Name: name.Text}

		case p.accept("["):
			index, err := p.expression()
			if err != nil {
				return nil, err
			}

			if _, err := p.expect("]"); err != nil {
				return nil, err
			}

			x = &Member{Span: p.span(start), Object: x, Index: index, Computed: true}

		case p.is("("):
			args, err := p.arguments()
			if err != nil {
				return nil, err
			}

			x = &Call{Span: p.span(start), Callee: x, Args: args}

		default:
			return x, nil
		}
	}
}

func (p *parser) arguments() ([]Expr, error) {
	return p.list("(", ")")
}

// list parses a comma separated expression list between open and close. A
// trailing comma is allowed.
func (p *parser) list(open, close string) ([]Expr, error) {
	if _, err := p.expect(open); err != nil {
		return nil, err
	}

	var xs []Expr

	for !p.accept(close) {
		x, err := p.assignment()
		if err != nil {
			return nil, err
		}

		xs = append(xs, x)

		if !p.accept(",") && !p.is(close) {
			return nil, p.fail(strconv.Quote(close))
		}
	}

	return xs, nil
}

func (p *parser) primary() (Expr, error) {
	start := p.pos
	t := p.peek()

	switch t.Kind {
	case KindNumber:
		p.advance()

		v, err := strconv.ParseFloat(t.Text, 64)
		if err != nil {
			p.pos--

			return nil, p.fail("number")
		}

		return &NumberLit{Span: p.span(start), Value: v}, nil

	case KindString:
		p.advance()

		return &StringLit{Span: p.span(start), Value: unescape(t.Text[1 : len(t.Text)-1])}, nil

	case KindTemplate:
		p.advance()

		return &TemplateLit{Span: p.span(start), Raw: t.Text[1 : len(t.Text)-1]}, nil

	case KindBoolean:
		p.advance()

		return &BoolLit{Span: p.span(start), Value: t.Text == "true"}, nil

	case KindIdentifier:
		p.advance()

		return &Ident{Span: p.span(start), Name: t.Text}, nil

	case KindKeyword:
		switch t.Text {
		case "null":
			p.advance()

			return &NullLit{Span: p.span(start)}, nil

		case "undefined":
			p.advance()

			return &UndefinedLit{Span: p.span(start)}, nil

		case "function":
			return p.funcExpr()

		case "new":
			return p.newExpr()
		}

	case KindPunctuation:
		switch t.Text {
		case "(":
			return p.paren()
		case "[":
			elems, err := p.list("[", "]")
			if err != nil {
				return nil, err
			}

			return &ArrayLit{Span: p.span(start), Elems: elems}, nil

		case "{":
			return p.object()
		}
	}

	return nil, p.fail("expression")
}

func (p *parser) paren() (Expr, error) {
	start := p.pos

	list, err := p.list("(", ")")
	if err != nil {
		return nil, err
	}

	if len(list) != 1 && !p.is("=>") {
		return nil, p.fail(`"=>"`)
	}

	return &Paren{Span: p.span(start), List: list}, nil
}

func (p *parser) funcExpr() (Expr, error) {
	start := p.pos
	p.advance()

	fn := &FuncExpr{}
	if p.peek().Kind == KindIdentifier {
		fn.Name = p.advance().Text
	}

	var err error

	fn.Params, err = p.params()
	if err != nil {
		return nil, err
	}

	fn.Body, err = p.block()
	if err != nil {
		return nil, err
	}

	fn.Span = p.span(start)

	return fn, nil
}

func (p *parser) newExpr() (Expr, error) {
	start := p.pos
	p.advance()

	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	callee := &Ident{Span: p.span(start + 1), Name: name.Text}

	var args []Expr
	if p.is("(") {
		args, err = p.arguments()
		if err != nil {
			return nil, err
		}
	}

	return &NewExpr{Span: p.span(start), Callee: callee, Args: args}, nil
}

func (p *parser) object() (Expr, error) {
	start := p.pos
	p.advance()

	obj := &ObjectLit{}

	for !p.accept("}") {
		pstart := p.pos
		key := p.peek()

		var name string

		switch key.Kind {
		case KindIdentifier, KindKeyword, KindBoolean, KindNumber:
			name = key.Text
		case KindString:
			name = unescape(key.Text[1 : len(key.Text)-1])
		default:
			return nil, p.fail("property name")
		}

		p.advance()

		prop := &Property{Key: name}

		if p.accept(":") {
			value, err := p.assignment()
			if err != nil {
				return nil, err
			}

			prop.Value = value
		} else if key.Kind == KindIdentifier {
			prop.Value = &Ident{Span: p.span(pstart), Name: name}
		} else {
			return nil, p.fail(`":"`)
		}

		prop.Span = p.span(pstart)
		obj.Props = append(obj.Props, prop)

		if !p.accept(",") && !p.is("}") {
			return nil, p.fail(`"}"`)
		}
	}

	obj.Span = p.span(start)

	return obj, nil
}

// unescape decodes backslash escapes in a string literal body.
func unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)

			continue
		}

		i++

		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
		case 'x', 'u':
			n := 2
			if e == 'u' {
				n = 4
			}

			if i+n < len(s) {
				if code, err := strconv.ParseUint(s[i+1:i+1+n], 16, 32); err == nil {
					b.WriteRune(rune(code))
					i += n

					continue
				}
			}

			b.WriteByte(e)
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			b.WriteRune(r)
			i += size - 1
		}
	}

	return b.String()
}
