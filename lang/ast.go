package lang

// Span records where a node came from: its first line and the ordered ids of
// the significant tokens it covers. Spans exist for presentation only.
type Span struct {
	Line   int
	Tokens []int
}

// Range returns the first and last token ids of the span, or -1, -1 for an
// empty span.
func (s Span) Range() (first, last int) {
	if len(s.Tokens) == 0 {
		return -1, -1
	}

	return s.Tokens[0], s.Tokens[len(s.Tokens)-1]
}

// Text reconstructs the source covered by s, including interior trivia.
func (s Span) Text(tokens []Token) string {
	first, last := s.Range()
	if first < 0 || last >= len(tokens) {
		return ""
	}

	var text []byte
	for _, t := range tokens[first : last+1] {
		text = append(text, t.Text...)
	}

	return string(text)
}

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() Span
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Program is a parsed source file.
type Program struct {
	Body   []Stmt
	Tokens []Token
}

// Decl is the declaration kind of a binding.
type Decl int

const (
	DeclVar Decl = iota
	DeclLet
	DeclConst
	DeclParam
)

func (d Decl) String() string {
	switch d {
	case DeclLet:
		return "let"
	case DeclConst:
		return "const"
	case DeclParam:
		return "param"
	default:
		return "var"
	}
}

type (
	// Block is a braced statement list.
	Block struct {
		Span
		Body []Stmt
	}

	// VarDecl declares one or more bindings.
	VarDecl struct {
		Span
		Kind  Decl
		Decls []*Declarator
	}

	// Declarator is one name in a [VarDecl]. Init is nil when absent.
	Declarator struct {
		Span
		Name string
		Init Expr
	}

	// FuncDecl is a hoisted function declaration.
	FuncDecl struct {
		Span
		Name   string
		Params []string
		Body   *Block
	}

	// ExprStmt evaluates X for its effects.
	ExprStmt struct {
		Span
		X Expr
	}

	// If runs Then or, when present, Else.
	If struct {
		Span
		Cond Expr
		Then Stmt
		Else Stmt
	}

	// While tests Cond before each iteration.
	While struct {
		Span
		Cond Expr
		Body Stmt
	}

	// DoWhile tests Cond after each iteration.
	DoWhile struct {
		Span
		Body Stmt
		Cond Expr
	}

	// For is a three-clause loop. Any clause may be nil.
	For struct {
		Span
		Init   Stmt
		Cond   Expr
		Update Expr
		Body   Stmt
	}

	// Switch compares Disc with each case test by strict equality.
	Switch struct {
		Span
		Disc  Expr
		Cases []*Case
	}

	// Case is one clause of a [Switch]. Test is nil for the default clause.
	Case struct {
		Span
		Test Expr
		Body []Stmt
	}

	// Break leaves the innermost loop or switch.
	Break struct{ Span }

	// Continue starts the next iteration of the innermost loop.
	Continue struct{ Span }

	// Return leaves the current function. Value is nil for a bare return.
	Return struct {
		Span
		Value Expr
	}

	// Empty is a lone semicolon.
	Empty struct{ Span }
)

type (
	// NumberLit is a numeric literal.
	NumberLit struct {
		Span
		Value float64
	}

	// StringLit is a quoted string with escapes decoded.
	StringLit struct {
		Span
		Value string
	}

	// TemplateLit holds the raw text between the back quotes. Substitutions
	// are parsed when the literal is evaluated.
	TemplateLit struct {
		Span
		Raw string
	}

	// BoolLit is true or false.
	BoolLit struct {
		Span
		Value bool
	}

	// NullLit is null.
	NullLit struct{ Span }

	// UndefinedLit is undefined.
	UndefinedLit struct{ Span }

	// Ident is a name reference. The console and Math namespaces are fused
	// into a single dotted name such as "console.log".
	Ident struct {
		Span
		Name string
	}

	// ArrayLit is a bracketed element list.
	ArrayLit struct {
		Span
		Elems []Expr
	}

	// ObjectLit is a braced property list.
	ObjectLit struct {
		Span
		Props []*Property
	}

	// Property is one key/value pair of an [ObjectLit].
	Property struct {
		Span
		Key   string
		Value Expr
	}

	// Unary is a prefix !, -, + or typeof.
	Unary struct {
		Span
		Op string
		X  Expr
	}

	// Binary is an arithmetic, relational or equality operation.
	Binary struct {
		Span
		Op string
		L  Expr
		R  Expr
	}

	// Logical is a short-circuiting && or ||.
	Logical struct {
		Span
		Op string
		L  Expr
		R  Expr
	}

	// Conditional is the ternary Cond ? Then : Else.
	Conditional struct {
		Span
		Cond Expr
		Then Expr
		Else Expr
	}

	// Update is ++ or -- applied to an identifier or member.
	Update struct {
		Span
		Op     string
		Prefix bool
		Target Expr
	}

	// Assign stores Value into Target. Compound operators are desugared so
	// Value already contains the binary operation; Op keeps the operator as
	// written.
	Assign struct {
		Span
		Op     string
		Target Expr
		Value  Expr
	}

	// Member is a property access. Computed accesses use Index, the others
	// use Name.
	Member struct {
		Span
		Object   Expr
		Name     string
		Index    Expr
		Computed bool
	}

	// Call invokes Callee with Args.
	Call struct {
		Span
		Callee Expr
		Args   []Expr
	}

	// NewExpr is new Array(...), the only supported constructor.
	NewExpr struct {
		Span
		Callee *Ident
		Args   []Expr
	}

	// FuncExpr is a function expression. Name may be empty.
	FuncExpr struct {
		Span
		Name   string
		Params []string
		Body   *Block
	}

	// Arrow is an arrow function. Exactly one of Body and Expr is set.
	// ParamErr is non-empty when the parameter list was malformed.
	Arrow struct {
		Span
		Params   []string
		Body     *Block
		Expr     Expr
		ParamErr string
	}

	// Paren is a parenthesized expression list. It only survives parsing
	// with a single element, or as the candidate parameter list of an arrow.
	Paren struct {
		Span
		List []Expr
	}
)

func (s Span) Pos() Span { return s }

func (*Block) stmtNode()    {}
func (*VarDecl) stmtNode()  {}
func (*FuncDecl) stmtNode() {}
func (*ExprStmt) stmtNode() {}
func (*If) stmtNode()       {}
func (*While) stmtNode()    {}
func (*DoWhile) stmtNode()  {}
func (*For) stmtNode()      {}
func (*Switch) stmtNode()   {}
func (*Break) stmtNode()    {}
func (*Continue) stmtNode() {}
func (*Return) stmtNode()   {}
func (*Empty) stmtNode()    {}

func (*NumberLit) exprNode()    {}
func (*StringLit) exprNode()    {}
func (*TemplateLit) exprNode()  {}
func (*BoolLit) exprNode()      {}
func (*NullLit) exprNode()      {}
func (*UndefinedLit) exprNode() {}
func (*Ident) exprNode()        {}
func (*ArrayLit) exprNode()     {}
func (*ObjectLit) exprNode()    {}
func (*Unary) exprNode()        {}
func (*Binary) exprNode()       {}
func (*Logical) exprNode()      {}
func (*Conditional) exprNode()  {}
func (*Update) exprNode()       {}
func (*Assign) exprNode()       {}
func (*Member) exprNode()       {}
func (*Call) exprNode()         {}
func (*NewExpr) exprNode()      {}
func (*FuncExpr) exprNode()     {}
func (*Arrow) exprNode()        {}
func (*Paren) exprNode()        {}
