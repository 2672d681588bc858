package parse

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/symbol"
)

type (
	parser struct {
		toks []Token
		i    int

		tab *symbol.Table
		tr  tlog.Span
	}

	// UnexpectedError is a syntax error: the token at Loc is not what the
	// grammar allows there. Parsing aborts on the first one.
	UnexpectedError struct {
		Loc  ast.Loc
		Got  Token
		Want string
	}
)

// ParseFile reads and parses a source file into a translation unit,
// interning identifiers into tab.
func ParseFile(ctx context.Context, tab *symbol.Table, name string) (*ast.TranslationUnit, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "name", name, "size", len(text))

	return Parse(ctx, tab, text)
}

// Parse parses a translation unit: a sequence of top level functions. No
// statements are permitted outside function bodies.
func Parse(ctx context.Context, tab *symbol.Table, text []byte) (*ast.TranslationUnit, error) {
	p := newParser(ctx, tab, text)

	unit := &ast.TranslationUnit{}

	for p.peek().Kind != TokEOF {
		tl, err := p.topLevel()
		if err != nil {
			return nil, err
		}

		unit.TopLevels = append(unit.TopLevels, tl)
	}

	p.tr.Printw("parsed translation unit", "top_levels", len(unit.TopLevels))

	return unit, nil
}

// ParseExpr parses a single expression followed by end of input.
func ParseExpr(ctx context.Context, tab *symbol.Table, text []byte) (*ast.Expr, error) {
	p := newParser(ctx, tab, text)

	x, err := p.expr()
	if err != nil {
		return nil, err
	}

	if tk := p.peek(); tk.Kind != TokEOF {
		return nil, p.unexpected(tk, "end of input")
	}

	return x, nil
}

func newParser(ctx context.Context, tab *symbol.Table, text []byte) *parser {
	return &parser{
		toks: Tokenize(text, os.Stderr),
		tab:  tab,
		tr:   tlog.SpanFromContext(ctx),
	}
}

func (p *parser) peek() Token {
	return p.toks[p.i]
}

func (p *parser) next() (tk Token) {
	tk = p.toks[p.i]

	if tk.Kind != TokEOF {
		p.i++
	}

	if p.tr.If("next_token") {
		p.tr.Printw("next token", "kind", tk.Kind, "text", tk.Text, "line", tk.Loc.Line, "col", tk.Loc.Col, "from", loc.Callers(1, 3))
	}

	return tk
}

// punct consumes the given punctuation token if it is next.
func (p *parser) punct(op string) bool {
	if tk := p.peek(); tk.Kind == TokPunct && tk.Text == op {
		p.next()

		return true
	}

	return false
}

// keyword consumes the given keyword token if it is next.
func (p *parser) keyword(word string) bool {
	if tk := p.peek(); tk.Kind == TokKeyword && tk.Text == word {
		p.next()

		return true
	}

	return false
}

func (p *parser) expectPunct(op string) error {
	if !p.punct(op) {
		return p.unexpected(p.peek(), fmt.Sprintf("%q", op))
	}

	return nil
}

func (p *parser) expectIdent() (symbol.Symbol, error) {
	tk := p.peek()
	if tk.Kind != TokIdent {
		return symbol.None, p.unexpected(tk, "identifier")
	}

	p.next()

	return p.tab.Intern(tk.Text), nil
}

func (p *parser) unexpected(got Token, want string) error {
	return UnexpectedError{Loc: got.Loc, Got: got, Want: want}
}

func (e UnexpectedError) Error() string {
	got := e.Got.Text
	if e.Got.Kind == TokEOF {
		got = "end of input"
	}

	return fmt.Sprintf("%d:%d: unexpected %q, want %v", e.Loc.Line, e.Loc.Col, got, e.Want)
}

// topLevel parses `RetType name ( params ) { statements }`. The body becomes
// a statement wrapped block expression.
func (p *parser) topLevel() (*ast.TopLevel, error) {
	st := p.peek().Loc

	ret, err := p.expr()
	if err != nil {
		return nil, errors.Wrap(err, "return type")
	}

	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	params, err := p.params(")", false)
	if err != nil {
		return nil, errors.Wrap(err, "function %v", p.tab.Name(name))
	}

	bodyLoc := p.peek().Loc

	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	body, err := p.blockBody()
	if err != nil {
		return nil, errors.Wrap(err, "function %v", p.tab.Name(name))
	}

	return &ast.TopLevel{
		Loc:     st,
		Name:    name,
		RetType: ret,
		Params:  params,
		Body: &ast.Expr{
			Loc:  bodyLoc,
			Kind: ast.ExprStatement,
			Stmt: &ast.Statement{Loc: bodyLoc, Kind: ast.StmtBlock, Body: body},
		},
	}, nil
}

// params parses a comma separated parameter list up to the closing token.
// Each parameter is a type expression with an optional name; named reports
// whether names are required, as in lambdas.
func (p *parser) params(close string, named bool) (params []ast.Param, err error) {
	for !p.punct(close) {
		if len(params) != 0 {
			if err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}

		ty, err := p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "parameter %d type", len(params))
		}

		name := symbol.None

		if tk := p.peek(); tk.Kind == TokIdent {
			p.next()
			name = p.tab.Intern(tk.Text)
		} else if named {
			return nil, p.unexpected(tk, "parameter name")
		}

		params = append(params, ast.Param{Type: ty, Name: name})
	}

	return params, nil
}

// blockBody parses statements up to and including the closing brace.
func (p *parser) blockBody() (b ast.Block, err error) {
	for !p.punct("}") {
		s, err := p.statement()
		if err != nil {
			return b, err
		}

		b.Stmts = append(b.Stmts, s)
	}

	return b, nil
}

func (p *parser) statement() (*ast.Statement, error) {
	st := p.peek().Loc

	switch {
	case p.punct(";"):
		return &ast.Statement{Loc: st, Kind: ast.StmtEmpty}, nil

	case p.punct("{"):
		b, err := p.blockBody()
		if err != nil {
			return nil, err
		}

		return &ast.Statement{Loc: st, Kind: ast.StmtBlock, Body: b}, nil

	case p.keyword("return"):
		e, err := p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "return value")
		}

		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}

		return &ast.Statement{Loc: st, Kind: ast.StmtReturn, Expr: e}, nil

	case p.keyword("if"):
		return p.ifChain(st)
	}

	e, err := p.expr()
	if err != nil {
		return nil, err
	}

	if tk := p.peek(); tk.Kind == TokIdent {
		// A declaration: the expression was the type.
		p.next()
		name := p.tab.Intern(tk.Text)

		var value *ast.Expr
		if p.punct("=") {
			value, err = p.expr()
			if err != nil {
				return nil, errors.Wrap(err, "initial value of %v", tk.Text)
			}
		}

		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}

		return &ast.Statement{Loc: st, Kind: ast.StmtDecl, DeclType: e, DeclName: name, DeclValue: value}, nil
	}

	if err := p.expectPunct(";"); err != nil {
		return nil, err
	}

	return &ast.Statement{Loc: st, Kind: ast.StmtExpr, Expr: e}, nil
}

// ifChain parses `if (cond) { ... }` followed by any number of `else if`
// arms and an optional trailing `else { ... }`.
func (p *parser) ifChain(st ast.Loc) (*ast.Statement, error) {
	s := &ast.Statement{Loc: st, Kind: ast.StmtIf}

	for {
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}

		cond, err := p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "if condition")
		}

		if err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}

		then, err := p.blockBody()
		if err != nil {
			return nil, err
		}

		s.Conds = append(s.Conds, cond)
		s.Thens = append(s.Thens, then)

		if !p.keyword("else") {
			return s, nil
		}

		if p.keyword("if") {
			continue
		}

		if err := p.expectPunct("{"); err != nil {
			return nil, err
		}

		s.Else, err = p.blockBody()
		if err != nil {
			return nil, err
		}

		return s, nil
	}
}

func (p *parser) expr() (*ast.Expr, error) {
	return p.andThen()
}

// andThen parses the loosest level, the `>>` sequencing operator.
func (p *parser) andThen() (*ast.Expr, error) {
	l, err := p.comparison()
	if err != nil {
		return nil, err
	}

	for {
		st := p.peek().Loc
		if !p.punct(">>") {
			return l, nil
		}

		r, err := p.comparison()
		if err != nil {
			return nil, err
		}

		l = &ast.Expr{Loc: st, Kind: ast.ExprBinOp, Op: ast.OpAndThen, L: l, R: r}
	}
}

var comparisons = map[string]ast.BinaryOp{
	"==": ast.OpEq,
	"!=": ast.OpNe,
	"<":  ast.OpLt,
	"<=": ast.OpLe,
	">":  ast.OpGt,
	">=": ast.OpGe,
}

func (p *parser) comparison() (*ast.Expr, error) {
	l, err := p.additive()
	if err != nil {
		return nil, err
	}

	for {
		tk := p.peek()
		op, ok := comparisons[tk.Text]
		if tk.Kind != TokPunct || !ok {
			return l, nil
		}

		p.next()

		r, err := p.additive()
		if err != nil {
			return nil, err
		}

		l = &ast.Expr{Loc: tk.Loc, Kind: ast.ExprBinOp, Op: op, L: l, R: r}
	}
}

func (p *parser) additive() (*ast.Expr, error) {
	l, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		tk := p.peek()
		if tk.Kind != TokPunct || tk.Text != "+" && tk.Text != "-" {
			return l, nil
		}

		p.next()

		op := ast.OpAdd
		if tk.Text == "-" {
			op = ast.OpSub
		}

		r, err := p.unary()
		if err != nil {
			return nil, err
		}

		l = &ast.Expr{Loc: tk.Loc, Kind: ast.ExprBinOp, Op: op, L: l, R: r}
	}
}

func (p *parser) unary() (*ast.Expr, error) {
	st := p.peek().Loc

	switch {
	case p.punct("&"):
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Loc: st, Kind: ast.ExprReference, Inner: inner}, nil

	case p.punct("*"):
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Loc: st, Kind: ast.ExprDereference, Inner: inner}, nil

	case p.punct(`\`):
		return p.lambda(st)
	}

	return p.postfix()
}

// lambda parses `\(T0 x0, T1 x1, ...) -> body` after the leading backslash.
func (p *parser) lambda(st ast.Loc) (*ast.Expr, error) {
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	params, err := p.params(")", true)
	if err != nil {
		return nil, errors.Wrap(err, "lambda parameters")
	}

	if err := p.expectPunct("->"); err != nil {
		return nil, err
	}

	body, err := p.expr()
	if err != nil {
		return nil, errors.Wrap(err, "lambda body")
	}

	return &ast.Expr{Loc: st, Kind: ast.ExprLambda, Params: params, Body: body}, nil
}

// postfix parses an atom followed by call arguments, function type
// parameters, member selections and pointer markers.
func (p *parser) postfix() (*ast.Expr, error) {
	x, err := p.atom()
	if err != nil {
		return nil, err
	}

	for {
		st := p.peek().Loc

		switch {
		case p.punct("("):
			var args []*ast.Expr

			for !p.punct(")") {
				if len(args) != 0 {
					if err := p.expectPunct(","); err != nil {
						return nil, err
					}
				}

				a, err := p.expr()
				if err != nil {
					return nil, errors.Wrap(err, "argument %d", len(args))
				}

				args = append(args, a)
			}

			x = &ast.Expr{Loc: st, Kind: ast.ExprCall, Callee: x, Args: args}

		case p.punct("["):
			params, err := p.params("]", false)
			if err != nil {
				return nil, errors.Wrap(err, "function type parameters")
			}

			x = &ast.Expr{Loc: st, Kind: ast.ExprFuncType, Ret: x, Params: params}

		case p.punct("."):
			field, err := p.expectIdent()
			if err != nil {
				return nil, err
			}

			x = &ast.Expr{Loc: st, Kind: ast.ExprMember, Record: x, Member: field}

		case p.punct("*"):
			x = &ast.Expr{Loc: st, Kind: ast.ExprPointer, Inner: x}

		default:
			return x, nil
		}
	}
}

var literals = map[string]ast.LiteralKind{
	"type": ast.LitType,
	"void": ast.LitVoid,
	"u8":   ast.LitU8,
	"s8":   ast.LitS8,
	"u16":  ast.LitU16,
	"s16":  ast.LitS16,
	"u32":  ast.LitU32,
	"s32":  ast.LitS32,
	"u64":  ast.LitU64,
	"s64":  ast.LitS64,
	"bool": ast.LitBool,
}

func (p *parser) atom() (*ast.Expr, error) {
	tk := p.peek()
	st := tk.Loc

	switch tk.Kind {
	case TokNumber:
		p.next()

		v, err := strconv.ParseUint(tk.Text, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "at %d:%d: integral literal", st.Line, st.Col)
		}

		x := ast.Integral(v)
		x.Loc = st

		return x, nil

	case TokIdent:
		p.next()

		x := ast.Ident(p.tab.Intern(tk.Text))
		x.Loc = st

		return x, nil

	case TokKeyword:
		if k, ok := literals[tk.Text]; ok {
			p.next()

			x := ast.Lit(k)
			x.Loc = st

			return x, nil
		}

		switch tk.Text {
		case "true", "false":
			p.next()

			x := ast.Boolean(tk.Text == "true")
			x.Loc = st

			return x, nil

		case "struct", "union":
			p.next()

			return p.record(st, tk.Text)
		}

	case TokPunct:
		switch tk.Text {
		case "(":
			p.next()

			x, err := p.expr()
			if err != nil {
				return nil, err
			}

			if err := p.expectPunct(")"); err != nil {
				return nil, err
			}

			return x, nil

		case "[":
			p.next()

			return p.pack(st)
		}
	}

	return nil, p.unexpected(tk, "expression")
}

// record parses `{ T0 f0; T1 f1; ... }` after the struct or union keyword.
func (p *parser) record(st ast.Loc, kind string) (*ast.Expr, error) {
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	var fields []ast.Field

	for !p.punct("}") {
		ty, err := p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "%v field %d type", kind, len(fields))
		}

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if err := p.expectPunct(";"); err != nil {
			return nil, err
		}

		fields = append(fields, ast.Field{Type: ty, Name: name})
	}

	k := ast.ExprStruct
	if kind == "union" {
		k = ast.ExprUnion
	}

	return &ast.Expr{Loc: st, Kind: k, Fields: fields}, nil
}

// pack parses `[Type]{.f0 = e0, .f1 = e1, ...}` after the opening bracket.
func (p *parser) pack(st ast.Loc) (*ast.Expr, error) {
	ty, err := p.expr()
	if err != nil {
		return nil, errors.Wrap(err, "packed type")
	}

	if err := p.expectPunct("]"); err != nil {
		return nil, err
	}
	if err := p.expectPunct("{"); err != nil {
		return nil, err
	}

	var assigns []ast.FieldInit

	for !p.punct("}") {
		if len(assigns) != 0 {
			if err := p.expectPunct(","); err != nil {
				return nil, err
			}
		}

		if err := p.expectPunct("."); err != nil {
			return nil, err
		}

		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}

		if err := p.expectPunct("="); err != nil {
			return nil, err
		}

		value, err := p.expr()
		if err != nil {
			return nil, errors.Wrap(err, "assignment of .%v", p.tab.Name(name))
		}

		assigns = append(assigns, ast.FieldInit{Name: name, Value: value})
	}

	return &ast.Expr{Loc: st, Kind: ast.ExprPack, PackType: ty, Assigns: assigns}, nil
}
