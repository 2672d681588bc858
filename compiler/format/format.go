// Package format renders AST values as text. The surface is byte for byte
// stable, and expressions coming out of the parser round trip: parsing the
// rendering yields an equal tree. Top levels render in declaration form,
// with the body displayed as a bracketed statement.
package format

import (
	"github.com/nikandfor/hacked/hfmt"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/symbol"
)

type (
	// Printer renders AST values. It needs the symbol table the tree was
	// interned into to spell names.
	Printer struct {
		tab *symbol.Table
	}
)

func New(tab *symbol.Table) *Printer {
	return &Printer{tab: tab}
}

// Unit appends the translation unit with a blank line between successive
// top levels.
func (p *Printer) Unit(b []byte, u *ast.TranslationUnit) []byte {
	for i, tl := range u.TopLevels {
		if i != 0 {
			b = append(b, '\n')
		}

		b = p.TopLevel(b, tl)
	}

	return b
}

// TopLevel appends `Ret name(P0 n0, ...) = ` with the body on its own
// indented line.
func (p *Printer) TopLevel(b []byte, tl *ast.TopLevel) []byte {
	b = p.Expr(b, tl.RetType)
	b = hfmt.Appendf(b, " %s(", p.tab.Name(tl.Name))
	b = p.paramList(b, tl.Params)
	b = append(b, ") = \n    "...)
	b = p.Expr(b, tl.Body)
	b = append(b, ";\n"...)

	return b
}

func (p *Printer) paramList(b []byte, params []ast.Param) []byte {
	for i, q := range params {
		if i != 0 {
			b = append(b, ", "...)
		}

		b = p.Expr(b, q.Type)

		if q.Name != symbol.None {
			b = hfmt.Appendf(b, " %s", p.tab.Name(q.Name))
		}
	}

	return b
}

func (p *Printer) literal(b []byte, l ast.Literal) []byte {
	switch l.Kind {
	case ast.LitIntegral:
		return hfmt.Appendf(b, "%d", l.Integral)

	case ast.LitBoolean:
		if l.Boolean {
			return append(b, "true"...)
		}

		return append(b, "false"...)
	}

	return append(b, l.Kind.String()...)
}

// expr appends a subexpression, parenthesized unless it is simple: a
// literal, identifier, struct or union.
func (p *Printer) expr(b []byte, x *ast.Expr) []byte {
	switch x.Kind {
	case ast.ExprLiteral, ast.ExprIdent, ast.ExprStruct, ast.ExprUnion:
		return p.Expr(b, x)
	}

	b = append(b, '(')
	b = p.Expr(b, x)
	b = append(b, ')')

	return b
}

// Expr appends the expression.
func (p *Printer) Expr(b []byte, x *ast.Expr) []byte {
	switch x.Kind {
	case ast.ExprLiteral:
		b = p.literal(b, x.Literal)

	case ast.ExprIdent:
		b = append(b, p.tab.Name(x.Ident)...)

	case ast.ExprBinOp:
		b = p.expr(b, x.L)
		b = append(b, ' ')
		b = append(b, x.Op.String()...)
		b = append(b, ' ')
		b = p.expr(b, x.R)

	case ast.ExprIf:
		b = append(b, "if "...)
		b = p.Expr(b, x.Pred)
		b = append(b, " then "...)
		b = p.Expr(b, x.Then)
		b = append(b, " else "...)
		b = p.Expr(b, x.Else)

	case ast.ExprFuncType:
		b = p.expr(b, x.Ret)
		b = append(b, '[')
		b = p.paramList(b, x.Params)
		b = append(b, ']')

	case ast.ExprLambda:
		b = append(b, `\(`...)
		b = p.paramList(b, x.Params)
		b = append(b, ") -> "...)
		b = p.Expr(b, x.Body)

	case ast.ExprCall:
		b = p.expr(b, x.Callee)
		b = append(b, '(')

		for i, a := range x.Args {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = p.Expr(b, a)
		}

		b = append(b, ')')

	case ast.ExprStruct, ast.ExprUnion:
		if x.Kind == ast.ExprStruct {
			b = append(b, "struct { "...)
		} else {
			b = append(b, "union { "...)
		}

		for _, f := range x.Fields {
			b = p.Expr(b, f.Type)
			b = hfmt.Appendf(b, " %s; ", p.tab.Name(f.Name))
		}

		b = append(b, '}')

	case ast.ExprPack:
		b = append(b, '[')
		b = p.expr(b, x.PackType)
		b = append(b, "]{"...)

		for i, a := range x.Assigns {
			if i != 0 {
				b = append(b, ", "...)
			}

			b = hfmt.Appendf(b, ".%s = ", p.tab.Name(a.Name))
			b = p.Expr(b, a.Value)
		}

		b = append(b, '}')

	case ast.ExprMember:
		b = p.expr(b, x.Record)
		b = hfmt.Appendf(b, ".%s", p.tab.Name(x.Member))

	case ast.ExprPointer:
		b = p.expr(b, x.Inner)
		b = append(b, '*')

	case ast.ExprReference:
		b = append(b, '&')
		b = p.expr(b, x.Inner)

	case ast.ExprDereference:
		b = append(b, '*')
		b = p.expr(b, x.Inner)

	case ast.ExprStatement:
		b = append(b, '[')
		b = p.Statement(b, 0, x.Stmt)
		b = append(b, ']')
	}

	return b
}

// Statement appends the statement on its own line, indented four spaces per
// nesting level.
func (p *Printer) Statement(b []byte, nesting int, s *ast.Statement) []byte {
	b = indent(b, nesting)

	switch s.Kind {
	case ast.StmtEmpty:
		b = append(b, ";\n"...)

	case ast.StmtExpr, ast.StmtReturn:
		if s.Kind == ast.StmtReturn {
			b = append(b, "return "...)
		}

		b = p.Expr(b, s.Expr)
		b = append(b, ";\n"...)

	case ast.StmtBlock:
		b = append(b, "{\n"...)
		b = p.Block(b, nesting+1, s.Body)
		b = indent(b, nesting)
		b = append(b, "}\n"...)

	case ast.StmtDecl:
		b = p.Expr(b, s.DeclType)
		b = hfmt.Appendf(b, " %s", p.tab.Name(s.DeclName))

		if s.DeclValue != nil {
			b = append(b, " = "...)
			b = p.Expr(b, s.DeclValue)
		}

		b = append(b, ";\n"...)

	case ast.StmtIf:
		for i := range s.Conds {
			if i != 0 {
				b = indent(b, nesting)
				b = append(b, "} else "...)
			}

			b = append(b, "if ("...)
			b = p.Expr(b, s.Conds[i])
			b = append(b, ") {\n"...)
			b = p.Block(b, nesting+1, s.Thens[i])
		}

		b = indent(b, nesting)
		b = append(b, "} else {\n"...)
		b = p.Block(b, nesting+1, s.Else)
		b = indent(b, nesting)
		b = append(b, "}\n"...)
	}

	return b
}

// Block appends each statement of the block at the given nesting level.
func (p *Printer) Block(b []byte, nesting int, blk ast.Block) []byte {
	for _, s := range blk.Stmts {
		b = p.Statement(b, nesting, s)
	}

	return b
}

func indent(b []byte, nesting int) []byte {
	const spaces = "                                                                "

	for n := 4 * nesting; n > 0; n -= len(spaces) {
		if n < len(spaces) {
			return append(b, spaces[:n]...)
		}

		b = append(b, spaces...)
	}

	return b
}
