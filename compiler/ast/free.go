package ast

import (
	"github.com/depclang/depc/compiler/set"
	"github.com/depclang/depc/compiler/symbol"
)

// FreeVars returns the set of identifiers that occur free in x. Binders are
// honored per construct: function type and lambda parameters bind the
// parameter types to their right and the return type or body, struct field
// names bind the field types to their right, union field names and pack
// assignments bind nothing.
func (x *Expr) FreeVars() (fv set.Syms) {
	switch x.Kind {
	case ExprLiteral:

	case ExprIdent:
		fv.Add(x.Ident)

	case ExprBinOp:
		fv = x.L.FreeVars()
		fv.Union(x.R.FreeVars())

	case ExprIf:
		fv = x.Pred.FreeVars()
		fv.Union(x.Then.FreeVars())
		fv.Union(x.Else.FreeVars())

	case ExprFuncType:
		fv = x.Ret.FreeVars()
		for _, p := range x.Params {
			if p.Name != symbol.None {
				fv.Delete(p.Name)
			}
		}

		fv.Union(paramsFreeVars(x.Params))

	case ExprLambda:
		fv = x.Body.FreeVars()
		for _, p := range x.Params {
			fv.Delete(p.Name)
		}

		fv.Union(paramsFreeVars(x.Params))

	case ExprCall:
		fv = x.Callee.FreeVars()
		for _, a := range x.Args {
			fv.Union(a.FreeVars())
		}

	case ExprStruct:
		for i, f := range x.Fields {
			tv := f.Type.FreeVars()
			for _, g := range x.Fields[:i] {
				tv.Delete(g.Name)
			}

			fv.Union(tv)
		}

	case ExprUnion:
		for _, f := range x.Fields {
			fv.Union(f.Type.FreeVars())
		}

	case ExprPack:
		fv = x.PackType.FreeVars()
		for _, a := range x.Assigns {
			fv.Union(a.Value.FreeVars())
		}

	case ExprMember:
		fv = x.Record.FreeVars()

	case ExprPointer, ExprReference, ExprDereference:
		fv = x.Inner.FreeVars()

	case ExprStatement:
		fv = x.Stmt.FreeVars()
	}

	return fv
}

// paramsFreeVars collects the free variables of a parameter list: each
// parameter type minus the names bound to its left.
func paramsFreeVars(params []Param) (fv set.Syms) {
	for i, p := range params {
		tv := p.Type.FreeVars()
		for _, q := range params[:i] {
			if q.Name != symbol.None {
				tv.Delete(q.Name)
			}
		}

		fv.Union(tv)
	}

	return fv
}

// FreeVars returns the identifiers occurring free in the statement. A
// declaration's name is not subtracted here; it scopes over the following
// statements of the enclosing block, which Block.FreeVars accounts for.
func (x *Statement) FreeVars() (fv set.Syms) {
	switch x.Kind {
	case StmtEmpty:

	case StmtExpr, StmtReturn:
		fv = x.Expr.FreeVars()

	case StmtBlock:
		fv = x.Body.FreeVars()

	case StmtDecl:
		fv = x.DeclType.FreeVars()
		if x.DeclValue != nil {
			fv.Union(x.DeclValue.FreeVars())
		}

	case StmtIf:
		fv = x.Else.FreeVars()
		for i := range x.Conds {
			fv.Union(x.Conds[i].FreeVars())
			fv.Union(x.Thens[i].FreeVars())
		}
	}

	return fv
}

// FreeVars folds the block right to left so that a declaration binds every
// statement after it but not its own type or initializer.
func (x Block) FreeVars() (fv set.Syms) {
	for i := len(x.Stmts) - 1; i >= 0; i-- {
		s := x.Stmts[i]

		if s.Kind == StmtDecl {
			fv.Delete(s.DeclName)
		}

		fv.Union(s.FreeVars())
	}

	return fv
}
