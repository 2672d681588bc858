package ast

func literalEqual(x, y Literal) bool {
	if x.Kind != y.Kind {
		return false
	}

	switch x.Kind {
	case LitIntegral:
		return x.Integral == y.Integral
	case LitBoolean:
		return x.Boolean == y.Boolean
	}

	return true
}

// Equal reports whether x and y are structurally identical. Binder names must
// match by symbol identity; this is not alpha equivalence. The type checker
// obtains alpha equivalence by normalizing both sides before comparing.
// Locations are ignored.
func (x *Expr) Equal(y *Expr) bool {
	if x.Kind != y.Kind {
		return false
	}

	switch x.Kind {
	case ExprLiteral:
		return literalEqual(x.Literal, y.Literal)

	case ExprIdent:
		return x.Ident == y.Ident

	case ExprBinOp:
		return x.Op == y.Op && x.L.Equal(y.L) && x.R.Equal(y.R)

	case ExprIf:
		return x.Pred.Equal(y.Pred) && x.Then.Equal(y.Then) && x.Else.Equal(y.Else)

	case ExprFuncType:
		return x.Ret.Equal(y.Ret) && paramsEqual(x.Params, y.Params)

	case ExprLambda:
		return paramsEqual(x.Params, y.Params) && x.Body.Equal(y.Body)

	case ExprCall:
		if !x.Callee.Equal(y.Callee) || len(x.Args) != len(y.Args) {
			return false
		}

		for i := range x.Args {
			if !x.Args[i].Equal(y.Args[i]) {
				return false
			}
		}

		return true

	case ExprStruct, ExprUnion:
		if len(x.Fields) != len(y.Fields) {
			return false
		}

		for i := range x.Fields {
			if x.Fields[i].Name != y.Fields[i].Name || !x.Fields[i].Type.Equal(y.Fields[i].Type) {
				return false
			}
		}

		return true

	case ExprPack:
		if !x.PackType.Equal(y.PackType) || len(x.Assigns) != len(y.Assigns) {
			return false
		}

		for i := range x.Assigns {
			if x.Assigns[i].Name != y.Assigns[i].Name || !x.Assigns[i].Value.Equal(y.Assigns[i].Value) {
				return false
			}
		}

		return true

	case ExprMember:
		return x.Record.Equal(y.Record) && x.Member == y.Member

	case ExprPointer, ExprReference, ExprDereference:
		return x.Inner.Equal(y.Inner)

	case ExprStatement:
		return x.Stmt.Equal(y.Stmt)
	}

	return false
}

func paramsEqual(x, y []Param) bool {
	if len(x) != len(y) {
		return false
	}

	for i := range x {
		if x[i].Name != y[i].Name || !x[i].Type.Equal(y[i].Type) {
			return false
		}
	}

	return true
}

// Equal reports whether two statements are structurally identical.
func (x *Statement) Equal(y *Statement) bool {
	if x.Kind != y.Kind {
		return false
	}

	switch x.Kind {
	case StmtEmpty:
		return true

	case StmtExpr, StmtReturn:
		return x.Expr.Equal(y.Expr)

	case StmtBlock:
		return x.Body.Equal(y.Body)

	case StmtDecl:
		if !x.DeclType.Equal(y.DeclType) || x.DeclName != y.DeclName {
			return false
		}
		if (x.DeclValue == nil) != (y.DeclValue == nil) {
			return false
		}

		return x.DeclValue == nil || x.DeclValue.Equal(y.DeclValue)

	case StmtIf:
		if len(x.Conds) != len(y.Conds) {
			return false
		}

		for i := range x.Conds {
			if !x.Conds[i].Equal(y.Conds[i]) || !x.Thens[i].Equal(y.Thens[i]) {
				return false
			}
		}

		return x.Else.Equal(y.Else)
	}

	return false
}

func (x Block) Equal(y Block) bool {
	if len(x.Stmts) != len(y.Stmts) {
		return false
	}

	for i := range x.Stmts {
		if !x.Stmts[i].Equal(y.Stmts[i]) {
			return false
		}
	}

	return true
}
