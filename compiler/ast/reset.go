package ast

// Reset releases the subtree below x and zeroes the node. A reset node reads
// as an empty literal with no children, nil slices and nil child pointers;
// resetting it again is a no-op. The caller must not keep using a node it
// has reset.
func (x *Expr) Reset() {
	if x == nil {
		return
	}

	switch x.Kind {
	case ExprLiteral, ExprIdent:

	case ExprBinOp:
		x.L.Reset()
		x.R.Reset()

	case ExprIf:
		x.Pred.Reset()
		x.Then.Reset()
		x.Else.Reset()

	case ExprFuncType:
		x.Ret.Reset()
		resetParams(x.Params)

	case ExprLambda:
		resetParams(x.Params)
		x.Body.Reset()

	case ExprCall:
		x.Callee.Reset()
		for _, a := range x.Args {
			a.Reset()
		}

	case ExprStruct, ExprUnion:
		for i := range x.Fields {
			x.Fields[i].Type.Reset()
		}

	case ExprPack:
		x.PackType.Reset()
		for i := range x.Assigns {
			x.Assigns[i].Value.Reset()
		}

	case ExprMember:
		x.Record.Reset()

	case ExprPointer, ExprReference, ExprDereference:
		x.Inner.Reset()

	case ExprStatement:
		x.Stmt.Reset()
	}

	*x = Expr{}
}

func resetParams(params []Param) {
	for i := range params {
		params[i].Type.Reset()
	}
}

// Reset releases the subtree below the statement and zeroes it.
func (x *Statement) Reset() {
	if x == nil {
		return
	}

	switch x.Kind {
	case StmtEmpty:

	case StmtExpr, StmtReturn:
		x.Expr.Reset()

	case StmtBlock:
		x.Body.Reset()

	case StmtDecl:
		x.DeclType.Reset()
		x.DeclValue.Reset()

	case StmtIf:
		for i := range x.Conds {
			x.Conds[i].Reset()
			x.Thens[i].Reset()
		}
		x.Else.Reset()
	}

	*x = Statement{}
}

// Reset zeroes every statement of the block and drops the list.
func (x *Block) Reset() {
	for _, s := range x.Stmts {
		s.Reset()
	}

	x.Stmts = nil
}

// Reset releases everything the top level definition owns.
func (x *TopLevel) Reset() {
	if x == nil {
		return
	}

	x.RetType.Reset()
	resetParams(x.Params)
	x.Body.Reset()

	*x = TopLevel{}
}

// Reset releases every top level of the unit.
func (x *TranslationUnit) Reset() {
	for _, tl := range x.TopLevels {
		tl.Reset()
	}

	x.TopLevels = nil
}
