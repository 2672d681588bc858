package ast

// Copy returns an independent deep copy of x. Child nodes and payload slices
// are owned by the copy; symbol handles are shared. Locations are copied
// verbatim.
func (x *Expr) Copy() *Expr {
	y := &Expr{Loc: x.Loc, Kind: x.Kind}

	switch x.Kind {
	case ExprLiteral:
		y.Literal = x.Literal

	case ExprIdent:
		y.Ident = x.Ident

	case ExprBinOp:
		y.Op = x.Op
		y.L = x.L.Copy()
		y.R = x.R.Copy()

	case ExprIf:
		y.Pred = x.Pred.Copy()
		y.Then = x.Then.Copy()
		y.Else = x.Else.Copy()

	case ExprFuncType:
		y.Ret = x.Ret.Copy()
		y.Params = copyParams(x.Params)

	case ExprLambda:
		y.Params = copyParams(x.Params)
		y.Body = x.Body.Copy()

	case ExprCall:
		y.Callee = x.Callee.Copy()
		y.Args = make([]*Expr, len(x.Args))
		for i, a := range x.Args {
			y.Args[i] = a.Copy()
		}

	case ExprStruct, ExprUnion:
		y.Fields = make([]Field, len(x.Fields))
		for i, f := range x.Fields {
			y.Fields[i] = Field{Type: f.Type.Copy(), Name: f.Name}
		}

	case ExprPack:
		y.PackType = x.PackType.Copy()
		y.Assigns = make([]FieldInit, len(x.Assigns))
		for i, a := range x.Assigns {
			y.Assigns[i] = FieldInit{Name: a.Name, Value: a.Value.Copy()}
		}

	case ExprMember:
		y.Record = x.Record.Copy()
		y.Member = x.Member

	case ExprPointer, ExprReference, ExprDereference:
		y.Inner = x.Inner.Copy()

	case ExprStatement:
		y.Stmt = x.Stmt.Copy()
	}

	return y
}

func copyParams(params []Param) []Param {
	r := make([]Param, len(params))

	for i, p := range params {
		r[i] = Param{Type: p.Type.Copy(), Name: p.Name}
	}

	return r
}

// Copy returns an independent deep copy of the statement.
func (x *Statement) Copy() *Statement {
	y := &Statement{Loc: x.Loc, Kind: x.Kind}

	switch x.Kind {
	case StmtEmpty:

	case StmtExpr, StmtReturn:
		y.Expr = x.Expr.Copy()

	case StmtBlock:
		y.Body = x.Body.Copy()

	case StmtDecl:
		y.DeclType = x.DeclType.Copy()
		y.DeclName = x.DeclName
		if x.DeclValue != nil {
			y.DeclValue = x.DeclValue.Copy()
		}

	case StmtIf:
		y.Conds = make([]*Expr, len(x.Conds))
		y.Thens = make([]Block, len(x.Conds))
		for i := range x.Conds {
			y.Conds[i] = x.Conds[i].Copy()
			y.Thens[i] = x.Thens[i].Copy()
		}
		y.Else = x.Else.Copy()
	}

	return y
}

func (x Block) Copy() Block {
	y := Block{Stmts: make([]*Statement, len(x.Stmts))}

	for i, s := range x.Stmts {
		y.Stmts[i] = s.Copy()
	}

	return y
}

// Copy returns an independent deep copy of the top level definition.
func (x *TopLevel) Copy() *TopLevel {
	return &TopLevel{
		Loc:     x.Loc,
		Name:    x.Name,
		RetType: x.RetType.Copy(),
		Params:  copyParams(x.Params),
		Body:    x.Body.Copy(),
	}
}
