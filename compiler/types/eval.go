package types

import (
	"tlog.app/go/errors"

	"github.com/depclang/depc/compiler/ast"
)

// Eval normalizes a type level term: definitions unfold, calls of lambdas
// beta reduce through substitution, literal predicates and operators fold.
// The input is never modified; the result is an independent tree.
func Eval(c *Context, t *ast.Expr) (*ast.Expr, error) {
	switch t.Kind {
	case ast.ExprLiteral:
		return t.Copy(), nil

	case ast.ExprStatement:
		// A statement body reduces to the value its return statement
		// produces, when the control flow down to it is decidable.
		s := t.Stmt.Copy()

		v, res, err := evalStatement(c, s)
		if err != nil {
			return nil, err
		}

		if res != stepReturned {
			return t.Copy(), nil
		}

		return v, nil

	case ast.ExprIdent:
		if def, ok := c.defs[t.Ident]; ok {
			return Eval(c, def)
		}

		return t.Copy(), nil

	case ast.ExprBinOp:
		return evalBinOp(c, t)

	case ast.ExprIf:
		pred, err := Eval(c, t.Pred)
		if err != nil {
			return nil, err
		}

		if pred.Kind == ast.ExprLiteral && pred.Literal.Kind == ast.LitBoolean {
			if pred.Literal.Boolean {
				return Eval(c, t.Then)
			}

			return Eval(c, t.Else)
		}

		then, err := Eval(c, t.Then)
		if err != nil {
			return nil, err
		}

		els, err := Eval(c, t.Else)
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Loc: t.Loc, Kind: ast.ExprIf, Pred: pred, Then: then, Else: els}, nil

	case ast.ExprFuncType:
		r := t.Copy()

		for i := range r.Params {
			var err error

			r.Params[i].Type, err = Eval(c, t.Params[i].Type)
			if err != nil {
				return nil, err
			}
		}

		ret, err := Eval(c, t.Ret)
		if err != nil {
			return nil, err
		}

		r.Ret = ret

		return r, nil

	case ast.ExprLambda:
		// Parameter types evaluate; the body stays as written until the
		// lambda is applied.
		r := t.Copy()

		for i := range r.Params {
			var err error

			r.Params[i].Type, err = Eval(c, t.Params[i].Type)
			if err != nil {
				return nil, err
			}
		}

		return r, nil

	case ast.ExprCall:
		return evalCall(c, t)

	case ast.ExprStruct, ast.ExprUnion:
		r := t.Copy()

		for i := range r.Fields {
			ty, err := Eval(c, t.Fields[i].Type)
			if err != nil {
				return nil, err
			}

			r.Fields[i].Type = ty
		}

		return r, nil

	case ast.ExprPack:
		r := t.Copy()

		ty, err := Eval(c, t.PackType)
		if err != nil {
			return nil, err
		}

		r.PackType = ty

		for i := range r.Assigns {
			v, err := Eval(c, t.Assigns[i].Value)
			if err != nil {
				return nil, err
			}

			r.Assigns[i].Value = v
		}

		return r, nil

	case ast.ExprMember:
		rec, err := Eval(c, t.Record)
		if err != nil {
			return nil, err
		}

		if rec.Kind == ast.ExprPack {
			for _, a := range rec.Assigns {
				if a.Name == t.Member {
					return a.Value, nil
				}
			}
		}

		return &ast.Expr{Loc: t.Loc, Kind: ast.ExprMember, Record: rec, Member: t.Member}, nil

	case ast.ExprPointer:
		inner, err := Eval(c, t.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Loc: t.Loc, Kind: ast.ExprPointer, Inner: inner}, nil

	case ast.ExprReference:
		inner, err := Eval(c, t.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Loc: t.Loc, Kind: ast.ExprReference, Inner: inner}, nil

	case ast.ExprDereference:
		inner, err := Eval(c, t.Inner)
		if err != nil {
			return nil, err
		}

		if inner.Kind == ast.ExprReference {
			return inner.Inner, nil
		}

		return &ast.Expr{Loc: t.Loc, Kind: ast.ExprDereference, Inner: inner}, nil
	}

	return nil, errors.New("eval of %v expression", t.Kind)
}

type stepResult int

const (
	stepCompleted stepResult = iota
	stepReturned
	stepStuck
)

// evalStatement runs a statement at the type level. The statement is owned
// by the caller's copy and may be rewritten freely. Completed means control
// fell through; stuck means a condition did not reduce to a literal and the
// term must stay symbolic.
func evalStatement(c *Context, s *ast.Statement) (*ast.Expr, stepResult, error) {
	switch s.Kind {
	case ast.StmtEmpty, ast.StmtExpr, ast.StmtDecl:
		return nil, stepCompleted, nil

	case ast.StmtReturn:
		v, err := Eval(c, s.Expr)
		if err != nil {
			return nil, stepStuck, err
		}

		return v, stepReturned, nil

	case ast.StmtBlock:
		return evalBlock(c, s.Body)

	case ast.StmtIf:
		for i := range s.Conds {
			pred, err := Eval(c, s.Conds[i])
			if err != nil {
				return nil, stepStuck, err
			}

			if pred.Kind != ast.ExprLiteral || pred.Literal.Kind != ast.LitBoolean {
				return nil, stepStuck, nil
			}

			if pred.Literal.Boolean {
				return evalBlock(c, s.Thens[i])
			}
		}

		return evalBlock(c, s.Else)
	}

	return nil, stepStuck, errors.New("eval of %v statement", s.Kind)
}

// evalBlock runs the statements in order. An initialized declaration
// substitutes its evaluated value into the statements it scopes over.
func evalBlock(c *Context, b ast.Block) (*ast.Expr, stepResult, error) {
	for i, s := range b.Stmts {
		if s.Kind == ast.StmtDecl {
			if s.DeclValue == nil {
				continue
			}

			v, err := Eval(c, s.DeclValue)
			if err != nil {
				return nil, stepStuck, err
			}

			tail := ast.Block{Stmts: b.Stmts[i+1:]}
			if err := tail.Subst(c.Syms, s.DeclName, v); err != nil {
				return nil, stepStuck, errors.Wrap(err, "declaration %v", c.Syms.Name(s.DeclName))
			}

			continue
		}

		v, res, err := evalStatement(c, s)
		if res != stepCompleted || err != nil {
			return v, res, err
		}
	}

	return nil, stepCompleted, nil
}

func evalBinOp(c *Context, t *ast.Expr) (*ast.Expr, error) {
	l, err := Eval(c, t.L)
	if err != nil {
		return nil, err
	}

	r, err := Eval(c, t.R)
	if err != nil {
		return nil, err
	}

	if l.Kind == ast.ExprLiteral && l.Literal.Kind == ast.LitIntegral &&
		r.Kind == ast.ExprLiteral && r.Literal.Kind == ast.LitIntegral {
		a, b := l.Literal.Integral, r.Literal.Integral

		switch t.Op {
		case ast.OpEq:
			return ast.Boolean(a == b), nil
		case ast.OpNe:
			return ast.Boolean(a != b), nil
		case ast.OpLt:
			return ast.Boolean(a < b), nil
		case ast.OpLe:
			return ast.Boolean(a <= b), nil
		case ast.OpGt:
			return ast.Boolean(a > b), nil
		case ast.OpGe:
			return ast.Boolean(a >= b), nil
		case ast.OpAdd:
			return ast.Integral(a + b), nil
		case ast.OpSub:
			return ast.Integral(a - b), nil
		}
	}

	if l.Kind == ast.ExprLiteral && l.Literal.Kind == ast.LitBoolean &&
		r.Kind == ast.ExprLiteral && r.Literal.Kind == ast.LitBoolean {
		switch t.Op {
		case ast.OpEq:
			return ast.Boolean(l.Literal.Boolean == r.Literal.Boolean), nil
		case ast.OpNe:
			return ast.Boolean(l.Literal.Boolean != r.Literal.Boolean), nil
		}
	}

	// Sequencing discards an already evaluated left operand.
	if t.Op == ast.OpAndThen && l.Kind == ast.ExprLiteral {
		return r, nil
	}

	return &ast.Expr{Loc: t.Loc, Kind: ast.ExprBinOp, Op: t.Op, L: l, R: r}, nil
}

func evalCall(c *Context, t *ast.Expr) (*ast.Expr, error) {
	callee, err := Eval(c, t.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]*ast.Expr, len(t.Args))

	for i, a := range t.Args {
		args[i], err = Eval(c, a)
		if err != nil {
			return nil, err
		}
	}

	if callee.Kind != ast.ExprLambda {
		return &ast.Expr{Loc: t.Loc, Kind: ast.ExprCall, Callee: callee, Args: args}, nil
	}

	if len(args) != len(callee.Params) {
		return nil, errors.New("call with %d arguments of a lambda of %d parameters", len(args), len(callee.Params))
	}

	// Beta reduce argument by argument. The body is owned by our own copy
	// of the callee, so rewriting it in place is fine.
	body := callee.Body

	for i, p := range callee.Params {
		if err := body.Subst(c.Syms, p.Name, args[i]); err != nil {
			return nil, errors.Wrap(err, "apply parameter %v", c.Syms.Name(p.Name))
		}
	}

	return Eval(c, body)
}
