package types

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"
	"tlog.app/go/errors"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/format"
	"github.com/depclang/depc/compiler/symbol"
)

// Equal decides type equality by normalizing both sides and comparing
// structurally. Normalization is what buys alpha equivalence in practice;
// the structural comparison itself matches binders by symbol identity.
func Equal(c *Context, t1, t2 *ast.Expr) bool {
	a, err := Eval(c, t1)
	if err != nil {
		return false
	}

	b, err := Eval(c, t2)
	if err != nil {
		return false
	}

	return a.Equal(b)
}

// Check verifies that e has type ty. An integral literal checks against
// every integral type; everything else infers and compares.
func Check(c *Context, e, ty *ast.Expr) error {
	if e.Kind == ast.ExprLiteral && e.Literal.Kind == ast.LitIntegral {
		t, err := Eval(c, ty)
		if err != nil {
			return err
		}

		if isIntegralType(t) {
			return nil
		}
	}

	have, err := Infer(c, e)
	if err != nil {
		return err
	}

	if !Equal(c, have, ty) {
		p := format.New(c.Syms)

		return errors.New("at %d:%d: type mismatch: have %s, want %s",
			e.Loc.Line, e.Loc.Col, p.Expr(nil, have), p.Expr(nil, ty))
	}

	return nil
}

// Infer computes the type of e, or an error when e is ill typed. The result
// is an independent tree.
func Infer(c *Context, e *ast.Expr) (*ast.Expr, error) {
	switch e.Kind {
	case ast.ExprLiteral:
		return inferLiteral(e.Literal), nil

	case ast.ExprIdent:
		ty := c.lookup(e.Ident)
		if ty == nil {
			return nil, errors.New("at %d:%d: undefined variable %v", e.Loc.Line, e.Loc.Col, c.Syms.Name(e.Ident))
		}

		return ty.Copy(), nil

	case ast.ExprBinOp:
		return inferBinOp(c, e)

	case ast.ExprIf:
		if err := Check(c, e.Pred, ast.Lit(ast.LitBool)); err != nil {
			return nil, errors.Wrap(err, "if predicate")
		}

		ty, err := Infer(c, e.Then)
		if err != nil {
			return nil, err
		}

		if err := Check(c, e.Else, ty); err != nil {
			return nil, errors.Wrap(err, "else branch")
		}

		return ty, nil

	case ast.ExprFuncType:
		return inferFuncType(c, e)

	case ast.ExprLambda:
		return inferLambda(c, e)

	case ast.ExprCall:
		return inferCall(c, e)

	case ast.ExprStruct:
		return inferStruct(c, e)

	case ast.ExprUnion:
		for i, f := range e.Fields {
			if err := Check(c, f.Type, ast.Lit(ast.LitType)); err != nil {
				return nil, errors.Wrap(err, "union field %d", i)
			}
		}

		return ast.Lit(ast.LitType), nil

	case ast.ExprPack:
		return inferPack(c, e)

	case ast.ExprMember:
		return inferMember(c, e)

	case ast.ExprPointer:
		if err := Check(c, e.Inner, ast.Lit(ast.LitType)); err != nil {
			return nil, errors.Wrap(err, "pointed type")
		}

		return ast.Lit(ast.LitType), nil

	case ast.ExprReference:
		ty, err := Infer(c, e.Inner)
		if err != nil {
			return nil, err
		}

		return &ast.Expr{Kind: ast.ExprPointer, Inner: ty}, nil

	case ast.ExprDereference:
		ty, err := Infer(c, e.Inner)
		if err != nil {
			return nil, err
		}

		ty, err = Eval(c, ty)
		if err != nil {
			return nil, err
		}

		if ty.Kind != ast.ExprPointer {
			return nil, errors.New("at %d:%d: dereference of a non pointer", e.Loc.Line, e.Loc.Col)
		}

		return ty.Inner, nil

	case ast.ExprStatement:
		ty, err := inferStatement(c, e.Stmt)
		if err != nil {
			return nil, err
		}

		if ty == nil {
			ty = ast.Lit(ast.LitVoid)
		}

		return ty, nil
	}

	return nil, errors.New("infer of %v expression", e.Kind)
}

func inferLiteral(l ast.Literal) *ast.Expr {
	switch l.Kind {
	case ast.LitIntegral:
		return ast.Lit(ast.LitU64)
	case ast.LitBoolean:
		return ast.Lit(ast.LitBool)
	}

	// Type literals, the universe included, live in the universe.
	return ast.Lit(ast.LitType)
}

func isIntegralType(t *ast.Expr) bool {
	return t.Kind == ast.ExprLiteral && t.Literal.Kind.IsIntegral()
}

func inferBinOp(c *Context, e *ast.Expr) (*ast.Expr, error) {
	if e.Op == ast.OpAndThen {
		if _, err := Infer(c, e.L); err != nil {
			return nil, err
		}

		return Infer(c, e.R)
	}

	ty, err := operandType(c, e.L, e.R)
	if err != nil {
		return nil, errors.Wrap(err, "operands of %v", e.Op)
	}

	switch e.Op {
	case ast.OpEq, ast.OpNe:
		return ast.Lit(ast.LitBool), nil

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpAdd, ast.OpSub:
		if !isIntegralType(ty) {
			p := format.New(c.Syms)

			return nil, errors.New("at %d:%d: operator %v over %s", e.Loc.Line, e.Loc.Col, e.Op, p.Expr(nil, ty))
		}

		if e.Op == ast.OpAdd || e.Op == ast.OpSub {
			return ty, nil
		}

		return ast.Lit(ast.LitBool), nil
	}

	return nil, errors.New("infer of operator %v", e.Op)
}

// operandType finds the common operand type of a binary operator. An
// integral literal adopts the other operand's integral type; two integral
// literals default to u64.
func operandType(c *Context, l, r *ast.Expr) (*ast.Expr, error) {
	intLit := func(x *ast.Expr) bool {
		return x.Kind == ast.ExprLiteral && x.Literal.Kind == ast.LitIntegral
	}

	switch {
	case intLit(l) && intLit(r):
		return ast.Lit(ast.LitU64), nil

	case intLit(l):
		l, r = r, l
		fallthrough

	case intLit(r):
		ty, err := Infer(c, l)
		if err != nil {
			return nil, err
		}

		ty, err = Eval(c, ty)
		if err != nil {
			return nil, err
		}

		if !isIntegralType(ty) {
			return nil, errors.New("integral literal against a non integral operand")
		}

		return ty, nil
	}

	lt, err := Infer(c, l)
	if err != nil {
		return nil, err
	}

	if err := Check(c, r, lt); err != nil {
		return nil, err
	}

	return Eval(c, lt)
}

func inferFuncType(c *Context, e *ast.Expr) (*ast.Expr, error) {
	m := c.mark()
	defer c.restore(m)

	for i, p := range e.Params {
		if err := Check(c, p.Type, ast.Lit(ast.LitType)); err != nil {
			return nil, errors.Wrap(err, "parameter %d type", i)
		}

		c.bind(p.Name, p.Type)
	}

	if err := Check(c, e.Ret, ast.Lit(ast.LitType)); err != nil {
		return nil, errors.Wrap(err, "return type")
	}

	return ast.Lit(ast.LitType), nil
}

func inferLambda(c *Context, e *ast.Expr) (*ast.Expr, error) {
	m := c.mark()
	defer c.restore(m)

	for i, p := range e.Params {
		if err := Check(c, p.Type, ast.Lit(ast.LitType)); err != nil {
			return nil, errors.Wrap(err, "parameter %d type", i)
		}

		c.bind(p.Name, p.Type)
	}

	ret, err := Infer(c, e.Body)
	if err != nil {
		return nil, errors.Wrap(err, "lambda body")
	}

	return &ast.Expr{
		Kind:   ast.ExprFuncType,
		Ret:    ret,
		Params: copyParams(e.Params),
	}, nil
}

func copyParams(params []ast.Param) []ast.Param {
	return lo.Map(params, func(p ast.Param, _ int) ast.Param {
		return ast.Param{Type: p.Type.Copy(), Name: p.Name}
	})
}

// inferCall types a dependent application: each named parameter is
// substituted by its argument in the remaining parameter types and the
// return type.
func inferCall(c *Context, e *ast.Expr) (*ast.Expr, error) {
	fty, err := Infer(c, e.Callee)
	if err != nil {
		return nil, err
	}

	fty, err = Eval(c, fty)
	if err != nil {
		return nil, err
	}

	if fty.Kind != ast.ExprFuncType {
		return nil, errors.New("at %d:%d: call of a non function", e.Loc.Line, e.Loc.Col)
	}

	if len(e.Args) != len(fty.Params) {
		return nil, errors.New("at %d:%d: %d arguments to a function of %d parameters",
			e.Loc.Line, e.Loc.Col, len(e.Args), len(fty.Params))
	}

	// fty is our own evaluated copy, so rewriting it in place is fine.
	for i, p := range fty.Params {
		if err := Check(c, e.Args[i], p.Type); err != nil {
			return nil, errors.Wrap(err, "argument %d", i)
		}

		if p.Name == symbol.None {
			continue
		}

		for j := i + 1; j < len(fty.Params); j++ {
			if err := fty.Params[j].Type.Subst(c.Syms, p.Name, e.Args[i]); err != nil {
				return nil, errors.Wrap(err, "argument %d", i)
			}
		}

		if err := fty.Ret.Subst(c.Syms, p.Name, e.Args[i]); err != nil {
			return nil, errors.Wrap(err, "argument %d", i)
		}
	}

	return fty.Ret, nil
}

func inferStruct(c *Context, e *ast.Expr) (*ast.Expr, error) {
	m := c.mark()
	defer c.restore(m)

	for _, f := range e.Fields {
		if err := Check(c, f.Type, ast.Lit(ast.LitType)); err != nil {
			return nil, errors.Wrap(err, "field %v", c.Syms.Name(f.Name))
		}

		c.bind(f.Name, f.Type)
	}

	return ast.Lit(ast.LitType), nil
}

// inferPack checks a record construction against its packed type. A pack
// over a struct assigns every field in order, each field type specialized by
// the values already assigned; a pack over a union assigns exactly one
// field.
func inferPack(c *Context, e *ast.Expr) (*ast.Expr, error) {
	ty, err := Eval(c, e.PackType)
	if err != nil {
		return nil, err
	}

	switch ty.Kind {
	case ast.ExprStruct:
		if len(e.Assigns) != len(ty.Fields) {
			return nil, errors.New("at %d:%d: pack assigns %d of %d struct fields",
				e.Loc.Line, e.Loc.Col, len(e.Assigns), len(ty.Fields))
		}

		for i, f := range ty.Fields {
			if e.Assigns[i].Name != f.Name {
				return nil, errors.New("at %d:%d: pack assigns %v where struct has %v",
					e.Loc.Line, e.Loc.Col, c.Syms.Name(e.Assigns[i].Name), c.Syms.Name(f.Name))
			}

			// ty is our own evaluated copy; specialize the field type by the
			// earlier assignments right in it.
			fieldTy := f.Type

			for j := 0; j < i; j++ {
				if err := fieldTy.Subst(c.Syms, ty.Fields[j].Name, e.Assigns[j].Value); err != nil {
					return nil, errors.Wrap(err, "field %v type", c.Syms.Name(f.Name))
				}
			}

			if err := Check(c, e.Assigns[i].Value, fieldTy); err != nil {
				return nil, errors.Wrap(err, "field %v", c.Syms.Name(f.Name))
			}
		}

	case ast.ExprUnion:
		if len(e.Assigns) != 1 {
			return nil, errors.New("at %d:%d: union pack assigns %d fields", e.Loc.Line, e.Loc.Col, len(e.Assigns))
		}

		i := slices.IndexFunc(ty.Fields, func(f ast.Field) bool { return f.Name == e.Assigns[0].Name })
		if i < 0 {
			return nil, errors.New("at %d:%d: union has no field %v",
				e.Loc.Line, e.Loc.Col, c.Syms.Name(e.Assigns[0].Name))
		}

		if err := Check(c, e.Assigns[0].Value, ty.Fields[i].Type); err != nil {
			return nil, errors.Wrap(err, "field %v", c.Syms.Name(e.Assigns[0].Name))
		}

	default:
		return nil, errors.New("at %d:%d: pack of a non record type", e.Loc.Line, e.Loc.Col)
	}

	return e.PackType.Copy(), nil
}

// inferMember projects a field out of a record. For a struct the earlier
// field names occurring in the field's type are replaced by projections of
// the same record, keeping the dependency meaningful outside the record's
// scope.
func inferMember(c *Context, e *ast.Expr) (*ast.Expr, error) {
	rty, err := Infer(c, e.Record)
	if err != nil {
		return nil, err
	}

	rty, err = Eval(c, rty)
	if err != nil {
		return nil, err
	}

	switch rty.Kind {
	case ast.ExprStruct:
		i := slices.IndexFunc(rty.Fields, func(f ast.Field) bool { return f.Name == e.Member })
		if i < 0 {
			return nil, errors.New("at %d:%d: no field %v", e.Loc.Line, e.Loc.Col, c.Syms.Name(e.Member))
		}

		ty := rty.Fields[i].Type

		for j := 0; j < i; j++ {
			proj := &ast.Expr{Kind: ast.ExprMember, Record: e.Record.Copy(), Member: rty.Fields[j].Name}

			if err := ty.Subst(c.Syms, rty.Fields[j].Name, proj); err != nil {
				return nil, errors.Wrap(err, "field %v type", c.Syms.Name(e.Member))
			}
		}

		return ty, nil

	case ast.ExprUnion:
		i := slices.IndexFunc(rty.Fields, func(f ast.Field) bool { return f.Name == e.Member })
		if i < 0 {
			return nil, errors.New("at %d:%d: no field %v", e.Loc.Line, e.Loc.Col, c.Syms.Name(e.Member))
		}

		return rty.Fields[i].Type, nil
	}

	return nil, errors.New("at %d:%d: member of a non record", e.Loc.Line, e.Loc.Col)
}

// inferStatement types a statement. A nil type means the statement does not
// return; the type of a returning statement is the type of the returned
// value, and every return inside one statement must agree.
func inferStatement(c *Context, s *ast.Statement) (*ast.Expr, error) {
	switch s.Kind {
	case ast.StmtEmpty:
		return nil, nil

	case ast.StmtExpr:
		if _, err := Infer(c, s.Expr); err != nil {
			return nil, err
		}

		return nil, nil

	case ast.StmtReturn:
		return Infer(c, s.Expr)

	case ast.StmtBlock:
		return inferBlock(c, s.Body)

	case ast.StmtDecl:
		if err := checkDecl(c, s); err != nil {
			return nil, err
		}

		return nil, nil

	case ast.StmtIf:
		var ret *ast.Expr

		for i := range s.Conds {
			if err := Check(c, s.Conds[i], ast.Lit(ast.LitBool)); err != nil {
				return nil, errors.Wrap(err, "if condition")
			}

			ty, err := inferBlock(c, s.Thens[i])
			if err != nil {
				return nil, err
			}

			if ret, err = mergeReturn(c, ret, ty); err != nil {
				return nil, err
			}
		}

		ty, err := inferBlock(c, s.Else)
		if err != nil {
			return nil, err
		}

		return mergeReturn(c, ret, ty)
	}

	return nil, errors.New("infer of %v statement", s.Kind)
}

func checkDecl(c *Context, s *ast.Statement) error {
	if err := Check(c, s.DeclType, ast.Lit(ast.LitType)); err != nil {
		return errors.Wrap(err, "type of %v", c.Syms.Name(s.DeclName))
	}

	if s.DeclValue != nil {
		if err := Check(c, s.DeclValue, s.DeclType); err != nil {
			return errors.Wrap(err, "initial value of %v", c.Syms.Name(s.DeclName))
		}
	}

	return nil
}

// inferBlock types the statements in order; a declaration binds the
// statements after it.
func inferBlock(c *Context, b ast.Block) (*ast.Expr, error) {
	m := c.mark()
	defer c.restore(m)

	var ret *ast.Expr

	for _, s := range b.Stmts {
		ty, err := inferStatement(c, s)
		if err != nil {
			return nil, err
		}

		if ret, err = mergeReturn(c, ret, ty); err != nil {
			return nil, err
		}

		if s.Kind == ast.StmtDecl {
			c.bind(s.DeclName, s.DeclType)
		}
	}

	return ret, nil
}

func mergeReturn(c *Context, a, b *ast.Expr) (*ast.Expr, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	case Equal(c, a, b):
		return a, nil
	}

	p := format.New(c.Syms)

	return nil, errors.New("returns disagree: %s against %s", p.Expr(nil, a), p.Expr(nil, b))
}

// checkStatement checks a statement against the type every return statement
// under it must produce. Unlike inferStatement it pushes the expectation
// down, so returned integral literals check against the declared type.
func checkStatement(c *Context, s *ast.Statement, want *ast.Expr) error {
	switch s.Kind {
	case ast.StmtEmpty:
		return nil

	case ast.StmtExpr:
		_, err := Infer(c, s.Expr)

		return err

	case ast.StmtReturn:
		return Check(c, s.Expr, want)

	case ast.StmtBlock:
		return checkBlock(c, s.Body, want)

	case ast.StmtDecl:
		return checkDecl(c, s)

	case ast.StmtIf:
		for i := range s.Conds {
			if err := Check(c, s.Conds[i], ast.Lit(ast.LitBool)); err != nil {
				return errors.Wrap(err, "if condition")
			}

			if err := checkBlock(c, s.Thens[i], want); err != nil {
				return err
			}
		}

		return checkBlock(c, s.Else, want)
	}

	return errors.New("check of %v statement", s.Kind)
}

func checkBlock(c *Context, b ast.Block, want *ast.Expr) error {
	m := c.mark()
	defer c.restore(m)

	for _, s := range b.Stmts {
		if err := checkStatement(c, s, want); err != nil {
			return err
		}

		if s.Kind == ast.StmtDecl {
			c.bind(s.DeclName, s.DeclType)
		}
	}

	return nil
}

// CheckTopLevel checks one top level function and, on success, publishes its
// signature and value so later definitions can use it.
func CheckTopLevel(c *Context, tl *ast.TopLevel) error {
	m := c.mark()

	err := func() error {
		for i, p := range tl.Params {
			if err := Check(c, p.Type, ast.Lit(ast.LitType)); err != nil {
				return errors.Wrap(err, "parameter %d type", i)
			}

			c.bind(p.Name, p.Type)
		}

		if err := Check(c, tl.RetType, ast.Lit(ast.LitType)); err != nil {
			return errors.Wrap(err, "return type")
		}

		if tl.Body.Kind == ast.ExprStatement {
			return checkStatement(c, tl.Body.Stmt, tl.RetType)
		}

		return Check(c, tl.Body, tl.RetType)
	}()

	c.restore(m)

	if err != nil {
		return errors.Wrap(err, "function %v", c.Syms.Name(tl.Name))
	}

	fty := &ast.Expr{
		Kind:   ast.ExprFuncType,
		Ret:    tl.RetType.Copy(),
		Params: copyParams(tl.Params),
	}

	var def *ast.Expr

	if !lo.ContainsBy(tl.Params, func(p ast.Param) bool { return p.Name == symbol.None }) {
		def = &ast.Expr{
			Kind:   ast.ExprLambda,
			Params: copyParams(tl.Params),
			Body:   tl.Body.Copy(),
		}
	}

	c.Define(tl.Name, fty, def)

	return nil
}
