package ast

import (
	"tlog.app/go/errors"

	"github.com/depclang/depc/compiler/set"
	"github.com/depclang/depc/compiler/symbol"
)

// ErrWouldCapture is returned when substitution reaches a struct or pack
// field name that occurs free in the replacement, whether or not the
// substituted name occurs after that field. Field names are part of the
// type's public interface; renaming one would change the type's identity, so
// the operation refuses instead.
var ErrWouldCapture = errors.New("substitution captures a record field name")

// Subst replaces every free occurrence of name in x by a deep copy of
// replacement, renaming function type and lambda parameters where a free
// variable of replacement would otherwise be captured. x is rewritten in
// place; replacement is never modified or consumed.
//
// A binder whose name equals name shadows the substitution: the walk stops
// below it and reports success. On error, mutations already applied to x are
// kept; the caller must treat x as semantically undefined.
func (x *Expr) Subst(tab *symbol.Table, name symbol.Symbol, replacement *Expr) error {
	switch x.Kind {
	case ExprLiteral:
		return nil

	case ExprIdent:
		if x.Ident == name {
			x.Reset()
			*x = *replacement.Copy()
		}

		return nil

	case ExprBinOp:
		if err := x.L.Subst(tab, name, replacement); err != nil {
			return err
		}

		return x.R.Subst(tab, name, replacement)

	case ExprIf:
		if err := x.Pred.Subst(tab, name, replacement); err != nil {
			return err
		}
		if err := x.Then.Subst(tab, name, replacement); err != nil {
			return err
		}

		return x.Else.Subst(tab, name, replacement)

	case ExprFuncType:
		shadowed, err := substParams(tab, x.Params, x.Ret, name, replacement)
		if err != nil || shadowed {
			return err
		}

		return x.Ret.Subst(tab, name, replacement)

	case ExprLambda:
		shadowed, err := substParams(tab, x.Params, x.Body, name, replacement)
		if err != nil || shadowed {
			return err
		}

		return x.Body.Subst(tab, name, replacement)

	case ExprCall:
		if err := x.Callee.Subst(tab, name, replacement); err != nil {
			return err
		}

		for _, a := range x.Args {
			if err := a.Subst(tab, name, replacement); err != nil {
				return err
			}
		}

		return nil

	case ExprStruct:
		fv := replacement.FreeVars()

		for i := range x.Fields {
			if err := x.Fields[i].Type.Subst(tab, name, replacement); err != nil {
				return err
			}

			if done, err := fieldScope(fv, x.Fields[i].Name, name); done {
				return err
			}
		}

		return nil

	case ExprUnion:
		// Union field names bind nothing.
		for i := range x.Fields {
			if err := x.Fields[i].Type.Subst(tab, name, replacement); err != nil {
				return err
			}
		}

		return nil

	case ExprPack:
		// Packs always get the struct treatment of field names, whatever the
		// packed type: an assigned field name that occurs free in the
		// replacement refuses the substitution, for a pack over a union too.
		if err := x.PackType.Subst(tab, name, replacement); err != nil {
			return err
		}

		fv := replacement.FreeVars()

		for i := range x.Assigns {
			if err := x.Assigns[i].Value.Subst(tab, name, replacement); err != nil {
				return err
			}

			if done, err := fieldScope(fv, x.Assigns[i].Name, name); done {
				return err
			}
		}

		return nil

	case ExprMember:
		return x.Record.Subst(tab, name, replacement)

	case ExprPointer, ExprReference, ExprDereference:
		return x.Inner.Subst(tab, name, replacement)

	case ExprStatement:
		return x.Stmt.Subst(tab, name, replacement)
	}

	return errors.New("substitution into %v expression", x.Kind)
}

// substParams runs the binder part of substitution shared by function types
// and lambdas. Parameters are processed left to right; rest is the subterm
// every parameter additionally scopes over: the return type of a function
// type, the body of a lambda.
//
// Reports shadowed when a parameter name equals the substituted name, in
// which case the caller must leave rest alone: occurrences below that binder
// are bound, and the substitution is already complete.
func substParams(tab *symbol.Table, params []Param, rest *Expr, name symbol.Symbol, replacement *Expr) (shadowed bool, err error) {
	fv := replacement.FreeVars()

	for i := range params {
		if err = params[i].Type.Subst(tab, name, replacement); err != nil {
			return false, err
		}

		pn := params[i].Name
		if pn == symbol.None {
			continue
		}

		if pn == name {
			return true, nil
		}

		if !fv.Contains(pn) {
			continue
		}

		// The replacement mentions this parameter's name free. Rename the
		// parameter in its binding position and in everything it scopes
		// over: the later parameter types and rest.
		fresh := tab.Gensym(pn)
		alias := Ident(fresh)
		params[i].Name = fresh

		for j := i + 1; j < len(params); j++ {
			if err = params[j].Type.Subst(tab, pn, alias); err != nil {
				return false, errors.Wrap(err, "rename parameter %v", tab.Name(pn))
			}
		}

		if err = rest.Subst(tab, pn, alias); err != nil {
			return false, errors.Wrap(err, "rename parameter %v", tab.Name(pn))
		}
	}

	return false, nil
}

// fieldScope decides what a struct or pack field name does to a running
// substitution: shadow it (done, no error), refuse it (the name would capture
// a free variable of the replacement and cannot be renamed), or let it pass.
func fieldScope(fv set.Syms, field, name symbol.Symbol) (done bool, err error) {
	if field == name {
		return true, nil
	}

	if fv.Contains(field) {
		return true, ErrWouldCapture
	}

	return false, nil
}

// Subst rewrites the statement in place, replacing free occurrences of name
// by a copy of replacement.
func (x *Statement) Subst(tab *symbol.Table, name symbol.Symbol, replacement *Expr) error {
	switch x.Kind {
	case StmtEmpty:
		return nil

	case StmtExpr, StmtReturn:
		return x.Expr.Subst(tab, name, replacement)

	case StmtBlock:
		return x.Body.Subst(tab, name, replacement)

	case StmtDecl:
		if err := x.DeclType.Subst(tab, name, replacement); err != nil {
			return err
		}
		if x.DeclValue != nil {
			return x.DeclValue.Subst(tab, name, replacement)
		}

		return nil

	case StmtIf:
		for i := range x.Conds {
			if err := x.Conds[i].Subst(tab, name, replacement); err != nil {
				return err
			}
			if err := x.Thens[i].Subst(tab, name, replacement); err != nil {
				return err
			}
		}

		return x.Else.Subst(tab, name, replacement)
	}

	return errors.New("substitution into %v statement", x.Kind)
}

// Subst rewrites every statement of the block, honoring declaration scope: a
// declaration of name itself shadows the remaining statements, and a
// declaration whose name occurs free in replacement is renamed together with
// the statements it scopes over.
func (x Block) Subst(tab *symbol.Table, name symbol.Symbol, replacement *Expr) error {
	fv := replacement.FreeVars()

	for i, s := range x.Stmts {
		if err := s.Subst(tab, name, replacement); err != nil {
			return err
		}

		if s.Kind != StmtDecl {
			continue
		}

		if s.DeclName == name {
			// The remaining statements see the declared name, not the
			// substituted one.
			return nil
		}

		if !fv.Contains(s.DeclName) {
			continue
		}

		old := s.DeclName
		fresh := tab.Gensym(old)
		s.DeclName = fresh

		// The rename is itself a block substitution over the tail so that a
		// redeclaration of the old name stops it.
		tail := Block{Stmts: x.Stmts[i+1:]}
		if err := tail.Subst(tab, old, Ident(fresh)); err != nil {
			return errors.Wrap(err, "rename declaration %v", tab.Name(old))
		}
	}

	return nil
}
