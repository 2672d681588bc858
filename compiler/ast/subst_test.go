package ast_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/set"
	"github.com/depclang/depc/compiler/symbol"
)

func TestSubstShadowedParam(t *testing.T) {
	tab := symbol.NewTable()

	// The lambda's own parameter shadows the substituted name: nothing
	// changes and the operation still succeeds.
	x := expr(t, tab, `\(u8 x) -> x`)
	orig := x.Copy()

	err := x.Subst(tab, tab.Intern("x"), ast.Integral(42))
	require.NoError(t, err)

	assert.True(t, x.Equal(orig))
}

func TestSubstPlain(t *testing.T) {
	tab := symbol.NewTable()

	x := expr(t, tab, `\(u8 y) -> x`)

	err := x.Subst(tab, tab.Intern("x"), ast.Integral(42))
	require.NoError(t, err)

	assert.True(t, x.Equal(expr(t, tab, `\(u8 y) -> 42`)))
}

func TestSubstCaptureAvoidingRename(t *testing.T) {
	tab := symbol.NewTable()

	x := expr(t, tab, `\(u8 y) -> x`)
	y := tab.Intern("y")

	r := expr(t, tab, "y")

	err := x.Subst(tab, tab.Intern("x"), r)
	require.NoError(t, err)

	// The parameter was renamed to something fresh derived from y, the
	// parameter type survived, and the body is the replacement unchanged.
	fresh := x.Params[0].Name

	assert.NotEqual(t, y, fresh)
	assert.True(t, strings.HasPrefix(tab.Name(fresh), "y"))
	assert.True(t, x.Params[0].Type.Equal(ast.Lit(ast.LitU8)))

	assert.Equal(t, ast.ExprIdent, x.Body.Kind)
	assert.Equal(t, y, x.Body.Ident)

	// No binder in the result captures a free variable of the replacement.
	rv := r.FreeVars()
	assert.False(t, rv.Contains(fresh))
}

func TestSubstNoopWhenNotFree(t *testing.T) {
	tab := symbol.NewTable()

	z := tab.Intern("z")
	r := expr(t, tab, "m + n")

	for _, src := range corpus {
		x := expr(t, tab, src)

		fv := x.FreeVars()
		if fv.Contains(z) {
			continue
		}

		orig := x.Copy()

		err := x.Subst(tab, z, r)
		require.NoError(t, err, "subst into %q", src)

		assert.True(t, x.Equal(orig), "subst of an absent name changed %q", src)
	}
}

func TestSubstFreeVarBound(t *testing.T) {
	tab := symbol.NewTable()

	name := tab.Intern("x")
	r := expr(t, tab, "m + n")
	rv := r.FreeVars()

	for _, src := range corpus {
		x := expr(t, tab, src)

		before := x.FreeVars()

		err := x.Subst(tab, name, r)
		if err != nil {
			continue // refused, nothing to observe
		}

		// Free vars of the result stay within (before \ {x}) u free(r).
		allowed := set.Make()
		allowed.Union(before)
		allowed.Delete(name)
		allowed.Union(rv)

		xfv := x.FreeVars()
		xfv.Range(func(s symbol.Symbol) bool {
			assert.True(t, allowed.Contains(s), "subst into %q leaked %v", src, tab.Name(s))

			return true
		})
	}
}

func TestSubstReplacementIndependent(t *testing.T) {
	tab := symbol.NewTable()

	x := expr(t, tab, "x + x")
	r := expr(t, tab, "f(y)")
	orig := r.Copy()

	err := x.Subst(tab, tab.Intern("x"), r)
	require.NoError(t, err)

	assert.True(t, x.Equal(expr(t, tab, "f(y) + f(y)")))

	// Every occurrence got its own copy: destroying one side leaves the
	// other and the replacement alone.
	x.L.Reset()

	assert.True(t, x.R.Equal(orig))
	assert.True(t, r.Equal(orig))
}

func TestSubstFuncTypeRenamesLaterParams(t *testing.T) {
	tab := symbol.NewTable()

	// Substituting f := a under a binder of a: the binder is renamed in its
	// own position, in the later parameter types and in the return type.
	x := expr(t, tab, "vec(a)[u8 a, f(a) c]")

	a := tab.Intern("a")

	err := x.Subst(tab, tab.Intern("f"), expr(t, tab, "a"))
	require.NoError(t, err)

	fresh := x.Params[0].Name
	require.NotEqual(t, a, fresh)

	// Later parameter type: f(a) became a(a') with the binder renamed and
	// the callee replaced.
	pt := x.Params[1].Type
	require.Equal(t, ast.ExprCall, pt.Kind)
	assert.Equal(t, a, pt.Callee.Ident)
	assert.Equal(t, fresh, pt.Args[0].Ident)

	// Return type mentions the renamed binder too.
	require.Equal(t, ast.ExprCall, x.Ret.Kind)
	assert.Equal(t, fresh, x.Ret.Args[0].Ident)
}

func TestSubstStructFieldShadows(t *testing.T) {
	tab := symbol.NewTable()

	x := expr(t, tab, "struct { u8 n; vec(n) data; }")
	orig := x.Copy()

	// n is shadowed by the field itself: later field types keep referring
	// to the field, and the operation succeeds.
	err := x.Subst(tab, tab.Intern("n"), ast.Integral(42))
	require.NoError(t, err)

	assert.True(t, x.Equal(orig))
}

func TestSubstStructFieldRefuses(t *testing.T) {
	tab := symbol.NewTable()

	// The replacement mentions n free, and the struct declares a field n
	// before the occurrence of T: field names cannot be renamed, so the
	// substitution must refuse.
	x := expr(t, tab, "struct { u8 n; T data; }")

	err := x.Subst(tab, tab.Intern("T"), expr(t, tab, "vec(n)"))
	require.ErrorIs(t, err, ast.ErrWouldCapture)
}

func TestSubstPackFieldRefuses(t *testing.T) {
	tab := symbol.NewTable()

	x := expr(t, tab, "[p]{.n = 1, .k = T}")

	err := x.Subst(tab, tab.Intern("T"), expr(t, tab, "n"))
	require.ErrorIs(t, err, ast.ErrWouldCapture)
}

func TestSubstUnionFieldsTransparent(t *testing.T) {
	tab := symbol.NewTable()

	// Union field names do not bind, so a clashing field name is no
	// obstacle.
	x := expr(t, tab, "union { u8 n; T data; }")

	err := x.Subst(tab, tab.Intern("T"), expr(t, tab, "vec(n)"))
	require.NoError(t, err)

	assert.True(t, x.Equal(expr(t, tab, "union { u8 n; vec(n) data; }")))
}

func TestSubstBlockDeclShadows(t *testing.T) {
	tab := symbol.NewTable()

	b := body(t, tab, "void f() { x; u8 x = 1; x; }")

	err := b.Subst(tab, tab.Intern("x"), ast.Integral(42))
	require.NoError(t, err)

	stmts := b.Stmt.Body.Stmts
	require.Len(t, stmts, 3)

	// Before the declaration the occurrence was free and got replaced;
	// after it the name is bound and stays.
	assert.Equal(t, ast.ExprLiteral, stmts[0].Expr.Kind)
	assert.Equal(t, ast.ExprIdent, stmts[2].Expr.Kind)
	assert.Equal(t, tab.Intern("x"), stmts[2].Expr.Ident)
}

func TestSubstBlockDeclRenamed(t *testing.T) {
	tab := symbol.NewTable()

	b := body(t, tab, "void f() { u8 x = y; x + z; }")

	x := tab.Intern("x")

	// Substituting y := x would capture the x of the replacement under the
	// declaration, so the declaration is renamed along with its uses.
	err := b.Subst(tab, tab.Intern("y"), expr(t, tab, "x"))
	require.NoError(t, err)

	stmts := b.Stmt.Body.Stmts
	require.Len(t, stmts, 2)

	decl := stmts[0]
	fresh := decl.DeclName

	assert.NotEqual(t, x, fresh)
	assert.Equal(t, x, decl.DeclValue.Ident)

	sum := stmts[1].Expr
	require.Equal(t, ast.ExprBinOp, sum.Kind)
	assert.Equal(t, fresh, sum.L.Ident)
	assert.Equal(t, tab.Intern("z"), sum.R.Ident)
}

func TestSubstStatementConstructs(t *testing.T) {
	tab := symbol.NewTable()

	b := body(t, tab, "void f() { if (c) { return c; } else { c; } }")

	err := b.Subst(tab, tab.Intern("c"), ast.Boolean(true))
	require.NoError(t, err)

	want := body(t, tab, "void f() { if (true) { return true; } else { true; } }")

	assert.True(t, b.Equal(want))
}
