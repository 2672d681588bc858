package ast_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/parse"
	"github.com/depclang/depc/compiler/set"
	"github.com/depclang/depc/compiler/symbol"
)

// corpus is a grab bag of expressions covering every parseable node kind.
var corpus = []string{
	"type",
	"void",
	"u8",
	"bool",
	"42",
	"true",
	"false",
	"x",
	"x + y",
	"(a + b) == c",
	"a >> b",
	"foo(a, 42)",
	"u64[u8 x, vec(x) v]",
	"u64[u8, u8 y]",
	`\(u8 x) -> x + y`,
	"struct { u64 n; vec(n) data; }",
	"union { u8 small; u64 big; }",
	"[pair]{.a = 1, .b = x}",
	"r.field",
	"u8*",
	"&p",
	"*p",
}

func expr(t *testing.T, tab *symbol.Table, src string) *ast.Expr {
	t.Helper()

	x, err := parse.ParseExpr(context.Background(), tab, []byte(src))
	require.NoError(t, err, "parse %q", src)

	return x
}

// body parses a one function program and returns the function's statement
// wrapped body.
func body(t *testing.T, tab *symbol.Table, src string) *ast.Expr {
	t.Helper()

	unit, err := parse.Parse(context.Background(), tab, []byte(src))
	require.NoError(t, err, "parse %q", src)
	require.Len(t, unit.TopLevels, 1)

	return unit.TopLevels[0].Body
}

func syms(tab *symbol.Table, names ...string) set.Syms {
	s := set.Make()

	for _, n := range names {
		s.Add(tab.Intern(n))
	}

	return s
}

func TestEqualReflexiveSymmetric(t *testing.T) {
	tab := symbol.NewTable()

	for _, src := range corpus {
		x := expr(t, tab, src)
		y := expr(t, tab, src)

		assert.True(t, x.Equal(x), "%q not equal to itself", src)
		assert.True(t, x.Equal(y), "%q not equal to its reparse", src)
		assert.True(t, y.Equal(x), "%q equality not symmetric", src)
	}
}

func TestEqualDistinguishes(t *testing.T) {
	tab := symbol.NewTable()

	pairs := [][2]string{
		{"a + b", "a - b"},
		{"a < b", "a <= b"},
		{"42", "43"},
		{"true", "false"},
		{"u8", "s8"},
		{"x", "y"},
		{"foo(a)", "foo(a, b)"},
		{"struct { u8 a; }", "struct { u8 b; }"},
		{"struct { u8 a; }", "union { u8 a; }"},
		{"u64[u8 x]", "u64[u8 y]"},
		{"[p]{.a = 1}", "[p]{.b = 1}"},
		{"r.a", "r.b"},
		{"p*", "*p"},
	}

	for _, pair := range pairs {
		x := expr(t, tab, pair[0])
		y := expr(t, tab, pair[1])

		assert.False(t, x.Equal(y), "%q equal to %q", pair[0], pair[1])
		assert.False(t, y.Equal(x), "%q equal to %q", pair[1], pair[0])
	}
}

func TestStatementEqual(t *testing.T) {
	tab := symbol.NewTable()

	const src = `void f() {
	u8 x = y;
	if (x == 1) {
		return x;
	} else {
		;
	}
}
`

	x := body(t, tab, src)
	y := body(t, tab, src)

	assert.True(t, x.Equal(y))
	assert.True(t, y.Equal(x))

	z := body(t, tab, "void f() {\n\tu8 x = y;\n}\n")

	assert.False(t, x.Equal(z))
}

func TestCopyEqualAndIndependent(t *testing.T) {
	tab := symbol.NewTable()

	for _, src := range corpus {
		x := expr(t, tab, src)
		cp := x.Copy()

		assert.True(t, cp.Equal(x), "copy of %q differs", src)

		xv := x.FreeVars()
		cv := cp.FreeVars()
		assert.True(t, xv.Equal(cv), "free vars of copy of %q differ", src)

		// Destroying the copy must not touch the original.
		cp.Reset()

		again := expr(t, tab, src)
		assert.True(t, x.Equal(again), "original %q changed by mutating its copy", src)
	}
}

func TestCopySharesSymbols(t *testing.T) {
	tab := symbol.NewTable()

	x := expr(t, tab, `\(u8 x) -> x + y`)
	cp := x.Copy()

	assert.Equal(t, x.Params[0].Name, cp.Params[0].Name)
	assert.NotSame(t, x.Params[0].Type, cp.Params[0].Type)
	assert.NotSame(t, x.Body, cp.Body)
}

func TestResetZeroes(t *testing.T) {
	tab := symbol.NewTable()

	for _, src := range corpus {
		x := expr(t, tab, src)
		x.Reset()

		assert.Equal(t, ast.Expr{}, *x, "reset of %q left state behind", src)

		// Resetting a zeroed node is a no-op.
		x.Reset()
		assert.Equal(t, ast.Expr{}, *x)
	}
}

func TestResetStatement(t *testing.T) {
	tab := symbol.NewTable()

	x := body(t, tab, "void f() {\n\tu8 x = y;\n\tif (x == 1) {\n\t\treturn x;\n\t}\n}\n")

	s := x.Stmt
	x.Reset()

	assert.Equal(t, ast.Expr{}, *x)
	assert.Equal(t, ast.Statement{}, *s)
}
