package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/parse"
	"github.com/depclang/depc/compiler/symbol"
)

func roundExpr(t *testing.T, src string) {
	t.Helper()

	ctx := context.Background()
	tab := symbol.NewTable()

	x, err := parse.ParseExpr(ctx, tab, []byte(src))
	require.NoError(t, err, "parse %q", src)

	out := New(tab).Expr(nil, x)
	assert.Equal(t, src, string(out))

	// And the rendering parses back to an equal tree.
	y, err := parse.ParseExpr(ctx, tab, out)
	require.NoError(t, err, "reparse %q", out)
	assert.True(t, x.Equal(y), "round trip of %q changed the tree", src)
}

func TestExprSurface(t *testing.T) {
	for _, src := range []string{
		"type",
		"void",
		"u8",
		"s64",
		"bool",
		"42",
		"true",
		"false",
		"x",
		"a == b",
		"a != b",
		"a < b",
		"a <= b",
		"a > b",
		"a >= b",
		"a + b",
		"a - b",
		"a >> b",
		"(a + b) == c",
		"u64[u8 x, vec(x) v]",
		"u64[u8, s8 y]",
		`\(u8 x, u8 y) -> x + y`,
		"f(a, 42)",
		"f()",
		"struct { u8 a; bool b; }",
		"union { u8 small; u64 big; }",
		"[pair]{.a = 1, .b = x}",
		"[(vec(n))]{.a = 1}",
		"record.field",
		"u8*",
		"&inner",
		"*inner",
		"(u8*)*",
		"&(f(x))",
	} {
		roundExpr(t, src)
	}
}

func TestStructExact(t *testing.T) {
	ctx := context.Background()
	tab := symbol.NewTable()

	x, err := parse.ParseExpr(ctx, tab, []byte("struct { u8 a; bool b; }"))
	require.NoError(t, err)

	out := New(tab).Expr(nil, x)

	assert.Equal(t, "struct { u8 a; bool b; }", string(out))
}

func TestIfExpr(t *testing.T) {
	tab := symbol.NewTable()

	x := &ast.Expr{
		Kind: ast.ExprIf,
		Pred: ast.Ident(tab.Intern("p")),
		Then: ast.Integral(1),
		Else: ast.Integral(2),
	}

	out := New(tab).Expr(nil, x)

	assert.Equal(t, "if p then 1 else 2", string(out))
}

func TestUnit(t *testing.T) {
	ctx := context.Background()
	tab := symbol.NewTable()

	unit, err := parse.Parse(ctx, tab, []byte(`
u8 id(u8 x) {
	return x;
}

u8 two() {
	u8 r = 2;
	return r;
}
`))
	require.NoError(t, err)

	out := New(tab).Unit(nil, unit)

	want := "u8 id(u8 x) = \n" +
		"    [{\n" +
		"    return x;\n" +
		"}\n" +
		"];\n" +
		"\n" +
		"u8 two() = \n" +
		"    [{\n" +
		"    u8 r = 2;\n" +
		"    return r;\n" +
		"}\n" +
		"];\n"

	assert.Equal(t, want, string(out))
}

func TestStatementIndent(t *testing.T) {
	ctx := context.Background()
	tab := symbol.NewTable()

	unit, err := parse.Parse(ctx, tab, []byte(`
void f() {
	if (c) {
		x;
	} else if (d) {
		{
			;
		}
	} else {
		y;
	}
}
`))
	require.NoError(t, err)

	s := unit.TopLevels[0].Body.Stmt.Body.Stmts[0]

	out := New(tab).Statement(nil, 0, s)

	want := "if (c) {\n" +
		"    x;\n" +
		"} else if (d) {\n" +
		"    {\n" +
		"        ;\n" +
		"    }\n" +
		"} else {\n" +
		"    y;\n" +
		"}\n"

	assert.Equal(t, want, string(out))
}
