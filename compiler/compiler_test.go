package compiler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const program = `
type pair() {
	return struct { u64 a; u64 b; };
}

u64 first(pair() p) {
	return p.a;
}

u64 main() {
	u64 x = first([pair()]{.a = 1, .b = 2});
	if (x == 1) {
		return x;
	} else {
		return 0;
	}
}
`

func TestCheckSmoke(t *testing.T) {
	ctx := context.Background()

	err := Check(ctx, "program.dc", []byte(program))
	require.NoError(t, err)
}

func TestCheckOrdersTopLevels(t *testing.T) {
	ctx := context.Background()

	// main comes first in the source and depends on definitions below it.
	err := Check(ctx, "program.dc", []byte(`
u64 main() {
	return double(21);
}

u64 double(u64 x) {
	return x + x;
}
`))
	require.NoError(t, err)
}

func TestCheckReportsTypeErrors(t *testing.T) {
	ctx := context.Background()

	err := Check(ctx, "program.dc", []byte(`
u64 main() {
	return true;
}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main")
}

func TestFormatSmoke(t *testing.T) {
	ctx := context.Background()

	out, err := Format(ctx, "program.dc", []byte("u8 id(u8 x) {\n\treturn x;\n}\n"))
	require.NoError(t, err)

	assert.Equal(t, "u8 id(u8 x) = \n    [{\n    return x;\n}\n];\n", string(out))

	t.Logf("formatted:\n%s", out)
}

func TestParseError(t *testing.T) {
	ctx := context.Background()

	err := Check(ctx, "broken.dc", []byte("u64 main( {"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.dc")
}
