package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIdentity(t *testing.T) {
	tab := NewTable()

	x := tab.Intern("foo")
	y := tab.Intern("foo")
	z := tab.Intern("bar")

	assert.Equal(t, x, y)
	assert.NotEqual(t, x, z)

	assert.Equal(t, "foo", tab.Name(x))
	assert.Equal(t, "bar", tab.Name(z))

	assert.True(t, x.IsValid())
	assert.False(t, None.IsValid())
}

func TestGensymFresh(t *testing.T) {
	tab := NewTable()

	base := tab.Intern("x")

	seen := map[Symbol]bool{base: true}

	for i := 0; i < 100; i++ {
		s := tab.Gensym(base)

		require.False(t, seen[s], "gensym returned %v twice", tab.Name(s))
		seen[s] = true

		// Derived from the base and re-interns to itself.
		require.Contains(t, tab.Name(s), "x")
		require.Equal(t, s, tab.Intern(tab.Name(s)))
	}
}

func TestGensymSkipsTaken(t *testing.T) {
	tab := NewTable()

	base := tab.Intern("y")
	taken := tab.Intern("y%0")

	s := tab.Gensym(base)

	assert.NotEqual(t, taken, s)
	assert.NotEqual(t, base, s)
}
