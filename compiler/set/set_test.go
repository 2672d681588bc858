package set

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/depclang/depc/compiler/symbol"
)

func TestBasicOps(t *testing.T) {
	tab := symbol.NewTable()

	a := tab.Intern("a")
	b := tab.Intern("b")
	c := tab.Intern("c")

	s := Make()

	assert.Equal(t, 0, s.Size())
	assert.False(t, s.Contains(a))

	s.Add(a)
	s.Add(b)
	s.Add(a)

	assert.Equal(t, 2, s.Size())
	assert.True(t, s.Contains(a))
	assert.True(t, s.Contains(b))
	assert.False(t, s.Contains(c))

	s.Delete(a)

	assert.False(t, s.Contains(a))
	assert.Equal(t, 1, s.Size())

	// Deleting what is not there is fine.
	s.Delete(c)
	assert.Equal(t, 1, s.Size())
}

func TestUnion(t *testing.T) {
	tab := symbol.NewTable()

	var syms []symbol.Symbol
	for _, n := range []string{"a", "b", "c", "d"} {
		syms = append(syms, tab.Intern(n))
	}

	x := Make()
	x.Add(syms[0])
	x.Add(syms[1])

	y := Make()
	y.Add(syms[1])
	y.Add(syms[3])

	x.Union(y)

	assert.Equal(t, 3, x.Size())
	for _, s := range []symbol.Symbol{syms[0], syms[1], syms[3]} {
		assert.True(t, x.Contains(s))
	}
	assert.False(t, x.Contains(syms[2]))

	// Union does not modify the source.
	assert.Equal(t, 2, y.Size())
}

func TestEqualAndRange(t *testing.T) {
	tab := symbol.NewTable()

	a := tab.Intern("a")
	b := tab.Intern("b")

	x := Make()
	y := Make()

	assert.True(t, x.Equal(y))

	x.Add(a)
	assert.False(t, x.Equal(y))

	y.Add(a)
	assert.True(t, x.Equal(y))

	x.Add(b)
	x.Delete(b)
	assert.True(t, x.Equal(y))

	var got []symbol.Symbol
	x.Range(func(s symbol.Symbol) bool {
		got = append(got, s)

		return true
	})

	assert.Equal(t, []symbol.Symbol{a}, got)
}

func TestReset(t *testing.T) {
	tab := symbol.NewTable()

	s := Make()
	s.Add(tab.Intern("a"))
	s.Reset()

	assert.Equal(t, 0, s.Size())
}
