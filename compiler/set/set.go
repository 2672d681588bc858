package set

import (
	"math/bits"

	"tlog.app/go/tlog/tlwire"

	"github.com/depclang/depc/compiler/symbol"
)

type (
	// Syms is a finite set of interned symbols, bitmap backed over the symbol
	// handles. The zero value is an empty set ready to use.
	Syms struct {
		b []uint64
	}
)

func Make() Syms {
	return Syms{}
}

func (s *Syms) Add(x symbol.Symbol) {
	i, j := ij(x)

	s.grow(i)

	s.b[i] |= 1 << j
}

func (s *Syms) Delete(x symbol.Symbol) {
	i, j := ij(x)

	if i >= len(s.b) {
		return
	}

	s.b[i] &^= 1 << j
}

func (s *Syms) Contains(x symbol.Symbol) bool {
	i, j := ij(x)

	if i >= len(s.b) {
		return false
	}

	return (s.b[i] & (1 << j)) != 0
}

// Union adds every element of x to s.
func (s *Syms) Union(x Syms) {
	s.grow(len(x.b) - 1)

	for i, w := range x.b {
		s.b[i] |= w
	}
}

func (s *Syms) Size() (r int) {
	if s == nil {
		return 0
	}

	for _, w := range s.b {
		r += bits.OnesCount64(w)
	}

	return r
}

func (s *Syms) Equal(x Syms) bool {
	long, short := s.b, x.b
	if len(long) < len(short) {
		long, short = short, long
	}

	for i, w := range long {
		if i < len(short) {
			if w != short[i] {
				return false
			}

			continue
		}

		if w != 0 {
			return false
		}
	}

	return true
}

func (s *Syms) Reset() {
	for i := range s.b {
		s.b[i] = 0
	}
}

func (s *Syms) Range(f func(x symbol.Symbol) bool) {
	for i, w := range s.b {
		if w == 0 {
			continue
		}

		for j := 0; j < 64; j++ {
			if (w & (1 << j)) == 0 {
				continue
			}

			if !f(symbol.Symbol(i*64 + j)) {
				return
			}
		}
	}
}

func (s Syms) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Array, -1)

	s.Range(func(x symbol.Symbol) bool {
		b = e.AppendInt(b, int(x))

		return true
	})

	b = e.AppendBreak(b)

	return b
}

func ij(x symbol.Symbol) (i int, j int) {
	i, j = int(x)/64, int(x)%64

	return i, j
}

func (s *Syms) grow(i int) {
	for i >= len(s.b) {
		s.b = append(s.b, 0)
	}
}
