package types

import (
	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/symbol"
)

type (
	// Context carries the symbol table and the bindings in scope while
	// checking. It is the per-invocation shared state; nothing here is
	// process wide.
	Context struct {
		Syms *symbol.Table

		binds []binding
		defs  map[symbol.Symbol]*ast.Expr
	}

	binding struct {
		name symbol.Symbol
		typ  *ast.Expr
	}
)

func NewContext(tab *symbol.Table) *Context {
	return &Context{
		Syms: tab,
		defs: map[symbol.Symbol]*ast.Expr{},
	}
}

// bind pushes a typing for name. Shadowing is by position: lookup scans from
// the innermost binding out.
func (c *Context) bind(name symbol.Symbol, typ *ast.Expr) {
	if name == symbol.None {
		return
	}

	c.binds = append(c.binds, binding{name: name, typ: typ})
}

// mark returns a scope marker for restore.
func (c *Context) mark() int {
	return len(c.binds)
}

func (c *Context) restore(mark int) {
	c.binds = c.binds[:mark]
}

func (c *Context) lookup(name symbol.Symbol) *ast.Expr {
	for i := len(c.binds) - 1; i >= 0; i-- {
		if c.binds[i].name == name {
			return c.binds[i].typ
		}
	}

	return nil
}

// Define publishes a checked top level: its type for lookup and, when given,
// its value for evaluation to unfold.
func (c *Context) Define(name symbol.Symbol, typ, value *ast.Expr) {
	c.bind(name, typ)

	if value != nil {
		c.defs[name] = value
	}
}
