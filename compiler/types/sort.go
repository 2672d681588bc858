package types

import (
	"strings"

	"tlog.app/go/errors"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/set"
	"github.com/depclang/depc/compiler/symbol"
)

// TopologicalSort orders the top levels of a unit so that every definition
// comes after the definitions its signature and body depend on. A cyclic
// dependency is an error naming the cycle.
func TopologicalSort(tab *symbol.Table, unit *ast.TranslationUnit) ([]int, error) {
	index := map[symbol.Symbol]int{}

	for i, tl := range unit.TopLevels {
		index[tl.Name] = i
	}

	const (
		white = iota
		grey
		black
	)

	state := make([]int, len(unit.TopLevels))
	order := make([]int, 0, len(unit.TopLevels))

	var visit func(i int, path []int) error
	visit = func(i int, path []int) error {
		switch state[i] {
		case black:
			return nil
		case grey:
			return errors.New("cyclic dependency: %v", cycleNames(tab, unit, append(path, i)))
		}

		state[i] = grey

		deps := topLevelDeps(unit.TopLevels[i])

		var depList []int

		deps.Range(func(dep symbol.Symbol) bool {
			if j, ok := index[dep]; ok {
				depList = append(depList, j)
			}

			return true
		})

		for _, j := range depList {
			if err := visit(j, append(path, i)); err != nil {
				return err
			}
		}

		state[i] = black
		order = append(order, i)

		return nil
	}

	for i := range unit.TopLevels {
		if err := visit(i, nil); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// topLevelDeps collects the free variables of a definition: the signature
// under function type scoping plus the body minus the parameters.
func topLevelDeps(tl *ast.TopLevel) set.Syms {
	sig := ast.Expr{Kind: ast.ExprFuncType, Ret: tl.RetType, Params: tl.Params}

	fv := sig.FreeVars()

	bv := tl.Body.FreeVars()
	for _, p := range tl.Params {
		if p.Name != symbol.None {
			bv.Delete(p.Name)
		}
	}

	fv.Union(bv)

	return fv
}

func cycleNames(tab *symbol.Table, unit *ast.TranslationUnit, path []int) string {
	names := make([]string, len(path))

	for i, j := range path {
		names[i] = tab.Name(unit.TopLevels[j].Name)
	}

	return strings.Join(names, " -> ")
}
