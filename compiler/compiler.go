package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/depclang/depc/compiler/ast"
	"github.com/depclang/depc/compiler/format"
	"github.com/depclang/depc/compiler/parse"
	"github.com/depclang/depc/compiler/symbol"
	"github.com/depclang/depc/compiler/types"
)

// Parse parses a source text into a translation unit together with the
// symbol table its identifiers are interned into.
func Parse(ctx context.Context, name string, text []byte) (*symbol.Table, *ast.TranslationUnit, error) {
	tab := symbol.NewTable()

	unit, err := parse.Parse(ctx, tab, text)
	if err != nil {
		return nil, nil, errors.Wrap(err, "parse %v", name)
	}

	return tab, unit, nil
}

func CheckFile(ctx context.Context, name string) error {
	text, err := os.ReadFile(name)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Check(ctx, name, text)
}

// Check parses the text, orders the top levels by their dependencies and
// type checks each in order.
func Check(ctx context.Context, name string, text []byte) error {
	tab, unit, err := Parse(ctx, name, text)
	if err != nil {
		return err
	}

	order, err := types.TopologicalSort(tab, unit)
	if err != nil {
		return errors.Wrap(err, "sort %v", name)
	}

	tlog.SpanFromContext(ctx).Printw("sorted top levels", "count", len(order), "order", order)

	c := types.NewContext(tab)

	for _, i := range order {
		if err := types.CheckTopLevel(c, unit.TopLevels[i]); err != nil {
			return errors.Wrap(err, "check %v", name)
		}
	}

	return nil
}

func FormatFile(ctx context.Context, name string) ([]byte, error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	return Format(ctx, name, text)
}

// Format parses the text and renders it back through the printer.
func Format(ctx context.Context, name string, text []byte) ([]byte, error) {
	tab, unit, err := Parse(ctx, name, text)
	if err != nil {
		return nil, err
	}

	return format.New(tab).Unit(nil, unit), nil
}
