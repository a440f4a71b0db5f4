package lower

import (
	"garnet/ast"
	"garnet/report"
)

// fail aborts lowering with a structural error on n.
func fail(n *ast.Node, msg string, args ...interface{}) {
	report.Structural(n.Kind.String(), msg, args...)
}

// wantLen requires n to have at least min children.
func wantLen(n *ast.Node, min int) {
	if n.Len() < min {
		fail(n, "expected at least %d children, got %d", min, n.Len())
	}
}

// nodeAt returns the child of n at position i which must be a node.
func nodeAt(n *ast.Node, i int) *ast.Node {
	child, ok := n.NodeAt(i)
	if !ok {
		fail(n, "expected a node at position %d, got %s", i, ast.ReprChild(n.At(i)))
	}

	return child
}

// optNodeAt returns the child of n at position i which must be a node or
// absent.
func optNodeAt(n *ast.Node, i int) *ast.Node {
	switch v := n.At(i).(type) {
	case nil:
		return nil
	case *ast.Node:
		return v
	}

	fail(n, "expected a node at position %d, got %s", i, ast.ReprChild(n.At(i)))
	return nil
}

// symbolAt returns the child of n at position i which must be a symbol.
func symbolAt(n *ast.Node, i int) string {
	sym, ok := n.At(i).(ast.Symbol)
	if !ok {
		fail(n, "expected a symbol at position %d, got %s", i, ast.ReprChild(n.At(i)))
	}

	return string(sym)
}

// stringAt returns the child of n at position i which must be a string.
func stringAt(n *ast.Node, i int) string {
	str, ok := n.At(i).(ast.String)
	if !ok {
		fail(n, "expected a string at position %d, got %s", i, ast.ReprChild(n.At(i)))
	}

	return string(str)
}

// literalSymbolAt returns the symbol held by the literal node at position i of
// n: eg. the names in `s(:alias, s(:lit, :new), s(:lit, :old))`.
func literalSymbolAt(n *ast.Node, i int) string {
	lit := nodeAt(n, i)
	if lit.Kind != ast.KLit {
		fail(n, "expected a symbol literal at position %d", i)
	}

	return symbolAt(lit, 0)
}

// children returns the children of n from position i onward.
func children(n *ast.Node, i int) []ast.Child {
	if i >= n.Len() {
		return nil
	}

	return n.Children[i:]
}

// isSplat returns whether c is a splatted item.
func isSplat(c ast.Child) bool {
	return ast.Is(c, ast.KSplat)
}
