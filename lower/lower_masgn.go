package lower

import (
	"garnet/ast"
	"garnet/ir"
)

// s(:masgn, s(:array, targets...), value)
//
// The value is converted to an array once and each target is bound to the
// element at its path.  The assignment evaluates to the converted array.
func (l *Lowerer) lowerMAsgn(n *ast.Node) *ir.Node {
	wantLen(n, 2)

	lhs := nodeAt(n, 0)
	if lhs.Kind != ast.KArray {
		fail(n, "expected an array of targets")
	}

	targets := make([]*target, lhs.Len())
	for i, c := range lhs.Children {
		targets[i] = l.parseTarget(n, c)
	}

	// Resolve the paths before lowering anything so that oversized patterns
	// are rejected up front.
	bindings := resolvePaths(n, targets, nil)

	rhs := nodeAt(n, 1)
	var value *ir.Node
	switch rhs.Kind {
	case ast.KToAry, ast.KSplat:
		value = l.lowerChild(rhs.At(0))
	default:
		value = l.lower(rhs)
	}

	array := l.tempName("masgn_value")
	stmts := []*ir.Node{ir.Declare(array, ir.Call("nat_to_ary", ir.Env(), value, ir.Raw("false")))}

	for _, b := range bindings {
		element := ir.Call(
			"nat_array_value_by_path",
			append(
				[]ir.Child{
					ir.Env(),
					ir.Name(array),
					ir.Nil(),
					cBool(b.target.splat),
					ir.Int(b.offsetFromEnd),
					ir.Int(len(b.path)),
				},
				pathChildren(b.path)...,
			)...,
		)

		stmts = append(stmts, l.bindTarget(b.target, element, false))
	}

	return ir.Block(append(stmts, ir.Ref(array))...)
}
