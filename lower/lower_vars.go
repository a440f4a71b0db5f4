package lower

import (
	"garnet/ast"
	"garnet/ir"
)

// s(:lvar, name)
func (l *Lowerer) lowerLVar(n *ast.Node) *ir.Node {
	return ir.Call("nat_var_get", ir.Env(), ir.Str(symbolAt(n, 0)))
}

// s(:lasgn, name, value)
func (l *Lowerer) lowerLAsgn(n *ast.Node) *ir.Node {
	return ir.Call("nat_var_set", ir.Env(), ir.Str(symbolAt(n, 0)), l.lowerChild(n.At(1)))
}

// s(:ivar, name)
func (l *Lowerer) lowerIVar(n *ast.Node) *ir.Node {
	return ir.Call("nat_ivar_get", ir.Env(), ir.Self(), ir.Str(symbolAt(n, 0)))
}

// s(:iasgn, name, value)
func (l *Lowerer) lowerIAsgn(n *ast.Node) *ir.Node {
	return ir.Call("nat_ivar_set", ir.Env(), ir.Self(), ir.Str(symbolAt(n, 0)), l.lowerChild(n.At(1)))
}

// s(:gvar, name)
func (l *Lowerer) lowerGVar(n *ast.Node) *ir.Node {
	return ir.Call("nat_global_get", ir.Env(), ir.Str(symbolAt(n, 0)))
}

// s(:gasgn, name, value)
func (l *Lowerer) lowerGAsgn(n *ast.Node) *ir.Node {
	return ir.Call("nat_global_set", ir.Env(), ir.Str(symbolAt(n, 0)), l.lowerChild(n.At(1)))
}

// s(:cvar, name)
func (l *Lowerer) lowerCVar(n *ast.Node) *ir.Node {
	return ir.Call("nat_cvar_get", ir.Env(), ir.Self(), ir.Str(symbolAt(n, 0)))
}

// s(:cvasgn, name, value) | s(:cvdecl, name, value)
func (l *Lowerer) lowerCVAsgn(n *ast.Node) *ir.Node {
	return ir.Call("nat_cvar_set", ir.Env(), ir.Self(), ir.Str(symbolAt(n, 0)), l.lowerChild(n.At(1)))
}

// s(:const, name)
func (l *Lowerer) lowerConst(n *ast.Node) *ir.Node {
	return l.constGet(symbolAt(n, 0))
}

// constGet looks up a constant in the lexical scope of self.
func (l *Lowerer) constGet(name string) *ir.Node {
	return ir.Call("nat_const_get", ir.Env(), ir.Self(), ir.Str(name))
}

// s(:colon2, scope, name)
func (l *Lowerer) lowerColon2(n *ast.Node) *ir.Node {
	return ir.Call("nat_const_get", ir.Env(), l.lowerChild(n.At(0)), ir.Str(symbolAt(n, 1)))
}

// s(:cdecl, name, value) | s(:cdecl, s(:colon2, scope, name), value)
func (l *Lowerer) lowerCDecl(n *ast.Node) *ir.Node {
	scope, name, stmts := l.constTarget(n, n.At(0))
	value := l.lowerChild(n.At(1))

	return ir.Block(append(stmts, ir.Call("nat_const_set", ir.Env(), scope, ir.Str(name), value))...)
}

// constTarget resolves the namespace and name a constant is defined under.
// The returned statements evaluate the namespace and must run first.
func (l *Lowerer) constTarget(n *ast.Node, c ast.Child) (ir.Child, string, []*ir.Node) {
	switch v := c.(type) {
	case ast.Symbol:
		return ir.Self(), string(v), nil
	case *ast.Node:
		if v != nil && v.Kind == ast.KColon2 {
			scope := l.tempName("scope")
			return ir.Name(scope), symbolAt(v, 1), []*ir.Node{ir.Declare(scope, l.lowerChild(v.At(0)))}
		}
	}

	fail(n, "invalid constant name: %s", ast.ReprChild(c))
	return nil, "", nil
}

// -----------------------------------------------------------------------------

// s(:op_asgn_or, s(:lvar, name), s(:lasgn, name, value))
// s(:op_asgn_and, s(:ivar, name), s(:iasgn, name, value))
func (l *Lowerer) lowerOpAsgn(n *ast.Node) *ir.Node {
	variable := nodeAt(n, 0)
	asgn := nodeAt(n, 1)

	var current *ir.Node
	var stmts []*ir.Node

	switch variable.Kind {
	case ast.KLVar:
		// A local assigned by `||=` exists from here on even if the
		// assignment never runs.
		name := symbolAt(variable, 0)
		stmts = append(stmts, ir.Call("nat_var_declare", ir.Env(), ir.Str(name)))

		defined := ir.Call("nat_defined_obj", ir.Env(), ir.Self(), ir.Str("local-variable"), ir.Str(name))
		current = ir.If(ir.Truthy(defined), ir.Call("nat_var_get", ir.Env(), ir.Str(name)), ir.Nil())
	case ast.KIVar:
		current = l.lowerIVar(variable)
	case ast.KGVar:
		current = l.lowerGVar(variable)
	case ast.KCVar:
		current = ir.Call("nat_cvar_get_or_null", ir.Env(), ir.Self(), ir.Str(symbolAt(variable, 0)))
	case ast.KConst:
		current = ir.Call("nat_const_get_or_null", ir.Env(), ir.Self(), ir.Str(symbolAt(variable, 0)))
	default:
		fail(n, "cannot assign to `%s`", variable.Kind)
	}

	name := l.tempName(n.Kind.String())
	stmts = append(stmts, ir.Declare(name, current))

	// Undefined class variables and constants are NULL, which the runtime
	// treats as falsy.
	test := ir.Truthy(ir.Ref(name))

	if n.Kind == ast.KOpAsgnOr {
		stmts = append(stmts, ir.If(test, ir.Ref(name), l.lower(asgn)))
	} else {
		stmts = append(stmts, ir.If(test, l.lower(asgn), ir.Ref(name)))
	}

	return ir.Block(stmts...)
}
