package lower

import (
	"garnet/ast"
	"garnet/ir"
)

// s(:class, name, superclass, body...)
func (l *Lowerer) lowerClass(n *ast.Node) *ir.Node {
	wantLen(n, 2)

	var superclass *ir.Node
	if n.At(1) == nil {
		superclass = l.constGet("Object")
	} else {
		superclass = l.lowerChild(n.At(1))
	}

	return l.lowerNamespace(n, children(n, 2), func(name string) *ir.Node {
		return ir.Call("nat_subclass", ir.Env(), superclass, ir.Str(name))
	})
}

// s(:module, name, body...)
func (l *Lowerer) lowerModule(n *ast.Node) *ir.Node {
	wantLen(n, 1)

	return l.lowerNamespace(n, children(n, 1), func(name string) *ir.Node {
		return ir.Call("nat_module", ir.Env(), ir.Str(name))
	})
}

// lowerNamespace lowers a class or module definition.  The namespace is looked
// up first and created only if it does not exist so that definitions reopen
// existing classes and modules.  The body runs in its own function with the
// namespace as self.
func (l *Lowerer) lowerNamespace(n *ast.Node, body []ast.Child, create func(name string) *ir.Node) *ir.Node {
	scope, name, stmts := l.constTarget(n, n.At(0))

	fn := l.tempName(n.Kind.String() + "_body")
	namespace := l.tempName(n.Kind.String())

	l.pushFrame(n.Kind, "")
	loweredBody := l.lowerSeq(body)
	l.popFrame()

	return ir.Block(append(
		stmts,
		ir.Fn(ir.KBodyFn, fn, loweredBody),
		ir.Declare(namespace, ir.Call("nat_const_get_or_null", ir.Env(), scope, ir.Str(name))),
		ir.If(
			ir.Not(ir.Ref(namespace)),
			ir.Block(
				ir.Set(namespace, create(name)),
				ir.Call("nat_const_set", ir.Env(), scope, ir.Str(name), ir.Ref(namespace)),
			),
			nil,
		),
		ir.CallFn(fn, ir.Raw("&"+namespace+"->env"), ir.Ref(namespace)),
	)...)
}

// s(:sclass, object, body...)
func (l *Lowerer) lowerSClass(n *ast.Node) *ir.Node {
	wantLen(n, 1)

	fn := l.tempName("sclass_body")
	singleton := l.tempName("singleton")

	l.pushFrame(n.Kind, "")
	body := l.lowerSeq(children(n, 1))
	l.popFrame()

	return ir.Block(
		ir.Fn(ir.KBodyFn, fn, body),
		ir.Declare(singleton, ir.Call("nat_singleton_class", ir.Env(), l.lowerChild(n.At(0)))),
		ir.CallFn(fn, ir.Raw("&"+singleton+"->env"), ir.Ref(singleton)),
	)
}

// -----------------------------------------------------------------------------

// s(:defn, name, s(:args, params...), body...)
func (l *Lowerer) lowerDefn(n *ast.Node) *ir.Node {
	wantLen(n, 2)

	name := symbolAt(n, 0)
	fn := l.lowerMethodFn(n, name, nodeAt(n, 1), children(n, 2))

	return ir.Block(
		fn,
		ir.Call("nat_define_method", ir.Env(), ir.Self(), ir.Str(name), ir.Name(fn.NameAt(0))),
		ir.Call("nat_symbol", ir.Env(), ir.Str(name)),
	)
}

// s(:defs, owner, name, s(:args, params...), body...)
func (l *Lowerer) lowerDefs(n *ast.Node) *ir.Node {
	wantLen(n, 3)

	owner := l.lowerChild(n.At(0))
	name := symbolAt(n, 1)
	fn := l.lowerMethodFn(n, name, nodeAt(n, 2), children(n, 3))

	return ir.Block(
		fn,
		ir.Call("nat_define_singleton_method", ir.Env(), owner, ir.Str(name), ir.Name(fn.NameAt(0))),
		ir.Call("nat_symbol", ir.Env(), ir.Str(name)),
	)
}

// lowerMethodFn lowers the function implementing a method.  The method body is
// guarded against local jump errors if a block inside it returns.
func (l *Lowerer) lowerMethodFn(n *ast.Node, name string, args *ast.Node, body []ast.Child) *ir.Node {
	fn := l.tempName("fn")

	l.pushFrame(n.Kind, "")
	params := l.lowerParams(args, false)
	methodBody := l.lowerSeq(body)
	l.popFrame()

	if raisesLocalJumpError(methodBody, false) {
		methodBody = l.guardLocalJump(methodBody)
	}

	stmts := []*ir.Node{ir.Call("nat_env_set_method_name", ir.Env(), ir.Str(name))}
	stmts = append(stmts, params...)
	stmts = append(stmts, methodBody)

	return ir.Fn(ir.KDefFn, fn, ir.Block(stmts...))
}

// -----------------------------------------------------------------------------

// s(:iter, call, params, body)
//
// The params are `0` or nil for a block without parameters.  The call may be a
// `call`, `super`, `zsuper` or `lambda` node.
func (l *Lowerer) lowerIter(n *ast.Node) *ir.Node {
	wantLen(n, 2)

	call := nodeAt(n, 0)

	frameKind := ast.KIter
	if call.Kind == ast.KLambda || isLambdaCall(call) {
		frameKind = ast.KLambda
	}

	var args *ast.Node
	switch v := n.At(1).(type) {
	case *ast.Node:
		args = v
	case ast.Int, nil:
	default:
		fail(n, "invalid block parameters: %s", ast.ReprChild(v))
	}

	fn := l.tempName("block_fn")
	block := l.tempName("block")

	l.pushFrame(frameKind, "")
	params := l.lowerParams(args, true)
	body := l.lowerSeq(children(n, 2))
	l.popFrame()

	stmts := []*ir.Node{ir.Call("nat_env_set_method_name", ir.Env(), ir.Str("<block>"))}
	stmts = append(stmts, params...)
	stmts = append(stmts, body)

	var dispatch *ir.Node
	switch call.Kind {
	case ast.KCall:
		dispatch = l.lowerSend(call, ir.Name(block))
	case ast.KSuper, ast.KZSuper:
		dispatch = l.lowerSuperWith(call, ir.Name(block))
	case ast.KLambda:
		dispatch = ir.Call("nat_lambda", ir.Env(), ir.Name(block))
	default:
		fail(n, "a block cannot be passed to `%s`", call.Kind)
	}

	return ir.Block(
		ir.Fn(ir.KBlockFn, fn, ir.Block(stmts...)),
		ir.DeclareBlock(block, ir.Call("nat_block", ir.Env(), ir.Self(), ir.Name(fn))),
		dispatch,
	)
}

// isLambdaCall returns whether call is a receiverless call to `lambda`.
func isLambdaCall(call *ast.Node) bool {
	if call.Kind != ast.KCall || call.At(0) != nil {
		return false
	}

	method, ok := call.At(1).(ast.Symbol)
	return ok && method == "lambda"
}
