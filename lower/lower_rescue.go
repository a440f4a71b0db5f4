package lower

import (
	"garnet/ast"
	"garnet/ir"
)

// exception is the exception currently being handled.
const exception = ir.Raw("env->exception")

// s(:rescue, body, s(:resbody, s(:array, classes..., binding), stmts...)..., else)
//
// The guarded body runs in its own function.  When it raises, the rescue
// clauses are tried in order and the first whose classes match the exception
// runs.  An exception matching no clause is re-raised.
func (l *Lowerer) lowerRescue(n *ast.Node) *ir.Node {
	var body, els []ast.Child
	var resbodies []*ast.Node
	for _, c := range n.Children {
		switch {
		case ast.Is(c, ast.KResBody):
			resbodies = append(resbodies, c.(*ast.Node))
		case len(resbodies) == 0:
			body = append(body, c)
		default:
			els = append(els, c)
		}
	}

	fn := l.tempName("begin_fn")

	l.pushFrame(n.Kind, "")

	guarded := []*ir.Node{l.lowerSeq(body)}
	if len(els) > 0 {
		guarded = append(guarded, ir.ClearJumpBuf(), l.lowerSeq(els))
	}
	guardedBody := ir.Block(guarded...)

	var arms []ir.Arm

	// A block returning from the method raises a local jump error which must
	// reach the method rather than the clauses here.
	if raisesLocalJumpError(guardedBody, false) {
		arms = append(arms, ir.Arm{
			Test: ir.IsA(exception, l.constGet("LocalJumpError")),
			Body: ir.Call("nat_raise_exception", ir.Env(), exception),
		})
	}

	for _, rb := range resbodies {
		arms = append(arms, l.lowerResBody(rb))
	}

	f := l.popFrame()

	dispatch := ir.Cond(arms, ir.Call("nat_raise_exception", ir.Env(), exception))
	begin := ir.Fn(ir.KBeginFn, fn, ir.Rescue(guardedBody, dispatch))
	call := ir.Call("nat_call_begin", ir.Env(), ir.Self(), ir.Name(fn))

	if f.jumps == [numJumps]bool{} {
		return ir.Block(begin, call)
	}

	return ir.Block(begin, l.repeatJumps(n, f, call))
}

// lowerResBody lowers a single rescue clause.  A clause without classes
// rescues StandardError.
func (l *Lowerer) lowerResBody(rb *ast.Node) ir.Arm {
	matchers := nodeAt(rb, 0)
	if matchers.Kind != ast.KArray {
		fail(rb, "expected an array of exception classes")
	}

	var classes []*ir.Node
	var bind *ast.Node
	for i, c := range matchers.Children {
		switch {
		case ast.Is(c, ast.KSplat):
			fail(rb, "splatted exception classes are not supported")
		case i == matchers.Len()-1 && (ast.Is(c, ast.KLAsgn) || ast.Is(c, ast.KIAsgn) || ast.Is(c, ast.KGAsgn)):
			bind = c.(*ast.Node)
		default:
			classes = append(classes, l.lowerChild(c))
		}
	}

	if len(classes) == 0 {
		classes = append(classes, l.constGet("StandardError"))
	}

	body := l.lowerSeq(children(rb, 1))
	if bind != nil {
		body = ir.Block(l.lower(bind), body)
	}

	return ir.Arm{Test: ir.IsA(exception, classes...), Body: body}
}

// -----------------------------------------------------------------------------

// raisesLocalJumpError returns whether n contains a return from inside a
// block.  Nested method definitions are not searched: their returns leave only
// themselves.
func raisesLocalJumpError(n *ir.Node, inBlock bool) bool {
	switch n.Kind {
	case ir.KDefFn, ir.KBodyFn:
		return false
	case ir.KBlockFn:
		inBlock = true
	case ir.KCall:
		if inBlock && n.NameAt(0) == "nat_raise_local_jump_error" {
			return true
		}
	}

	for _, c := range n.Children {
		if child, ok := c.(*ir.Node); ok && child != nil && raisesLocalJumpError(child, inBlock) {
			return true
		}
	}

	return false
}

// guardLocalJump wraps a method body so that a local jump error raised by a
// block returning from the method is converted into the method's return value.
func (l *Lowerer) guardLocalJump(body *ir.Node) *ir.Node {
	return ir.Rescue(body, ir.Cond(
		[]ir.Arm{{
			Test: ir.IsA(exception, l.constGet("LocalJumpError")),
			Body: ir.Send(exception, "exit_value", ir.Args(), ir.NoBlock),
		}},
		ir.Call("nat_raise_exception", ir.Env(), exception),
	))
}
