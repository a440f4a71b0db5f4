package lower

import (
	"garnet/ast"
	"garnet/ir"
)

// s(:block, stmts...)
func (l *Lowerer) lowerBlock(n *ast.Node) *ir.Node {
	return l.lowerSeq(n.Children)
}

// s(:if, cond, then, else)
func (l *Lowerer) lowerIf(n *ast.Node) *ir.Node {
	wantLen(n, 1)

	return ir.If(
		ir.Truthy(l.lowerChild(n.At(0))),
		l.lowerChild(n.At(1)),
		l.lowerChild(n.At(2)),
	)
}

// s(:while, cond, body, pretest) | s(:until, cond, body, pretest)
//
// A false pretest flag marks a `begin ... end while cond` loop whose body runs
// once before the condition is first tested.
func (l *Lowerer) lowerWhile(n *ast.Node) *ir.Node {
	wantLen(n, 1)

	preTest := true
	if flag, ok := n.At(2).(ast.Bool); ok {
		preTest = bool(flag)
	}

	result := l.tempName("loop_result")
	stmts := []*ir.Node{ir.Declare(result, ir.Nil())}

	// A post-test loop skips its test on the first iteration only so that
	// `next` still runs the test.
	var first string
	if !preTest {
		first = l.tempName("loop_first")
		stmts = append(stmts, ir.Declare(first, ir.True()))
	}

	l.pushFrame(n.Kind, result)
	cond := ir.Truthy(l.lowerChild(n.At(0)))
	if n.Kind == ast.KWhile {
		cond = ir.Not(cond)
	}

	exit := ir.If(cond, ir.Break(), nil)
	body := l.lowerChild(n.At(1))
	l.popFrame()

	if !preTest {
		exit = ir.If(ir.Truthy(ir.Ref(first)), ir.Set(first, ir.False()), exit)
	}

	return ir.Block(append(stmts, ir.Loop(ir.Block(exit, body)), ir.Ref(result))...)
}

// s(:case, subject, s(:when, s(:array, matchers...), body...)..., else)
func (l *Lowerer) lowerCase(n *ast.Node) *ir.Node {
	wantLen(n, 1)

	var stmts []*ir.Node
	var subject string
	if n.At(0) != nil {
		subject = l.tempName("case_subject")
		stmts = append(stmts, ir.Declare(subject, l.lowerChild(n.At(0))))
	}

	var arms []ir.Arm
	var els *ir.Node
	for i, c := range children(n, 1) {
		if ast.Is(c, ast.KWhen) {
			when := c.(*ast.Node)
			arms = append(arms, ir.Arm{
				Test: l.lowerWhenTest(when, subject),
				Body: l.lowerSeq(children(when, 1)),
			})
		} else if i == n.Len()-2 {
			els = l.lowerChild(c)
		} else {
			fail(n, "expected a `when` clause, got %s", ast.ReprChild(c))
		}
	}

	if len(arms) == 0 {
		fail(n, "case without `when` clauses")
	}

	if els == nil {
		els = ir.Nil()
	}

	return ir.Block(append(stmts, ir.Cond(arms, els))...)
}

// lowerWhenTest lowers the matchers of a `when` clause into a single test which
// is true if any matcher matches the subject.  Matchers are tried in order and
// the remaining matchers are skipped after the first match.  A case without a
// subject tests the truthiness of each matcher instead.
func (l *Lowerer) lowerWhenTest(when *ast.Node, subject string) *ir.Node {
	matchers := nodeAt(when, 0)
	if matchers.Kind != ast.KArray || matchers.Len() == 0 {
		fail(when, "expected an array of matchers")
	}

	match := func(c ast.Child) *ir.Node {
		if isSplat(c) {
			return l.lowerSplatMatcher(c.(*ast.Node), subject)
		}

		if subject == "" {
			return l.lowerChild(c)
		}

		return ir.Send(l.lowerChild(c), "===", ir.Args(ir.Ref(subject)), ir.NoBlock)
	}

	var chain func(i int) *ir.Node
	chain = func(i int) *ir.Node {
		if i == matchers.Len()-1 {
			return match(matchers.At(i))
		}

		return l.shortCircuitOr("when", match(matchers.At(i)), func() *ir.Node {
			return chain(i + 1)
		})
	}

	return ir.Truthy(chain(0))
}

// lowerSplatMatcher lowers a `when *list` matcher.  It matches if any element
// of the list matches the subject, tested in order with `===` by a block
// passed to `any?`.  The block reads the subject through a hidden variable.
// Without a subject it matches if any element is truthy.
func (l *Lowerer) lowerSplatMatcher(splat *ast.Node, subject string) *ir.Node {
	list := l.lowerArray([]ast.Child{splat})
	if subject == "" {
		return ir.Send(list, "any?", ir.Args(), ir.NoBlock)
	}

	hidden := ir.Str("%" + subject)
	fn := l.tempName("block_fn")
	block := l.tempName("block")

	match := ir.Send(ir.Raw("args[0]"), "===", ir.Args(ir.Call("nat_var_get", ir.Env(), hidden)), ir.NoBlock)
	return ir.Block(
		ir.Call("nat_var_set", ir.Env(), hidden, ir.Ref(subject)),
		ir.Fn(ir.KBlockFn, fn, match),
		ir.DeclareBlock(block, ir.Call("nat_block", ir.Env(), ir.Self(), ir.Name(fn))),
		ir.Send(list, "any?", ir.Args(), ir.Name(block)),
	)
}

// -----------------------------------------------------------------------------

// jump is a way of leaving the body of a begin/rescue early.
type jump int

const (
	jumpBreak jump = iota
	jumpNext
	jumpReturn
	numJumps
)

var jumpNames = [numJumps]string{"break", "next", "return"}

// s(:break, value)
func (l *Lowerer) lowerBreak(n *ast.Node) *ir.Node {
	var value *ir.Node
	if n.At(0) != nil {
		value = l.lowerChild(n.At(0))
	}

	return l.breakWith(n, value)
}

// breakWith leaves the innermost loop or block with value.  A nil value breaks
// with nil.
func (l *Lowerer) breakWith(n *ast.Node, value *ir.Node) *ir.Node {
	f := l.innermost()
	if f == nil {
		fail(n, "break outside of a loop or block")
	}

	switch f.kind {
	case ast.KWhile, ast.KUntil:
		if value == nil {
			return ir.Break()
		}

		return ir.Block(ir.Set(f.result, value), ir.Break())
	case ast.KIter:
		name := l.tempName("break_value")
		return ir.Block(
			ir.Declare(name, orNil(value)),
			ir.Call("nat_flag_break", ir.Name(name)),
			ir.Return(ir.Ref(name)),
		)
	case ast.KLambda:
		return ir.Return(orNil(value))
	case ast.KRescue:
		return l.leaveBegin(f, jumpBreak, orNil(value))
	}

	fail(n, "break outside of a loop or block")
	return nil
}

// s(:next, value)
func (l *Lowerer) lowerNext(n *ast.Node) *ir.Node {
	var value *ir.Node
	if n.At(0) != nil {
		value = l.lowerChild(n.At(0))
	}

	return l.nextWith(n, value)
}

// nextWith ends the current iteration of the innermost loop or block.  In a
// block, value is the result of the iteration.
func (l *Lowerer) nextWith(n *ast.Node, value *ir.Node) *ir.Node {
	f := l.innermost()
	if f == nil {
		fail(n, "next outside of a loop or block")
	}

	switch f.kind {
	case ast.KWhile, ast.KUntil:
		if value == nil {
			return ir.Continue()
		}

		return ir.Block(value, ir.Continue())
	case ast.KIter, ast.KLambda:
		return ir.Return(orNil(value))
	case ast.KRescue:
		return l.leaveBegin(f, jumpNext, orNil(value))
	}

	fail(n, "next outside of a loop or block")
	return nil
}

// s(:return, value)
func (l *Lowerer) lowerReturn(n *ast.Node) *ir.Node {
	return l.returnWith(l.lowerChild(n.At(0)))
}

// returnWith returns value from the enclosing method.  Returning from inside a
// block leaves the method that defined the block: the block raises a local
// jump error carrying the value which the method catches.
func (l *Lowerer) returnWith(value *ir.Node) *ir.Node {
	for i := len(l.frames) - 1; i >= 0; i-- {
		switch l.frames[i].kind {
		case ast.KWhile, ast.KUntil:
			continue
		case ast.KIter:
			return ir.Call("nat_raise_local_jump_error", ir.Env(), value, ir.Str("unexpected return"))
		case ast.KRescue:
			return l.leaveBegin(&l.frames[i], jumpReturn, value)
		}

		break
	}

	return ir.Return(value)
}

// -----------------------------------------------------------------------------

// leaveBegin leaves the function of the begin/rescue body f with value after
// raising the flag for the jump.  The caller of the function repeats the jump.
func (l *Lowerer) leaveBegin(f *frame, j jump, value *ir.Node) *ir.Node {
	if f.jumpFlag == "" {
		f.jumpFlag = l.tempName("begin_jump")
	}
	f.jumps[j] = true

	name := l.tempName(jumpNames[j] + "_value")
	return ir.Block(
		ir.Declare(name, value),
		ir.Call("nat_var_set", ir.Env(), jumpFlag(f.jumpFlag, j), ir.True()),
		ir.Return(ir.Ref(name)),
	)
}

// repeatJumps wraps the call of a begin/rescue function so that the jumps
// which left its body are repeated in the enclosing construct.  The flags are
// lowered before the call and tested after it.
func (l *Lowerer) repeatJumps(n *ast.Node, f frame, call *ir.Node) *ir.Node {
	var lower, test []*ir.Node
	result := l.tempName("begin_result")

	for j := jump(0); j < numJumps; j++ {
		if !f.jumps[j] {
			continue
		}

		flag := jumpFlag(f.jumpFlag, j)
		lower = append(lower, ir.Call("nat_var_set", ir.Env(), flag, ir.False()))

		var repeat *ir.Node
		switch j {
		case jumpBreak:
			repeat = l.breakWith(n, ir.Ref(result))
		case jumpNext:
			repeat = l.nextWith(n, ir.Ref(result))
		case jumpReturn:
			repeat = l.returnWith(ir.Ref(result))
		}

		test = append(test, ir.If(ir.Truthy(ir.Call("nat_var_get", ir.Env(), flag)), repeat, nil))
	}

	stmts := append(lower, ir.Declare(result, call))
	stmts = append(stmts, test...)
	return ir.Block(append(stmts, ir.Ref(result))...)
}

// jumpFlag returns the name of the variable flagging jump j.  The name is not
// a valid Ruby identifier so it cannot clash with a local variable.
func jumpFlag(base string, j jump) ir.Str {
	return ir.Str("%" + base + "_" + jumpNames[j])
}

// orNil returns value or nil if it is absent.
func orNil(value *ir.Node) *ir.Node {
	if value == nil {
		return ir.Nil()
	}

	return value
}
