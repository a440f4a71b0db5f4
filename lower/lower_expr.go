package lower

import (
	"garnet/ast"
	"garnet/ir"
	"garnet/util"
)

func (l *Lowerer) lowerNil(n *ast.Node) *ir.Node   { return ir.Nil() }
func (l *Lowerer) lowerTrue(n *ast.Node) *ir.Node  { return ir.True() }
func (l *Lowerer) lowerFalse(n *ast.Node) *ir.Node { return ir.False() }
func (l *Lowerer) lowerSelf(n *ast.Node) *ir.Node  { return ir.Self() }

// s(:str, text)
func (l *Lowerer) lowerStr(n *ast.Node) *ir.Node {
	return ir.Call("nat_string", ir.Env(), ir.Str(stringAt(n, 0)))
}

// s(:lit, value)
func (l *Lowerer) lowerLit(n *ast.Node) *ir.Node {
	wantLen(n, 1)
	return l.lowerLiteral(n, n.At(0))
}

// lowerLiteral lowers a literal value appearing in the node n.
func (l *Lowerer) lowerLiteral(n *ast.Node, c ast.Child) *ir.Node {
	switch v := c.(type) {
	case nil:
		return ir.Nil()
	case ast.Int:
		return ir.Call("nat_integer", ir.Env(), ir.Int(v))
	case ast.Float:
		return ir.Call("nat_float", ir.Env(), ir.Float(v))
	case ast.Symbol:
		return ir.Call("nat_symbol", ir.Env(), ir.Str(v))
	case ast.String:
		return ir.Call("nat_string", ir.Env(), ir.Str(v))
	case ast.Regexp:
		return ir.Call("nat_regexp", ir.Env(), ir.Str(v.Source), ir.Int(v.Options))
	case ast.Range:
		return ir.Call(
			"nat_range",
			ir.Env(),
			l.lowerLiteral(n, v.Lo),
			l.lowerLiteral(n, v.Hi),
			exclusiveFlag(v.Exclusive),
		)
	}

	fail(n, "unsupported literal: %s", ast.ReprChild(c))
	return nil
}

// s(:dot2, lo, hi) | s(:dot3, lo, hi)
func (l *Lowerer) lowerDot(n *ast.Node) *ir.Node {
	return ir.Call(
		"nat_range",
		ir.Env(),
		l.lowerChild(n.At(0)),
		l.lowerChild(n.At(1)),
		exclusiveFlag(n.Kind == ast.KDot3),
	)
}

func exclusiveFlag(exclusive bool) ir.Int {
	if exclusive {
		return 1
	}

	return 0
}

// -----------------------------------------------------------------------------

// s(:array, items...)
func (l *Lowerer) lowerArrayNode(n *ast.Node) *ir.Node {
	return l.lowerArray(n.Children)
}

// lowerArray builds a new array from items, in order.  Splatted items append
// every element of their value.
func (l *Lowerer) lowerArray(items []ast.Child) *ir.Node {
	name := l.tempName("arr")
	stmts := []*ir.Node{ir.Declare(name, ir.Call("nat_array", ir.Env()))}

	for _, item := range items {
		if isSplat(item) {
			splat := item.(*ast.Node)
			stmts = append(stmts, ir.Call("nat_array_push_splat", ir.Env(), ir.Name(name), l.lowerChild(splat.At(0))))
		} else {
			stmts = append(stmts, ir.Call("nat_array_push", ir.Env(), ir.Name(name), l.lowerChild(item)))
		}
	}

	return ir.Block(append(stmts, ir.Ref(name))...)
}

// s(:hash, key, value, key, value...)
func (l *Lowerer) lowerHash(n *ast.Node) *ir.Node {
	if n.Len()%2 != 0 {
		fail(n, "odd number of keys and values")
	}

	name := l.tempName("hash")
	stmts := []*ir.Node{ir.Declare(name, ir.Call("nat_hash", ir.Env()))}

	for i := 0; i < n.Len(); i += 2 {
		stmts = append(stmts, ir.Call(
			"nat_hash_put",
			ir.Env(),
			ir.Name(name),
			l.lowerChild(n.At(i)),
			l.lowerChild(n.At(i+1)),
		))
	}

	return ir.Block(append(stmts, ir.Ref(name))...)
}

// s(:dstr, start, segments...)
func (l *Lowerer) lowerDStr(n *ast.Node) *ir.Node {
	name, stmts := l.buildString(n)
	return ir.Block(append(stmts, ir.Ref(name))...)
}

// s(:dsym, start, segments...)
func (l *Lowerer) lowerDSym(n *ast.Node) *ir.Node {
	name, stmts := l.buildString(n)
	return ir.Block(append(stmts, ir.Send(ir.Ref(name), "to_sym", ir.Args(), ir.NoBlock))...)
}

// buildString builds the string of an interpolated string or symbol.  It
// returns the name of the temporary holding the string.
func (l *Lowerer) buildString(n *ast.Node) (string, []*ir.Node) {
	name := l.tempName("str")
	stmts := []*ir.Node{ir.Declare(name, ir.Call("nat_string", ir.Env(), ir.Str(stringAt(n, 0))))}

	for _, c := range children(n, 1) {
		seg, ok := c.(*ast.Node)
		if !ok || seg == nil {
			fail(n, "expected an interpolation segment, got %s", ast.ReprChild(c))
		}

		switch seg.Kind {
		case ast.KStr:
			stmts = append(stmts, ir.Call("nat_string_append", ir.Env(), ir.Name(name), ir.Str(stringAt(seg, 0))))
		case ast.KEvStr:
			// `#{}` interpolates nothing.
			if seg.At(0) == nil {
				continue
			}

			str := ir.Send(l.lowerChild(seg.At(0)), "to_s", ir.Args(), ir.NoBlock)
			stmts = append(stmts, ir.Call("nat_string_append_nat_string", ir.Env(), ir.Name(name), str))
		default:
			fail(n, "unknown interpolation segment `%s`", seg.Kind)
		}
	}

	return name, stmts
}

// -----------------------------------------------------------------------------

// s(:and, lhs, rhs)
func (l *Lowerer) lowerAnd(n *ast.Node) *ir.Node {
	wantLen(n, 2)

	lhs := l.tempName("and")
	return ir.Block(
		ir.Declare(lhs, l.lowerChild(n.At(0))),
		ir.If(ir.Truthy(ir.Ref(lhs)), l.lowerChild(n.At(1)), ir.Ref(lhs)),
	)
}

// s(:or, lhs, rhs)
func (l *Lowerer) lowerOr(n *ast.Node) *ir.Node {
	wantLen(n, 2)
	return l.shortCircuitOr("or", l.lowerChild(n.At(0)), func() *ir.Node {
		return l.lowerChild(n.At(1))
	})
}

// shortCircuitOr produces the first truthy value of lhs and rhs, evaluating
// lhs exactly once and rhs only if lhs is falsy.
func (l *Lowerer) shortCircuitOr(base string, lhs *ir.Node, rhs func() *ir.Node) *ir.Node {
	name := l.tempName(base)
	return ir.Block(
		ir.Declare(name, lhs),
		ir.If(ir.Truthy(ir.Ref(name)), ir.Ref(name), rhs()),
	)
}

// s(:not, value)
func (l *Lowerer) lowerNot(n *ast.Node) *ir.Node {
	return ir.If(ir.Truthy(l.lowerChild(n.At(0))), ir.False(), ir.True())
}

// -----------------------------------------------------------------------------

// s(:call, receiver, method, args...) | s(:attrasgn, receiver, method, args...)
func (l *Lowerer) lowerCall(n *ast.Node) *ir.Node {
	return l.lowerSend(n, nil)
}

// lowerSend lowers a call passing it block.  A nil block passes no block
// unless the call has a block argument.
func (l *Lowerer) lowerSend(n *ast.Node, block ir.Child) *ir.Node {
	wantLen(n, 2)

	method := symbolAt(n, 1)

	var receiver ir.Child = ir.Self()
	if n.At(0) != nil {
		receiver = l.lowerChild(n.At(0))
	}

	args, blockArg := l.splitBlockPass(n, children(n, 2), block)
	return ir.Send(receiver, method, l.lowerArgs(args), blockArg)
}

// s(:super, args...) | s(:zsuper)
func (l *Lowerer) lowerSuper(n *ast.Node) *ir.Node {
	return l.lowerSuperWith(n, nil)
}

// lowerSuperWith lowers a super call passing it block.  An implicit-argument
// super passes no arguments.
func (l *Lowerer) lowerSuperWith(n *ast.Node, block ir.Child) *ir.Node {
	args, blockArg := l.splitBlockPass(n, n.Children, block)
	if n.Kind == ast.KZSuper {
		args = nil
	}

	return ir.Super(l.lowerArgs(args), blockArg)
}

// splitBlockPass separates a trailing block argument (`&blk`) from args and
// returns the remaining arguments and the block to pass.
func (l *Lowerer) splitBlockPass(n *ast.Node, args []ast.Child, block ir.Child) ([]ast.Child, ir.Child) {
	if len(args) > 0 && ast.Is(args[len(args)-1], ast.KBlockPass) {
		if block != nil {
			fail(n, "both block argument and literal block passed")
		}

		bp := args[len(args)-1].(*ast.Node)
		proc := ir.Send(l.lowerChild(bp.At(0)), "to_proc", ir.Args(), ir.NoBlock)
		return args[:len(args)-1], ir.ProcToBlock(proc)
	}

	if block == nil {
		block = ir.NoBlock
	}

	return args, block
}

// lowerArgs lowers an argument list.  Lists with splatted arguments are
// collected into an array and spread.
func (l *Lowerer) lowerArgs(args []ast.Child) *ir.Node {
	if util.Any(args, isSplat) {
		return ir.ArgsArray(l.lowerArray(args))
	}

	return ir.Args(util.Map(args, l.lowerChild)...)
}

// s(:yield, args...)
func (l *Lowerer) lowerYield(n *ast.Node) *ir.Node {
	return ir.RunBlock(l.lowerArgs(n.Children))
}

// s(:match2, regexp, value): a regexp literal matched against a value.
func (l *Lowerer) lowerMatch2(n *ast.Node) *ir.Node {
	wantLen(n, 2)
	return ir.Send(l.lowerChild(n.At(0)), "=~", ir.Args(l.lowerChild(n.At(1))), ir.NoBlock)
}

// s(:match3, regexp, value): a value matched against a regexp literal.
func (l *Lowerer) lowerMatch3(n *ast.Node) *ir.Node {
	wantLen(n, 2)
	return ir.Send(l.lowerChild(n.At(1)), "=~", ir.Args(l.lowerChild(n.At(0))), ir.NoBlock)
}

// s(:alias, s(:lit, new), s(:lit, old))
func (l *Lowerer) lowerAlias(n *ast.Node) *ir.Node {
	return ir.Block(
		ir.Call("nat_alias", ir.Env(), ir.Self(), ir.Str(literalSymbolAt(n, 0)), ir.Str(literalSymbolAt(n, 1))),
		ir.Nil(),
	)
}

// definedKinds maps the kind of the operand of `defined?` to the description
// the runtime reports for it.
var definedKinds = map[ast.Kind]string{
	ast.KLVar:  "local-variable",
	ast.KIVar:  "instance-variable",
	ast.KGVar:  "global-variable",
	ast.KCVar:  "class variable",
	ast.KConst: "constant",
}

// s(:defined, expr)
func (l *Lowerer) lowerDefined(n *ast.Node) *ir.Node {
	target := nodeAt(n, 0)

	if kind, ok := definedKinds[target.Kind]; ok {
		return ir.Call("nat_defined_obj", ir.Env(), ir.Self(), ir.Str(kind), ir.Str(symbolAt(target, 0)))
	}

	switch target.Kind {
	case ast.KCall:
		var receiver ir.Child = ir.Self()
		if target.At(0) != nil {
			receiver = l.lowerChild(target.At(0))
		}

		return ir.Call("nat_defined_obj", ir.Env(), receiver, ir.Str("method"), ir.Str(symbolAt(target, 1)))
	case ast.KYield:
		return ir.Call("nat_defined_obj", ir.Env(), ir.Self(), ir.Str("yield"), ir.Str(""))
	case ast.KSelf:
		return ir.Call("nat_string", ir.Env(), ir.Str("self"))
	case ast.KNil:
		return ir.Call("nat_string", ir.Env(), ir.Str("nil"))
	case ast.KTrue:
		return ir.Call("nat_string", ir.Env(), ir.Str("true"))
	case ast.KFalse:
		return ir.Call("nat_string", ir.Env(), ir.Str("false"))
	case ast.KLAsgn, ast.KIAsgn, ast.KGAsgn, ast.KCDecl, ast.KMAsgn, ast.KOpAsgnOr, ast.KOpAsgnAnd:
		return ir.Call("nat_string", ir.Env(), ir.Str("assignment"))
	}

	return ir.Call("nat_string", ir.Env(), ir.Str("expression"))
}
