package generate

import (
	"fmt"
	"strings"

	"garnet/ir"
	"garnet/report"
)

// genCall emits a call to a runtime entry point.  Calls to entry points that
// return nothing become statements.  All other calls are captured in a fresh
// temporary whether or not their value is used.
func (g *Generator) genCall(n *ir.Node) Result {
	callee := nameAt(n, 0)
	if IsVoid(callee) {
		g.emitf("%s(%s);", callee, g.renderArgs(n.Children[1:]))
		return NoValue
	}

	name := g.temp(callee)
	g.emitf("NatObject *%s = %s;", name, g.genCallExpr(n))
	return Value(name)
}

// genCallExpr emits the arguments of a call and returns the text of the call
// itself.
func (g *Generator) genCallExpr(n *ir.Node) string {
	callee := nameAt(n, 0)
	return fmt.Sprintf("%s(%s)", callee, g.renderArgs(n.Children[1:]))
}

// genSend emits a dynamic dispatch.  The receiver is evaluated first followed
// by the arguments and then the block.
func (g *Generator) genSend(n *ir.Node) Result {
	if n.Len() != 4 {
		report.Invariant("send requires 4 children not %d", n.Len())
	}

	receiver := g.renderArg(n.Children[0])

	method, ok := n.Children[1].(ir.Str)
	if !ok {
		report.Invariant("send method must be a string")
	}

	argc, argv := g.genArgs(nodeAt(n, 2))
	block := g.genBlockArg(n.Children[3])

	name := g.temp("nat_send")
	g.emitf(
		"NatObject *%s = nat_send(env, %s, %s, %s, %s, %s);",
		name, receiver, cString(string(method)), argc, argv, block,
	)
	return Value(name)
}

func (g *Generator) genSuper(n *ir.Node) Result {
	argc, argv := g.genArgs(nodeAt(n, 0))
	block := g.genBlockArg(n.Children[1])

	name := g.temp("nat_super")
	g.emitf("NatObject *%s = nat_super(env, self, %s, %s, %s);", name, argc, argv, block)
	return Value(name)
}

// genRunBlock emits an invocation of the block passed to the current function.
// A `break` out of that block ends the current function.
func (g *Generator) genRunBlock(n *ir.Node) Result {
	argc, argv := g.genArgs(nodeAt(n, 0))

	name := g.temp("run_block")
	g.emitf("NatObject *%s = %s(env, block, %s, %s, NULL);", name, runBlockMacro, argc, argv)
	return Value(name)
}

// genArgs emits an argument list and returns the C expressions for its count
// and its array.
func (g *Generator) genArgs(n *ir.Node) (string, string) {
	switch n.Kind {
	case ir.KArgs:
		if n.Len() == 0 {
			return "0", "NULL"
		}

		values := make([]string, n.Len())
		for i := range values {
			values[i] = g.genValue(nodeAt(n, i))
		}

		name := g.temp("args")
		g.emitf("NatObject *%s[%d] = { %s };", name, n.Len(), strings.Join(values, ", "))
		return fmt.Sprint(n.Len()), name
	case ir.KArgsArray:
		array := g.genValue(nodeAt(n, 0))
		return array + "->ary_len", array + "->ary"
	}

	report.Invariant("expected an argument list not `%s`", n.Kind)
	return "", ""
}

// genBlockArg emits the block passed to a dispatch.
func (g *Generator) genBlockArg(c ir.Child) string {
	switch v := c.(type) {
	case ir.Raw:
		return string(v)
	case ir.Name:
		return string(v)
	case *ir.Node:
		if v.Kind == ir.KProcToBlock {
			return g.genValue(nodeAt(v, 0)) + "->block"
		}
	}

	report.Invariant("invalid block argument: %s", ir.ReprChild(c))
	return ""
}

// -----------------------------------------------------------------------------

// genFn emits a synthesized function into the list of completed functions.
// Functions are never emitted inline and produce no value.
func (g *Generator) genFn(n *ir.Node) Result {
	name := nameAt(n, 0)

	lines, result := g.scoped(nodeAt(n, 1))
	if result.HasValue() {
		lines = append(lines, fmt.Sprintf("return %s;", result))
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "NatObject *%s(%s) {\n", name, fnParams[n.Kind])
	writeIndented(&sb, lines)
	sb.WriteString("}")

	g.fns = append(g.fns, sb.String())
	return NoValue
}

func (g *Generator) genCallFn(n *ir.Node) Result {
	fn := nameAt(n, 0)

	name := g.temp("call")
	g.emitf("NatObject *%s = %s(%s);", name, fn, g.renderArgs(n.Children[1:]))
	return Value(name)
}

// genEnvObject emits a lookup of one of the nil, true or false objects.
func (g *Generator) genEnvObject(n *ir.Node) Result {
	name := g.temp(n.Kind.String())
	g.emitf("NatObject *%s = env_get(env, %s);", name, cString(n.Kind.String()))
	return Value(name)
}

func (g *Generator) genSelf(n *ir.Node) Result {
	return Value("self")
}

func (g *Generator) genEnv(n *ir.Node) Result {
	return Value("env")
}
