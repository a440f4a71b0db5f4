package generate

import (
	"fmt"
	"strings"

	"garnet/ir"
	"garnet/report"
)

// genBlock emits each statement in order.  Its result is that of the last
// statement.
func (g *Generator) genBlock(n *ir.Node) Result {
	result := NoValue
	for i := range n.Children {
		result = g.gen(nodeAt(n, i))
	}

	return result
}

func (g *Generator) genDeclare(n *ir.Node) Result {
	return g.declare("NatObject", n)
}

func (g *Generator) genDeclareBlock(n *ir.Node) Result {
	return g.declare("NatBlock", n)
}

// declare emits the declaration of a temporary of type ctype.  A value-returning
// runtime call initializes the temporary directly.
func (g *Generator) declare(ctype string, n *ir.Node) Result {
	name := nameAt(n, 0)
	value := nodeAt(n, 1)

	var init string
	if value.Kind == ir.KCall && !IsVoid(nameAt(value, 0)) {
		init = g.genCallExpr(value)
	} else {
		init = g.genValue(value)
	}

	g.emitf("%s *%s = %s;", ctype, name, init)
	return Value(name)
}

func (g *Generator) genSet(n *ir.Node) Result {
	name := nameAt(n, 0)
	g.emitf("%s = %s;", name, g.genValue(nodeAt(n, 1)))
	return Value(name)
}

func (g *Generator) genRef(n *ir.Node) Result {
	return Value(nameAt(n, 0))
}

// -----------------------------------------------------------------------------

// genIf emits a conditional.  When it has both branches and either of them
// produces a value, that value is collected in a fresh temporary.  A branch
// which produces no value leaves the temporary NULL.
func (g *Generator) genIf(n *ir.Node) Result {
	cond := g.genValue(nodeAt(n, 0))
	thenLines, thenResult := g.scoped(nodeAt(n, 1))

	if n.Len() < 3 {
		g.emit(ifElse(cond, thenLines, nil, false)...)
		return NoValue
	}

	elseLines, elseResult := g.scoped(nodeAt(n, 2))
	if !thenResult.HasValue() && !elseResult.HasValue() {
		g.emit(ifElse(cond, thenLines, elseLines, true)...)
		return NoValue
	}

	name := g.temp("if")
	g.emitf("NatObject *%s = NULL;", name)
	g.emit(ifElse(cond, assign(thenLines, name, thenResult), assign(elseLines, name, elseResult), true)...)
	return Value(name)
}

// genCond emits a multi-way conditional as a chain of nested conditionals.  The
// test of each arm is only evaluated when every arm before it has failed.
func (g *Generator) genCond(n *ir.Node) Result {
	if n.Len()%2 != 0 {
		report.Invariant("cond has an odd number of children: %d", n.Len())
	}

	name := g.temp("cond")
	yields := false
	lines := g.genArms(n.Children, name, &yields)

	if !yields {
		g.emit(lines...)
		return NoValue
	}

	g.emitf("NatObject *%s = NULL;", name)
	g.emit(lines...)
	return Value(name)
}

// genArms emits the arms of a cond starting with the first arm in children.
// Each arm that produces a value assigns it to name.
func (g *Generator) genArms(children []ir.Child, name string, yields *bool) []string {
	if len(children) == 0 {
		return nil
	}

	test, ok := children[0].(*ir.Node)
	if !ok {
		report.Invariant("cond test must be a node")
	}

	body, ok := children[1].(*ir.Node)
	if !ok {
		report.Invariant("cond body must be a node")
	}

	if test.Kind == ir.KElse {
		if len(children) != 2 {
			report.Invariant("default arm of cond must be last")
		}

		lines, result := g.scoped(body)
		*yields = *yields || result.HasValue()
		return assign(lines, name, result)
	}

	saved := g.decls
	g.decls = nil

	cond := g.genValue(test)
	bodyLines, result := g.scoped(body)
	*yields = *yields || result.HasValue()
	bodyLines = assign(bodyLines, name, result)

	rest := g.genArms(children[2:], name, yields)
	g.emit(ifElse(cond, bodyLines, rest, len(rest) > 0)...)

	lines := g.decls
	g.decls = saved
	return lines
}

func (g *Generator) genLoop(n *ir.Node) Result {
	lines, _ := g.scoped(nodeAt(n, 0))
	g.emitBraced("while (1)", lines)
	return NoValue
}

func (g *Generator) genBreak(n *ir.Node) Result {
	g.emit("break;")
	return NoValue
}

func (g *Generator) genContinue(n *ir.Node) Result {
	g.emit("continue;")
	return NoValue
}

func (g *Generator) genReturn(n *ir.Node) Result {
	g.emitf("return %s;", g.genValue(nodeAt(n, 0)))
	return NoValue
}

// -----------------------------------------------------------------------------

func (g *Generator) genTruthy(n *ir.Node) Result {
	return Value(fmt.Sprintf("nat_truthy(%s)", g.genValue(nodeAt(n, 0))))
}

func (g *Generator) genNot(n *ir.Node) Result {
	return Value(fmt.Sprintf("!(%s)", g.genValue(nodeAt(n, 0))))
}

// genIsA emits a class membership test.  The classes are tested in order and
// the test stops at the first match.
func (g *Generator) genIsA(n *ir.Node) Result {
	if n.Len() < 2 {
		report.Invariant("is_a requires at least one class")
	}

	target := g.renderArg(n.Children[0])

	tests := make([]string, n.Len()-1)
	for i := range tests {
		tests[i] = fmt.Sprintf("nat_is_a(env, %s, %s)", target, g.genValue(nodeAt(n, i+1)))
	}

	if len(tests) == 1 {
		return Value(tests[0])
	}

	return Value("(" + strings.Join(tests, " || ") + ")")
}

// genRescue emits a body guarded by the runtime's exception guard.  Both the
// body and the dispatch return from the enclosing function.
func (g *Generator) genRescue(n *ir.Node) Result {
	bodyLines, bodyResult := g.scoped(nodeAt(n, 0))
	if bodyResult.HasValue() {
		bodyLines = append(bodyLines, fmt.Sprintf("return %s;", bodyResult))
	}

	dispatchLines, dispatchResult := g.scoped(nodeAt(n, 1))
	rescueLines := append([]string{setLastError, clearJumpBuf}, dispatchLines...)
	if dispatchResult.HasValue() {
		rescueLines = append(rescueLines, fmt.Sprintf("return %s;", dispatchResult))
	}
	rescueLines = append(rescueLines, "abort();")

	g.emit(ifElse(rescueGuard, bodyLines, rescueLines, true)...)
	return NoValue
}

func (g *Generator) genClearJumpBuf(n *ir.Node) Result {
	g.emit(clearJumpBuf)
	return NoValue
}

// -----------------------------------------------------------------------------

// ifElse builds the text of a conditional.
func ifElse(cond string, then, els []string, hasElse bool) []string {
	lines := []string{fmt.Sprintf("if (%s) {", cond)}
	lines = append(lines, indent(then)...)

	if hasElse {
		lines = append(lines, "} else {")
		lines = append(lines, indent(els)...)
	}

	return append(lines, "}")
}

// assign appends the assignment of result to name if result has a value.
func assign(lines []string, name string, result Result) []string {
	if !result.HasValue() {
		return lines
	}

	return append(lines, fmt.Sprintf("%s = %s;", name, result))
}
