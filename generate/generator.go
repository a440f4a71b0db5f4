package generate

import (
	"fmt"
	"strings"

	"garnet/common"
	"garnet/ir"
	"garnet/report"
)

// Result is the outcome of emitting a single IR node: either the C expression
// holding the node's value or no value at all.
type Result struct {
	expr string
}

// NoValue is the result of a node that produces no value.
var NoValue = Result{}

// Value returns the result holding expr.
func Value(expr string) Result {
	return Result{expr: expr}
}

// HasValue returns whether the result holds a value.
func (r Result) HasValue() bool {
	return r.expr != ""
}

func (r Result) String() string {
	return r.expr
}

// -----------------------------------------------------------------------------

// Generator is responsible for converting the lowered IR tree into C source
// text calling into the Ruby runtime.  Generators are created once per
// compilation.
type Generator struct {
	// ctx is the compilation context from which temporary names are minted.
	ctx *common.Context

	// header is the runtime header included at the top of the output.
	header string

	// decls is the declaration buffer of the innermost open scope.
	decls []string

	// fns is the list of completed function definitions in the order they were
	// completed.
	fns []string
}

// NewGenerator creates a new generator minting names from ctx and including
// the runtime header named header.
func NewGenerator(ctx *common.Context, header string) *Generator {
	if header == "" {
		header = common.DefaultRuntimeHeader
	}

	return &Generator{ctx: ctx, header: header}
}

// Generate converts the lowered program rooted at root into C source text.
func Generate(ctx *common.Context, root *ir.Node, header string) (string, error) {
	return NewGenerator(ctx, header).Generate(root)
}

// Generate converts the lowered program rooted at root into C source text.  The
// program becomes the body of the `EVAL` entry point.  A generator should only
// be used to generate a single program.
func (g *Generator) Generate(root *ir.Node) (text string, err error) {
	defer report.Catch(&err)

	lines, result := g.scoped(root)
	if result.HasValue() {
		lines = append(lines, fmt.Sprintf("return %s;", result))
	} else {
		lines = append(lines, `return env_get(env, "nil");`)
	}

	sb := strings.Builder{}
	fmt.Fprintf(&sb, "#include \"%s\"\n\n", g.header)

	for _, fn := range g.fns {
		sb.WriteString(fn)
		sb.WriteString("\n\n")
	}

	sb.WriteString(entryHeader)
	sb.WriteString(" {\n")
	writeIndented(&sb, lines)
	sb.WriteString("}\n")

	return sb.String(), nil
}

// -----------------------------------------------------------------------------

// genFuncs maps each IR kind to the function emitting it.
var genFuncs [ir.NumKinds]func(*Generator, *ir.Node) Result

func init() {
	genFuncs = [ir.NumKinds]func(*Generator, *ir.Node) Result{
		ir.KBlock:        (*Generator).genBlock,
		ir.KDeclare:      (*Generator).genDeclare,
		ir.KDeclareBlock: (*Generator).genDeclareBlock,
		ir.KSet:          (*Generator).genSet,
		ir.KRef:          (*Generator).genRef,
		ir.KIf:           (*Generator).genIf,
		ir.KLoop:         (*Generator).genLoop,
		ir.KBreak:        (*Generator).genBreak,
		ir.KContinue:     (*Generator).genContinue,
		ir.KReturn:       (*Generator).genReturn,
		ir.KCond:         (*Generator).genCond,
		ir.KElse:         (*Generator).genMisplaced,
		ir.KTruthy:       (*Generator).genTruthy,
		ir.KNot:          (*Generator).genNot,
		ir.KIsA:          (*Generator).genIsA,
		ir.KCall:         (*Generator).genCall,
		ir.KSend:         (*Generator).genSend,
		ir.KSuper:        (*Generator).genSuper,
		ir.KRunBlock:     (*Generator).genRunBlock,
		ir.KArgs:         (*Generator).genMisplaced,
		ir.KArgsArray:    (*Generator).genMisplaced,
		ir.KProcToBlock:  (*Generator).genMisplaced,
		ir.KRescue:       (*Generator).genRescue,
		ir.KClearJumpBuf: (*Generator).genClearJumpBuf,
		ir.KDefFn:        (*Generator).genFn,
		ir.KBlockFn:      (*Generator).genFn,
		ir.KBeginFn:      (*Generator).genFn,
		ir.KBodyFn:       (*Generator).genFn,
		ir.KCallFn:       (*Generator).genCallFn,
		ir.KNil:          (*Generator).genEnvObject,
		ir.KTrue:         (*Generator).genEnvObject,
		ir.KFalse:        (*Generator).genEnvObject,
		ir.KSelf:         (*Generator).genSelf,
		ir.KEnv:          (*Generator).genEnv,
	}
}

// gen emits a single node into the current scope.
func (g *Generator) gen(n *ir.Node) Result {
	if n == nil {
		report.Invariant("missing node")
	}

	if n.Kind < 0 || n.Kind >= ir.NumKinds {
		report.Structural(n.Kind.String(), "unlowered node of kind %d", int(n.Kind))
	}

	return genFuncs[n.Kind](g, n)
}

// genValue emits a node which must produce a value.
func (g *Generator) genValue(n *ir.Node) string {
	result := g.gen(n)
	if !result.HasValue() {
		report.Invariant("`%s` produces no value", n.Kind)
	}

	return result.expr
}

// genMisplaced reports a node that is only valid as part of another node.
func (g *Generator) genMisplaced(n *ir.Node) Result {
	report.Structural(n.Kind.String(), "not valid outside of its enclosing node")
	return NoValue
}

// -----------------------------------------------------------------------------

// emit appends lines to the current scope.
func (g *Generator) emit(lines ...string) {
	g.decls = append(g.decls, lines...)
}

// emitf appends a single formatted line to the current scope.
func (g *Generator) emitf(format string, args ...interface{}) {
	g.decls = append(g.decls, fmt.Sprintf(format, args...))
}

// scoped emits n into a fresh scope and returns the lines of that scope along
// with the result of n.  The enclosing scope is restored afterward.
func (g *Generator) scoped(n *ir.Node) ([]string, Result) {
	saved := g.decls
	g.decls = nil

	result := g.gen(n)
	lines := g.decls

	g.decls = saved
	return lines, result
}

// temp mints a fresh temporary name.
func (g *Generator) temp(base string) string {
	return g.ctx.Temp(base)
}

// emitBraced appends a braced construct opened by head to the current scope.
func (g *Generator) emitBraced(head string, body []string) {
	g.emit(head + " {")
	g.emit(indent(body)...)
	g.emit("}")
}
