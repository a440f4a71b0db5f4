package lower

import (
	"garnet/ast"
	"garnet/common"
	"garnet/ir"
	"garnet/report"
	"garnet/util"
)

// Lowerer is the construct responsible for converting a Ruby AST into the
// lowered IR tree.  Lowering is pure with respect to the AST: the input tree is
// never modified.  Lowerers are created once per compilation.
type Lowerer struct {
	// ctx is the compilation context from which temporary names are minted.
	ctx *common.Context

	// frames is the stack of constructs enclosing the node being lowered which
	// determine the meaning of `break`, `next` and `return`.
	frames []frame
}

// frame is a single construct enclosing the node being lowered.
type frame struct {
	// The kind of the enclosing node: one of the loop, block, definition or
	// rescue kinds.
	kind ast.Kind

	// The temporary holding the result of a loop.
	result string

	// The base name of the flags recording the jumps which left a begin/rescue
	// body, and which of those jumps occur.
	jumpFlag string
	jumps    [numJumps]bool
}

// NewLowerer creates a new lowerer minting names from ctx.
func NewLowerer(ctx *common.Context) *Lowerer {
	return &Lowerer{ctx: ctx}
}

// Lower converts the program rooted at root into its lowered form.  It returns
// a *report.StructuralError if the tree is malformed or uses a construct that
// cannot be lowered.
func Lower(ctx *common.Context, root *ast.Node) (*ir.Node, error) {
	return NewLowerer(ctx).Lower(root)
}

// Lower converts the program rooted at root into its lowered form.
func (l *Lowerer) Lower(root *ast.Node) (result *ir.Node, err error) {
	defer report.Catch(&err)

	return l.lower(root), nil
}

// -----------------------------------------------------------------------------

// lowerFuncs maps each node kind to the function lowering it.
var lowerFuncs [ast.NumKinds]func(*Lowerer, *ast.Node) *ir.Node

func init() {
	lowerFuncs = [ast.NumKinds]func(*Lowerer, *ast.Node) *ir.Node{
		ast.KAlias:     (*Lowerer).lowerAlias,
		ast.KAnd:       (*Lowerer).lowerAnd,
		ast.KArgs:      (*Lowerer).lowerMisplaced,
		ast.KArray:     (*Lowerer).lowerArrayNode,
		ast.KAttrAsgn:  (*Lowerer).lowerCall,
		ast.KBlock:     (*Lowerer).lowerBlock,
		ast.KBlockPass: (*Lowerer).lowerMisplaced,
		ast.KBreak:     (*Lowerer).lowerBreak,
		ast.KCall:      (*Lowerer).lowerCall,
		ast.KCase:      (*Lowerer).lowerCase,
		ast.KCDecl:     (*Lowerer).lowerCDecl,
		ast.KClass:     (*Lowerer).lowerClass,
		ast.KColon2:    (*Lowerer).lowerColon2,
		ast.KConst:     (*Lowerer).lowerConst,
		ast.KCVAsgn:    (*Lowerer).lowerCVAsgn,
		ast.KCVDecl:    (*Lowerer).lowerCVAsgn,
		ast.KCVar:      (*Lowerer).lowerCVar,
		ast.KDefined:   (*Lowerer).lowerDefined,
		ast.KDefn:      (*Lowerer).lowerDefn,
		ast.KDefs:      (*Lowerer).lowerDefs,
		ast.KDot2:      (*Lowerer).lowerDot,
		ast.KDot3:      (*Lowerer).lowerDot,
		ast.KDStr:      (*Lowerer).lowerDStr,
		ast.KDSym:      (*Lowerer).lowerDSym,
		ast.KEvStr:     (*Lowerer).lowerMisplaced,
		ast.KFalse:     (*Lowerer).lowerFalse,
		ast.KGAsgn:     (*Lowerer).lowerGAsgn,
		ast.KGVar:      (*Lowerer).lowerGVar,
		ast.KHash:      (*Lowerer).lowerHash,
		ast.KIAsgn:     (*Lowerer).lowerIAsgn,
		ast.KIf:        (*Lowerer).lowerIf,
		ast.KIter:      (*Lowerer).lowerIter,
		ast.KIVar:      (*Lowerer).lowerIVar,
		ast.KLAsgn:     (*Lowerer).lowerLAsgn,
		ast.KLambda:    (*Lowerer).lowerMisplaced,
		ast.KLit:       (*Lowerer).lowerLit,
		ast.KLVar:      (*Lowerer).lowerLVar,
		ast.KMAsgn:     (*Lowerer).lowerMAsgn,
		ast.KMatch2:    (*Lowerer).lowerMatch2,
		ast.KMatch3:    (*Lowerer).lowerMatch3,
		ast.KModule:    (*Lowerer).lowerModule,
		ast.KNext:      (*Lowerer).lowerNext,
		ast.KNil:       (*Lowerer).lowerNil,
		ast.KNot:       (*Lowerer).lowerNot,
		ast.KOpAsgnAnd: (*Lowerer).lowerOpAsgn,
		ast.KOpAsgnOr:  (*Lowerer).lowerOpAsgn,
		ast.KOr:        (*Lowerer).lowerOr,
		ast.KResBody:   (*Lowerer).lowerMisplaced,
		ast.KRescue:    (*Lowerer).lowerRescue,
		ast.KReturn:    (*Lowerer).lowerReturn,
		ast.KSClass:    (*Lowerer).lowerSClass,
		ast.KSelf:      (*Lowerer).lowerSelf,
		ast.KSplat:     (*Lowerer).lowerMisplaced,
		ast.KStr:       (*Lowerer).lowerStr,
		ast.KSuper:     (*Lowerer).lowerSuper,
		ast.KToAry:     (*Lowerer).lowerMisplaced,
		ast.KTrue:      (*Lowerer).lowerTrue,
		ast.KUntil:     (*Lowerer).lowerWhile,
		ast.KWhen:      (*Lowerer).lowerMisplaced,
		ast.KWhile:     (*Lowerer).lowerWhile,
		ast.KYield:     (*Lowerer).lowerYield,
		ast.KZSuper:    (*Lowerer).lowerSuper,
	}
}

// lower lowers a single node.  A nil node lowers to nil.
func (l *Lowerer) lower(n *ast.Node) *ir.Node {
	if n == nil {
		return ir.Nil()
	}

	if n.Kind < 0 || n.Kind >= ast.NumKinds || lowerFuncs[n.Kind] == nil {
		report.Structural(n.Kind.String(), "unsupported node kind")
	}

	return lowerFuncs[n.Kind](l, n)
}

// lowerChild lowers a child which must be a node or absent.
func (l *Lowerer) lowerChild(c ast.Child) *ir.Node {
	switch v := c.(type) {
	case nil:
		return ir.Nil()
	case *ast.Node:
		return l.lower(v)
	}

	report.Structural("", "expected a node not %s", ast.ReprChild(c))
	return nil
}

// lowerSeq lowers a sequence of statements.  An empty sequence is nil.
func (l *Lowerer) lowerSeq(stmts []ast.Child) *ir.Node {
	switch len(stmts) {
	case 0:
		return ir.Nil()
	case 1:
		return l.lowerChild(stmts[0])
	}

	return ir.Block(util.Map(stmts, l.lowerChild)...)
}

// lowerMisplaced rejects nodes which only have meaning inside an enclosing
// construct: eg. a `when` outside of a `case`.
func (l *Lowerer) lowerMisplaced(n *ast.Node) *ir.Node {
	fail(n, "node cannot appear outside of its enclosing construct")
	return nil
}

// -----------------------------------------------------------------------------

// tempName mints a fresh temporary name from the compilation context.
func (l *Lowerer) tempName(base string) string {
	return l.ctx.Temp(base)
}

// pushFrame pushes an enclosing construct onto the frame stack.
func (l *Lowerer) pushFrame(kind ast.Kind, result string) {
	l.frames = append(l.frames, frame{kind: kind, result: result})
}

// popFrame pops the innermost enclosing construct from the frame stack and
// returns it.
func (l *Lowerer) popFrame() frame {
	f := l.frames[len(l.frames)-1]
	l.frames = l.frames[:len(l.frames)-1]
	return f
}

// innermost returns the innermost enclosing construct or nil if there is none.
func (l *Lowerer) innermost() *frame {
	if len(l.frames) == 0 {
		return nil
	}

	return &l.frames[len(l.frames)-1]
}
