package ir

// New creates a new node of the given kind with the given children.
func New(kind Kind, children ...Child) *Node {
	return &Node{Kind: kind, Children: children}
}

// Block creates a statement sequence.  Nil statements are dropped.
func Block(stmts ...*Node) *Node {
	children := make([]Child, 0, len(stmts))
	for _, stmt := range stmts {
		if stmt != nil {
			children = append(children, stmt)
		}
	}

	return &Node{Kind: KBlock, Children: children}
}

// Declare creates the declaration of an object temporary.
func Declare(name string, value *Node) *Node {
	return New(KDeclare, Name(name), value)
}

// DeclareBlock creates the declaration of a block temporary.
func DeclareBlock(name string, value *Node) *Node {
	return New(KDeclareBlock, Name(name), value)
}

// Set creates an assignment to a declared temporary.
func Set(name string, value *Node) *Node {
	return New(KSet, Name(name), value)
}

// Ref creates a reference to a temporary.
func Ref(name string) *Node {
	return New(KRef, Name(name))
}

// If creates a conditional.  The else branch may be nil.
func If(cond, then, els *Node) *Node {
	if els == nil {
		return New(KIf, cond, then)
	}

	return New(KIf, cond, then, els)
}

// Loop creates an unconditional loop.
func Loop(body *Node) *Node {
	return New(KLoop, body)
}

// Break creates a loop exit.
func Break() *Node {
	return New(KBreak)
}

// Continue creates a loop restart.
func Continue() *Node {
	return New(KContinue)
}

// Return creates a function return.
func Return(value *Node) *Node {
	return New(KReturn, value)
}

// Arm is a single test and body of a cond.
type Arm struct {
	Test, Body *Node
}

// Cond creates a multi-way conditional whose arms are tried in order.  The
// default body may be nil.
func Cond(arms []Arm, els *Node) *Node {
	children := make([]Child, 0, 2*len(arms)+2)
	for _, arm := range arms {
		children = append(children, arm.Test, arm.Body)
	}

	if els != nil {
		children = append(children, New(KElse), els)
	}

	return &Node{Kind: KCond, Children: children}
}

// Truthy creates a Ruby truthiness test.
func Truthy(value *Node) *Node {
	return New(KTruthy, value)
}

// Not creates a logical negation.
func Not(value *Node) *Node {
	return New(KNot, value)
}

// IsA creates a class membership test of target against each class in turn.
func IsA(target Child, classes ...*Node) *Node {
	children := []Child{target}
	for _, class := range classes {
		children = append(children, class)
	}

	return &Node{Kind: KIsA, Children: children}
}

// Call creates a call to the runtime entry point named callee.
func Call(callee string, args ...Child) *Node {
	return New(KCall, append([]Child{Name(callee)}, args...)...)
}

// Send creates a dynamic dispatch of method to receiver.  The args must be an
// Args or ArgsArray node.  The block is NoBlock, a Name, or a ProcToBlock node.
func Send(receiver Child, method string, args *Node, block Child) *Node {
	return New(KSend, receiver, Str(method), args, block)
}

// Super creates a dispatch to the superclass implementation of the current
// method.
func Super(args *Node, block Child) *Node {
	return New(KSuper, args, block)
}

// RunBlock creates an invocation of the current block.
func RunBlock(args *Node) *Node {
	return New(KRunBlock, args)
}

// Args creates an argument list.
func Args(values ...*Node) *Node {
	children := make([]Child, len(values))
	for i, v := range values {
		children[i] = v
	}

	return &Node{Kind: KArgs, Children: children}
}

// ArgsArray creates an argument list spread from the array value.
func ArgsArray(array *Node) *Node {
	return New(KArgsArray, array)
}

// ProcToBlock creates a reference to the block held by a proc.
func ProcToBlock(proc *Node) *Node {
	return New(KProcToBlock, proc)
}

// Rescue creates a guarded body and the dispatch run when it raises.
func Rescue(body, dispatch *Node) *Node {
	return New(KRescue, body, dispatch)
}

// ClearJumpBuf creates a statement clearing the exception guard.
func ClearJumpBuf() *Node {
	return New(KClearJumpBuf)
}

// Fn creates a synthesized function of the given kind.
func Fn(kind Kind, name string, body *Node) *Node {
	return New(kind, Name(name), body)
}

// CallFn creates a direct call to a synthesized function.
func CallFn(name string, args ...Child) *Node {
	return New(KCallFn, append([]Child{Name(name)}, args...)...)
}

// Nil creates the nil object.
func Nil() *Node { return New(KNil) }

// True creates the true object.
func True() *Node { return New(KTrue) }

// False creates the false object.
func False() *Node { return New(KFalse) }

// Self creates the current self.
func Self() *Node { return New(KSelf) }

// Env creates the current environment.
func Env() *Node { return New(KEnv) }

// NoBlock is the block argument of a dispatch that passes no block.
var NoBlock = Raw("NULL")
