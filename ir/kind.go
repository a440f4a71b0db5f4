package ir

// Kind is the kind of an IR node.
type Kind int

// Enumeration of IR node kinds.  The comment beside each kind gives the shape
// of its children.
const (
	KBlock        Kind = iota // stmts...: the value of the last statement
	KDeclare                  // Name, value: declares an object temporary
	KDeclareBlock             // Name, value: declares a block temporary
	KSet                      // Name, value: assigns a declared temporary
	KRef                      // Name: the value of a temporary
	KIf                       // cond, then [, else]
	KLoop                     // body: repeats until a break
	KBreak                    // leaves the innermost loop
	KContinue                 // restarts the innermost loop
	KReturn                   // value: returns from the current function
	KCond                     // test, body, test, body... [, Else, body]
	KElse                     // marks the default arm of a cond
	KTruthy                   // value: the Ruby truthiness of value
	KNot                      // value: logical negation
	KIsA                      // target, class...: whether target is one of the classes
	KCall                     // Name callee, args...: calls a runtime entry point
	KSend                     // receiver, Str method, args, block: dynamic dispatch
	KSuper                    // args, block: dispatch to the superclass method
	KRunBlock                 // args: runs the current block
	KArgs                     // values...: an argument list
	KArgsArray                // value: an argument list spread from an array
	KProcToBlock              // value: the block held by a proc
	KRescue                   // body, cond: runs body under the exception guard
	KClearJumpBuf             // clears the exception guard
	KDefFn                    // Name, body: a method function
	KBlockFn                  // Name, body: a block function
	KBeginFn                  // Name, body: a function guarding a begin/rescue body
	KBodyFn                   // Name, body: a class, module or singleton class body
	KCallFn                   // Name, args...: calls a synthesized function directly
	KNil
	KTrue
	KFalse
	KSelf
	KEnv

	// NumKinds is the number of IR node kinds.  It is not a valid kind.
	NumKinds
)

var kindNames = [NumKinds]string{
	KBlock:        "block",
	KDeclare:      "declare",
	KDeclareBlock: "declare_block",
	KSet:          "set",
	KRef:          "ref",
	KIf:           "if",
	KLoop:         "loop",
	KBreak:        "break",
	KContinue:     "continue",
	KReturn:       "return",
	KCond:         "cond",
	KElse:         "else",
	KTruthy:       "truthy",
	KNot:          "not",
	KIsA:          "is_a",
	KCall:         "call",
	KSend:         "send",
	KSuper:        "super",
	KRunBlock:     "run_block",
	KArgs:         "args",
	KArgsArray:    "args_array",
	KProcToBlock:  "proc_to_block",
	KRescue:       "rescue",
	KClearJumpBuf: "clear_jump_buf",
	KDefFn:        "def_fn",
	KBlockFn:      "block_fn",
	KBeginFn:      "begin_fn",
	KBodyFn:       "body_fn",
	KCallFn:       "call_fn",
	KNil:          "nil",
	KTrue:         "true",
	KFalse:        "false",
	KSelf:         "self",
	KEnv:          "env",
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "unknown"
	}

	return kindNames[k]
}

// IsFn returns whether the kind is one of the function definition kinds.
func (k Kind) IsFn() bool {
	switch k {
	case KDefFn, KBlockFn, KBeginFn, KBodyFn:
		return true
	}

	return false
}
