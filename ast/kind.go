package ast

// Kind is the kind of an AST node.  Kinds mirror the node types produced by
// the Ruby parser; the name of each kind is the parser's name for it.
type Kind int

// Enumeration of node kinds.
const (
	KAlias Kind = iota
	KAnd
	KArgs
	KArray
	KAttrAsgn
	KBlock
	KBlockPass
	KBreak
	KCall
	KCase
	KCDecl
	KClass
	KColon2
	KConst
	KCVAsgn
	KCVDecl
	KCVar
	KDefined
	KDefn
	KDefs
	KDot2
	KDot3
	KDStr
	KDSym
	KEvStr
	KFalse
	KGAsgn
	KGVar
	KHash
	KIAsgn
	KIf
	KIter
	KIVar
	KLAsgn
	KLambda
	KLit
	KLVar
	KMAsgn
	KMatch2
	KMatch3
	KModule
	KNext
	KNil
	KNot
	KOpAsgnAnd
	KOpAsgnOr
	KOr
	KResBody
	KRescue
	KReturn
	KSClass
	KSelf
	KSplat
	KStr
	KSuper
	KToAry
	KTrue
	KUntil
	KWhen
	KWhile
	KYield
	KZSuper

	// NumKinds is the number of node kinds.  It is not a valid kind.
	NumKinds
)

var kindNames = [NumKinds]string{
	KAlias:     "alias",
	KAnd:       "and",
	KArgs:      "args",
	KArray:     "array",
	KAttrAsgn:  "attrasgn",
	KBlock:     "block",
	KBlockPass: "block_pass",
	KBreak:     "break",
	KCall:      "call",
	KCase:      "case",
	KCDecl:     "cdecl",
	KClass:     "class",
	KColon2:    "colon2",
	KConst:     "const",
	KCVAsgn:    "cvasgn",
	KCVDecl:    "cvdecl",
	KCVar:      "cvar",
	KDefined:   "defined",
	KDefn:      "defn",
	KDefs:      "defs",
	KDot2:      "dot2",
	KDot3:      "dot3",
	KDStr:      "dstr",
	KDSym:      "dsym",
	KEvStr:     "evstr",
	KFalse:     "false",
	KGAsgn:     "gasgn",
	KGVar:      "gvar",
	KHash:      "hash",
	KIAsgn:     "iasgn",
	KIf:        "if",
	KIter:      "iter",
	KIVar:      "ivar",
	KLAsgn:     "lasgn",
	KLambda:    "lambda",
	KLit:       "lit",
	KLVar:      "lvar",
	KMAsgn:     "masgn",
	KMatch2:    "match2",
	KMatch3:    "match3",
	KModule:    "module",
	KNext:      "next",
	KNil:       "nil",
	KNot:       "not",
	KOpAsgnAnd: "op_asgn_and",
	KOpAsgnOr:  "op_asgn_or",
	KOr:        "or",
	KResBody:   "resbody",
	KRescue:    "rescue",
	KReturn:    "return",
	KSClass:    "sclass",
	KSelf:      "self",
	KSplat:     "splat",
	KStr:       "str",
	KSuper:     "super",
	KToAry:     "to_ary",
	KTrue:      "true",
	KUntil:     "until",
	KWhen:      "when",
	KWhile:     "while",
	KYield:     "yield",
	KZSuper:    "zsuper",
}

// kindsByName is the reverse of kindNames.
var kindsByName = make(map[string]Kind, NumKinds)

func init() {
	for kind, name := range kindNames {
		kindsByName[name] = Kind(kind)
	}
}

// KindByName returns the kind with the given name.
func KindByName(name string) (Kind, bool) {
	kind, ok := kindsByName[name]
	return kind, ok
}

func (k Kind) String() string {
	if k < 0 || k >= NumKinds {
		return "unknown"
	}

	return kindNames[k]
}
