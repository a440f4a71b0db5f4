package ast

import "garnet/report"

// Node is a single node of a parsed Ruby program.  Its meaning is determined
// by its kind; its children are positional and their number and shape depend
// on the kind.  A child may be another node, a literal, or nil when the child
// is absent (eg. the receiver of a call with an implicit receiver).
type Node struct {
	// The kind of the node.
	Kind Kind

	// The positional children of the node.
	Children []Child

	// The span over which the node occurs in its serialized form.  This may
	// be nil for nodes which were not read from text.
	Span *report.TextSpan
}

// New creates a new node of the given kind with the given children.
func New(kind Kind, children ...Child) *Node {
	return &Node{Kind: kind, Children: children}
}

// NewOn creates a new node of the given kind spanning over span.
func NewOn(span *report.TextSpan, kind Kind, children ...Child) *Node {
	return &Node{Kind: kind, Children: children, Span: span}
}

// Len returns the number of children of the node.
func (n *Node) Len() int {
	return len(n.Children)
}

// At returns the child at position i or nil if there is no such child.
func (n *Node) At(i int) Child {
	if i < 0 || i >= len(n.Children) {
		return nil
	}

	return n.Children[i]
}

// NodeAt returns the child at position i if it is a node.
func (n *Node) NodeAt(i int) (*Node, bool) {
	node, ok := n.At(i).(*Node)
	return node, ok && node != nil
}

// Is returns whether the child c is a node of the given kind.
func Is(c Child, kind Kind) bool {
	node, ok := c.(*Node)
	return ok && node != nil && node.Kind == kind
}

// -----------------------------------------------------------------------------

// Child is an element of a node's children: a *Node or one of the literal
// types below.  Absent children are represented by a nil Child.
type Child interface {
	isChild()
}

// Symbol is a Ruby symbol.  Identifiers, method names and variable names are
// all represented as symbols.
type Symbol string

// String is a Ruby string literal.
type String string

// Int is a Ruby integer literal.
type Int int64

// Float is a Ruby float literal.
type Float float64

// Bool is a boolean flag such as the test position of a `while` node.
type Bool bool

// Regexp is a Ruby regular expression literal.  The options are the bitwise
// OR of the Ruby regexp option values: 1 for `i`, 2 for `x` and 4 for `m`.
type Regexp struct {
	Source  string
	Options int
}

// Range is a Ruby range literal with literal endpoints.  Either endpoint may
// be nil for begin- or endless ranges.
type Range struct {
	Lo, Hi    Child
	Exclusive bool
}

// Enumeration of regexp option values.
const (
	RegexpIgnoreCase = 1
	RegexpExtended   = 2
	RegexpMultiline  = 4
)

func (*Node) isChild()  {}
func (Symbol) isChild() {}
func (String) isChild() {}
func (Int) isChild()    {}
func (Float) isChild()  {}
func (Bool) isChild()   {}
func (Regexp) isChild() {}
func (Range) isChild()  {}
