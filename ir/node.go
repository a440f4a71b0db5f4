package ir

// Node is a single node of the lowered tree.  The meaning and shape of its
// children depend on its kind.
type Node struct {
	Kind     Kind
	Children []Child
}

// Child is an element of a node's children: a *Node or one of the leaf types
// below.
type Child interface {
	isChild()
}

// Name is a C identifier: a temporary, a synthesized function or a runtime
// entry point.
type Name string

// Str is a string which is emitted as a C string literal.
type Str string

// Int is an integer which is emitted as a C integer literal.
type Int int64

// Float is a float which is emitted as a C double literal.
type Float float64

// Raw is C text which is emitted verbatim.
type Raw string

func (*Node) isChild()  {}
func (Name) isChild()  {}
func (Str) isChild()   {}
func (Int) isChild()   {}
func (Float) isChild() {}
func (Raw) isChild()   {}

// Len returns the number of children of the node.
func (n *Node) Len() int {
	return len(n.Children)
}

// NodeAt returns the child at position i if it is a node or nil if it is not.
func (n *Node) NodeAt(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		return nil
	}

	node, _ := n.Children[i].(*Node)
	return node
}

// NameAt returns the child at position i if it is a name or "" if it is not.
func (n *Node) NameAt(i int) string {
	if i < 0 || i >= len(n.Children) {
		return ""
	}

	name, _ := n.Children[i].(Name)
	return string(name)
}

// Walk calls visit for n and every node below it in depth-first order.  If
// visit returns false, the nodes below the visited node are skipped.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}

	for _, c := range n.Children {
		if child, ok := c.(*Node); ok {
			Walk(child, visit)
		}
	}
}
