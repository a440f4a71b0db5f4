package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Repr returns a single-line representation of the node for use in tests and
// debug output, eg. `(declare arr1 (call nat_array env))`.
func (n *Node) Repr() string {
	sb := &strings.Builder{}
	writeNode(sb, n)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	sb.WriteRune('(')
	sb.WriteString(n.Kind.String())

	for _, c := range n.Children {
		sb.WriteRune(' ')
		writeChild(sb, c)
	}

	sb.WriteRune(')')
}

func writeChild(sb *strings.Builder, c Child) {
	switch v := c.(type) {
	case *Node:
		if v == nil {
			sb.WriteString("<nil>")
		} else {
			writeNode(sb, v)
		}
	case Name:
		sb.WriteString(string(v))
	case Str:
		sb.WriteString(strconv.Quote(string(v)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case Raw:
		sb.WriteString(string(v))
	case nil:
		sb.WriteString("<nil>")
	default:
		panic(fmt.Sprintf("unknown IR child type %T", c))
	}
}

// Pretty returns a multi-line representation of the node with one nested
// statement sequence per indentation level.
func (n *Node) Pretty() string {
	sb := &strings.Builder{}
	writePretty(sb, n, 0)
	return sb.String()
}

func writePretty(sb *strings.Builder, n *Node, depth int) {
	indent := strings.Repeat("  ", depth)

	switch n.Kind {
	case KBlock, KLoop, KDefFn, KBlockFn, KBeginFn, KBodyFn, KRescue, KCond, KIf:
		sb.WriteString(indent + "(" + n.Kind.String())
		for _, c := range n.Children {
			sb.WriteRune('\n')
			if child, ok := c.(*Node); ok && child != nil {
				writePretty(sb, child, depth+1)
			} else {
				sb.WriteString(indent + "  ")
				writeChild(sb, c)
			}
		}
		sb.WriteRune(')')
	default:
		sb.WriteString(indent)
		writeNode(sb, n)
	}
}

// ReprChild returns the representation of a single child.
func ReprChild(c Child) string {
	sb := &strings.Builder{}
	writeChild(sb, c)
	return sb.String()
}
