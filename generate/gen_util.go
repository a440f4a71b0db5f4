package generate

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"garnet/ir"
	"garnet/report"
	"garnet/util"
)

// renderArgs emits each argument in order and returns them as a C argument
// list.
func (g *Generator) renderArgs(args []ir.Child) string {
	return strings.Join(util.Map(args, g.renderArg), ", ")
}

// renderArg emits a single argument and returns its C text.
func (g *Generator) renderArg(c ir.Child) string {
	switch v := c.(type) {
	case *ir.Node:
		if v == nil {
			report.Invariant("missing argument")
		}

		return g.genValue(v)
	case ir.Name:
		return string(v)
	case ir.Raw:
		return string(v)
	case ir.Str:
		return cString(string(v))
	case ir.Int:
		return strconv.FormatInt(int64(v), 10)
	case ir.Float:
		return cFloat(float64(v))
	}

	report.Invariant("unknown argument type %T", c)
	return ""
}

// nodeAt returns the child of n at i which must be a node.
func nodeAt(n *ir.Node, i int) *ir.Node {
	child := n.NodeAt(i)
	if child == nil {
		report.Invariant("`%s` requires a node at position %d", n.Kind, i)
	}

	return child
}

// nameAt returns the child of n at i which must be a name.
func nameAt(n *ir.Node, i int) string {
	name := n.NameAt(i)
	if name == "" {
		report.Invariant("`%s` requires a name at position %d", n.Kind, i)
	}

	return name
}

// -----------------------------------------------------------------------------

// cString returns s as a C string literal.  Bytes outside of printable ASCII
// are written as three digit octal escapes so that they never merge with the
// characters that follow them.
func cString(s string) string {
	sb := strings.Builder{}
	sb.WriteByte('"')

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		case '?':
			// trigraphs
			sb.WriteString(`\?`)
		default:
			if c < 0x20 || c > 0x7e {
				fmt.Fprintf(&sb, "\\%03o", c)
			} else {
				sb.WriteByte(c)
			}
		}
	}

	sb.WriteByte('"')
	return sb.String()
}

// cFloat returns f as a C double literal.
func cFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INFINITY"
	case math.IsInf(f, -1):
		return "-INFINITY"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}

	return s
}

// indent prefixes each line with one level of indentation.
func indent(lines []string) []string {
	return util.Map(lines, func(line string) string {
		return "    " + line
	})
}

// writeIndented writes each line to sb with one level of indentation.
func writeIndented(sb *strings.Builder, lines []string) {
	for _, line := range indent(lines) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
}
