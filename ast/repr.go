package ast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Repr returns the serialized form of the node: the same s-expression text the
// syntax package reads.
func (n *Node) Repr() string {
	sb := &strings.Builder{}
	writeNode(sb, n)
	return sb.String()
}

// ReprChild returns the serialized form of a single child.
func ReprChild(c Child) string {
	sb := &strings.Builder{}
	writeChild(sb, c)
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node) {
	sb.WriteString("s(:")
	sb.WriteString(n.Kind.String())

	for _, c := range n.Children {
		sb.WriteString(", ")
		writeChild(sb, c)
	}

	sb.WriteRune(')')
}

func writeChild(sb *strings.Builder, c Child) {
	switch v := c.(type) {
	case nil:
		sb.WriteString("nil")
	case *Node:
		if v == nil {
			sb.WriteString("nil")
		} else {
			writeNode(sb, v)
		}
	case Symbol:
		sb.WriteString(ReprSymbol(string(v)))
	case String:
		sb.WriteString(QuoteString(string(v)))
	case Int:
		sb.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		sb.WriteString(reprFloat(float64(v)))
	case Bool:
		sb.WriteString(strconv.FormatBool(bool(v)))
	case Regexp:
		sb.WriteRune('/')
		sb.WriteString(strings.ReplaceAll(v.Source, "/", `\/`))
		sb.WriteRune('/')
		sb.WriteString(RegexpFlags(v.Options))
	case Range:
		writeChild(sb, v.Lo)
		if v.Exclusive {
			sb.WriteString("...")
		} else {
			sb.WriteString("..")
		}
		writeChild(sb, v.Hi)
	default:
		panic(fmt.Sprintf("unknown AST child type %T", c))
	}
}

// RegexpFlags returns the option letters of a regexp in their usual order.
func RegexpFlags(options int) string {
	var flags string
	if options&RegexpMultiline != 0 {
		flags += "m"
	}

	if options&RegexpIgnoreCase != 0 {
		flags += "i"
	}

	if options&RegexpExtended != 0 {
		flags += "x"
	}

	return flags
}

func reprFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}

	return s
}

// -----------------------------------------------------------------------------

var bareSymbolPattern = regexp.MustCompile(`^(?:[@$]{0,2}[A-Za-z_][A-Za-z0-9_]*[?!=]?|\$[0-9~*$?!@/\;,.=:<>"&'` + "`" + `+]|\[\]=?|[-+]@|\*\*|<=>|===?|=~|!=?|!~|<<|>>|<=|>=|[-+*/%<>&|^~])$`)

// ReprSymbol returns the serialized form of a symbol, quoting it when its name
// is not a plain identifier or operator.
func ReprSymbol(name string) string {
	if bareSymbolPattern.MatchString(name) {
		return ":" + name
	}

	return ":" + QuoteString(name)
}

// QuoteString returns a double-quoted form of s using the escapes the syntax
// package understands.  Invalid UTF-8 bytes are written as hex escapes.
func QuoteString(s string) string {
	sb := &strings.Builder{}
	sb.WriteRune('"')

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			fmt.Fprintf(sb, `\x%02X`, s[i])
			i++
			continue
		}

		switch r {
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
		case 0x1b:
			sb.WriteString(`\e`)
		case '#':
			// Keeps the text from reading as interpolation.
			if i+1 < len(s) && (s[i+1] == '{' || s[i+1] == '$' || s[i+1] == '@') {
				sb.WriteString(`\#`)
			} else {
				sb.WriteRune('#')
			}
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(sb, `\x%02X`, r)
			} else {
				sb.WriteRune(r)
			}
		}

		i += size
	}

	sb.WriteRune('"')
	return sb.String()
}
