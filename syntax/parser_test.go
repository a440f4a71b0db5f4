package syntax

import (
	"strings"
	"testing"

	"garnet/ast"
	"garnet/report"

	"github.com/kr/pretty"
)

// stripSpans clears the spans of a tree so it can be compared against a tree
// built by hand.
func stripSpans(n *ast.Node) *ast.Node {
	n.Span = nil
	for _, c := range n.Children {
		if child, ok := c.(*ast.Node); ok && child != nil {
			stripSpans(child)
		}
	}

	return n
}

func mustParse(t *testing.T, text string) *ast.Node {
	t.Helper()

	n, err := ParseString(text)
	if err != nil {
		t.Fatalf("parsing %q: %v", text, err)
	}

	return stripSpans(n)
}

func TestParseCall(t *testing.T) {
	got := mustParse(t, `s(:call, nil, :puts, s(:str, "hi"))`)
	want := ast.New(ast.KCall, nil, ast.Symbol("puts"), ast.New(ast.KStr, ast.String("hi")))

	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("unexpected tree:\n%s", strings.Join(diff, "\n"))
	}
}

func TestParseLiterals(t *testing.T) {
	got := mustParse(t, `
		# every literal form
		s(:array,
		  s(:lit, 1), s(:lit, -2), s(:lit, 1.5), s(:lit, 2e3),
		  s(:lit, :sym), s(:lit, :"odd sym"), s(:lit, :[]=),
		  s(:lit, 1..10), s(:lit, 1...10),
		  s(:lit, /ab+c/ix),
		  s(:while, nil, nil, true))`)

	want := ast.New(ast.KArray,
		ast.New(ast.KLit, ast.Int(1)),
		ast.New(ast.KLit, ast.Int(-2)),
		ast.New(ast.KLit, ast.Float(1.5)),
		ast.New(ast.KLit, ast.Float(2000)),
		ast.New(ast.KLit, ast.Symbol("sym")),
		ast.New(ast.KLit, ast.Symbol("odd sym")),
		ast.New(ast.KLit, ast.Symbol("[]=")),
		ast.New(ast.KLit, ast.Range{Lo: ast.Int(1), Hi: ast.Int(10)}),
		ast.New(ast.KLit, ast.Range{Lo: ast.Int(1), Hi: ast.Int(10), Exclusive: true}),
		ast.New(ast.KLit, ast.Regexp{Source: "ab+c", Options: ast.RegexpIgnoreCase | ast.RegexpExtended}),
		ast.New(ast.KWhile, nil, nil, ast.Bool(true)),
	)

	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Errorf("unexpected tree:\n%s", strings.Join(diff, "\n"))
	}
}

func TestParseStringEscapes(t *testing.T) {
	cases := map[string]string{
		`"a\nb"`:          "a\nb",
		`"tab\there"`:     "tab\there",
		`"q\"uote"`:       `q"uote`,
		`"\#{x}"`:         "#{x}",
		`"\e[0m"`:         "\x1b[0m",
		`"\x41\101"`:      "AA",
		`"é\u{1F600}"`: "é😀",
		`"back\\slash"`:   `back\slash`,
	}

	for text, want := range cases {
		n := mustParse(t, "s(:str, "+text+")")
		if got := string(n.Children[0].(ast.String)); got != want {
			t.Errorf("%s: got %q, want %q", text, got, want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		text, msg string
	}{
		{`s(:frobnicate, 1)`, "unknown node kind"},
		{`s(:call, nil, :puts`, "not end of file"},
		{`s(:str, "unterminated)`, "unclosed string literal"},
		{`s(:lit, /a(/)`, "invalid regexp literal"},
		{`s(:lit, /a/q)`, "unknown regexp option"},
		{`s(:lit, 99999999999999999999)`, "integer literal out of range"},
		{`(:call)`, "expected `s` before `(`"},
		{`s(:nil) s(:nil)`, "unexpected `s(`"},
	}

	for _, c := range cases {
		_, err := ParseString(c.text)
		if err == nil {
			t.Errorf("%s: expected error", c.text)
			continue
		}

		if _, ok := err.(*report.LocalCompileError); !ok {
			t.Errorf("%s: expected a local compile error, got %T", c.text, err)
		}

		if !strings.Contains(err.Error(), c.msg) {
			t.Errorf("%s: error %q does not mention %q", c.text, err, c.msg)
		}
	}
}

func TestParseIncomplete(t *testing.T) {
	cases := []struct {
		text       string
		incomplete bool
	}{
		{`s(:call, nil, :puts`, true},
		{`s(:block,`, true},
		{`s(:str, "open`, true},
		{`s(:frobnicate, 1)`, false},
		{`s(:nil))`, false},
	}

	for _, c := range cases {
		_, err := ParseString(c.text)
		if err == nil {
			t.Errorf("%s: expected error", c.text)
			continue
		}

		if IsIncomplete(err) != c.incomplete {
			t.Errorf("%s: IsIncomplete = %v, want %v", c.text, !c.incomplete, c.incomplete)
		}
	}
}

func TestCompileRegexp(t *testing.T) {
	tests := []struct {
		source, flags string
		options       int
	}{
		{`^a$`, "", 0},
		{`(?<=a)b`, "i", ast.RegexpIgnoreCase},
		{`a . b # comment`, "xm", ast.RegexpExtended | ast.RegexpMultiline},
		{`\p{L}+`, "o", 0},
	}

	for _, test := range tests {
		re, err := CompileRegexp(test.source, test.flags)
		if err != nil {
			t.Errorf("/%s/%s: %v", test.source, test.flags, err)
			continue
		}

		if re.Source != test.source || re.Options != test.options {
			t.Errorf("/%s/%s: got %# v", test.source, test.flags, pretty.Formatter(re))
		}
	}

	if _, err := CompileRegexp(`(?<name>a`, ""); err == nil {
		t.Error("unclosed group accepted")
	}
}

func TestParseSpans(t *testing.T) {
	n, err := ParseString("s(:block,\n  s(:lvar, :x))")
	if err != nil {
		t.Fatal(err)
	}

	inner := n.Children[0].(*ast.Node)
	if inner.Span.StartLine != 1 || inner.Span.StartCol != 2 {
		t.Errorf("inner node starts at %d:%d, want 1:2", inner.Span.StartLine, inner.Span.StartCol)
	}
}

func TestReprRoundTrip(t *testing.T) {
	text := `s(:block, s(:lasgn, :x, s(:lit, 1..2)), s(:dstr, "a\"b", s(:evstr, s(:lvar, :x))), s(:lit, /a\/b/m), s(:lit, :"*rest"), s(:lit, 2.0))`

	first := mustParse(t, text)
	second := mustParse(t, first.Repr())

	if diff := pretty.Diff(first, second); len(diff) > 0 {
		t.Errorf("repr does not round trip:\n%s", strings.Join(diff, "\n"))
	}
}
