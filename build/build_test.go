package build

import (
	"fmt"
	"regexp"
	"strings"
	"testing"

	"garnet/ast"
	"garnet/common"
	"garnet/lower"
	"garnet/report"
	"garnet/syntax"
)

const program = `
s(:block,
  s(:class, :Greeter, nil,
    s(:defn, :initialize, s(:args, :name), s(:iasgn, :"@name", s(:lvar, :name))),
    s(:defn, :greet, s(:args, :"*rest", :"&blk"),
      s(:iter, s(:call, s(:lvar, :rest), :each), s(:args, :x),
        s(:if, s(:call, s(:lvar, :x), :"nil?"), s(:return, s(:nil)), nil),
        s(:yield, s(:lvar, :x))),
      s(:dstr, "hello ", s(:evstr, s(:ivar, :"@name"))))),
  s(:lasgn, :g, s(:call, s(:const, :Greeter), :new, s(:str, "world"))),
  s(:masgn, s(:array, s(:lasgn, :a), s(:splat, s(:lasgn, :b)), s(:lasgn, :c)),
    s(:to_ary, s(:array, s(:lit, 1), s(:lit, 2), s(:lit, 3)))),
  s(:while, s(:call, s(:lvar, :a), :"<", s(:lit, 10)),
    s(:lasgn, :a, s(:call, s(:lvar, :a), :"+", s(:lit, 1))), true),
  s(:case, s(:lvar, :a),
    s(:when, s(:array, s(:lit, 1), s(:lit, 2)), s(:lit, :one)),
    s(:lit, :other)),
  s(:rescue, s(:call, nil, :raise, s(:str, "x")),
    s(:resbody, s(:array, s(:const, :ArgumentError), s(:lasgn, :e, s(:gvar, :"$!"))), s(:lit, 1)),
    s(:resbody, s(:array), s(:lit, 2))),
  s(:op_asgn_or, s(:lvar, :h), s(:lasgn, :h, s(:hash, s(:lit, :k), s(:lit, 1)))),
  s(:and, s(:lvar, :a), s(:not, s(:lvar, :b))),
  s(:defn, :safely, s(:args),
    s(:rescue, s(:return, s(:lit, 1)), s(:resbody, s(:array), s(:lit, 2)))),
  s(:while, s(:true),
    s(:rescue, s(:break, s(:lit, 1)), s(:resbody, s(:array), s(:next))), true),
  s(:iter, s(:call, s(:lvar, :a), :times), 0,
    s(:rescue, s(:call, nil, :work), s(:resbody, s(:array), s(:next)))),
  s(:case, s(:lvar, :a), s(:when, s(:array, s(:splat, s(:lvar, :h))), s(:lit, :listed)), nil),
  s(:call, nil, :puts, s(:call, s(:lvar, :g), :greet)))
`

func compile(t *testing.T, prefix, text string) string {
	t.Helper()

	root, err := syntax.ParseString(text)
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}

	out, err := Compile(common.NewContext(prefix), root, common.DefaultRuntimeHeader)
	if err != nil {
		t.Fatalf("compiling: %v", err)
	}

	return out
}

// indexes returns the position of each needle in text, failing if any is
// missing.
func indexes(t *testing.T, text string, needles ...string) []int {
	t.Helper()

	positions := make([]int, len(needles))
	for i, needle := range needles {
		positions[i] = strings.Index(text, needle)
		if positions[i] < 0 {
			t.Fatalf("missing %q in:\n%s", needle, text)
		}
	}

	return positions
}

func inOrder(positions []int) bool {
	for i := 1; i < len(positions); i++ {
		if positions[i-1] >= positions[i] {
			return false
		}
	}

	return true
}

var (
	tempPattern = regexp.MustCompile(`\bt_[A-Za-z_]+[0-9]+\b`)
	declPattern = regexp.MustCompile(`^\s*(?:NatObject|NatBlock) \*(t_[A-Za-z_]+[0-9]+)(?: =|\[|\()`)
)

func TestCompileWellFormed(t *testing.T) {
	out := compile(t, "t_", program)

	if !strings.HasPrefix(out, "#include \"natalie.h\"\n") {
		t.Errorf("missing runtime header in:\n%s", out)
	}

	if !strings.Contains(out, "NatObject *EVAL(NatEnv *env, NatObject *self) {") {
		t.Errorf("missing entry point in:\n%s", out)
	}

	depth := 0
	for _, c := range out {
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				t.Fatalf("unbalanced braces in:\n%s", out)
			}
		}
	}

	if depth != 0 {
		t.Errorf("%d unclosed braces in:\n%s", depth, out)
	}

	declared := make(map[string]bool)
	for i, line := range strings.Split(out, "\n") {
		decl := ""
		if m := declPattern.FindStringSubmatch(line); m != nil {
			decl = m[1]
			if declared[decl] {
				t.Errorf("line %d: %s declared twice", i+1, decl)
			}
		}

		for _, name := range tempPattern.FindAllString(line, -1) {
			if name != decl && !declared[name] {
				t.Errorf("line %d: %s used before it is declared: %s", i+1, name, line)
			}
		}

		if decl != "" {
			declared[decl] = true
		}
	}

	// the block in greet returns from the method
	if !strings.Contains(out, `"LocalJumpError"`) {
		t.Errorf("method returning from a block is not guarded:\n%s", out)
	}
}

func TestCompileIsDeterministic(t *testing.T) {
	first := compile(t, "t_", program)
	if second := compile(t, "t_", program); second != first {
		t.Errorf("output differs between fresh contexts")
	}

	// only the names change with the prefix
	renamed := compile(t, "u_", program)
	if strings.ReplaceAll(renamed, "u_", "t_") != first {
		t.Errorf("output differs by more than the name prefix")
	}
}

func TestCompileEvaluatesOnce(t *testing.T) {
	for _, text := range []string{
		`s(:or, s(:call, nil, :expensive), s(:lit, 1))`,
		`s(:and, s(:call, nil, :expensive), s(:lit, 1))`,
		`s(:op_asgn_or, s(:ivar, :"@x"), s(:iasgn, :"@x", s(:call, nil, :expensive)))`,
	} {
		out := compile(t, "", text)
		if n := strings.Count(out, `"expensive"`); n != 1 {
			t.Errorf("%s: `expensive` evaluated %d times in:\n%s", text, n, out)
		}
	}
}

func TestCompileSplatOrder(t *testing.T) {
	out := compile(t, "", `s(:array, s(:lit, 1), s(:splat, s(:lvar, :x)), s(:lit, 2))`)

	positions := indexes(t, out, "nat_integer(env, 1)", "nat_array_push_splat(env, arr1,", "nat_integer(env, 2)")
	if !inOrder(positions) {
		t.Errorf("array elements out of order in:\n%s", out)
	}
}

func TestCompileCase(t *testing.T) {
	out := compile(t, "", `
		s(:case, s(:call, nil, :subject),
		  s(:when, s(:array, s(:lit, 1), s(:lit, 2)), s(:lit, :a)),
		  s(:when, s(:array, s(:lit, 3)), s(:lit, :b)),
		  s(:lit, :c))`)

	positions := indexes(t, out,
		`"subject"`,
		"nat_integer(env, 1)", "nat_integer(env, 2)", `nat_symbol(env, "a")`,
		"nat_integer(env, 3)", `nat_symbol(env, "b")`,
		`nat_symbol(env, "c")`,
	)
	if !inOrder(positions) {
		t.Errorf("case arms out of order in:\n%s", out)
	}

	for _, body := range []string{`"subject"`, `"a"`, `"b"`, `"c"`} {
		if n := strings.Count(out, body); n != 1 {
			t.Errorf("%s emitted %d times in:\n%s", body, n, out)
		}
	}
}

func TestCompileMAsgnPaths(t *testing.T) {
	out := compile(t, "", `s(:masgn, s(:array, s(:lasgn, :a), s(:splat, s(:lasgn, :b)), s(:lasgn, :c)), s(:to_ary, s(:lvar, :x)))`)

	for _, pattern := range []string{
		`nat_array_value_by_path\(env, masgn_value1, nil\d+, false, 0, 1, 0\)`,
		`nat_array_value_by_path\(env, masgn_value1, nil\d+, true, 1, 1, 1\)`,
		`nat_array_value_by_path\(env, masgn_value1, nil\d+, false, 0, 1, -1\)`,
	} {
		if !regexp.MustCompile(pattern).MatchString(out) {
			t.Errorf("missing %s in:\n%s", pattern, out)
		}
	}
}

func TestCompileRescue(t *testing.T) {
	out := compile(t, "", `
		s(:rescue, s(:call, nil, :work),
		  s(:resbody, s(:array, s(:const, :ArgumentError)), s(:lit, 1)),
		  s(:resbody, s(:array), s(:lit, 2)))`)

	positions := indexes(t, out,
		"if (!NAT_RESCUE(env)) {",
		`global_set(env, "$!", env->exception);`,
		"env->jump_buf = NULL;",
		`"ArgumentError"`,
		`"StandardError"`,
		"nat_raise_exception(env, env->exception);",
	)
	if !inOrder(positions) {
		t.Errorf("rescue clauses out of order in:\n%s", out)
	}

	if !strings.Contains(out, "nat_call_begin(env, self, begin_fn1)") {
		t.Errorf("guarded body is not called in:\n%s", out)
	}
}

func TestCompileReturnFromRescue(t *testing.T) {
	out := compile(t, "", `
		s(:defn, :m, s(:args),
		  s(:rescue, s(:return, s(:lit, 1)), s(:resbody, s(:array), s(:lit, 2))),
		  s(:lit, 3))`)

	// the flag is lowered, the body may raise it and the method tests it
	last := -1
	for _, pattern := range []string{
		`nat_var_set\(env, "%begin_jump3_return", false[0-9]+\);`,
		`nat_call_begin\(env, self, begin_fn2\)`,
		`nat_var_get\(env, "%begin_jump3_return"\)`,
		`return begin_result5;`,
		`nat_integer\(env, 3\)`,
	} {
		loc := regexp.MustCompile(pattern).FindStringIndex(out)
		if loc == nil {
			t.Fatalf("missing %s in:\n%s", pattern, out)
		}

		if loc[0] <= last {
			t.Errorf("%s out of order in:\n%s", pattern, out)
		}
		last = loc[0]
	}

	if !regexp.MustCompile(`nat_var_set\(env, "%begin_jump3_return", true[0-9]+\);`).MatchString(out) {
		t.Errorf("begin body does not flag the return in:\n%s", out)
	}

	if strings.Contains(out, "LocalJumpError") {
		t.Errorf("return is rescuable in:\n%s", out)
	}
}

// destructure builds `x0, x1, ... = *y` with n targets.
func destructure(n int) *ast.Node {
	targets := make([]ast.Child, n)
	for i := range targets {
		targets[i] = ast.New(ast.KLAsgn, ast.Symbol(fmt.Sprintf("x%d", i)))
	}

	return ast.New(ast.KMAsgn,
		ast.New(ast.KArray, targets...),
		ast.New(ast.KSplat, ast.New(ast.KLVar, ast.Symbol("y"))),
	)
}

func TestCompilePatternBound(t *testing.T) {
	if testing.Short() {
		t.Skip("large pattern")
	}

	largest := lower.MaxPathIndex + 1
	out, err := Compile(common.NewContext(""), destructure(largest), "")
	if err != nil {
		t.Fatalf("pattern with %d elements rejected: %v", largest, err)
	}

	if want := fmt.Sprintf("false, 0, 1, %d)", lower.MaxPathIndex); !strings.Contains(out, want) {
		t.Errorf("missing the last element path %q", want)
	}

	out, err = Compile(common.NewContext(""), destructure(largest+1), "")
	if err == nil {
		t.Fatalf("pattern with %d elements accepted", largest+1)
	}

	if !report.IsStructural(err) {
		t.Errorf("expected a structural error, got %v", err)
	}

	if out != "" {
		t.Errorf("expected no output with an error")
	}
}

func TestCompileError(t *testing.T) {
	root, err := syntax.ParseString(`s(:block, s(:lit, 1), s(:break, nil))`)
	if err != nil {
		t.Fatal(err)
	}

	out, err := Compile(common.NewContext(""), root, "")
	if err == nil || !report.IsStructural(err) {
		t.Fatalf("expected a structural error, got %v", err)
	}

	if out != "" {
		t.Errorf("expected no output with an error, got:\n%s", out)
	}
}
