package generate

import (
	"strings"
	"testing"

	"garnet/common"
	"garnet/ir"
	"garnet/report"
)

func generate(t *testing.T, root *ir.Node) string {
	t.Helper()

	text, err := Generate(common.NewContext(""), root, "natalie.h")
	if err != nil {
		t.Fatalf("generate %s: %v", root.Repr(), err)
	}

	return text
}

func TestEveryKindHasHandler(t *testing.T) {
	for k := ir.Kind(0); k < ir.NumKinds; k++ {
		if genFuncs[k] == nil {
			t.Errorf("no emission function for `%s`", k)
		}
	}
}

func TestGenerateConditional(t *testing.T) {
	root := ir.If(
		ir.Truthy(ir.Self()),
		ir.Call("nat_integer", ir.Env(), ir.Int(1)),
		ir.Nil(),
	)

	want := `#include "natalie.h"

NatObject *EVAL(NatEnv *env, NatObject *self) {
    NatObject *if3 = NULL;
    if (nat_truthy(self)) {
        NatObject *nat_integer1 = nat_integer(env, 1);
        if3 = nat_integer1;
    } else {
        NatObject *nil2 = env_get(env, "nil");
        if3 = nil2;
    }
    return if3;
}
`

	if got := generate(t, root); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateVoidCalls(t *testing.T) {
	root := ir.Block(
		ir.Declare("arr", ir.Call("nat_array", ir.Env())),
		ir.Call("nat_array_push", ir.Ref("arr"), ir.Self()),
		ir.Call("nat_string", ir.Env(), ir.Str("unused")),
		ir.Ref("arr"),
	)

	got := generate(t, root)

	for _, line := range []string{
		"NatObject *arr = nat_array(env);",
		"nat_array_push(arr, self);",
		`NatObject *nat_string1 = nat_string(env, "unused");`,
		"return arr;",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
}

func TestGenerateCondIsNested(t *testing.T) {
	root := ir.Cond([]ir.Arm{
		{Test: ir.Truthy(ir.Call("nat_first", ir.Env())), Body: ir.Call("nat_a", ir.Env())},
		{Test: ir.Truthy(ir.Call("nat_second", ir.Env())), Body: ir.Call("nat_b", ir.Env())},
	}, ir.Nil())

	want := `#include "natalie.h"

NatObject *EVAL(NatEnv *env, NatObject *self) {
    NatObject *cond1 = NULL;
    NatObject *nat_first2 = nat_first(env);
    if (nat_truthy(nat_first2)) {
        NatObject *nat_a3 = nat_a(env);
        cond1 = nat_a3;
    } else {
        NatObject *nat_second4 = nat_second(env);
        if (nat_truthy(nat_second4)) {
            NatObject *nat_b5 = nat_b(env);
            cond1 = nat_b5;
        } else {
            NatObject *nil6 = env_get(env, "nil");
            cond1 = nil6;
        }
    }
    return cond1;
}
`

	if got := generate(t, root); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateLoop(t *testing.T) {
	root := ir.Block(
		ir.Declare("result", ir.Nil()),
		ir.Loop(ir.Block(
			ir.If(ir.Not(ir.Truthy(ir.Self())), ir.Break(), nil),
			ir.Call("nat_body", ir.Env()),
		)),
		ir.Ref("result"),
	)

	want := `#include "natalie.h"

NatObject *EVAL(NatEnv *env, NatObject *self) {
    NatObject *nil1 = env_get(env, "nil");
    NatObject *result = nil1;
    while (1) {
        if (!(nat_truthy(self))) {
            break;
        }
        NatObject *nat_body2 = nat_body(env);
    }
    return result;
}
`

	if got := generate(t, root); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateFunctions(t *testing.T) {
	root := ir.Block(
		ir.Fn(ir.KDefFn, "fn1", ir.Block(
			ir.Fn(ir.KBlockFn, "block_fn2", ir.Self()),
			ir.DeclareBlock("block3", ir.Call("nat_block", ir.Env(), ir.Self(), ir.Name("block_fn2"))),
			ir.Send(ir.Self(), "each", ir.Args(), ir.Name("block3")),
		)),
		ir.Fn(ir.KBodyFn, "class_body4", ir.Nil()),
		ir.Call("nat_define_method", ir.Env(), ir.Self(), ir.Str("m"), ir.Name("fn1")),
		ir.CallFn("class_body4", ir.Env(), ir.Self()),
	)

	got := generate(t, root)

	blockFn := strings.Index(got, "NatObject *block_fn2(NatEnv *env, NatObject *self, size_t argc, NatObject **args, struct hashmap *kwargs, NatBlock *block) {")
	defFn := strings.Index(got, "NatObject *fn1(NatEnv *env, NatObject *self, size_t argc, NatObject **args, struct hashmap *kwargs, NatBlock *block) {")
	bodyFn := strings.Index(got, "NatObject *class_body4(NatEnv *env, NatObject *self) {")
	eval := strings.Index(got, entryHeader)

	if blockFn < 0 || defFn < 0 || bodyFn < 0 || eval < 0 {
		t.Fatalf("missing function definition in:\n%s", got)
	}

	if !(blockFn < defFn && defFn < bodyFn && bodyFn < eval) {
		t.Errorf("functions out of order in:\n%s", got)
	}

	for _, line := range []string{
		"NatBlock *block3 = nat_block(env, self, block_fn2);",
		`NatObject *nat_send1 = nat_send(env, self, "each", 0, NULL, block3);`,
		`nat_define_method(env, self, "m", fn1);`,
		"NatObject *call3 = class_body4(env, self);",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
}

func TestGenerateSendArgs(t *testing.T) {
	root := ir.Block(
		ir.Declare("arr", ir.Call("nat_array", ir.Env())),
		ir.Send(ir.Self(), "a", ir.Args(ir.Ref("arr"), ir.Self()), ir.NoBlock),
		ir.Send(ir.Self(), "b", ir.ArgsArray(ir.Ref("arr")), ir.ProcToBlock(ir.Ref("arr"))),
		ir.Super(ir.Args(), ir.Name("block")),
		ir.RunBlock(ir.Args(ir.Self())),
	)

	got := generate(t, root)

	for _, line := range []string{
		"NatObject *args1[2] = { arr, self };",
		`NatObject *nat_send2 = nat_send(env, self, "a", 2, args1, NULL);`,
		`NatObject *nat_send3 = nat_send(env, self, "b", arr->ary_len, arr->ary, arr->block);`,
		"NatObject *nat_super4 = nat_super(env, self, 0, NULL, block);",
		"NatObject *args5[1] = { self };",
		"NatObject *run_block6 = NAT_RUN_BLOCK_AND_POSSIBLY_BREAK(env, block, 1, args5, NULL);",
	} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
}

func TestGenerateRescue(t *testing.T) {
	exception := ir.Raw("env->exception")
	root := ir.Block(
		ir.Fn(ir.KBeginFn, "begin_fn1", ir.Rescue(
			ir.Call("nat_body", ir.Env()),
			ir.Cond([]ir.Arm{
				{Test: ir.IsA(exception, ir.Call("nat_const_get", ir.Env(), ir.Self(), ir.Str("A")), ir.Call("nat_const_get", ir.Env(), ir.Self(), ir.Str("B"))), Body: ir.Nil()},
			}, ir.Call("nat_raise_exception", ir.Env(), exception)),
		)),
		ir.Call("nat_call_begin", ir.Env(), ir.Self(), ir.Name("begin_fn1")),
	)

	want := `#include "natalie.h"

NatObject *begin_fn1(NatEnv *env, NatObject *self, size_t argc, NatObject **args, struct hashmap *kwargs, NatBlock *block) {
    if (!NAT_RESCUE(env)) {
        NatObject *nat_body1 = nat_body(env);
        return nat_body1;
    } else {
        global_set(env, "$!", env->exception);
        env->jump_buf = NULL;
        NatObject *nat_const_get3 = nat_const_get(env, self, "A");
        NatObject *nat_const_get4 = nat_const_get(env, self, "B");
        if ((nat_is_a(env, env->exception, nat_const_get3) || nat_is_a(env, env->exception, nat_const_get4))) {
            NatObject *nil5 = env_get(env, "nil");
            cond2 = nil5;
        } else {
            nat_raise_exception(env, env->exception);
        }
        return cond2;
        abort();
    }
}

NatObject *EVAL(NatEnv *env, NatObject *self) {
    NatObject *nat_call_begin6 = nat_call_begin(env, self, begin_fn1);
    return nat_call_begin6;
}
`

	got := generate(t, root)

	// the cond temporary is declared at the top of the dispatch
	want = strings.Replace(
		want,
		"        env->jump_buf = NULL;\n",
		"        env->jump_buf = NULL;\n        NatObject *cond2 = NULL;\n",
		1,
	)

	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name       string
		root       *ir.Node
		structural bool
	}{
		{"misplaced args", ir.Args(), true},
		{"misplaced else", ir.New(ir.KElse), true},
		{"unlowered kind", ir.New(ir.NumKinds), true},
		{"void value", ir.Declare("x", ir.Call("nat_array_push", ir.Env(), ir.Self())), false},
		{"missing name", ir.New(ir.KRef), false},
		{"odd cond", ir.New(ir.KCond, ir.Self()), false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			text, err := Generate(common.NewContext(""), test.root, "")
			if err == nil {
				t.Fatalf("expected an error, got:\n%s", text)
			}

			if text != "" {
				t.Errorf("expected no output with an error")
			}

			if test.structural && !report.IsStructural(err) {
				t.Errorf("expected a structural error, got %v", err)
			} else if !test.structural && !report.IsInvariant(err) {
				t.Errorf("expected an invariant error, got %v", err)
			}
		})
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hi", `"hi"`},
		{`a"b\c`, `"a\"b\\c"`},
		{"line\n\ttab", `"line\n\ttab"`},
		{"\x1b[0m", `"\033[0m"`},
		{"é", `"\303\251"`},
		{"\x001", `"\0001"`},
		{"??=", `"\?\?="`},
	}

	for _, test := range tests {
		if got := cString(test.in); got != test.want {
			t.Errorf("cString(%q) = %s, want %s", test.in, got, test.want)
		}
	}
}

func TestCFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1, "1.0"},
		{1.5, "1.5"},
		{-0.25, "-0.25"},
		{1e21, "1e+21"},
	}

	for _, test := range tests {
		if got := cFloat(test.in); got != test.want {
			t.Errorf("cFloat(%v) = %s, want %s", test.in, got, test.want)
		}
	}
}
