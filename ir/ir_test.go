package ir

import "testing"

func TestKindNames(t *testing.T) {
	seen := make(map[string]Kind)
	for k := Kind(0); k < NumKinds; k++ {
		name := k.String()
		if name == "" || name == "unknown" {
			t.Errorf("kind %d has no name", k)
		}

		if prev, ok := seen[name]; ok {
			t.Errorf("kinds %d and %d share the name %s", prev, k, name)
		}

		seen[name] = k
	}
}

func TestRepr(t *testing.T) {
	n := Block(
		Declare("arr1", Call("nat_array", Env())),
		Call("nat_array_push", Env(), Name("arr1"), Call("nat_integer", Env(), Int(1))),
		Send(Ref("arr1"), "size", Args(), NoBlock),
	)

	want := `(block (declare arr1 (call nat_array (env))) (call nat_array_push (env) arr1 (call nat_integer (env) 1)) (send (ref arr1) "size" (args) NULL))`
	if got := n.Repr(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestBlockDropsNil(t *testing.T) {
	if n := Block(nil, Nil(), nil); n.Len() != 1 {
		t.Errorf("expected one statement, got %d", n.Len())
	}
}

func TestCondLayout(t *testing.T) {
	n := Cond([]Arm{{Test: True(), Body: Nil()}}, False())

	if n.Len() != 4 || n.NodeAt(2).Kind != KElse || n.NodeAt(3).Kind != KFalse {
		t.Errorf("unexpected cond layout: %s", n.Repr())
	}

	if n := Cond([]Arm{{Test: True(), Body: Nil()}}, nil); n.Len() != 2 {
		t.Errorf("cond without default has %d children", n.Len())
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	n := Block(Fn(KBlockFn, "block_fn1", Block(Call("nat_flag_break", Name("x")))), Nil())

	var calls int
	Walk(n, func(node *Node) bool {
		if node.Kind == KCall {
			calls++
		}

		return node.Kind != KBlockFn
	})

	if calls != 0 {
		t.Errorf("walk entered a skipped subtree")
	}
}
