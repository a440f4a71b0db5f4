package lower

import (
	"strings"
	"testing"

	"garnet/ast"
	"garnet/report"

	"github.com/kr/pretty"
)

// leaf is a binding reduced to the parts the runtime sees.
type leaf struct {
	Name          string
	Path          []int
	Splat         bool
	OffsetFromEnd int
}

func resolve(targets []*target) (leaves []leaf, err error) {
	defer report.Catch(&err)

	for _, b := range resolvePaths(ast.New(ast.KMAsgn), targets, nil) {
		leaves = append(leaves, leaf{
			Name:          b.target.name,
			Path:          b.path,
			Splat:         b.target.splat,
			OffsetFromEnd: b.offsetFromEnd,
		})
	}

	return leaves, nil
}

func named(names ...string) []*target {
	targets := make([]*target, len(names))
	for i, name := range names {
		targets[i] = &target{kind: ast.KLAsgn, name: strings.TrimPrefix(name, "*"), splat: strings.HasPrefix(name, "*")}
	}

	return targets
}

func nested(names ...string) *target {
	return &target{kind: ast.KMAsgn, sub: named(names...)}
}

func TestResolvePaths(t *testing.T) {
	tests := []struct {
		name    string
		targets []*target
		want    []leaf
	}{
		{
			"a, *b, c",
			named("a", "*b", "c"),
			[]leaf{
				{"a", []int{0}, false, 0},
				{"b", []int{1}, true, 1},
				{"c", []int{-1}, false, 0},
			},
		},
		{
			"*a, b, c",
			named("*a", "b", "c"),
			[]leaf{
				{"a", []int{0}, true, 2},
				{"b", []int{-2}, false, 0},
				{"c", []int{-1}, false, 0},
			},
		},
		{
			"a, *b",
			named("a", "*b"),
			[]leaf{
				{"a", []int{0}, false, 0},
				{"b", []int{1}, true, 0},
			},
		},
		{
			"a, (b, *c), d",
			[]*target{named("a")[0], nested("b", "*c"), named("d")[0]},
			[]leaf{
				{"a", []int{0}, false, 0},
				{"b", []int{1, 0}, false, 0},
				{"c", []int{1, 1}, true, 0},
				{"d", []int{2}, false, 0},
			},
		},
		{
			"*a, (b, c)",
			[]*target{named("*a")[0], nested("b", "c")},
			[]leaf{
				{"a", []int{0}, true, 1},
				{"b", []int{-1, 0}, false, 0},
				{"c", []int{-1, 1}, false, 0},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := resolve(test.targets)
			if err != nil {
				t.Fatal(err)
			}

			if diff := pretty.Diff(test.want, got); len(diff) > 0 {
				t.Errorf("unexpected paths:\n%s", strings.Join(diff, "\n"))
			}
		})
	}
}

func TestResolvePathsBound(t *testing.T) {
	names := make([]string, MaxPathIndex+1)
	for i := range names {
		names[i] = "x"
	}

	leaves, err := resolve(named(names...))
	if err != nil {
		t.Fatalf("pattern with %d elements rejected: %v", len(names), err)
	}

	if last := leaves[len(leaves)-1].Path[0]; last != MaxPathIndex {
		t.Errorf("last index is %d, want %d", last, MaxPathIndex)
	}

	_, err = resolve(named(append(names, "y")...))
	if err == nil {
		t.Fatalf("pattern with %d elements accepted", len(names)+1)
	}

	if !report.IsStructural(err) {
		t.Errorf("expected a structural error, got %v", err)
	}
}

func TestResolvePathsMultipleSplats(t *testing.T) {
	if _, err := resolve(named("*a", "b", "*c")); err == nil {
		t.Error("multiple splats accepted")
	}
}
