package lower

import (
	"strings"

	"garnet/ast"
	"garnet/ir"
	"garnet/util"
)

// MaxPathIndex is the largest element index a destructuring pattern may use.
// Larger patterns cannot be described to the runtime.
const MaxPathIndex = 131044

// target is a single binding site of a parameter list or destructuring
// pattern.
type target struct {
	// The kind of assignment binding the target: `lasgn`, `iasgn`, `gasgn`,
	// `cdecl`, `cvdecl` or `cvasgn`.  This is `masgn` for a nested pattern.
	kind ast.Kind

	// The name bound by the target.  This is empty for anonymous splats.
	name string

	// The default value of an optional parameter.
	value *ast.Node

	// Whether the target collects the remaining elements.
	splat bool

	// The targets of a nested pattern.
	sub []*target
}

// binding is a target leaf together with the path locating its value.
type binding struct {
	target *target

	// The index of the element at each level of nesting.  Negative indices
	// count from the end.
	path []int

	// The number of elements after a splat target at its level.
	offsetFromEnd int
}

// resolvePaths computes the value path of every leaf of targets.  Elements
// before a splat are indexed from the front, a splat is indexed from the front
// with the count of elements after it, and elements after a splat are indexed
// from the end.
func resolvePaths(owner *ast.Node, targets []*target, prefix []int) []binding {
	var bindings []binding

	splatted := false
	for i, t := range targets {
		if i > MaxPathIndex {
			fail(owner, "destructuring pattern is too big: index %d exceeds %d", i, MaxPathIndex)
		}

		var index int
		switch {
		case t.splat:
			if splatted {
				fail(owner, "multiple splats in one destructuring pattern")
			}

			splatted = true
			index = i
		case splatted:
			index = -(len(targets) - i)
		default:
			index = i
		}

		path := make([]int, len(prefix)+1)
		copy(path, prefix)
		path[len(prefix)] = index

		if t.sub != nil {
			bindings = append(bindings, resolvePaths(owner, t.sub, path)...)
			continue
		}

		b := binding{target: t, path: path}
		if t.splat {
			b.offsetFromEnd = len(targets) - i - 1
		}

		bindings = append(bindings, b)
	}

	return bindings
}

// -----------------------------------------------------------------------------

// parseTarget converts an element of a parameter list or destructuring
// pattern into a target.
func (l *Lowerer) parseTarget(owner *ast.Node, c ast.Child) *target {
	switch v := c.(type) {
	case ast.Symbol:
		name := string(v)
		if strings.HasPrefix(name, "*") {
			return &target{kind: ast.KLAsgn, name: name[1:], splat: true}
		} else if strings.HasPrefix(name, "&") {
			fail(owner, "block parameter `%s` must come last", name)
		}

		return &target{kind: ast.KLAsgn, name: name}
	case *ast.Node:
		if v == nil {
			break
		}

		switch v.Kind {
		case ast.KLAsgn, ast.KIAsgn, ast.KGAsgn, ast.KCVDecl, ast.KCVAsgn:
			return &target{kind: v.Kind, name: symbolAt(v, 0), value: optNodeAt(v, 1)}
		case ast.KCDecl:
			if _, ok := v.At(0).(ast.Symbol); !ok {
				fail(v, "scoped constants cannot be destructured into")
			}

			return &target{kind: v.Kind, name: symbolAt(v, 0)}
		case ast.KSplat:
			if v.At(0) == nil {
				return &target{kind: ast.KLAsgn, splat: true}
			}

			t := l.parseTarget(owner, v.At(0))
			if t.sub != nil {
				fail(v, "nested pattern cannot be splatted")
			}

			t.splat = true
			return t
		case ast.KMAsgn:
			// Block parameters nest bare names: s(:masgn, :a, :b).  Assignment
			// patterns wrap them: s(:masgn, s(:array, targets...)).
			items := v.Children
			if v.Len() >= 1 && ast.Is(v.At(0), ast.KArray) {
				items = v.Children[0].(*ast.Node).Children
			}

			sub := make([]*target, len(items))
			for i, item := range items {
				sub[i] = l.parseTarget(owner, item)
			}

			return &target{kind: ast.KMAsgn, sub: sub}
		}
	}

	fail(owner, "invalid destructuring target: %s", ast.ReprChild(c))
	return nil
}

// parseParams converts a parameter list into targets and the name of the block
// parameter, if any.
func (l *Lowerer) parseParams(args *ast.Node) ([]*target, string) {
	if args == nil {
		return nil, ""
	}

	if args.Kind != ast.KArgs {
		fail(args, "expected a parameter list")
	}

	var targets []*target
	var blockParam string
	for i, c := range args.Children {
		if sym, ok := c.(ast.Symbol); ok && strings.HasPrefix(string(sym), "&") {
			if i != args.Len()-1 {
				fail(args, "block parameter `%s` must come last", sym)
			}

			blockParam = string(sym)[1:]
			continue
		}

		targets = append(targets, l.parseTarget(args, c))
	}

	return targets, blockParam
}

// lowerParams lowers the binding of the parameters of a method or block to the
// arguments it was called with.
func (l *Lowerer) lowerParams(args *ast.Node, isBlock bool) []*ir.Node {
	targets, blockParam := l.parseParams(args)

	var stmts []*ir.Node
	if len(targets) > 0 {
		argsName := l.tempName("args")
		if isBlock {
			stmts = append(stmts, ir.Declare(argsName, ir.Call(
				"nat_block_args_to_array", ir.Env(), ir.Int(len(targets)), ir.Raw("argc"), ir.Raw("args"),
			)))
		} else {
			stmts = append(stmts, ir.Declare(argsName, ir.Call(
				"nat_args_to_array", ir.Env(), ir.Raw("argc"), ir.Raw("args"),
			)))
		}

		// Optional parameters fill from the right when they follow a required
		// parameter.
		defaults := 0
		sawRequired, defaultsOnRight := false, false
		for _, t := range targets {
			if t.value != nil {
				defaults++
				defaultsOnRight = defaultsOnRight || sawRequired
			} else if defaults == 0 {
				sawRequired = true
			}
		}

		for _, b := range resolvePaths(args, targets, nil) {
			fallback := ir.Nil()
			if b.target.value != nil {
				fallback = l.lower(b.target.value)
			}

			value := ir.Call(
				"nat_arg_value_by_path",
				append(
					[]ir.Child{
						ir.Env(),
						ir.Name(argsName),
						fallback,
						cBool(b.target.splat),
						ir.Int(len(targets)),
						ir.Int(defaults),
						cBool(defaultsOnRight),
						ir.Int(b.offsetFromEnd),
						ir.Int(len(b.path)),
					},
					pathChildren(b.path)...,
				)...,
			)

			stmts = append(stmts, l.bindTarget(b.target, value, true))
		}
	}

	if blockParam != "" {
		stmts = append(stmts, ir.Call(
			"nat_arg_set", ir.Env(), ir.Str(blockParam), ir.Call("nat_proc", ir.Env(), ir.Raw("block")),
		))
	}

	return stmts
}

// bindTarget assigns value to a target leaf.  Parameters are bound in the
// method's own scope.  Anonymous splats bind nothing.
func (l *Lowerer) bindTarget(t *target, value *ir.Node, isParam bool) *ir.Node {
	switch t.kind {
	case ast.KLAsgn:
		if t.name == "" {
			return nil
		} else if isParam {
			return ir.Call("nat_arg_set", ir.Env(), ir.Str(t.name), value)
		}

		return ir.Call("nat_var_set", ir.Env(), ir.Str(t.name), value)
	case ast.KIAsgn:
		return ir.Call("nat_ivar_set", ir.Env(), ir.Self(), ir.Str(t.name), value)
	case ast.KGAsgn:
		return ir.Call("nat_global_set", ir.Env(), ir.Str(t.name), value)
	case ast.KCVDecl, ast.KCVAsgn:
		return ir.Call("nat_cvar_set", ir.Env(), ir.Self(), ir.Str(t.name), value)
	case ast.KCDecl:
		return ir.Call("nat_const_set", ir.Env(), ir.Self(), ir.Str(t.name), value)
	}

	return nil
}

func pathChildren(path []int) []ir.Child {
	return util.Map(path, func(index int) ir.Child {
		return ir.Int(index)
	})
}

func cBool(b bool) ir.Raw {
	if b {
		return "true"
	}

	return "false"
}
