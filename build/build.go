// Package build joins the lowering and emission passes into a single
// compilation of one program.
package build

import (
	"garnet/ast"
	"garnet/common"
	"garnet/generate"
	"garnet/lower"
)

// Compile lowers the program rooted at root and emits the C source for it
// against the runtime header named header.  Every synthesized name is minted
// from ctx, so a context should be used for exactly one compilation.  The text
// is empty whenever the error is non-nil.
func Compile(ctx *common.Context, root *ast.Node, header string) (string, error) {
	lowered, err := lower.Lower(ctx, root)
	if err != nil {
		return "", err
	}

	return generate.Generate(ctx, lowered, header)
}
