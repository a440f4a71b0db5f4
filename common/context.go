package common

import "fmt"

// Context is the compilation context shared by the lowering and emission
// passes of a single compilation.  It owns the counter from which every
// synthesized name is minted so that names never collide within one output
// file.  A context is not safe for concurrent use: each compilation should
// create its own.
type Context struct {
	// counter is the number of names minted so far.
	counter int

	// prefix is prepended to every minted name.
	prefix string
}

// NewContext creates a new compilation context whose minted names all begin
// with prefix.
func NewContext(prefix string) *Context {
	return &Context{prefix: prefix}
}

// Temp mints a fresh name from the given base.  The result is always a valid
// C identifier provided that the prefix and base are.
func (c *Context) Temp(base string) string {
	c.counter++
	return fmt.Sprintf("%s%s%d", c.prefix, base, c.counter)
}

// Count returns the number of names minted so far.
func (c *Context) Count() int {
	return c.counter
}

// Prefix returns the prefix of every name minted by the context.
func (c *Context) Prefix() string {
	return c.prefix
}
