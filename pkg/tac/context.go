package tac

import "fmt"

// Context bundles the lowering pass's monotonic counters (spec §9:
// "Process-wide counters & source document... move them into an
// explicit LoweringContext"). A fresh Context per Lower call makes the
// pass re-entrant and keeps output deterministic across runs in the
// same process (Testable Property 6), since nothing here depends on
// map iteration order.
type Context struct {
	tmp    int
	label  int
	string int
}

// NewContext returns a Context with every counter reset to zero.
func NewContext() *Context { return &Context{} }

// NewTemp allocates the next tmp_N name.
func (c *Context) NewTemp() string {
	name := fmt.Sprintf("tmp_%d", c.tmp)
	c.tmp++
	return name
}

// TempCount is the number of temps allocated so far; used to capture
// a function's [before,after) tmp range for its Locals header.
func (c *Context) TempCount() int { return c.tmp }

// NewLabel allocates the next lbl_N name.
func (c *Context) NewLabel() string {
	name := fmt.Sprintf("lbl_%d", c.label)
	c.label++
	return name
}

// NewStringLabel allocates the next str_N name for a string literal.
func (c *Context) NewStringLabel() string {
	name := fmt.Sprintf("str_%d", c.string)
	c.string++
	return name
}
