// Package tac implements the three-address quadruple IR: the Quad
// catalog and its textual form (spec §3, §6), the lowering context
// (spec §9 "Process-wide counters"), and the Lowerer that walks a
// name/type-analyzed ast.Program into a Quad stream (spec §4.6).
//
// The Quad variant list and exact text grammar are grounded on
// original_source/src/three_ac/quads.rs's Display implementation
// (e.g. "[w] := x ADD64 y", "fn_{w}: enter {w}"); where spec.md's own
// casing differs from that source (`[END GLOBALS]` vs the source's
// lowercase "End"), spec.md's casing wins.
package tac

import (
	"fmt"
	"strings"
)

// Quad is the sum type of TAC instructions (spec §3's canonical list).
type Quad interface {
	quadNode()
	String() string
}

// BinOp enumerates the twelve binary quad operators.
type BinOp int

const (
	OpAdd BinOp = iota
	OpSub
	OpMul
	OpDiv
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
)

var opNames = map[BinOp]string{
	OpAdd: "ADD64", OpSub: "SUB64", OpMul: "MULT64", OpDiv: "DIV64",
	OpAnd: "AND64", OpOr: "OR64", OpEq: "EQ64", OpNeq: "NEQ64",
	OpLt: "LT64", OpLte: "LTE64", OpGt: "GT64", OpGte: "GTE64",
}

// BinaryQuad covers Add, And, Divide, Equals, Greater, GreaterEq,
// Less, LessEq, Multiply, NotEq, Or and Subtract — every binary quad
// in the catalog, all sharing the (dest, lhs, rhs) shape.
type BinaryQuad struct {
	Op   BinOp
	Dest Arg
	Lhs  Arg
	Rhs  Arg
}

func (q *BinaryQuad) quadNode() {}
func (q *BinaryQuad) String() string {
	return fmt.Sprintf("[%s] := %s %s %s\n", q.Dest, q.Lhs, opNames[q.Op], q.Rhs)
}

func newBinary(op BinOp, dest, lhs, rhs Arg) Quad { return &BinaryQuad{Op: op, Dest: dest, Lhs: lhs, Rhs: rhs} }

func NewAdd(dest, lhs, rhs Arg) Quad       { return newBinary(OpAdd, dest, lhs, rhs) }
func NewSubtract(dest, lhs, rhs Arg) Quad  { return newBinary(OpSub, dest, lhs, rhs) }
func NewMultiply(dest, lhs, rhs Arg) Quad  { return newBinary(OpMul, dest, lhs, rhs) }
func NewDivide(dest, lhs, rhs Arg) Quad    { return newBinary(OpDiv, dest, lhs, rhs) }
func NewAnd(dest, lhs, rhs Arg) Quad       { return newBinary(OpAnd, dest, lhs, rhs) }
func NewOr(dest, lhs, rhs Arg) Quad        { return newBinary(OpOr, dest, lhs, rhs) }
func NewEquals(dest, lhs, rhs Arg) Quad    { return newBinary(OpEq, dest, lhs, rhs) }
func NewNotEq(dest, lhs, rhs Arg) Quad     { return newBinary(OpNeq, dest, lhs, rhs) }
func NewLess(dest, lhs, rhs Arg) Quad      { return newBinary(OpLt, dest, lhs, rhs) }
func NewLessEq(dest, lhs, rhs Arg) Quad    { return newBinary(OpLte, dest, lhs, rhs) }
func NewGreater(dest, lhs, rhs Arg) Quad   { return newBinary(OpGt, dest, lhs, rhs) }
func NewGreaterEq(dest, lhs, rhs Arg) Quad { return newBinary(OpGte, dest, lhs, rhs) }

// Not is the sole unary logical/arithmetic quad in the catalog (unary
// negation is expressed by lowering to Subtract(dest, Literal(0), x)).
type Not struct {
	Dest Arg
	Src  Arg
}

func (q *Not) quadNode() {}
func (q *Not) String() string {
	return fmt.Sprintf("[%s] := NOT64 %s\n", q.Dest, q.Src)
}

// Assignment is a pure move, dest := src.
type Assignment struct {
	Dest Arg
	Src  Arg
}

func (q *Assignment) quadNode() {}
func (q *Assignment) String() string {
	return fmt.Sprintf("[%s] := %s\n", q.Dest, q.Src)
}

// Call invokes a function by name; arguments were already placed by
// preceding SetArg quads.
type Call struct{ FnName string }

func (q *Call) quadNode()       {}
func (q *Call) String() string  { return fmt.Sprintf("call %s\n", q.FnName) }

// Enter is a function prologue pseudo-quad bracketing a body. Its text
// form doubles as the function's jump target.
type Enter struct{ FnName string }

func (q *Enter) quadNode()      {}
func (q *Enter) String() string { return fmt.Sprintf("fn_%s: enter %s\n", q.FnName, q.FnName) }

// Leave is the matching epilogue pseudo-quad; its Label field also
// serves as the jump target `return` statements Goto.
type Leave struct {
	Label  string
	FnName string
}

func (q *Leave) quadNode()      {}
func (q *Leave) String() string { return fmt.Sprintf("%s: leave %s\n", q.Label, q.FnName) }

// Exit is the `exit` statement's quad.
type Exit struct{}

func (q *Exit) quadNode()      {}
func (q *Exit) String() string { return "exit\n" }

// GetArg copies formal n (1-based) into dest at function entry.
type GetArg struct {
	N    int
	Dest Arg
}

func (q *GetArg) quadNode()      {}
func (q *GetArg) String() string { return fmt.Sprintf("getarg %d %s\n", q.N, q.Dest) }

// SetArg places actual n (1-based) before a Call.
type SetArg struct {
	N   int
	Arg Arg
}

func (q *SetArg) quadNode()      {}
func (q *SetArg) String() string { return fmt.Sprintf("setarg %d %s\n", q.N, q.Arg) }

// GetRet reads a callee's return value after a Call.
type GetRet struct{ Dest Arg }

func (q *GetRet) quadNode()      {}
func (q *GetRet) String() string { return fmt.Sprintf("getret %s\n", q.Dest) }

// SetRet stores a function's return value before Goto-ing its exit label.
type SetRet struct{ Arg Arg }

func (q *SetRet) quadNode()      {}
func (q *SetRet) String() string { return fmt.Sprintf("setret %s\n", q.Arg) }

// Globals brackets the program's global-variable label list, emitted
// once before any function code (spec §4.6).
type Globals struct{ Names []string }

func (q *Globals) quadNode() {}
func (q *Globals) String() string {
	var b strings.Builder
	b.WriteString("[BEGIN GLOBALS]\n")
	for _, n := range q.Names {
		fmt.Fprintf(&b, "%s\n", n)
	}
	b.WriteString("[END GLOBALS]\n")
	return b.String()
}

// Locals brackets a function's frame description: its formal names,
// local-variable names, and the half-open range of temp indices the
// body allocated. The temp counter is never reset between functions,
// so each function's range starts where the previous one ended.
type Locals struct {
	FnName    string
	Formals   []string
	LocalVars []string
	TempRange [2]int
}

func (q *Locals) quadNode() {}
func (q *Locals) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[BEGIN %s LOCALS]\n", q.FnName)
	for _, f := range q.Formals {
		fmt.Fprintf(&b, "formal %s\n", f)
	}
	for _, l := range q.LocalVars {
		fmt.Fprintf(&b, "local %s\n", l)
	}
	fmt.Fprintf(&b, "tmp_range [%d,%d)\n", q.TempRange[0], q.TempRange[1])
	fmt.Fprintf(&b, "[END %s LOCALS]\n", q.FnName)
	return b.String()
}

// Goto is an unconditional jump.
type Goto struct{ Label string }

func (q *Goto) quadNode()      {}
func (q *Goto) String() string { return fmt.Sprintf("goto %s\n", q.Label) }

// Ifz jumps to Label when Cond is zero/false.
type Ifz struct {
	Cond  Arg
	Label string
}

func (q *Ifz) quadNode()      {}
func (q *Ifz) String() string { return fmt.Sprintf("ifz %s goto %s\n", q.Cond, q.Label) }

// Label is a plain jump target with no other effect.
type Label struct{ Name string }

func (q *Label) quadNode()      {}
func (q *Label) String() string { return fmt.Sprintf("%s: nop\n", q.Name) }

// Read implements the `take` statement: read a line, parse an int,
// store it in Dest.
type Read struct{ Dest Arg }

func (q *Read) quadNode()      {}
func (q *Read) String() string { return fmt.Sprintf("read %s\n", q.Dest) }

// WriteInt implements `give` for an Int/Bool-kinded operand.
type WriteInt struct{ Arg Arg }

func (q *WriteInt) quadNode()      {}
func (q *WriteInt) String() string { return fmt.Sprintf("write_int %s\n", q.Arg) }

// WriteStr implements `give` for a String-kinded operand.
type WriteStr struct{ Arg Arg }

func (q *WriteStr) quadNode()      {}
func (q *WriteStr) String() string { return fmt.Sprintf("write_str %s\n", q.Arg) }
