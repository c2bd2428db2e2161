package ast

import "drewnomars.dev/compiler/pkg/source"

// Expr is the sum type of expression nodes (spec §3). Every concrete
// type below reports its own source range so error positions can span
// from an outer expression's operands (binary: lhs.start..rhs.end;
// unary: inherits from the operand).
type Expr interface {
	ExprRange() source.Range
	exprNode()
}

// BoolLit is a literal `true` or `false`/`too hot`.
type BoolLit struct {
	Value bool
	Range source.Range
}

// IntLit is an integer literal; overflow of 32 bits is caught by
// pkg/parser when it builds the node (spec §6), not here.
type IntLit struct {
	Value int64
	Range source.Range
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
	Range source.Range
}

// MagicLit is the `24Kmagic` expression: Bool-typed, runtime value
// unspecified by spec (see DESIGN.md Open Question decisions).
type MagicLit struct {
	Range source.Range
}

// UnaryOp enumerates the two unary operators.
type UnaryOp int

const (
	UnaryNeg UnaryOp = iota
	UnaryNot
)

// UnaryExpr is `-x` or `not x`.
type UnaryExpr struct {
	Op       UnaryOp
	Operand  Expr
	OpRange  source.Range
}

// BinaryOp enumerates every binary operator from spec §3.
type BinaryOp int

const (
	BinAdd BinaryOp = iota
	BinSub
	BinMul
	BinDiv
	BinLt
	BinLe
	BinGt
	BinGe
	BinEq
	BinNe
	BinAnd
	BinOr
)

// BinaryExpr is a two-operand expression.
type BinaryExpr struct {
	Op  BinaryOp
	Lhs Expr
	Rhs Expr
}

// LocationExpr wraps a Location used in expression position.
type LocationExpr struct {
	Loc *Location
}

// CallExpr is a function call `callee(args...)`.
type CallExpr struct {
	Callee *Location
	Args   []Expr
	Range  source.Range
}

func (e *BoolLit) exprNode()      {}
func (e *IntLit) exprNode()       {}
func (e *StringLit) exprNode()    {}
func (e *MagicLit) exprNode()     {}
func (e *UnaryExpr) exprNode()    {}
func (e *BinaryExpr) exprNode()   {}
func (e *LocationExpr) exprNode() {}
func (e *CallExpr) exprNode()     {}

func (e *BoolLit) ExprRange() source.Range   { return e.Range }
func (e *IntLit) ExprRange() source.Range    { return e.Range }
func (e *StringLit) ExprRange() source.Range { return e.Range }
func (e *MagicLit) ExprRange() source.Range  { return e.Range }
func (e *UnaryExpr) ExprRange() source.Range {
	return e.Operand.ExprRange()
}
func (e *BinaryExpr) ExprRange() source.Range {
	return source.Range{Start: e.Lhs.ExprRange().Start, End: e.Rhs.ExprRange().End}
}
func (e *LocationExpr) ExprRange() source.Range { return e.Loc.GetLastLink().Range }
func (e *CallExpr) ExprRange() source.Range     { return e.Range }
