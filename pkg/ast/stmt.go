package ast

import "drewnomars.dev/compiler/pkg/source"

// Stmt is the sum type of statement nodes (spec §3).
type Stmt interface {
	StmtRange() source.Range
	stmtNode()
}

type AssignStmt struct {
	Lhs   *Location
	Rhs   Expr
	Range source.Range
}

type CallStmt struct {
	Call *CallExpr
}

type IncStmt struct {
	Operand *Location
	Range   source.Range
}

type DecStmt struct {
	Operand *Location
	Range   source.Range
}

type ExitStmt struct {
	Range source.Range
}

type GiveStmt struct {
	Value Expr
	Range source.Range
}

type TakeStmt struct {
	Target *Location
	Range  source.Range
}

type IfStmt struct {
	Cond  Expr
	Then  []Stmt
	Else  []Stmt // nil when there is no else branch
	Range source.Range
}

type WhileStmt struct {
	Cond  Expr
	Body  []Stmt
	Range source.Range
}

type ReturnStmt struct {
	Value Expr // nil when no value is returned
	Range source.Range
}

// VarDeclStmt wraps a local variable declaration used in statement
// position (spec §3 "variable-decl wrapper").
type VarDeclStmt struct {
	Decl *VarDecl
}

func (s *AssignStmt) stmtNode()   {}
func (s *CallStmt) stmtNode()     {}
func (s *IncStmt) stmtNode()      {}
func (s *DecStmt) stmtNode()      {}
func (s *ExitStmt) stmtNode()     {}
func (s *GiveStmt) stmtNode()     {}
func (s *TakeStmt) stmtNode()     {}
func (s *IfStmt) stmtNode()       {}
func (s *WhileStmt) stmtNode()    {}
func (s *ReturnStmt) stmtNode()   {}
func (s *VarDeclStmt) stmtNode()  {}

func (s *AssignStmt) StmtRange() source.Range  { return s.Range }
func (s *CallStmt) StmtRange() source.Range    { return s.Call.Range }
func (s *IncStmt) StmtRange() source.Range     { return s.Range }
func (s *DecStmt) StmtRange() source.Range     { return s.Range }
func (s *ExitStmt) StmtRange() source.Range    { return s.Range }
func (s *GiveStmt) StmtRange() source.Range    { return s.Range }
func (s *TakeStmt) StmtRange() source.Range    { return s.Range }
func (s *IfStmt) StmtRange() source.Range      { return s.Range }
func (s *WhileStmt) StmtRange() source.Range   { return s.Range }
func (s *ReturnStmt) StmtRange() source.Range  { return s.Range }
func (s *VarDeclStmt) StmtRange() source.Range { return s.Decl.Range }
