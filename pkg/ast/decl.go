package ast

import "drewnomars.dev/compiler/pkg/source"

// Identifier is a name plus its source-position range (spec §3).
type Identifier struct {
	Name  string
	Range source.Range
}

// Decl is the sum type of declaration nodes (spec §3).
type Decl interface {
	DeclRange() source.Range
	declNode()
}

// ClassDecl's Members create a member scope (spec §4.3).
type ClassDecl struct {
	Name    Identifier
	Members []Decl
	Range   source.Range
}

// FuncDecl carries ordered formals, a return type and a body.
type FuncDecl struct {
	Name     Identifier
	Formals  []*VarDecl
	RetType  Type
	Body     []Stmt
	Range    source.Range
}

// VarDecl is a variable declaration, usable at global, class-member,
// formal-parameter, and local scope.
type VarDecl struct {
	Name     Identifier
	DeclType Type
	Init     Expr // nil when there is no initializer
	Range    source.Range
}

func (d *ClassDecl) declNode() {}
func (d *FuncDecl) declNode()  {}
func (d *VarDecl) declNode()   {}

func (d *ClassDecl) DeclRange() source.Range { return d.Range }
func (d *FuncDecl) DeclRange() source.Range  { return d.Range }
func (d *VarDecl) DeclRange() source.Range   { return d.Range }
