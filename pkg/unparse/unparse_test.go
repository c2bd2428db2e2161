package unparse_test

import (
	"strings"
	"testing"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/source"
	"drewnomars.dev/compiler/pkg/symtab"
	"drewnomars.dev/compiler/pkg/unparse"
)

var zeroRange source.Range

func TestPlainIndentsOneTabPerNestingLevel(t *testing.T) {
	x := &ast.VarDecl{Name: ast.Identifier{Name: "x"}, DeclType: ast.PrimitiveType(ast.PrimInt), Init: &ast.IntLit{Value: 10}}
	cond := &ast.BinaryExpr{Op: ast.BinLt, Lhs: &ast.LocationExpr{Loc: ast.NewLocation("x", zeroRange)}, Rhs: &ast.IntLit{Value: 20}}
	inner := &ast.IncStmt{Operand: ast.NewLocation("x", zeroRange)}
	loop := &ast.WhileStmt{Cond: cond, Body: []ast.Stmt{inner}}
	main := &ast.FuncDecl{Name: ast.Identifier{Name: "main"}, RetType: ast.PrimitiveType(ast.PrimVoid), Body: []ast.Stmt{loop}}
	prog := &ast.Program{Decls: []ast.Decl{x, main}}

	out := unparse.Plain(prog)
	if !strings.Contains(out, "\twhile (") {
		t.Errorf("expected while body at one tab of indent, got:\n%s", out)
	}
	if !strings.Contains(out, "\t\tx++;") {
		t.Errorf("expected inc stmt at two tabs of indent, got:\n%s", out)
	}
}

func TestNamedAnnotatesResolvedVariableType(t *testing.T) {
	loc := ast.NewLocation("x", zeroRange)
	loc.Entry = &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)}
	give := &ast.GiveStmt{Value: &ast.LocationExpr{Loc: loc}}
	main := &ast.FuncDecl{Name: ast.Identifier{Name: "main"}, RetType: ast.PrimitiveType(ast.PrimVoid), Body: []ast.Stmt{give}}
	prog := &ast.Program{Decls: []ast.Decl{main}}

	out := unparse.Named(prog)
	if !strings.Contains(out, "x{int}") {
		t.Errorf("expected named unparse to annotate x with {int}, got:\n%s", out)
	}
}

func TestNamedAnnotatesFunctionSignature(t *testing.T) {
	formal := &ast.VarDecl{Name: ast.Identifier{Name: "a"}, DeclType: ast.PrimitiveType(ast.PrimInt)}
	fn := &ast.FuncDecl{Name: ast.Identifier{Name: "f"}, Formals: []*ast.VarDecl{formal}, RetType: ast.PrimitiveType(ast.PrimInt), Body: []ast.Stmt{
		&ast.ReturnStmt{Value: &ast.IntLit{Value: 1}},
	}}
	prog := &ast.Program{Decls: []ast.Decl{fn}}

	out := unparse.Named(prog)
	if !strings.Contains(out, "f{(int)->int}") {
		t.Errorf("expected named unparse to annotate f's signature, got:\n%s", out)
	}
}

