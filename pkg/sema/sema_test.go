package sema_test

import (
	"testing"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/sema"
	"drewnomars.dev/compiler/pkg/source"
	"drewnomars.dev/compiler/pkg/symtab"
)

func rng() source.Range { return source.Range{Start: 0, End: 1} }

func id(name string) ast.Identifier { return ast.Identifier{Name: name, Range: rng()} }

func loc(name string) *ast.Location { return ast.NewLocation(name, rng()) }

func run(t *testing.T, prog *ast.Program) ([]error, []error) {
	t.Helper()
	table := symtab.New()
	nameErrs := sema.Analyze(prog, table, nil)
	typeErrs := sema.CheckTypes(prog, table, nil)
	return nameErrs, typeErrs
}

func firstMsg(errs []error) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[0].Error()
}

// S5/S3/S5: `x : perfect int = 1; x = 2;` must fail "Non-Lval assignment".
func TestPerfectAssignmentRejected(t *testing.T) {
	decl := &ast.VarDecl{
		Name:     id("x"),
		DeclType: ast.Type{Tag: ast.TagPerfectPrimitive, Prim: ast.PrimInt},
		Init:     &ast.IntLit{Value: 1, Range: rng()},
		Range:    rng(),
	}
	assign := &ast.AssignStmt{Lhs: loc("x"), Rhs: &ast.IntLit{Value: 2, Range: rng()}, Range: rng()}
	main := &ast.FuncDecl{
		Name:    id("main"),
		RetType: ast.PrimitiveType(ast.PrimVoid),
		Body:    []ast.Stmt{&ast.VarDeclStmt{Decl: decl}, assign},
		Range:   rng(),
	}
	prog := &ast.Program{Decls: []ast.Decl{main}}

	nameErrs, typeErrs := run(t, prog)
	if len(nameErrs) != 0 {
		t.Fatalf("unexpected name errors: %v", nameErrs)
	}
	if msg := firstMsg(typeErrs); msg == "" || !contains(msg, "Non-Lval assignment") {
		t.Fatalf("expected Non-Lval assignment, got %v", typeErrs)
	}
}

// S4: two `x : int;` in the same scope -> "Multiply declared identifier".
func TestDoubleDeclare(t *testing.T) {
	d1 := &ast.VarDecl{Name: id("x"), DeclType: ast.PrimitiveType(ast.PrimInt), Range: rng()}
	d2 := &ast.VarDecl{Name: id("x"), DeclType: ast.PrimitiveType(ast.PrimInt), Range: rng()}
	prog := &ast.Program{Decls: []ast.Decl{d1, d2}}

	nameErrs, _ := run(t, prog)
	if len(nameErrs) != 1 || !contains(firstMsg(nameErrs), "Multiply declared identifier") {
		t.Fatalf("expected one 'Multiply declared identifier' error, got %v", nameErrs)
	}
}

// S4 (class member): `C : class { f : int; }; c : C; c--f = 1;` type-checks;
// `c--g = 1;` fails "Undeclared identifier".
func TestClassMemberLookup(t *testing.T) {
	field := &ast.VarDecl{Name: id("f"), DeclType: ast.PrimitiveType(ast.PrimInt), Range: rng()}
	class := &ast.ClassDecl{Name: id("C"), Members: []ast.Decl{field}, Range: rng()}
	cVar := &ast.VarDecl{Name: id("c"), DeclType: ast.ClassType("C"), Range: rng()}

	cf := loc("c")
	cf.Append("f", rng())
	okAssign := &ast.AssignStmt{Lhs: cf, Rhs: &ast.IntLit{Value: 1, Range: rng()}, Range: rng()}

	cg := loc("c")
	cg.Append("g", rng())
	badAssign := &ast.AssignStmt{Lhs: cg, Rhs: &ast.IntLit{Value: 1, Range: rng()}, Range: rng()}

	main := &ast.FuncDecl{
		Name:    id("main"),
		RetType: ast.PrimitiveType(ast.PrimVoid),
		Body:    []ast.Stmt{&ast.VarDeclStmt{Decl: cVar}, okAssign, badAssign},
		Range:   rng(),
	}
	prog := &ast.Program{Decls: []ast.Decl{class, main}}

	nameErrs, _ := run(t, prog)
	if len(nameErrs) != 1 || !contains(firstMsg(nameErrs), "Undeclared identifier") {
		t.Fatalf("expected one 'Undeclared identifier' error, got %v", nameErrs)
	}
}

// S5: return enforcement.
func TestReturnEnforcement(t *testing.T) {
	voidFn := &ast.FuncDecl{
		Name:    id("f"),
		RetType: ast.PrimitiveType(ast.PrimVoid),
		Body:    []ast.Stmt{&ast.ReturnStmt{Value: &ast.IntLit{Value: 1, Range: rng()}, Range: rng()}},
		Range:   rng(),
	}
	_, typeErrs := run(t, &ast.Program{Decls: []ast.Decl{voidFn}})
	if !contains(firstMsg(typeErrs), "Return with a value in void function") {
		t.Fatalf("expected void-return error, got %v", typeErrs)
	}

	missingFn := &ast.FuncDecl{
		Name:    id("g"),
		RetType: ast.PrimitiveType(ast.PrimInt),
		Body:    []ast.Stmt{&ast.ReturnStmt{Range: rng()}},
		Range:   rng(),
	}
	_, typeErrs = run(t, &ast.Program{Decls: []ast.Decl{missingFn}})
	if !contains(firstMsg(typeErrs), "Missing return value") {
		t.Fatalf("expected missing-return error, got %v", typeErrs)
	}

	badFn := &ast.FuncDecl{
		Name:    id("h"),
		RetType: ast.PrimitiveType(ast.PrimInt),
		Body:    []ast.Stmt{&ast.ReturnStmt{Value: &ast.BoolLit{Value: true, Range: rng()}, Range: rng()}},
		Range:   rng(),
	}
	_, typeErrs = run(t, &ast.Program{Decls: []ast.Decl{badFn}})
	if !contains(firstMsg(typeErrs), "Bad return value") {
		t.Fatalf("expected bad-return-value error, got %v", typeErrs)
	}
}

// S6: `f : (a: int) int { return a; } main : () void { f(true); }` fails
// "Type of actual does not match type of formal".
func TestCallArgTypeMismatch(t *testing.T) {
	formal := &ast.VarDecl{Name: id("a"), DeclType: ast.PrimitiveType(ast.PrimInt), Range: rng()}
	f := &ast.FuncDecl{
		Name:    id("f"),
		Formals: []*ast.VarDecl{formal},
		RetType: ast.PrimitiveType(ast.PrimInt),
		Body:    []ast.Stmt{&ast.ReturnStmt{Value: &ast.LocationExpr{Loc: loc("a")}, Range: rng()}},
		Range:   rng(),
	}
	call := &ast.CallExpr{Callee: loc("f"), Args: []ast.Expr{&ast.BoolLit{Value: true, Range: rng()}}, Range: rng()}
	main := &ast.FuncDecl{
		Name:    id("main"),
		RetType: ast.PrimitiveType(ast.PrimVoid),
		Body:    []ast.Stmt{&ast.CallStmt{Call: call}},
		Range:   rng(),
	}
	prog := &ast.Program{Decls: []ast.Decl{f, main}}

	nameErrs, typeErrs := run(t, prog)
	if len(nameErrs) != 0 {
		t.Fatalf("unexpected name errors: %v", nameErrs)
	}
	if !contains(firstMsg(typeErrs), "Type of actual does not match type of formal") {
		t.Fatalf("expected arg type mismatch, got %v", typeErrs)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && indexOf(haystack, needle) >= 0
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
