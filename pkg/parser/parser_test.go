package parser_test

import (
	"strings"
	"testing"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.NewParser(strings.NewReader(src))
	prog, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return prog
}

func TestParseGlobalVarDecl(t *testing.T) {
	prog := mustParse(t, "x: int = 10;\n")

	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 top-level decl, got %d", len(prog.Decls))
	}
	v, ok := prog.Decls[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Decls[0])
	}
	if v.Name.Name != "x" || v.DeclType.Prim != ast.PrimInt {
		t.Fatalf("unexpected var decl: %+v", v)
	}
	lit, ok := v.Init.(*ast.IntLit)
	if !ok || lit.Value != 10 {
		t.Fatalf("expected initializer 10, got %+v", v.Init)
	}
}

func TestParseFuncDeclWithFormalsAndBody(t *testing.T) {
	src := `add: (a: int, b: int) int {
	return a + b;
}
`
	prog := mustParse(t, src)

	if len(prog.Decls) != 1 {
		t.Fatalf("expected 1 top-level decl, got %d", len(prog.Decls))
	}
	fn, ok := prog.Decls[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("expected *ast.FuncDecl, got %T", prog.Decls[0])
	}
	if fn.Name.Name != "add" || len(fn.Formals) != 2 {
		t.Fatalf("unexpected func decl: %+v", fn)
	}
	if fn.Formals[0].Name.Name != "a" || fn.Formals[1].Name.Name != "b" {
		t.Fatalf("unexpected formal names: %+v", fn.Formals)
	}
	if fn.RetType.Prim != ast.PrimInt {
		t.Fatalf("expected int return type, got %+v", fn.RetType)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("expected *ast.ReturnStmt, got %T", fn.Body[0])
	}
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("expected a + b, got %+v", ret.Value)
	}
}

func TestParseIfElse(t *testing.T) {
	src := `main: () void {
	if (x < 10) {
		give x;
	} else {
		give 0;
	}
}
`
	prog := mustParse(t, src)
	fn := prog.Decls[0].(*ast.FuncDecl)
	ifStmt, ok := fn.Body[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", fn.Body[0])
	}
	if len(ifStmt.Then) != 1 || len(ifStmt.Else) != 1 {
		t.Fatalf("expected one statement per branch, got then=%d else=%d", len(ifStmt.Then), len(ifStmt.Else))
	}
	cond, ok := ifStmt.Cond.(*ast.BinaryExpr)
	if !ok || cond.Op != ast.BinLt {
		t.Fatalf("expected x < 10, got %+v", ifStmt.Cond)
	}
}

func TestParseWhileLoop(t *testing.T) {
	src := `main: () void {
	while (true) {
		inc x;
	}
}
`
	prog := mustParse(t, src)
	fn := prog.Decls[0].(*ast.FuncDecl)
	loop, ok := fn.Body[0].(*ast.WhileStmt)
	if !ok {
		t.Fatalf("expected *ast.WhileStmt, got %T", fn.Body[0])
	}
	if len(loop.Body) != 1 {
		t.Fatalf("expected 1 statement in loop body, got %d", len(loop.Body))
	}
	if _, ok := loop.Body[0].(*ast.IncStmt); !ok {
		t.Fatalf("expected *ast.IncStmt, got %T", loop.Body[0])
	}
}

func TestParseCallExpression(t *testing.T) {
	src := `main: () void {
	add(1, 2);
}
`
	prog := mustParse(t, src)
	fn := prog.Decls[0].(*ast.FuncDecl)
	call, ok := fn.Body[0].(*ast.CallStmt)
	if !ok {
		t.Fatalf("expected *ast.CallStmt, got %T", fn.Body[0])
	}
	if call.Call.Callee.Link != "add" || len(call.Call.Args) != 2 {
		t.Fatalf("unexpected call: %+v", call.Call)
	}
}

func TestParseExitStatement(t *testing.T) {
	src := "main: () void {\n\t\"today I don't feel like doing any work\";\n}\n"
	prog := mustParse(t, src)
	fn := prog.Decls[0].(*ast.FuncDecl)
	if _, ok := fn.Body[0].(*ast.ExitStmt); !ok {
		t.Fatalf("expected *ast.ExitStmt, got %T", fn.Body[0])
	}
}

func TestParseDottedLocationChain(t *testing.T) {
	src := `main: () void {
	take a--b--c;
}
`
	prog := mustParse(t, src)
	fn := prog.Decls[0].(*ast.FuncDecl)
	take, ok := fn.Body[0].(*ast.TakeStmt)
	if !ok {
		t.Fatalf("expected *ast.TakeStmt, got %T", fn.Body[0])
	}
	if take.Target.String() != "a--b--c" {
		t.Fatalf("expected dotted chain a--b--c, got %s", take.Target.String())
	}
}

func TestParseClassWithMembers(t *testing.T) {
	src := `class Point {
	x: int;
	y: int;
}
`
	prog := mustParse(t, src)
	cls, ok := prog.Decls[0].(*ast.ClassDecl)
	if !ok {
		t.Fatalf("expected *ast.ClassDecl, got %T", prog.Decls[0])
	}
	if cls.Name.Name != "Point" || len(cls.Members) != 2 {
		t.Fatalf("unexpected class decl: %+v", cls)
	}
}
