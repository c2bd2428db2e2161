package tac_test

import (
	"testing"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/source"
	"drewnomars.dev/compiler/pkg/tac"
)

// S1 (arithmetic): `x : int = 1 + 2 * 3;` after lowering emits, for
// some temps t0,t1: Multiply(t0, 2, 3); Add(t1, 1, t0); Assignment(Global x, t1).
func TestLowerArithmeticGlobalInit(t *testing.T) {
	mul := &ast.BinaryExpr{
		Op:  ast.BinMul,
		Lhs: &ast.IntLit{Value: 2},
		Rhs: &ast.IntLit{Value: 3},
	}
	add := &ast.BinaryExpr{Op: ast.BinAdd, Lhs: &ast.IntLit{Value: 1}, Rhs: mul}
	x := &ast.VarDecl{Name: ast.Identifier{Name: "x"}, DeclType: ast.PrimitiveType(ast.PrimInt), Init: add}
	prog := &ast.Program{Decls: []ast.Decl{x}}

	out, err := tac.Lower(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Quads[0] is the Globals header; the init sequence follows.
	if len(out.Quads) < 4 {
		t.Fatalf("expected at least 4 quads, got %d", len(out.Quads))
	}
	mulQuad := out.Quads[1].String()
	addQuad := out.Quads[2].String()
	assignQuad := out.Quads[3].String()

	if want := "[tmp_0] := 2 MULT64 3\n"; mulQuad != want {
		t.Errorf("quad[1] = %q, want %q", mulQuad, want)
	}
	if want := "[tmp_1] := 1 ADD64 tmp_0\n"; addQuad != want {
		t.Errorf("quad[2] = %q, want %q", addQuad, want)
	}
	if want := "[x] := tmp_1\n"; assignQuad != want {
		t.Errorf("quad[3] = %q, want %q", assignQuad, want)
	}
}

// S2 (while): `while (x < 10) { x++; }` emits a head/after label pair
// and the canonical loop structure of spec §4.6.
func TestLowerWhileLoop(t *testing.T) {
	var r source.Range

	xLoc := ast.NewLocation("x", r)
	xLoc.IsLocal = true
	cond := &ast.BinaryExpr{Op: ast.BinLt, Lhs: &ast.LocationExpr{Loc: xLoc}, Rhs: &ast.IntLit{Value: 10}}

	incOperand := ast.NewLocation("x", r)
	incOperand.IsLocal = true
	inc := &ast.IncStmt{Operand: incOperand}

	loop := &ast.WhileStmt{Cond: cond, Body: []ast.Stmt{inc}}
	main := &ast.FuncDecl{
		Name:    ast.Identifier{Name: "main"},
		RetType: ast.PrimitiveType(ast.PrimVoid),
		Body:    []ast.Stmt{loop},
	}
	prog := &ast.Program{Decls: []ast.Decl{main}}

	out, err := tac.Lower(prog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var labels []string
	for _, q := range out.Quads {
		if lbl, ok := q.(*tac.Label); ok {
			labels = append(labels, lbl.Name)
		}
	}
	if len(labels) != 3 {
		t.Fatalf("expected exactly 3 plain labels (head, after, main trampoline), got %v", labels)
	}
}

// Testable Property 6: TAC determinism — identical input must
// produce a byte-identical quad stream across runs.
func TestLowerDeterministic(t *testing.T) {
	build := func() *ast.Program {
		a := &ast.VarDecl{Name: ast.Identifier{Name: "a"}, DeclType: ast.PrimitiveType(ast.PrimInt), Init: &ast.IntLit{Value: 1}}
		b := &ast.VarDecl{Name: ast.Identifier{Name: "b"}, DeclType: ast.PrimitiveType(ast.PrimInt), Init: &ast.IntLit{Value: 2}}
		return &ast.Program{Decls: []ast.Decl{a, b}}
	}

	out1, err := tac.Lower(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out2, err := tac.Lower(build())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	render := func(p *tac.Program) string {
		s := ""
		for _, q := range p.Quads {
			s += q.String()
		}
		return s
	}
	if render(out1) != render(out2) {
		t.Fatalf("lowering is not deterministic across runs")
	}
}
