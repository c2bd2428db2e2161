package symtab_test

import (
	"testing"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/symtab"
)

func TestAddRejectsVoidVariable(t *testing.T) {
	table := symtab.New()
	err := table.Add("x", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimVoid)})
	if err == nil || err.Error() != "Invalid type in declaration" {
		t.Fatalf("expected 'Invalid type in declaration', got %v", err)
	}
}

func TestAddRejectsRedeclaration(t *testing.T) {
	table := symtab.New()
	if err := table.Add("x", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)}); err != nil {
		t.Fatalf("unexpected error on first add: %v", err)
	}
	err := table.Add("x", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)})
	if err == nil || err.Error() != "Multiply declared identifier" {
		t.Fatalf("expected 'Multiply declared identifier', got %v", err)
	}
}

func TestLinkResolvesAcrossScopes(t *testing.T) {
	table := symtab.New()
	table.Add("g", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)})
	table.EnterScope()
	table.Add("l", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimBool)})

	if _, err := table.Link("g"); err != nil {
		t.Errorf("expected to resolve global 'g', got error: %v", err)
	}
	if _, err := table.Link("l"); err != nil {
		t.Errorf("expected to resolve local 'l', got error: %v", err)
	}
	if _, err := table.Link("missing"); err == nil {
		t.Errorf("expected 'Undeclared identifier' for missing name")
	}

	table.ExitScope()
	if _, err := table.Link("l"); err == nil {
		t.Errorf("expected 'l' to no longer resolve after ExitScope")
	}
}

func TestIsLocal(t *testing.T) {
	table := symtab.New()
	table.Add("g", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)})
	table.EnterScope()
	table.Add("l", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)})

	if table.IsLocal("g") {
		t.Errorf("expected global 'g' to not be local")
	}
	if !table.IsLocal("l") {
		t.Errorf("expected 'l' to be local")
	}
}

func TestClassMemberLookup(t *testing.T) {
	table := symtab.New()
	table.AddClass("C")
	table.Add("f", &symtab.VariableEntry{Type: ast.PrimitiveType(ast.PrimInt)})
	table.ExitScope()

	c := &symtab.VariableEntry{Type: ast.ClassType("C")}
	if _, err := table.GetClassMember(c, "f"); err != nil {
		t.Errorf("expected to resolve member 'f', got error: %v", err)
	}
	if _, err := table.GetClassMember(c, "g"); err == nil || err.Error() != "Undeclared identifier" {
		t.Errorf("expected 'Undeclared identifier' for missing member, got %v", err)
	}
}
