package symtab

import "drewnomars.dev/compiler/pkg/ast"

// VariableEntry is a Variable(type) symbol-table entry (spec §3).
type VariableEntry struct {
	Type ast.Type
}

func (e *VariableEntry) EntryKind() ast.EntryKind { return ast.EntryVariable }

// FunctionEntry is a Function(formals, returnType) symbol-table entry.
type FunctionEntry struct {
	Formals []ast.Type
	Ret     ast.Type
}

func (e *FunctionEntry) EntryKind() ast.EntryKind { return ast.EntryFunction }

// ClassEntry is a Class(scope) symbol-table entry. Scope is a stable
// arena handle rather than a shared reference-counted cell (spec §9
// DESIGN NOTES, "Cyclic ownership in the symbol table").
type ClassEntry struct {
	Scope ScopeID
}

func (e *ClassEntry) EntryKind() ast.EntryKind { return ast.EntryClass }
