// Package symtab implements the scope stack and class-member
// sub-scopes from spec §4.3. Scopes live in a flat arena addressed by
// a stable ScopeID, per spec §9 DESIGN NOTES ("Cyclic ownership in the
// symbol table"): a Class entry both lives in its enclosing scope and
// owns a scope that may reference the class itself, which a
// reference-counted interior-mutable cell (as the teacher's original
// source used) would need a cycle collector to clean up. An arena
// sidesteps that entirely: resolution is an index lookup, and no
// Go-level reference cycle is ever formed.
package symtab

import (
	"errors"

	"drewnomars.dev/compiler/pkg/ast"
	"drewnomars.dev/compiler/pkg/ordered"
)

// ScopeID is a stable handle into a Table's arena.
type ScopeID int

// Scope is a flat name -> entry mapping. Scopes are never iterated for
// output (only looked up by name), so a native map is fine here; the
// determinism hazard the teacher's code warns about only applies to
// lists the backend must emit in a fixed order (see pkg/ordered).
type Scope struct {
	names map[string]ast.SymbolEntry
}

func newScope() Scope {
	return Scope{names: make(map[string]ast.SymbolEntry)}
}

// GlobalScope is always the bottom scope of a fresh Table.
const GlobalScope ScopeID = 0

// Table is the scope stack of spec §4.3: an arena of scopes plus a
// stack of the ScopeIDs currently in lexical scope, bottom = global.
type Table struct {
	arena []Scope
	stack ordered.Stack[ScopeID]
}

// New builds a Table with the global scope pushed.
func New() *Table {
	t := &Table{arena: []Scope{newScope()}}
	t.stack.Push(GlobalScope)
	return t
}

// Scope returns a pointer into the arena for id. Panics on an invalid
// id: that is an internal compiler error, never a user-facing one.
func (t *Table) Scope(id ScopeID) *Scope {
	if int(id) < 0 || int(id) >= len(t.arena) {
		panic("symtab: invalid ScopeID")
	}
	return &t.arena[id]
}

func (t *Table) topID() ScopeID {
	id, err := t.stack.Top()
	if err != nil {
		panic("symtab: scope stack unexpectedly empty")
	}
	return id
}

// Add inserts entry under name in the current (top) scope.
//
// Fails with "Invalid type in declaration" if entry is a Variable of
// primitive Void, and with "Multiply declared identifier" if name is
// already bound in the top scope (spec §4.3).
func (t *Table) Add(name string, entry ast.SymbolEntry) error {
	if v, ok := entry.(*VariableEntry); ok && v.Type.IsVoid() {
		return errors.New("Invalid type in declaration")
	}
	scope := t.Scope(t.topID())
	if _, exists := scope.names[name]; exists {
		return errors.New("Multiply declared identifier")
	}
	scope.names[name] = entry
	return nil
}

// AddClass allocates a new empty member scope, inserts it as a
// Class(scope) entry in the current scope, then pushes the new scope
// so the class body's declarations land inside it.
func (t *Table) AddClass(name string) (*ClassEntry, error) {
	id := ScopeID(len(t.arena))
	t.arena = append(t.arena, newScope())
	entry := &ClassEntry{Scope: id}
	if err := t.Add(name, entry); err != nil {
		return nil, err
	}
	t.stack.Push(id)
	return entry, nil
}

// EnterScope pushes a fresh empty scope (function bodies, blocks).
func (t *Table) EnterScope() {
	id := ScopeID(len(t.arena))
	t.arena = append(t.arena, newScope())
	t.stack.Push(id)
}

// ExitScope pops the top scope.
func (t *Table) ExitScope() (ScopeID, error) {
	return t.stack.Pop()
}

// Link searches the scope stack top-down for name, the rule used to
// resolve a Location's first link when it has no enclosing class.
func (t *Table) Link(name string) (ast.SymbolEntry, error) {
	var found ast.SymbolEntry
	t.stack.All()(func(id ScopeID) bool {
		if e, ok := t.Scope(id).names[name]; ok {
			found = e
			return false
		}
		return true
	})
	if found == nil {
		return nil, errors.New("Undeclared identifier")
	}
	return found, nil
}

// GetClassMember resolves name inside the member scope of the class
// named by classEntry's type. classEntry must be a Variable(Class t);
// t is looked up globally to find the owning ClassEntry, whose scope
// is then searched for name.
func (t *Table) GetClassMember(classEntry ast.SymbolEntry, name string) (ast.SymbolEntry, error) {
	v, ok := classEntry.(*VariableEntry)
	if !ok || !v.Type.IsClass() {
		return nil, errors.New("Undefined type")
	}
	classDeclEntry, err := t.Link(v.Type.ClassName)
	if err != nil {
		return nil, errors.New("Undefined type")
	}
	ce, ok := classDeclEntry.(*ClassEntry)
	if !ok {
		return nil, errors.New("Undefined type")
	}
	member, ok := t.Scope(ce.Scope).names[name]
	if !ok {
		return nil, errors.New("Undeclared identifier")
	}
	return member, nil
}

// IsLocal reports whether name resolves in any scope above the
// global (bottom) one.
func (t *Table) IsLocal(name string) bool {
	ids := t.stack.All()
	isBottom := func(id ScopeID) bool { return id == GlobalScope }
	local := false
	ids(func(id ScopeID) bool {
		if isBottom(id) {
			return true
		}
		if _, ok := t.Scope(id).names[name]; ok {
			local = true
			return false
		}
		return true
	})
	return local
}
