package ast

// EntryKind coarsely classifies what a symbol-table entry denotes.
// This is the Kind computed (not stored) by type analysis per spec §3.
type EntryKind int

const (
	EntryVariable EntryKind = iota
	EntryFunction
	EntryClass
)

func (k EntryKind) String() string {
	switch k {
	case EntryVariable:
		return "variable"
	case EntryFunction:
		return "function"
	case EntryClass:
		return "class"
	default:
		return "?entry"
	}
}

// SymbolEntry is implemented by the concrete entry types in pkg/symtab
// (Variable/Function/Class). It lives in pkg/ast, not pkg/symtab, so
// that Location can hold a resolved entry without pkg/ast importing
// pkg/symtab (pkg/symtab already imports pkg/ast for Type).
type SymbolEntry interface {
	EntryKind() EntryKind
}
