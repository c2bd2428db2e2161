package ast

// Program is the root node: an ordered list of top-level declarations
// as produced by the parser.
type Program struct {
	Decls []Decl
}
