package ast

import "drewnomars.dev/compiler/pkg/source"

// Location is a left-linked chain of name links representing a dotted
// access such as `a--b--c` (spec §3 Glossary). It is built forward by
// Append and walked forward by NextLink; only the last link's Entry is
// consulted for the Location's type/kind once name analysis is done.
type Location struct {
	Link     string
	Range    source.Range
	NextLink *Location

	// EnclosingClass is set, during name analysis, to the entry that
	// owns the scope this link must be resolved in. Nil means
	// "resolve in the current lexical scope stack".
	EnclosingClass SymbolEntry

	// Entry is the resolved symbol-table entry for this link, filled
	// in by name analysis (pkg/sema).
	Entry SymbolEntry

	// IsLocal records whether Entry was found in a non-global scope,
	// set during name analysis and consumed by TAC lowering to choose
	// between a Local and Global TAC argument.
	IsLocal bool
}

// NewLocation builds the first link of a chain.
func NewLocation(name string, r source.Range) *Location {
	return &Location{Link: name, Range: r}
}

// Append adds a new link to the tail of the chain rooted at l; l
// stays the head.
func (l *Location) Append(name string, r source.Range) {
	tail := l.GetLastLink()
	tail.NextLink = &Location{Link: name, Range: r}
}

// GetLastLink walks to and returns the tail link of the chain.
func (l *Location) GetLastLink() *Location {
	cur := l
	for cur.NextLink != nil {
		cur = cur.NextLink
	}
	return cur
}

// GetEntry returns the resolved entry of the chain's last link. Name
// analysis must have run first.
func (l *Location) GetEntry() SymbolEntry {
	return l.GetLastLink().Entry
}

// String renders the dotted chain, e.g. "a--b--c".
func (l *Location) String() string {
	out := l.Link
	for cur := l.NextLink; cur != nil; cur = cur.NextLink {
		out += "--" + cur.Link
	}
	return out
}
