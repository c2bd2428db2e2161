// Package source maps byte offsets in a Drewno Mars program to 1-based
// (line, column) positions and renders source ranges for diagnostics.
package source

import (
	"fmt"
	"sort"
)

// Position is a 1-based line/column pair.
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("[%d,%d]", p.Line, p.Col)
}

// Range spans from Start to End, both inclusive byte offsets resolved
// against the same Map.
type Range struct {
	Start int
	End   int
}

// String renders a raw byte-offset range; prefer Map.FormatRange for
// line/column rendering once a document is available.
func (r Range) String() string {
	return fmt.Sprintf("[%d-%d]", r.Start, r.End)
}

// Map is a process-wide handle to the source document: the raw text
// plus a table of line-start byte offsets, built once at startup.
type Map struct {
	text        string
	lineOffsets []int // lineOffsets[i] = byte offset of the first byte of line i+1
}

// NewMap builds a Map over text, precomputing line-start offsets.
func NewMap(text string) *Map {
	offsets := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &Map{text: text, lineOffsets: offsets}
}

// Text returns the full source text.
func (m *Map) Text() string { return m.text }

// Position returns the 1-based line/column of byte offset b.
//
// Panics if m is nil: accessing positions before the document is set
// is an internal error (spec §4.1).
func (m *Map) Position(b int) Position {
	if m == nil {
		panic("source: Position called before Map was set")
	}
	line := sort.Search(len(m.lineOffsets), func(i int) bool {
		return m.lineOffsets[i] > b
	}) - 1
	if line < 0 {
		line = 0
	}
	col := b - m.lineOffsets[line] + 1
	return Position{Line: line + 1, Col: col}
}

// FormatRange renders r as "[ls,cs]-[le,ce]".
func (m *Map) FormatRange(r Range) string {
	s := m.Position(r.Start)
	e := m.Position(r.End)
	return fmt.Sprintf("%s-%s", s, e)
}
