// Package diag holds the compiler's single diagnostic type. Errors
// carry a range and a message and format lazily, so passes that
// collect many errors (name analysis) don't pay string-building cost
// for errors that are ultimately discarded or merged.
package diag

import (
	"fmt"

	"drewnomars.dev/compiler/pkg/source"
)

// Error is a single "FATAL <range>: <msg>" diagnostic.
type Error struct {
	Range source.Range
	Msg   string
	doc   *source.Map
}

// New builds an Error bound to doc for later formatting.
func New(doc *source.Map, r source.Range, msg string) *Error {
	return &Error{Range: r, Msg: msg, doc: doc}
}

func (e *Error) Error() string {
	if e.doc == nil {
		return fmt.Sprintf("FATAL %s: %s", e.Range, e.Msg)
	}
	return fmt.Sprintf("FATAL %s: %s", e.doc.FormatRange(e.Range), e.Msg)
}
