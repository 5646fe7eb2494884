// Package cellstore implements the sparse cell store: a (row, col) -> cell
// map with row/column side indexes, structural row/column metadata, and an
// incrementally maintained used-range bounding box.
package cellstore

import (
	"github.com/google/uuid"

	"github.com/vectorsheet/engine/internal/cellref"
)

// Kind enumerates the possible shapes a cell's stored value can take.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindBool
	KindString
	KindFormattedText
	KindError
)

// ErrorTag is one of the literal spreadsheet error strings a cell value may
// carry. The core only ever produces ErrRef (circular reference) and
// ErrValue (evaluator failure); the rest are produced by the injected
// evaluator.
type ErrorTag string

const (
	ErrNull  ErrorTag = "#NULL!"
	ErrDiv0  ErrorTag = "#DIV/0!"
	ErrValue ErrorTag = "#VALUE!"
	ErrRef   ErrorTag = "#REF!"
	ErrName  ErrorTag = "#NAME?"
	ErrNum   ErrorTag = "#NUM!"
	ErrNA    ErrorTag = "#N/A"
)

// TextRun is one interval of character formatting within a FormattedText
// value. Runs must not overlap after normalization and may leave gaps.
type TextRun struct {
	Start  int
	End    int
	Format any
}

// FormattedText is a text value carrying an ordered sequence of formatting
// runs over it.
type FormattedText struct {
	Text string
	Runs []TextRun
}

// Clone returns a deep copy, satisfying the mandatory deep-clone-on-
// storage-boundary-crossing invariant (copy/paste, undo snapshots).
func (f FormattedText) Clone() FormattedText {
	runs := make([]TextRun, len(f.Runs))
	copy(runs, f.Runs)
	return FormattedText{Text: f.Text, Runs: runs}
}

// Comment is an annotation attached to a cell, independent of its value.
type Comment struct {
	ID     string
	Author string
	Text   string
}

// NewComment builds a Comment with a fresh random ID, so callers never
// need to mint their own identifiers for the comment lifecycle.
func NewComment(author, text string) *Comment {
	return &Comment{ID: uuid.New().String(), Author: author, Text: text}
}

// Cell is a single stored cell record. Zero value is not meaningful on its
// own; use NewCell or the Store's mutators.
type Cell struct {
	Kind          Kind
	Value         any
	Formula       string
	FormulaResult any
	Format        any
	Borders       any
	Comment       *Comment
	Dirty         bool
}

// Clone returns a deep copy of the cell, cloning FormattedText values and
// the comment pointer so neither side can mutate the other's storage.
func (c *Cell) Clone() *Cell {
	if c == nil {
		return nil
	}
	clone := *c
	if ft, ok := c.Value.(FormattedText); ok {
		clone.Value = ft.Clone()
	}
	if c.Comment != nil {
		comment := *c.Comment
		clone.Comment = &comment
	}
	return &clone
}

// IsEmpty implements spec's emptiness predicate as a disjunction: a cell is
// empty iff its value is nil and none of {formula, format, borders,
// comment} is present. Kind never decides emptiness: a comment-only or
// format-only record has Kind KindEmpty and is still retained by Store.
func (c *Cell) IsEmpty() bool {
	if c == nil {
		return true
	}
	return c.Value == nil && c.Formula == "" && c.Format == nil && c.Borders == nil && c.Comment == nil
}

// NewValueCell builds a cell from a raw value, inferring its Kind.
func NewValueCell(value any) *Cell {
	return &Cell{Kind: kindOf(value), Value: value}
}

func kindOf(value any) Kind {
	switch value.(type) {
	case nil:
		return KindEmpty
	case float64, int, int64:
		return KindNumber
	case bool:
		return KindBool
	case string:
		return KindString
	case FormattedText:
		return KindFormattedText
	case ErrorTag:
		return KindError
	default:
		return KindEmpty
	}
}

// Address is re-exported for callers that only import cellstore.
type Address = cellref.Address
