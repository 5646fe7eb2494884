// Package selection implements the selection manager (SM): an immutable
// active-cell/anchor/multi-range selection state machine driven by
// keyboard and pointer operations, with fire-on-change subscriptions.
package selection

import (
	"github.com/vectorsheet/engine/internal/cellref"
)

// Mode tags the current interaction state.
type Mode int

const (
	ModeNormal Mode = iota
	ModeSelecting
	ModeExtending
)

// State is the immutable selection value. Every mutating operation on
// Manager produces a new State rather than editing one in place.
type State struct {
	Ranges           []cellref.Range
	ActiveRangeIndex int
	AnchorCell       cellref.Address
	ActiveCell       cellref.Address
	Mode             Mode
}

func a1(r, c int) cellref.Address { return cellref.Address{Row: r, Col: c} }

func cellRange(a cellref.Address) cellref.Range {
	return cellref.Range{StartRow: a.Row, StartCol: a.Col, EndRow: a.Row, EndCol: a.Col}
}

// defaultState is the A1 single-cell selection.
func defaultState() State {
	return State{
		Ranges:           []cellref.Range{cellRange(a1(0, 0))},
		ActiveRangeIndex: 0,
		AnchorCell:       a1(0, 0),
		ActiveCell:       a1(0, 0),
		Mode:             ModeNormal,
	}
}

// activeRange returns the currently active range of s.
func (s State) activeRange() cellref.Range {
	if s.ActiveRangeIndex < 0 || s.ActiveRangeIndex >= len(s.Ranges) {
		return cellRange(s.ActiveCell)
	}
	return s.Ranges[s.ActiveRangeIndex]
}

// clampToRange clamps a into r.
func clampToRange(a cellref.Address, r cellref.Range) cellref.Address {
	r = r.Normalized()
	row, col := a.Row, a.Col
	if row < r.StartRow {
		row = r.StartRow
	}
	if row > r.EndRow {
		row = r.EndRow
	}
	if col < r.StartCol {
		col = r.StartCol
	}
	if col > r.EndCol {
		col = r.EndCol
	}
	return cellref.Address{Row: row, Col: col}
}

func span(a, b cellref.Address) cellref.Range {
	return cellref.Range{StartRow: a.Row, StartCol: a.Col, EndRow: b.Row, EndCol: b.Col}.Normalized()
}

func equalAddr(a, b cellref.Address) bool { return a.Row == b.Row && a.Col == b.Col }

func equalRange(a, b cellref.Range) bool {
	an, bn := a.Normalized(), b.Normalized()
	return an == bn
}

func equalState(a, b State) bool {
	if a.ActiveRangeIndex != b.ActiveRangeIndex || !equalAddr(a.AnchorCell, b.AnchorCell) ||
		!equalAddr(a.ActiveCell, b.ActiveCell) || a.Mode != b.Mode {
		return false
	}
	if len(a.Ranges) != len(b.Ranges) {
		return false
	}
	for i := range a.Ranges {
		if !equalRange(a.Ranges[i], b.Ranges[i]) {
			return false
		}
	}
	return true
}

// ChangeEvent carries the before/after state of a fired notification.
type ChangeEvent struct {
	Previous State
	Current  State
}

// Listener receives change notifications.
type Listener func(ChangeEvent)
