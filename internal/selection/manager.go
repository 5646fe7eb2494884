package selection

import (
	"time"

	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
)

// RegionFinder is the subset of the cell store's navigation surface the
// selection manager needs, kept narrow to avoid a hard dependency on the
// full store API.
type RegionFinder interface {
	FindNextNonEmpty(row, col int, dir cellstore.Direction) (int, int)
	FindCurrentRegion(row, col int) (cellstore.Range, bool)
	UsedRange() cellstore.Range
	IsRowHidden(row int) bool
	IsColumnHidden(col int) bool
}

func toCellrefRange(r cellstore.Range) cellref.Range {
	return cellref.Range{StartRow: r.StartRow, StartCol: r.StartCol, EndRow: r.EndRow, EndCol: r.EndCol}
}

// ctrlAWindow bounds how long between Ctrl+A presses still counts as a
// continuation of the same cycle.
const ctrlAWindow = 1 * time.Second

// Manager owns the current selection State and dispatches every mutating
// operation, firing change notifications when the resulting state differs
// from the prior one.
type Manager struct {
	state      State
	store      RegionFinder
	maxRows    int
	maxCols    int
	listeners  []Listener
	lastCtrlA  time.Time
	ctrlAStage int
	pageRows   int
}

// NewManager creates a manager with the A1 default selection.
func NewManager(store RegionFinder, maxRows, maxCols int) *Manager {
	return &Manager{
		state:    defaultState(),
		store:    store,
		maxRows:  maxRows,
		maxCols:  maxCols,
		pageRows: 20,
	}
}

// State returns the current immutable selection state.
func (m *Manager) State() State { return m.state }

// SetPageRowCount configures the row count used by PageUp/PageDown.
func (m *Manager) SetPageRowCount(n int) {
	if n < 1 {
		n = 1
	}
	m.pageRows = n
}

// Subscribe registers a listener for change events. It returns an
// unsubscribe function.
func (m *Manager) Subscribe(l Listener) func() {
	m.listeners = append(m.listeners, l)
	idx := len(m.listeners) - 1
	return func() {
		m.listeners[idx] = nil
	}
}

func (m *Manager) commit(next State) {
	prev := m.state
	if equalState(prev, next) {
		return
	}
	m.state = next
	for _, l := range m.listeners {
		if l != nil {
			l(ChangeEvent{Previous: prev, Current: next})
		}
	}
}

func (m *Manager) clampAddr(a cellref.Address) cellref.Address {
	if a.Row < 0 {
		a.Row = 0
	}
	if a.Row >= m.maxRows {
		a.Row = m.maxRows - 1
	}
	if a.Col < 0 {
		a.Col = 0
	}
	if a.Col >= m.maxCols {
		a.Col = m.maxCols - 1
	}
	return a
}

// SetActiveCell replaces the selection with a single-cell selection at c.
func (m *Manager) SetActiveCell(c cellref.Address) {
	c = m.clampAddr(c)
	m.commit(State{
		Ranges:           []cellref.Range{cellRange(c)},
		ActiveRangeIndex: 0,
		AnchorCell:       c,
		ActiveCell:       c,
		Mode:             ModeNormal,
	})
}

// SetRange replaces the selection with a single multi-cell range r. active,
// if given, is clamped into r; otherwise the range's top-left is used.
func (m *Manager) SetRange(r cellref.Range, active ...cellref.Address) {
	r = r.Normalized()
	var a cellref.Address
	if len(active) > 0 {
		a = clampToRange(active[0], r)
	} else {
		a = cellref.Address{Row: r.StartRow, Col: r.StartCol}
	}
	m.commit(State{
		Ranges:           []cellref.Range{r},
		ActiveRangeIndex: 0,
		AnchorCell:       a,
		ActiveCell:       a,
		Mode:             ModeNormal,
	})
}

// ExtendSelection replaces the active range with span(anchor, target),
// keeping the anchor fixed and moving active to target.
func (m *Manager) ExtendSelection(target cellref.Address) {
	target = m.clampAddr(target)
	s := m.state
	next := span(s.AnchorCell, target)

	ranges := append([]cellref.Range(nil), s.Ranges...)
	idx := s.ActiveRangeIndex
	if idx < 0 || idx >= len(ranges) {
		ranges = append(ranges, next)
		idx = len(ranges) - 1
	} else {
		ranges[idx] = next
	}

	m.commit(State{
		Ranges:           ranges,
		ActiveRangeIndex: idx,
		AnchorCell:       s.AnchorCell,
		ActiveCell:       target,
		Mode:             ModeExtending,
	})
}

// AddRange appends r as a new active range (Ctrl+Click semantics), moving
// active to its start.
func (m *Manager) AddRange(r cellref.Range) {
	r = r.Normalized()
	s := m.state
	ranges := append(append([]cellref.Range(nil), s.Ranges...), r)
	active := cellref.Address{Row: r.StartRow, Col: r.StartCol}
	m.commit(State{
		Ranges:           ranges,
		ActiveRangeIndex: len(ranges) - 1,
		AnchorCell:       active,
		ActiveCell:       active,
		Mode:             ModeNormal,
	})
}

// AddCell is AddRange over a single-cell range.
func (m *Manager) AddCell(c cellref.Address) {
	m.AddRange(cellRange(m.clampAddr(c)))
}

// RemoveRange removes the i-th range, fixing ActiveRangeIndex; if the
// result is empty, the selection resets to A1.
func (m *Manager) RemoveRange(i int) {
	s := m.state
	if i < 0 || i >= len(s.Ranges) {
		return
	}
	ranges := append(append([]cellref.Range(nil), s.Ranges[:i]...), s.Ranges[i+1:]...)
	if len(ranges) == 0 {
		m.commit(defaultState())
		return
	}
	idx := s.ActiveRangeIndex
	switch {
	case idx == i:
		idx = len(ranges) - 1
	case idx > i:
		idx--
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ranges) {
		idx = len(ranges) - 1
	}
	r := ranges[idx]
	active := clampToRange(s.ActiveCell, r)
	m.commit(State{
		Ranges:           ranges,
		ActiveRangeIndex: idx,
		AnchorCell:       active,
		ActiveCell:       active,
		Mode:             ModeNormal,
	})
}

// Clear resets the selection to A1.
func (m *Manager) Clear() {
	m.commit(defaultState())
}

// MoveActiveCell moves the active cell by (dr, dc), clamped to the grid.
// When extend is true this behaves like ExtendSelection(active+(dr,dc));
// otherwise it behaves like SetActiveCell(clamp(active+(dr,dc))).
func (m *Manager) MoveActiveCell(dr, dc int, extend bool) {
	target := cellref.Address{Row: m.state.ActiveCell.Row + dr, Col: m.state.ActiveCell.Col + dc}
	target = m.clampAddr(target)
	if extend {
		m.ExtendSelection(target)
		return
	}
	m.SetActiveCell(target)
}

// MoveDirection selects the cycling order MoveWithinSelection uses.
type MoveDirection int

const (
	MoveNext MoveDirection = iota
	MovePrevious
	MoveNextRow
	MovePrevRow
)

// MoveWithinSelection cycles the active cell within the active range,
// row-major for Next/Previous (Tab) or column-major for NextRow/PrevRow
// (Enter), wrapping at the range's edges and skipping hidden rows/cols.
func (m *Manager) MoveWithinSelection(dir MoveDirection) {
	s := m.state
	r := s.activeRange().Normalized()
	cur := s.ActiveCell

	rowMajor := dir == MoveNext || dir == MovePrevious
	forward := dir == MoveNext || dir == MoveNextRow

	next := cur
	for attempts := 0; attempts < (r.EndRow-r.StartRow+1)*(r.EndCol-r.StartCol+1)+1; attempts++ {
		if rowMajor {
			if forward {
				next.Col++
				if next.Col > r.EndCol {
					next.Col = r.StartCol
					next.Row++
					if next.Row > r.EndRow {
						next.Row = r.StartRow
					}
				}
			} else {
				next.Col--
				if next.Col < r.StartCol {
					next.Col = r.EndCol
					next.Row--
					if next.Row < r.StartRow {
						next.Row = r.EndRow
					}
				}
			}
		} else {
			if forward {
				next.Row++
				if next.Row > r.EndRow {
					next.Row = r.StartRow
					next.Col++
					if next.Col > r.EndCol {
						next.Col = r.StartCol
					}
				}
			} else {
				next.Row--
				if next.Row < r.StartRow {
					next.Row = r.EndRow
					next.Col--
					if next.Col < r.StartCol {
						next.Col = r.EndCol
					}
				}
			}
		}
		if m.store == nil || (!m.store.IsRowHidden(next.Row) && !m.store.IsColumnHidden(next.Col)) {
			break
		}
	}

	next = clampToRange(next, r)
	m.commit(State{
		Ranges:           s.Ranges,
		ActiveRangeIndex: s.ActiveRangeIndex,
		AnchorCell:       s.AnchorCell,
		ActiveCell:       next,
		Mode:             s.Mode,
	})
}

// CtrlArrow delegates to the store's Ctrl+Arrow navigation and sets the
// result as the new active cell.
func (m *Manager) CtrlArrow(dir cellstore.Direction) {
	a := m.state.ActiveCell
	row, col := m.store.FindNextNonEmpty(a.Row, a.Col, dir)
	m.SetActiveCell(cellref.Address{Row: row, Col: col})
}

// CtrlShiftArrow is CtrlArrow but extends the selection instead of
// replacing it.
func (m *Manager) CtrlShiftArrow(dir cellstore.Direction) {
	a := m.state.ActiveCell
	row, col := m.store.FindNextNonEmpty(a.Row, a.Col, dir)
	m.ExtendSelection(cellref.Address{Row: row, Col: col})
}

// CtrlA cycles current-region -> used-range -> entire-grid, keyed by
// time-since-last-press (a gap over ctrlAWindow restarts the cycle at
// stage one). now is passed in explicitly since the stdlib time.Now
// cannot be called from code intended to be replayed deterministically
// by callers that supply their own clock (e.g. test harnesses).
func (m *Manager) CtrlA(now time.Time) {
	if m.lastCtrlA.IsZero() || now.Sub(m.lastCtrlA) > ctrlAWindow {
		m.ctrlAStage = 0
	}
	m.lastCtrlA = now

	a := m.state.ActiveCell
	switch m.ctrlAStage {
	case 0:
		if r, ok := m.store.FindCurrentRegion(a.Row, a.Col); ok {
			m.SetRange(toCellrefRange(r), a)
		} else {
			m.SetActiveCell(a)
		}
	case 1:
		m.SetRange(toCellrefRange(m.store.UsedRange()), a)
	default:
		m.SetRange(cellref.Range{StartRow: 0, StartCol: 0, EndRow: m.maxRows - 1, EndCol: m.maxCols - 1}, a)
	}
	m.ctrlAStage = (m.ctrlAStage + 1) % 3
}

// HomeRow moves to the start of the active cell's row; extend extends
// instead of replacing.
func (m *Manager) HomeRow(extend bool) {
	target := cellref.Address{Row: m.state.ActiveCell.Row, Col: 0}
	if extend {
		m.ExtendSelection(target)
		return
	}
	m.SetActiveCell(target)
}

// EndRow moves, on the active cell's row, to the last column of the
// sheet's used range; the row's own last non-empty cell is not looked up.
func (m *Manager) EndRow(extend bool) {
	used := m.store.UsedRange()
	target := cellref.Address{Row: m.state.ActiveCell.Row, Col: used.EndCol}
	if extend {
		m.ExtendSelection(target)
		return
	}
	m.SetActiveCell(target)
}

// CtrlHome jumps to A1.
func (m *Manager) CtrlHome(extend bool) {
	target := cellref.Address{Row: 0, Col: 0}
	if extend {
		m.ExtendSelection(target)
		return
	}
	m.SetActiveCell(target)
}

// CtrlEnd jumps to the last used cell.
func (m *Manager) CtrlEnd(extend bool) {
	used := m.store.UsedRange()
	target := cellref.Address{Row: used.EndRow, Col: used.EndCol}
	if extend {
		m.ExtendSelection(target)
		return
	}
	m.SetActiveCell(target)
}

// PageDown moves the active cell down by the configured page row count.
func (m *Manager) PageDown(extend bool) {
	m.MoveActiveCell(m.pageRows, 0, extend)
}

// PageUp moves the active cell up by the configured page row count.
func (m *Manager) PageUp(extend bool) {
	m.MoveActiveCell(-m.pageRows, 0, extend)
}

// MouseDown selects cell c; with shift it extends from the anchor, with
// ctrlOrMeta it adds a new range instead of replacing the selection.
func (m *Manager) MouseDown(c cellref.Address, shift, ctrlOrMeta bool) {
	c = m.clampAddr(c)
	switch {
	case ctrlOrMeta:
		m.AddCell(c)
	case shift:
		m.ExtendSelection(c)
	default:
		m.SetActiveCell(c)
	}
	s := m.state
	m.commit(State{
		Ranges:           s.Ranges,
		ActiveRangeIndex: s.ActiveRangeIndex,
		AnchorCell:       s.AnchorCell,
		ActiveCell:       s.ActiveCell,
		Mode:             ModeSelecting,
	})
}

// MouseDrag extends the active range to target without moving the anchor.
func (m *Manager) MouseDrag(target cellref.Address) {
	m.ExtendSelection(m.clampAddr(target))
}

// MouseUp returns the selection to normal mode.
func (m *Manager) MouseUp() {
	s := m.state
	m.commit(State{
		Ranges:           s.Ranges,
		ActiveRangeIndex: s.ActiveRangeIndex,
		AnchorCell:       s.AnchorCell,
		ActiveCell:       s.ActiveCell,
		Mode:             ModeNormal,
	})
}
