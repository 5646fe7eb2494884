package selection

import (
	"testing"
	"time"

	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
)

type fakeStore struct {
	values      map[[2]int]bool
	used        cellstore.Range
	hiddenRows  map[int]bool
	hiddenCols  map[int]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		values:     map[[2]int]bool{},
		used:       cellstore.Range{StartRow: 0, StartCol: 0, EndRow: 9, EndCol: 9},
		hiddenRows: map[int]bool{},
		hiddenCols: map[int]bool{},
	}
}

func (f *fakeStore) set(r, c int) { f.values[[2]int{r, c}] = true }

func (f *fakeStore) has(r, c int) bool { return f.values[[2]int{r, c}] }

func (f *fakeStore) FindNextNonEmpty(row, col int, dir cellstore.Direction) (int, int) {
	dr, dc := 0, 0
	switch dir {
	case cellstore.DirUp:
		dr = -1
	case cellstore.DirDown:
		dr = 1
	case cellstore.DirLeft:
		dc = -1
	case cellstore.DirRight:
		dc = 1
	}
	r, c := row+dr, col+dc
	for r >= 0 && r < 1000 && c >= 0 && c < 1000 && !f.has(r, c) {
		r, c = r+dr, c+dc
	}
	if r < 0 {
		r = 0
	}
	if c < 0 {
		c = 0
	}
	return r, c
}

func (f *fakeStore) FindCurrentRegion(row, col int) (cellstore.Range, bool) {
	if !f.has(row, col) {
		return cellstore.Range{}, false
	}
	return cellstore.Range{StartRow: 0, StartCol: 0, EndRow: 2, EndCol: 2}, true
}

func (f *fakeStore) UsedRange() cellstore.Range { return f.used }

func (f *fakeStore) IsRowHidden(row int) bool    { return f.hiddenRows[row] }
func (f *fakeStore) IsColumnHidden(col int) bool { return f.hiddenCols[col] }

func TestSetActiveCellResetsToSingleCell(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 3, Col: 4})
	s := m.State()
	if s.ActiveCell != (cellref.Address{Row: 3, Col: 4}) {
		t.Fatalf("ActiveCell = %+v", s.ActiveCell)
	}
	if len(s.Ranges) != 1 || s.Ranges[0] != cellRange(cellref.Address{Row: 3, Col: 4}) {
		t.Fatalf("Ranges = %+v", s.Ranges)
	}
}

func TestExtendSelectionKeepsAnchor(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 2, Col: 2})
	m.ExtendSelection(cellref.Address{Row: 5, Col: 5})
	s := m.State()
	if s.AnchorCell != (cellref.Address{Row: 2, Col: 2}) {
		t.Fatalf("anchor changed: %+v", s.AnchorCell)
	}
	if s.ActiveCell != (cellref.Address{Row: 5, Col: 5}) {
		t.Fatalf("active cell wrong: %+v", s.ActiveCell)
	}
	want := cellref.Range{StartRow: 2, StartCol: 2, EndRow: 5, EndCol: 5}
	if s.Ranges[s.ActiveRangeIndex] != want {
		t.Fatalf("range = %+v, want %+v", s.Ranges[s.ActiveRangeIndex], want)
	}
}

func TestAddRangeAppendsAndActivates(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 0, Col: 0})
	m.AddCell(cellref.Address{Row: 9, Col: 9})
	s := m.State()
	if len(s.Ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(s.Ranges))
	}
	if s.ActiveRangeIndex != 1 {
		t.Fatalf("expected new range active, got index %d", s.ActiveRangeIndex)
	}
	if s.ActiveCell != (cellref.Address{Row: 9, Col: 9}) {
		t.Fatalf("active cell = %+v", s.ActiveCell)
	}
}

func TestRemoveRangeResetsOnEmpty(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 5, Col: 5})
	m.RemoveRange(0)
	s := m.State()
	if s.ActiveCell != (cellref.Address{Row: 0, Col: 0}) {
		t.Fatalf("expected reset to A1, got %+v", s.ActiveCell)
	}
}

func TestMoveActiveCellExtendVsReplace(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 1, Col: 1})
	m.MoveActiveCell(1, 0, false)
	if m.State().ActiveCell != (cellref.Address{Row: 2, Col: 1}) {
		t.Fatalf("replace move wrong: %+v", m.State().ActiveCell)
	}
	if len(m.State().Ranges) != 1 {
		t.Fatalf("non-extend move should not grow ranges")
	}

	m.MoveActiveCell(1, 0, true)
	s := m.State()
	if s.ActiveCell != (cellref.Address{Row: 3, Col: 1}) {
		t.Fatalf("extend move wrong: %+v", s.ActiveCell)
	}
}

func TestCtrlAThreeStageCycle(t *testing.T) {
	store := newFakeStore()
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			store.set(r, c)
		}
	}
	m := NewManager(store, 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 1, Col: 1})

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.CtrlA(base)
	want1 := cellref.Range{StartRow: 0, StartCol: 0, EndRow: 2, EndCol: 2}
	if got := m.State().Ranges[m.State().ActiveRangeIndex]; got != want1 {
		t.Fatalf("stage1 region = %+v, want %+v", got, want1)
	}

	m.CtrlA(base.Add(200 * time.Millisecond))
	want2 := cellref.Range{StartRow: store.used.StartRow, StartCol: store.used.StartCol, EndRow: store.used.EndRow, EndCol: store.used.EndCol}
	if got := m.State().Ranges[m.State().ActiveRangeIndex]; got != want2 {
		t.Fatalf("stage2 used range = %+v, want %+v", got, want2)
	}

	m.CtrlA(base.Add(400 * time.Millisecond))
	want3 := cellref.Range{StartRow: 0, StartCol: 0, EndRow: 999, EndCol: 999}
	if got := m.State().Ranges[m.State().ActiveRangeIndex]; got != want3 {
		t.Fatalf("stage3 full grid = %+v, want %+v", got, want3)
	}
}

func TestCtrlATimeoutResetsCycle(t *testing.T) {
	store := newFakeStore()
	store.set(1, 1)
	m := NewManager(store, 1000, 1000)
	m.SetActiveCell(cellref.Address{Row: 1, Col: 1})

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m.CtrlA(base) // stage 0 -> current region
	m.CtrlA(base.Add(1500 * time.Millisecond)) // gap > 1s: acts as stage 0 again
	want := cellref.Range{StartRow: 0, StartCol: 0, EndRow: 2, EndCol: 2}
	if got := m.State().Ranges[m.State().ActiveRangeIndex]; got != want {
		t.Fatalf("after timeout expected stage1 again, got %+v", got)
	}
}

func TestSubscribeFiresOnlyOnChange(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	fired := 0
	m.Subscribe(func(e ChangeEvent) { fired++ })

	m.SetActiveCell(cellref.Address{Row: 0, Col: 0}) // same as default: no event
	if fired != 0 {
		t.Fatalf("expected no event for no-op change, got %d", fired)
	}

	m.SetActiveCell(cellref.Address{Row: 1, Col: 1})
	if fired != 1 {
		t.Fatalf("expected 1 event, got %d", fired)
	}
}

func TestMouseDownCtrlAddsRange(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.MouseDown(cellref.Address{Row: 0, Col: 0}, false, false)
	m.MouseDown(cellref.Address{Row: 5, Col: 5}, false, true)
	s := m.State()
	if len(s.Ranges) != 2 {
		t.Fatalf("expected 2 ranges after ctrl mouse-down, got %d", len(s.Ranges))
	}
	if s.Mode != ModeSelecting {
		t.Fatalf("expected ModeSelecting during drag, got %v", s.Mode)
	}
}

func TestMouseUpReturnsToNormal(t *testing.T) {
	m := NewManager(newFakeStore(), 1000, 1000)
	m.MouseDown(cellref.Address{Row: 0, Col: 0}, false, false)
	m.MouseUp()
	if m.State().Mode != ModeNormal {
		t.Fatalf("expected ModeNormal after MouseUp, got %v", m.State().Mode)
	}
}

func TestClampAddrWithinGrid(t *testing.T) {
	m := NewManager(newFakeStore(), 10, 10)
	m.SetActiveCell(cellref.Address{Row: 100, Col: -5})
	got := m.State().ActiveCell
	if got.Row != 9 || got.Col != 0 {
		t.Fatalf("clamp failed: %+v", got)
	}
}
