package engine

import (
	"context"
	"testing"

	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
	"github.com/vectorsheet/engine/internal/config"
	"github.com/vectorsheet/engine/internal/formula"
)

func newTestEngine() *Engine {
	cfg := &config.Config{}
	cfg.Dimensions.DefaultRowHeight = 21
	cfg.Dimensions.DefaultColWidth = 100
	cfg.Cooperative.SliceMs = 16
	cfg.Cooperative.CellBudget = 100
	return New(cfg, nil, formula.ArithmeticDemo{})
}

func TestSetCellAndGetCell(t *testing.T) {
	e := newTestEngine()
	if err := e.SetCell(0, 0, 1.0, nil); err != nil {
		t.Fatalf("SetCell error: %v", err)
	}
	cell := e.GetCell(0, 0)
	if cell == nil || cell.Value != 1.0 {
		t.Fatalf("GetCell = %+v, want value 1.0", cell)
	}
}

func TestSetCellOutOfRangeFails(t *testing.T) {
	e := newTestEngine()
	err := e.SetCell(-1, 0, 1.0, nil)
	if err == nil {
		t.Fatal("expected error for out-of-range row")
	}
	if err.Code != InvalidArgument {
		t.Fatalf("Code = %v, want InvalidArgument", err.Code)
	}
}

func TestScenarioSimpleDependencyRecalculates(t *testing.T) {
	e := newTestEngine()
	_ = e.SetCell(0, 0, 1.0, nil)
	_, circular, appErr := e.SetFormula(1, 0, "=A1+2")
	if appErr != nil {
		t.Fatalf("SetFormula error: %v", appErr)
	}
	if circular {
		t.Fatal("expected no circular reference")
	}
	res := e.Recalculate()
	if !res.Success {
		t.Fatalf("expected successful recalculation")
	}
	cell := e.GetCell(1, 0)
	if cell == nil || cell.Value != 3.0 {
		t.Fatalf("cell(1,0) = %+v, want value 3.0", cell)
	}
}

func TestScenarioCircularReferenceProducesRef(t *testing.T) {
	e := newTestEngine()
	e.SetFormula(0, 0, "=B1")
	e.SetFormula(0, 1, "=A1")
	e.Recalculate()

	a1 := e.GetCell(0, 0)
	b1 := e.GetCell(0, 1)
	if a1 == nil || a1.Value != cellstore.ErrRef {
		t.Fatalf("A1 = %+v, want #REF!", a1)
	}
	if b1 == nil || b1.Value != cellstore.ErrRef {
		t.Fatalf("B1 = %+v, want #REF!", b1)
	}
}

func TestInsertRowsInvalidArgument(t *testing.T) {
	e := newTestEngine()
	err := e.InsertRows(-1, 5)
	if err == nil {
		t.Fatal("expected error for negative insert row")
	}
}

func TestRecalculateCooperativeCompletes(t *testing.T) {
	e := newTestEngine()
	for i := 0; i < 5; i++ {
		e.SetCell(i, 0, float64(i), nil)
	}
	e.SetFormula(5, 0, "=A1+A2")
	yields := 0
	res := e.RecalculateCooperative(context.Background(), func(ctx context.Context) { yields++ }, nil)
	if !res.Success {
		t.Fatalf("expected cooperative run to complete")
	}
}

func TestRenderFrameAndScrollTo(t *testing.T) {
	e := newTestEngine()
	e.SetViewportSize(800, 600)
	e.ScrollTo(500, 0)
	frame := e.RenderFrame()
	if 500 < frame.VisibleBounds.StartRow || 500 > frame.VisibleBounds.EndRow {
		t.Fatalf("row 500 not within visible bounds after ScrollTo: %+v", frame.VisibleBounds)
	}
}

func TestSelectionAccessible(t *testing.T) {
	e := newTestEngine()
	e.Selection().SetActiveCell(cellref.Address{Row: 2, Col: 2})
	if e.Selection().State().ActiveCell != (cellref.Address{Row: 2, Col: 2}) {
		t.Fatalf("selection active cell wrong: %+v", e.Selection().State().ActiveCell)
	}
}

func TestSetAndRemoveComment(t *testing.T) {
	e := newTestEngine()
	if err := e.SetComment(0, 0, "alice", "check this"); err != nil {
		t.Fatalf("SetComment error: %v", err)
	}
	cell := e.GetCell(0, 0)
	if cell == nil || cell.Comment == nil || cell.Comment.ID == "" {
		t.Fatalf("expected comment with generated ID, got %+v", cell)
	}
	e.RemoveComment(0, 0)
	if cell := e.GetCell(0, 0); cell != nil && cell.Comment != nil {
		t.Fatalf("expected comment removed, got %+v", cell.Comment)
	}
}

func TestColumnFilterHidesRows(t *testing.T) {
	e := newTestEngine()
	e.SetCell(0, 0, 5.0, nil)
	e.SetCell(1, 0, 50.0, nil)
	e.SetColumnFilter(0, func(v any) bool {
		n, ok := v.(float64)
		return ok && n > 10
	})
	if e.filter.IsRowVisible(0) {
		t.Fatal("row 0 (value 5) should be filtered out")
	}
	if !e.filter.IsRowVisible(1) {
		t.Fatal("row 1 (value 50) should remain visible")
	}
}
