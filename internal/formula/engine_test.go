package formula

import (
	"context"
	"strconv"
	"testing"

	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
	"github.com/vectorsheet/engine/internal/depgraph"
)

func newTestEngine() (*Engine, *cellstore.Store) {
	store := cellstore.New(21, 100)
	graph := depgraph.New()
	return New(store, graph, ArithmeticDemo{}), store
}

func TestScenarioSimpleDependency(t *testing.T) {
	e, store := newTestEngine()
	store.Set(0, 0, cellstore.NewValueCell(1.0))
	e.SetFormula(1, 0, "=A1+2")

	result := e.CalculateSync()
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	cell := store.Get(1, 0)
	if cell.Value != 3.0 {
		t.Errorf("A2 value = %v, want 3.0", cell.Value)
	}
}

func TestScenarioCircularReference(t *testing.T) {
	e, store := newTestEngine()
	e.SetFormula(0, 0, "=B1")
	val, circular := e.SetFormula(0, 1, "=A1")
	if !circular {
		t.Fatal("expected circular=true for second formula closing the cycle")
	}
	if val != cellstore.ErrRef {
		t.Errorf("SetFormula circular return = %v, want #REF!", val)
	}

	cellB := store.Get(0, 1)
	if cellB.FormulaResult != cellstore.ErrRef {
		t.Errorf("B1 formula result = %v, want #REF!", cellB.FormulaResult)
	}
}

// TestScenarioCircularReferenceFlagsCellSetBeforeCycleClosed covers the
// cell whose formula was set before the cycle existed (A1, here) and so
// never runs SetDeps again itself once B1's formula closes the loop. Both
// cells must end up in the circular set and both must resolve to #REF!.
func TestScenarioCircularReferenceFlagsCellSetBeforeCycleClosed(t *testing.T) {
	e, store := newTestEngine()
	e.SetFormula(0, 0, "=B1")
	e.SetFormula(0, 1, "=A1")

	if !e.graph.HasCircular(cellref.Address{Row: 0, Col: 0}) {
		t.Error("expected A1 (set before the cycle closed) in the circular set")
	}
	if !e.graph.HasCircular(cellref.Address{Row: 0, Col: 1}) {
		t.Error("expected B1 (closed the cycle) in the circular set")
	}

	result := e.CalculateSync()
	if !result.Success {
		t.Fatalf("expected success, got %+v", result)
	}

	cellA := store.Get(0, 0)
	if cellA.Value != cellstore.ErrRef {
		t.Errorf("A1 value = %v, want #REF!", cellA.Value)
	}
	cellB := store.Get(0, 1)
	if cellB.Value != cellstore.ErrRef {
		t.Errorf("B1 value = %v, want #REF!", cellB.Value)
	}
}

func TestSetFormulaMarksDirtyAndRecalculates(t *testing.T) {
	e, store := newTestEngine()
	store.Set(0, 0, cellstore.NewValueCell(10.0))
	e.SetFormula(0, 1, "=A1")
	e.CalculateSync()

	store.Set(0, 0, cellstore.NewValueCell(20.0))
	e.RecalculateAffected(0, 0)

	if got := store.Get(0, 1).Value; got != 20.0 {
		t.Errorf("B1 after recalculate = %v, want 20.0", got)
	}
}

func TestRemoveFormulaClearsDependencies(t *testing.T) {
	e, store := newTestEngine()
	store.Set(0, 0, cellstore.NewValueCell(1.0))
	e.SetFormula(1, 0, "=A1")
	e.CalculateSync()

	e.RemoveFormula(1, 0)
	cell := store.Get(1, 0)
	if cell.Formula != "" {
		t.Errorf("expected formula cleared, got %q", cell.Formula)
	}
}

func TestCalculateCooperativeCompletes(t *testing.T) {
	e, store := newTestEngine()
	for i := 0; i < 10; i++ {
		store.Set(i, 0, cellstore.NewValueCell(float64(i)))
	}
	for i := 0; i < 10; i++ {
		e.SetFormula(i, 1, "=A"+strconv.Itoa(i+1))
	}

	yielded := 0
	result := e.CalculateCooperative(context.Background(), func(ctx context.Context) {
		yielded++
	}, CooperativeOptions{SliceMs: 1, CellBudget: 2})

	if !result.Success {
		t.Fatalf("expected cooperative run to succeed, got %+v", result)
	}
	if result.Completed != 10 {
		t.Errorf("Completed = %d, want 10", result.Completed)
	}
}

func TestCalculateCooperativeCancellation(t *testing.T) {
	e, store := newTestEngine()
	for i := 0; i < 10; i++ {
		store.Set(i, 0, cellstore.NewValueCell(float64(i)))
		e.SetFormula(i, 1, "=A"+strconv.Itoa(i+1))
	}

	ctx, cancel := context.WithCancel(context.Background())
	result := e.CalculateCooperative(ctx, func(ctx context.Context) {
		cancel()
	}, CooperativeOptions{SliceMs: 1000, CellBudget: 1})

	if result.Success {
		t.Error("expected cancelled run to report Success=false")
	}
	if result.Completed >= result.Total {
		t.Errorf("expected partial completion, got %d/%d", result.Completed, result.Total)
	}
}
