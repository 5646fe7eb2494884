// Package formula orchestrates formula evaluation: extracting references
// from formula text, keeping the dependency graph in sync, and running
// the injected evaluator in dependency order, either synchronously or in
// a cooperative, time-sliced mode.
package formula

import (
	"time"

	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
	"github.com/vectorsheet/engine/internal/depgraph"
)

// CellError pairs a failing cell with the error its evaluation produced.
type CellError struct {
	Row int
	Col int
	Err error
}

// Result summarizes one calculation run.
type Result struct {
	Success      bool
	SuccessCount int
	Completed    int
	Total        int
	Errors       []CellError
	DurationMs   int64
}

// ProgressSink receives one update after every cell evaluated during a
// cooperative run.
type ProgressSink interface {
	OnProgress(total, completed int, current cellref.Address, errors []CellError)
}

// Engine is the formula engine (FE): it wires a cell store and a
// dependency graph to an injected Evaluator.
type Engine struct {
	store *cellstore.Store
	graph *depgraph.Graph
	eval  Evaluator

	// evaluating maps a cell mid-evaluation to its index in stack, so a
	// re-entrant cycle discovered at runtime (one that slipped past
	// SetDeps' upfront DFS) can be traced back to every cell on it.
	evaluating map[cellref.Address]int
	stack      []cellref.Address

	cancelPrior func()
}

// New creates a formula engine over the given store, graph, and
// evaluator.
func New(store *cellstore.Store, graph *depgraph.Graph, eval Evaluator) *Engine {
	return &Engine{
		store:      store,
		graph:      graph,
		eval:       eval,
		evaluating: make(map[cellref.Address]int),
	}
}

// SetFormula parses references out of src, updates the dependency graph,
// and marks the cell dirty. If a cycle is detected, #REF! is stored as the
// formula result and returned immediately instead of marking the cell
// dirty for later evaluation.
func (e *Engine) SetFormula(row, col int, src string) (value any, circular bool) {
	key := cellref.Address{Row: row, Col: col}
	refs := ExtractReferences(src)
	volatile := depgraph.IsVolatile(src)

	res := e.graph.SetDeps(key, refs, volatile)

	cell := e.store.Get(row, col)
	if cell == nil {
		cell = &cellstore.Cell{}
	}
	cell.Formula = src

	if res.Circular {
		cell.FormulaResult = cellstore.ErrRef
		cell.Value = cellstore.ErrRef
		cell.Kind = cellstore.KindError
		e.store.Set(row, col, cell)
		return cellstore.ErrRef, true
	}

	e.store.Set(row, col, cell)
	e.graph.MarkDirty(key)
	return nil, false
}

// ExtractReferences adapts depgraph.ExtractReferences' output into the
// flat, de-duplicated precedent-key list setDeps expects. Only single-cell
// references become precedents: range references are not expanded, and
// cells covered only by a range reference are not added to the graph.
func ExtractReferences(formula string) []cellref.Address {
	extracted := depgraph.ExtractReferences(formula)
	out := make([]cellref.Address, 0, len(extracted.Cells))
	seen := make(map[cellref.Address]struct{})
	for _, c := range extracted.Cells {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// RemoveFormula clears the formula and dependencies from a cell, leaving
// its last computed value (if any) as a plain stored value.
func (e *Engine) RemoveFormula(row, col int) {
	key := cellref.Address{Row: row, Col: col}
	e.graph.RemoveDeps(key)
	cell := e.store.Get(row, col)
	if cell == nil {
		return
	}
	cell.Formula = ""
	cell.FormulaResult = nil
	e.store.Set(row, col, cell)
}

// CalculateSync runs the synchronous calculation mode: mark volatile
// cells dirty, fetch the calculation order, evaluate each cell in order,
// clear the dirty set, and return a summary.
func (e *Engine) CalculateSync() Result {
	start := time.Now()
	e.graph.MarkVolatileDirty()

	order := e.graph.CalculationOrder()
	var errs []CellError
	success := 0
	for _, key := range order {
		if err := e.evaluateCell(key, &errs); err == nil {
			success++
		}
	}
	e.graph.ClearAllDirty()

	return Result{
		Success:      true,
		SuccessCount: success,
		Completed:    len(order),
		Total:        len(order),
		Errors:       errs,
		DurationMs:   time.Since(start).Milliseconds(),
	}
}

// RecalculateAffected marks (row, col) dirty — which transitively marks
// every dependent dirty too — and runs the synchronous path.
func (e *Engine) RecalculateAffected(row, col int) Result {
	e.graph.MarkDirty(cellref.Address{Row: row, Col: col})
	return e.CalculateSync()
}

// evaluateCell evaluates a single dirty formula cell. If the cell is
// absent or has no formula, it clears dirty and returns. If the cell is
// in the graph's circular set, it writes #REF! and returns. Otherwise it
// calls the evaluator with a lookup closure that recurses into dirty
// formula precedents first, memoized via the dirty flag.
func (e *Engine) evaluateCell(key cellref.Address, errs *[]CellError) error {
	if !e.graph.IsDirty(key) {
		return nil
	}

	cell := e.store.Get(key.Row, key.Col)
	if cell == nil || cell.Formula == "" {
		e.graph.ClearDirty(key)
		return nil
	}

	if e.graph.HasCircular(key) {
		e.writeResult(key, cellstore.ErrRef)
		e.graph.ClearDirty(key)
		return cellErrorOf(cellstore.ErrRef)
	}

	if idx, reentrant := e.evaluating[key]; reentrant {
		// re-entry while still dirty: a cycle slipped past setDeps'
		// upfront detection (e.g. via a range precedent). every cell
		// still on the recursion stack from key's first occurrence
		// down is part of the cycle, not just key itself.
		for _, k := range e.stack[idx:] {
			e.graph.MarkCircular(k)
			e.writeResult(k, cellstore.ErrRef)
			e.graph.ClearDirty(k)
		}
		return cellErrorOf(cellstore.ErrRef)
	}
	e.evaluating[key] = len(e.stack)
	e.stack = append(e.stack, key)
	defer func() {
		delete(e.evaluating, key)
		e.stack = e.stack[:len(e.stack)-1]
	}()

	lookup := func(r, c int) any {
		refKey := cellref.Address{Row: r, Col: c}
		if e.graph.IsDirty(refKey) {
			e.evaluateCell(refKey, errs)
		}
		refCell := e.store.Get(r, c)
		if refCell == nil {
			return nil
		}
		if refCell.Formula != "" {
			return refCell.FormulaResult
		}
		return refCell.Value
	}

	result, err := e.eval.Eval(cell.Formula, lookup)
	if err != nil {
		*errs = append(*errs, CellError{Row: key.Row, Col: key.Col, Err: err})
		result = cellstore.ErrValue
	} else if errTag, ok := result.(cellstore.ErrorTag); ok {
		*errs = append(*errs, CellError{Row: key.Row, Col: key.Col, Err: cellErrorOf(errTag)})
		result = errTag
	}

	e.writeResult(key, result)
	e.graph.ClearDirty(key)
	return err
}

func (e *Engine) writeResult(key cellref.Address, result any) {
	cell := e.store.Get(key.Row, key.Col)
	if cell == nil {
		return
	}
	cell.FormulaResult = result
	cell.Value = result
	if _, ok := result.(cellstore.ErrorTag); ok {
		cell.Kind = cellstore.KindError
	}
	e.store.Set(key.Row, key.Col, cell)
}

func cellErrorOf(tag cellstore.ErrorTag) error {
	return &formulaError{tag: tag}
}

type formulaError struct{ tag cellstore.ErrorTag }

func (e *formulaError) Error() string { return string(e.tag) }
