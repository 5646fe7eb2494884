// Package engine wires the cell store, dependency graph, formula engine,
// viewport engine, and selection manager behind one public facade.
package engine

import (
	"context"
	"time"

	"github.com/vectorsheet/engine/internal/applog"
	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
	"github.com/vectorsheet/engine/internal/config"
	"github.com/vectorsheet/engine/internal/depgraph"
	"github.com/vectorsheet/engine/internal/filtering"
	"github.com/vectorsheet/engine/internal/formula"
	"github.com/vectorsheet/engine/internal/selection"
	"github.com/vectorsheet/engine/internal/viewport"
)

// SetCellOptions carries the optional fields a caller may set alongside a
// plain value, mirroring the cell record's lifecycle fields.
type SetCellOptions struct {
	Format  any
	Borders any
}

// Engine is the public facade: the single owner of the cell store,
// dependency graph, formula engine, viewport, and selection manager for
// one sheet.
type Engine struct {
	store   *cellstore.Store
	graph   *depgraph.Graph
	formula *formula.Engine
	filter  *filtering.Manager
	view    *viewport.Viewport
	sel     *selection.Manager
	log     *applog.Logger
	cfg     *config.Config
}

// dimensionAdapter satisfies viewport.CellProvider over the store, with
// the filter manager layered on top for row visibility.
type dimensionAdapter struct {
	store *cellstore.Store
}

func (d dimensionAdapter) RowHeight(row int) float64   { return d.store.RowHeight(row) }
func (d dimensionAdapter) ColumnWidth(col int) float64 { return d.store.ColumnWidth(col) }
func (d dimensionAdapter) IsRowHidden(row int) bool    { return d.store.IsRowHidden(row) }
func (d dimensionAdapter) IsColumnHidden(col int) bool { return d.store.IsColumnHidden(col) }
func (d dimensionAdapter) GetCell(row, col int) any    { return d.store.Get(row, col) }

// New builds an Engine over a fresh cell store, wiring every subsystem per
// cfg. eval is the injected formula evaluator (use formula.NullEvaluator
// or formula.ArithmeticDemo when no real formula language is available).
func New(cfg *config.Config, logger *applog.Logger, eval formula.Evaluator) *Engine {
	if cfg == nil {
		cfg = &config.Config{}
	}
	store := cellstore.New(cfg.Dimensions.DefaultRowHeight, cfg.Dimensions.DefaultColWidth)
	graph := depgraph.New()
	fe := formula.New(store, graph, eval)
	filterMgr := filtering.NewManager()

	dims := viewport.NewFilteredDimensions(dimensionAdapter{store: store}, filterMgr)
	view := viewport.New(dims, cellref.MaxRows, cellref.MaxCols)
	view.SetOverscan(cfg.Viewport.OverscanRows, cfg.Viewport.OverscanCols)

	sel := selection.NewManager(store, cellref.MaxRows, cellref.MaxCols)

	return &Engine{
		store:   store,
		graph:   graph,
		formula: fe,
		filter:  filterMgr,
		view:    view,
		sel:     sel,
		log:     logger,
		cfg:     cfg,
	}
}

func addrErr(op string, row, col int) *AppError {
	if row < 0 || row >= cellref.MaxRows || col < 0 || col >= cellref.MaxCols {
		return invalidArgument(op + ": row/col out of range")
	}
	return nil
}

// SetCell stores a plain value (no formula) at (row, col).
func (e *Engine) SetCell(row, col int, value any, opts *SetCellOptions) *AppError {
	if err := addrErr("setCell", row, col); err != nil {
		return err
	}
	cell := e.store.Get(row, col)
	if cell == nil {
		cell = cellstore.NewValueCell(value)
	} else {
		cell.Value = value
		cell.Formula = ""
		cell.FormulaResult = nil
	}
	if opts != nil {
		cell.Format = opts.Format
		cell.Borders = opts.Borders
	}
	_ = e.store.Set(row, col, cell)
	e.graph.RemoveDeps(cellref.Address{Row: row, Col: col})
	e.view.InvalidateDimensions()
	return nil
}

// GetCell returns the cell at (row, col), or nil if empty.
func (e *Engine) GetCell(row, col int) *cellstore.Cell {
	return e.store.Get(row, col)
}

// ClearRange empties every cell in r.
func (e *Engine) ClearRange(r cellref.Range) {
	e.store.ClearRange(cellstore.Range{StartRow: r.StartRow, StartCol: r.StartCol, EndRow: r.EndRow, EndCol: r.EndCol})
	e.view.InvalidateDimensions()
}

// SetFormula sets a formula on (row, col). The returned value mirrors
// formula.Engine.SetFormula: a stored #REF! and circular=true on a
// detected cycle.
func (e *Engine) SetFormula(row, col int, src string) (value any, circular bool, appErr *AppError) {
	if err := addrErr("setFormula", row, col); err != nil {
		return nil, false, err
	}
	v, c := e.formula.SetFormula(row, col, src)
	if c && e.log != nil {
		e.log.Warn("circular reference detected at %s", cellref.Format(row, col))
	}
	return v, c, nil
}

// RemoveFormula clears the formula on (row, col), keeping its last value.
func (e *Engine) RemoveFormula(row, col int) {
	e.formula.RemoveFormula(row, col)
}

// RecalculateResult is the public alias of formula.Result.
type RecalculateResult = formula.Result

// Recalculate runs a full synchronous recalculation.
func (e *Engine) Recalculate() RecalculateResult {
	start := time.Now()
	res := e.formula.CalculateSync()
	if e.log != nil {
		e.log.Info("recalculate: %d cells, %d errors, %dms", res.Completed, len(res.Errors), time.Since(start).Milliseconds())
	}
	return res
}

// RecalculateCooperative runs a cooperative, time-sliced recalculation,
// yielding via yield between whole-cell evaluations.
func (e *Engine) RecalculateCooperative(ctx context.Context, yield func(context.Context), sink formula.ProgressSink) RecalculateResult {
	opts := formula.CooperativeOptions{
		SliceMs:    e.cfg.Cooperative.SliceMs,
		CellBudget: e.cfg.Cooperative.CellBudget,
		Sink:       sink,
	}
	res := e.formula.CalculateCooperative(ctx, yield, opts)
	if e.log != nil {
		e.log.Info("cooperative recalculate: %d/%d cells, %d errors", res.Completed, res.Total, len(res.Errors))
	}
	return res
}

// CancelRecalculation cancels an in-flight cooperative recalculation.
func (e *Engine) CancelRecalculation() {
	e.formula.CancelCooperative()
}

// InsertRows/DeleteRows/InsertCols/DeleteCols perform structural
// operations and invalidate the viewport's position caches.

func (e *Engine) InsertRows(at, count int) *AppError {
	if err := e.store.InsertRows(at, count); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

func (e *Engine) DeleteRows(at, count int) *AppError {
	if err := e.store.DeleteRows(at, count); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

func (e *Engine) InsertCols(at, count int) *AppError {
	if err := e.store.InsertCols(at, count); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

func (e *Engine) DeleteCols(at, count int) *AppError {
	if err := e.store.DeleteCols(at, count); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

// SetRowHeight/SetColumnWidth/SetRowHidden/SetColumnHidden are dimension
// setters that also invalidate the viewport's cached position arrays.

func (e *Engine) SetRowHeight(row int, height float64) *AppError {
	if err := e.store.SetRowHeight(row, height); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

func (e *Engine) SetColumnWidth(col int, width float64) *AppError {
	if err := e.store.SetColumnWidth(col, width); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

func (e *Engine) SetRowHidden(row int, hidden bool) *AppError {
	if err := e.store.SetRowHidden(row, hidden); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

func (e *Engine) SetColumnHidden(col int, hidden bool) *AppError {
	if err := e.store.SetColumnHidden(col, hidden); err != nil {
		return invalidArgument(err.Error())
	}
	e.view.InvalidateDimensions()
	return nil
}

// SetColumnFilter installs a value predicate for col and refreshes the
// derived visible-row set over the store's used range.
func (e *Engine) SetColumnFilter(col int, predicate filtering.ValuePredicate) {
	e.filter.SetColumnFilter(col, predicate)
	e.refreshFilter()
}

// ClearColumnFilter removes the filter on col.
func (e *Engine) ClearColumnFilter(col int) {
	e.filter.ClearColumnFilter(col)
	e.refreshFilter()
}

// ClearAllFilters removes every column filter.
func (e *Engine) ClearAllFilters() {
	e.filter.ClearAll()
	e.view.InvalidateDimensions()
}

func (e *Engine) refreshFilter() {
	used := e.store.UsedRange()
	if used.Empty() {
		e.view.InvalidateDimensions()
		return
	}
	rows := make([]int, 0, used.EndRow-used.StartRow+1)
	for r := used.StartRow; r <= used.EndRow; r++ {
		rows = append(rows, r)
	}
	e.filter.Apply(rows, func(row int) map[int]any {
		values := make(map[int]any)
		for col := used.StartCol; col <= used.EndCol; col++ {
			if cell := e.store.Get(row, col); cell != nil {
				values[col] = cell.Value
			}
		}
		return values
	})
	e.view.InvalidateDimensions()
}

// SetComment attaches a comment with a freshly minted ID to (row, col).
func (e *Engine) SetComment(row, col int, author, text string) *AppError {
	if err := addrErr("setComment", row, col); err != nil {
		return err
	}
	if err := e.store.SetComment(row, col, cellstore.NewComment(author, text)); err != nil {
		return invalidArgument(err.Error())
	}
	return nil
}

// RemoveComment detaches the comment from (row, col), if any.
func (e *Engine) RemoveComment(row, col int) { e.store.RemoveComment(row, col) }

// ScrollTo scrolls the viewport so (row, col) is visible.
func (e *Engine) ScrollTo(row, col int) { e.view.ScrollToCell(row, col) }

// SetViewportSize sets the viewport's screen-pixel dimensions.
func (e *Engine) SetViewportSize(width, height float64) { e.view.SetViewportSize(width, height) }

// SetHeaderSize sets the row/column header gutter size.
func (e *Engine) SetHeaderSize(width, height float64) { e.view.SetHeaderSize(width, height) }

// SetFrozenPanes sets the frozen leading row/column counts.
func (e *Engine) SetFrozenPanes(rows, cols int) { e.view.SetFrozenPanes(rows, cols) }

// SetZoom sets the zoom factor, clamped to [0.1, 4.0].
func (e *Engine) SetZoom(z float64) { e.view.SetZoom(z) }

// SetRTL toggles right-to-left layout.
func (e *Engine) SetRTL(rtl bool) { e.view.SetRTL(rtl) }

// RenderFrame returns the current immutable render frame.
func (e *Engine) RenderFrame() viewport.RenderFrame { return e.view.RenderFrame() }

// Selection returns the selection manager for direct verb dispatch
// (SetActiveCell, ExtendSelection, CtrlA, MouseDown, ...).
func (e *Engine) Selection() *selection.Manager { return e.sel }

// Store exposes the underlying cell store for call sites (copy/paste,
// comment lifecycle) that need the full SCS surface the facade doesn't
// narrow.
func (e *Engine) Store() *cellstore.Store { return e.store }
