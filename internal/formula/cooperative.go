package formula

import (
	"context"
	"time"
)

// CooperativeOptions bounds one cooperative calculation run.
type CooperativeOptions struct {
	// SliceMs is the time budget per uninterrupted slice, in
	// milliseconds. Defaults to 16ms.
	SliceMs int
	// CellBudget is the cell-count budget per slice. Defaults to 100.
	CellBudget int
	Sink       ProgressSink
}

func (o CooperativeOptions) withDefaults() CooperativeOptions {
	if o.SliceMs <= 0 {
		o.SliceMs = 16
	}
	if o.CellBudget <= 0 {
		o.CellBudget = 100
	}
	return o
}

// CalculateCooperative runs the calculation order in time- and cell-count-
// bounded slices, yielding to the host's scheduler between whole-cell
// evaluations (never mid-cell) by calling yield, which the host can
// implement with a microtask, an idle callback, or simply
// runtime.Gosched().
//
// Only one cooperative run may be active on an Engine at a time: calling
// this again cancels the context of the prior call's token via its own
// cancellation, and the prior call observes ctx.Done() at its next yield
// point and returns with Success=false and a partial count. The dirty set
// is not cleared on cancellation: cells already evaluated have left it,
// cells not yet evaluated stay dirty, so a subsequent run picks up where
// the cancelled one left off.
func (e *Engine) CalculateCooperative(ctx context.Context, yield func(context.Context), opts CooperativeOptions) Result {
	opts = opts.withDefaults()
	if e.cancelPrior != nil {
		e.cancelPrior()
	}
	runCtx, cancel := context.WithCancel(ctx)
	e.cancelPrior = cancel
	defer func() {
		if e.cancelPrior != nil {
			e.cancelPrior()
			e.cancelPrior = nil
		}
	}()

	start := time.Now()
	e.graph.MarkVolatileDirty()
	order := e.graph.CalculationOrder()

	var errs []CellError
	success := 0
	completed := 0
	sliceStart := time.Now()
	cellsThisSlice := 0

	for _, key := range order {
		select {
		case <-runCtx.Done():
			return Result{
				Success:      false,
				SuccessCount: success,
				Completed:    completed,
				Total:        len(order),
				Errors:       errs,
				DurationMs:   time.Since(start).Milliseconds(),
			}
		default:
		}

		if err := e.evaluateCell(key, &errs); err == nil {
			success++
		}
		completed++
		cellsThisSlice++

		if opts.Sink != nil {
			opts.Sink.OnProgress(len(order), completed, key, errs)
		}

		elapsed := time.Since(sliceStart)
		if cellsThisSlice >= opts.CellBudget || elapsed >= time.Duration(opts.SliceMs)*time.Millisecond {
			yield(runCtx)
			if runCtx.Err() != nil {
				return Result{
					Success:      false,
					SuccessCount: success,
					Completed:    completed,
					Total:        len(order),
					Errors:       errs,
					DurationMs:   time.Since(start).Milliseconds(),
				}
			}
			sliceStart = time.Now()
			cellsThisSlice = 0
		}
	}

	e.graph.ClearAllDirty()
	return Result{
		Success:      true,
		SuccessCount: success,
		Completed:    completed,
		Total:        len(order),
		Errors:       errs,
		DurationMs:   time.Since(start).Milliseconds(),
	}
}

// CancelCooperative cancels the in-flight cooperative run, if any.
func (e *Engine) CancelCooperative() {
	if e.cancelPrior != nil {
		e.cancelPrior()
	}
}
