package viewport

// DimensionProvider is the read-only interface VE consults for sizing and
// visibility. The cell store satisfies it directly; a FilterManager-aware
// wrapper composes over it without mutating or subclassing it.
type DimensionProvider interface {
	RowHeight(row int) float64
	ColumnWidth(col int) float64
	IsRowHidden(row int) bool
	IsColumnHidden(col int) bool
}

// CellProvider is an optional extension of DimensionProvider that also
// exposes cell records, letting the render frame embed them directly.
type CellProvider interface {
	DimensionProvider
	GetCell(row, col int) any
}
