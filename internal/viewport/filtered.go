package viewport

// FilterSource is the subset of filtering.Manager the viewport consults.
// Defined locally to avoid an import-cycle-prone dependency on the
// filtering package's concrete type.
type FilterSource interface {
	IsRowVisible(row int) bool
}

// FilteredDimensions composes a DimensionProvider with a FilterSource,
// treating any row the filter hides as if it were hidden by row metadata,
// without mutating the underlying provider.
type FilteredDimensions struct {
	DimensionProvider
	Filter FilterSource
}

// NewFilteredDimensions wraps dims so rows excluded by filter also report
// IsRowHidden() == true.
func NewFilteredDimensions(dims DimensionProvider, filter FilterSource) *FilteredDimensions {
	return &FilteredDimensions{DimensionProvider: dims, Filter: filter}
}

func (f *FilteredDimensions) IsRowHidden(row int) bool {
	if f.DimensionProvider.IsRowHidden(row) {
		return true
	}
	if f.Filter == nil {
		return false
	}
	return !f.Filter.IsRowVisible(row)
}

// GetCell forwards to the wrapped provider when it implements
// CellProvider, so wrapping with filters doesn't strip cell access.
func (f *FilteredDimensions) GetCell(row, col int) any {
	if cp, ok := f.DimensionProvider.(CellProvider); ok {
		return cp.GetCell(row, col)
	}
	return nil
}
