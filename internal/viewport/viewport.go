package viewport

// RowDescriptor describes one visible row in a render frame.
type RowDescriptor struct {
	Index  int
	Top    float64
	Height float64
	Frozen bool
}

// ColDescriptor describes one visible column in a render frame.
type ColDescriptor struct {
	Index  int
	Left   float64
	Width  float64
	Frozen bool
}

// RenderedCell carries one cell's screen rectangle and its record (nil
// for an empty cell).
type RenderedCell struct {
	Row, Col int
	X, Y     float64
	Width    float64
	Height   float64
	Cell     any
}

// FreezeLines gives the screen-pixel position of the frozen-pane
// boundaries, or nil on an axis with no frozen rows/cols.
type FreezeLines struct {
	Y *float64
	X *float64
}

// Rect is an axis-aligned rectangle in some coordinate space.
type Rect struct {
	X, Y, Width, Height float64
}

// Point is a 2D coordinate.
type Point struct{ X, Y float64 }

// CellRange is an inclusive rectangle of row/column indices.
type CellRange struct {
	StartRow, EndRow, StartCol, EndCol int
}

// RenderFrame is one immutable snapshot produced by RenderFrame().
type RenderFrame struct {
	Rows          []RowDescriptor
	Columns       []ColDescriptor
	Cells         []RenderedCell
	FreezeLines   FreezeLines
	ContentBounds Rect
	Scroll        Point
	VisibleBounds CellRange
}

const (
	MinZoom = 0.1
	MaxZoom = 4.0
)

// Viewport is the viewport engine (VE).
type Viewport struct {
	dims DimensionProvider

	rowCache *PositionCache
	colCache *PositionCache

	maxRows int
	maxCols int

	width, height float64
	headerWidth   float64
	headerHeight  float64

	scrollX, scrollY float64
	zoom             float64
	rtl              bool

	frozenRows, frozenCols     int
	overscanRows, overscanCols int

	rectDirty bool
	rect      CellRange
}

// New creates a viewport engine over dims, sizing its position caches to
// maxRows/maxCols.
func New(dims DimensionProvider, maxRows, maxCols int) *Viewport {
	v := &Viewport{
		dims:         dims,
		maxRows:      maxRows,
		maxCols:      maxCols,
		zoom:         1.0,
		overscanRows: 5,
		overscanCols: 3,
		rectDirty:    true,
	}
	v.rowCache = NewPositionCache(func(i int) float64 {
		if dims.IsRowHidden(i) {
			return 0
		}
		return dims.RowHeight(i)
	}, maxRows)
	v.colCache = NewPositionCache(func(i int) float64 {
		if dims.IsColumnHidden(i) {
			return 0
		}
		return dims.ColumnWidth(i)
	}, maxCols)
	return v
}

// SetViewportSize sets the viewport's screen-pixel size, including
// headers.
func (v *Viewport) SetViewportSize(width, height float64) {
	v.width, v.height = width, height
	v.rectDirty = true
}

// SetHeaderSize sets the header gutter dimensions.
func (v *Viewport) SetHeaderSize(width, height float64) {
	v.headerWidth, v.headerHeight = width, height
	v.rectDirty = true
}

// SetScroll sets the scrollable-region scroll offset in content
// coordinates.
func (v *Viewport) SetScroll(x, y float64) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	v.scrollX, v.scrollY = x, y
	v.rectDirty = true
}

// Scroll returns the current scroll offset.
func (v *Viewport) Scroll() Point {
	return Point{X: v.scrollX, Y: v.scrollY}
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (v *Viewport) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	if z == v.zoom {
		return
	}
	v.zoom = z
	v.rectDirty = true
}

// Zoom returns the current zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// SetRTL toggles right-to-left mirroring of the x axis.
func (v *Viewport) SetRTL(rtl bool) {
	if rtl == v.rtl {
		return
	}
	v.rtl = rtl
	v.rectDirty = true
}

// SetFrozenPanes sets the number of frozen leading rows and columns.
func (v *Viewport) SetFrozenPanes(rows, cols int) {
	v.frozenRows, v.frozenCols = rows, cols
	v.rectDirty = true
}

// SetOverscan sets how many extra rows/columns beyond the visible area
// are included in the render frame, negative values are clamped to zero.
func (v *Viewport) SetOverscan(rows, cols int) {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	v.overscanRows, v.overscanCols = rows, cols
	v.rectDirty = true
}

// InvalidateDimensions marks both position caches and the viewport
// rectangle dirty, e.g. after a structural change to the underlying
// dimension provider.
func (v *Viewport) InvalidateDimensions() {
	v.rowCache.Invalidate()
	v.colCache.Invalidate()
	v.rectDirty = true
}

func (v *Viewport) viewableWidth() float64 {
	w := v.width - v.headerWidth
	if w < 0 {
		w = 0
	}
	return w / v.zoom
}

func (v *Viewport) viewableHeight() float64 {
	h := v.height - v.headerHeight
	if h < 0 {
		h = 0
	}
	return h / v.zoom
}

// visibleRect computes (and caches) the scrollable-region visible cell
// range, widened by overscan and clamped by the frozen-pane counts on the
// low side and MaxRows/Cols-1 on the high side.
func (v *Viewport) visibleRect() CellRange {
	if !v.rectDirty {
		return v.rect
	}

	startRow := v.rowCache.FindIndexAt(v.scrollY)
	endRow := v.rowCache.FindIndexAt(v.scrollY + v.viewableHeight())
	startCol := v.colCache.FindIndexAt(v.scrollX)
	endCol := v.colCache.FindIndexAt(v.scrollX + v.viewableWidth())

	startRow -= v.overscanRows
	endRow += v.overscanRows
	startCol -= v.overscanCols
	endCol += v.overscanCols

	if startRow < v.frozenRows {
		startRow = v.frozenRows
	}
	if startCol < v.frozenCols {
		startCol = v.frozenCols
	}
	if endRow > v.maxRows-1 {
		endRow = v.maxRows - 1
	}
	if endCol > v.maxCols-1 {
		endCol = v.maxCols - 1
	}
	if endRow < startRow {
		endRow = startRow
	}
	if endCol < startCol {
		endCol = startCol
	}

	v.rect = CellRange{StartRow: startRow, EndRow: endRow, StartCol: startCol, EndCol: endCol}
	v.rectDirty = false
	return v.rect
}
