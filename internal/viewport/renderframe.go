package viewport

// contentToScreenX maps a content-space x coordinate to screen space. A
// frozen column's content coordinate is used directly (it never scrolls);
// a scrollable column's coordinate is offset by scrollX first. RTL
// mirrors the final screen x around the viewport width.
func (v *Viewport) contentToScreenX(contentX float64, frozen bool) float64 {
	x := contentX
	if !frozen {
		x -= v.scrollX
	}
	x = x*v.zoom + v.headerWidth
	if v.rtl {
		x = v.width - x
	}
	return x
}

func (v *Viewport) contentToScreenY(contentY float64, frozen bool) float64 {
	y := contentY
	if !frozen {
		y -= v.scrollY
	}
	return y*v.zoom + v.headerHeight
}

// RenderFrame assembles one immutable render frame for the current
// scroll/zoom/freeze/RTL state.
func (v *Viewport) RenderFrame() RenderFrame {
	rect := v.visibleRect()

	rowDescs := v.buildRowDescriptors(rect)
	colDescs := v.buildColDescriptors(rect)

	cells := v.buildCells(rowDescs, colDescs)

	var freeze FreezeLines
	if v.frozenRows > 0 {
		y := v.contentToScreenY(v.rowCache.TotalSize(v.frozenRows-1), true)
		freeze.Y = &y
	}
	if v.frozenCols > 0 {
		x := v.contentToScreenX(v.colCache.TotalSize(v.frozenCols-1), true)
		freeze.X = &x
	}

	contentBounds := v.computeContentBounds(rowDescs, colDescs)

	return RenderFrame{
		Rows:          rowDescs,
		Columns:       colDescs,
		Cells:         cells,
		FreezeLines:   freeze,
		ContentBounds: contentBounds,
		Scroll:        Point{X: v.scrollX, Y: v.scrollY},
		VisibleBounds: rect,
	}
}

// buildRowDescriptors emits frozen rows first, then scrollable rows,
// skipping hidden ones, each carrying its screen top/height.
func (v *Viewport) buildRowDescriptors(rect CellRange) []RowDescriptor {
	var out []RowDescriptor

	for r := 0; r < v.frozenRows; r++ {
		if v.dims.IsRowHidden(r) {
			continue
		}
		top := v.contentToScreenY(v.rowCache.Position(r), true)
		h := v.dims.RowHeight(r) * v.zoom
		out = append(out, RowDescriptor{Index: r, Top: top, Height: h, Frozen: true})
	}
	for r := rect.StartRow; r <= rect.EndRow; r++ {
		if v.dims.IsRowHidden(r) {
			continue
		}
		top := v.contentToScreenY(v.rowCache.Position(r), false)
		h := v.dims.RowHeight(r) * v.zoom
		out = append(out, RowDescriptor{Index: r, Top: top, Height: h, Frozen: false})
	}
	return out
}

func (v *Viewport) buildColDescriptors(rect CellRange) []ColDescriptor {
	var out []ColDescriptor

	for c := 0; c < v.frozenCols; c++ {
		if v.dims.IsColumnHidden(c) {
			continue
		}
		left := v.contentToScreenX(v.colCache.Position(c), true)
		w := v.dims.ColumnWidth(c) * v.zoom
		out = append(out, ColDescriptor{Index: c, Left: left, Width: w, Frozen: true})
	}
	for c := rect.StartCol; c <= rect.EndCol; c++ {
		if v.dims.IsColumnHidden(c) {
			continue
		}
		left := v.contentToScreenX(v.colCache.Position(c), false)
		w := v.dims.ColumnWidth(c) * v.zoom
		out = append(out, ColDescriptor{Index: c, Left: left, Width: w, Frozen: false})
	}
	return out
}

// buildCells flattens cells in quadrant order: (frozen-row, frozen-col),
// (frozen-row, scrollable-col), (scrollable-row, frozen-col),
// (scrollable-row, scrollable-col). Within a quadrant, iteration is
// top-to-bottom then left-to-right over the already hidden-filtered row
// and column descriptors.
func (v *Viewport) buildCells(rows []RowDescriptor, cols []ColDescriptor) []RenderedCell {
	var frozenRows, scrollRows []RowDescriptor
	for _, r := range rows {
		if r.Frozen {
			frozenRows = append(frozenRows, r)
		} else {
			scrollRows = append(scrollRows, r)
		}
	}
	var frozenCols, scrollCols []ColDescriptor
	for _, c := range cols {
		if c.Frozen {
			frozenCols = append(frozenCols, c)
		} else {
			scrollCols = append(scrollCols, c)
		}
	}

	var out []RenderedCell
	quadrant := func(rs []RowDescriptor, cs []ColDescriptor) {
		for _, r := range rs {
			for _, c := range cs {
				out = append(out, v.cellAt(r, c))
			}
		}
	}
	quadrant(frozenRows, frozenCols)
	quadrant(frozenRows, scrollCols)
	quadrant(scrollRows, frozenCols)
	quadrant(scrollRows, scrollCols)
	return out
}

func (v *Viewport) cellAt(r RowDescriptor, c ColDescriptor) RenderedCell {
	rc := RenderedCell{Row: r.Index, Col: c.Index, X: c.Left, Y: r.Top, Width: c.Width, Height: r.Height}
	if cp, ok := v.dims.(CellProvider); ok {
		rc.Cell = cp.GetCell(r.Index, c.Index)
	}
	return rc
}

// computeContentBounds returns the content-space rectangle spanned by the
// rendered rows/columns (frozen and scrollable together), not the entire
// addressable grid.
func (v *Viewport) computeContentBounds(rows []RowDescriptor, cols []ColDescriptor) Rect {
	if len(rows) == 0 || len(cols) == 0 {
		return Rect{}
	}
	minRow, maxRow := rows[0].Index, rows[0].Index
	for _, r := range rows {
		if r.Index < minRow {
			minRow = r.Index
		}
		if r.Index > maxRow {
			maxRow = r.Index
		}
	}
	minCol, maxCol := cols[0].Index, cols[0].Index
	for _, c := range cols {
		if c.Index < minCol {
			minCol = c.Index
		}
		if c.Index > maxCol {
			maxCol = c.Index
		}
	}
	x0 := v.colCache.Position(minCol)
	y0 := v.rowCache.Position(minRow)
	x1 := v.colCache.TotalSize(maxCol)
	y1 := v.rowCache.TotalSize(maxRow)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// ScrollToCell adjusts scrollX/scrollY by the minimum amount that brings
// the cell's content rectangle fully within the visible scrollable area,
// minus the frozen gutter. An axis the cell sits on within a frozen pane
// is left untouched. When the cell's rectangle is larger than the
// visible area, this edge-aligns rather than re-centering: the near edge
// of the target wins.
func (v *Viewport) ScrollToCell(row, col int) {
	if row >= v.frozenRows {
		frozenH := 0.0
		if v.frozenRows > 0 {
			frozenH = v.rowCache.TotalSize(v.frozenRows - 1)
		}
		cellTop := v.rowCache.Position(row)
		cellBottom := cellTop + v.dims.RowHeight(row)
		viewTop := v.scrollY + frozenH
		viewBottom := v.scrollY + v.viewableHeight()

		switch {
		case cellTop < viewTop:
			v.scrollY = cellTop - frozenH
		case cellBottom > viewBottom:
			v.scrollY = cellBottom - v.viewableHeight()
		}
		if v.scrollY < 0 {
			v.scrollY = 0
		}
		// No upper clamp against the sheet's total row extent here: both
		// branches above already bound scrollY by cellBottom, which the
		// position cache only had to build up through row — computing a
		// grid-wide bound via TotalSize(maxRows-1) would force the cache
		// to materialize every one of the 1,048,576 rows on the very
		// first scroll.
	}

	if col >= v.frozenCols {
		frozenW := 0.0
		if v.frozenCols > 0 {
			frozenW = v.colCache.TotalSize(v.frozenCols - 1)
		}
		cellLeft := v.colCache.Position(col)
		cellRight := cellLeft + v.dims.ColumnWidth(col)
		viewLeft := v.scrollX + frozenW
		viewRight := v.scrollX + v.viewableWidth()

		switch {
		case cellLeft < viewLeft:
			v.scrollX = cellLeft - frozenW
		case cellRight > viewRight:
			v.scrollX = cellRight - v.viewableWidth()
		}
		if v.scrollX < 0 {
			v.scrollX = 0
		}
		// Same reasoning as the row axis above: no TotalSize(maxCols-1)
		// clamp, to avoid materializing all 16,384 columns up front.
	}

	v.rectDirty = true
}
