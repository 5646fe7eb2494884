package cellstore

// FindNextNonEmpty implements Excel's Ctrl+Arrow semantics starting from
// (row, col) moving in dir.
//
// If the current cell holds a value, step once; if the neighbor also holds
// a value, keep stepping while neighbors hold values and stop at the last
// contiguous one, otherwise skip empties until a value is found. If the
// current cell is empty, skip empties until a value is found. Either way,
// clamp at the grid edge rather than going out of range.
func (s *Store) FindNextNonEmpty(row, col int, dir Direction) (int, int) {
	dr, dc := deltaFor(dir)
	maxRow, maxCol := MaxRows-1, MaxCols-1

	clamp := func(r, c int) (int, int) {
		if r < 0 {
			r = 0
		}
		if r > maxRow {
			r = maxRow
		}
		if c < 0 {
			c = 0
		}
		if c > maxCol {
			c = maxCol
		}
		return r, c
	}

	inBounds := func(r, c int) bool {
		return r >= 0 && r <= maxRow && c >= 0 && c <= maxCol
	}

	if s.HasValue(row, col) {
		nr, nc := row+dr, col+dc
		if !inBounds(nr, nc) {
			return clamp(nr, nc)
		}
		if s.HasValue(nr, nc) {
			// contiguous run of values: advance to the last one.
			r, c := nr, nc
			for {
				pr, pc := r+dr, c+dc
				if !inBounds(pr, pc) || !s.HasValue(pr, pc) {
					return r, c
				}
				r, c = pr, pc
			}
		}
		// neighbor empty: skip empties until a value or the edge.
		r, c := nr, nc
		for inBounds(r, c) && !s.HasValue(r, c) {
			r, c = r+dr, c+dc
		}
		if !inBounds(r, c) {
			return clamp(r, c)
		}
		return r, c
	}

	// current cell empty: skip empties until a value or the edge.
	r, c := row+dr, col+dc
	for inBounds(r, c) && !s.HasValue(r, c) {
		r, c = r+dr, c+dc
	}
	if !inBounds(r, c) {
		return clamp(r, c)
	}
	return r, c
}

func deltaFor(dir Direction) (int, int) {
	switch dir {
	case DirUp:
		return -1, 0
	case DirDown:
		return 1, 0
	case DirLeft:
		return 0, -1
	case DirRight:
		return 0, 1
	default:
		return 0, 0
	}
}

// FindCurrentRegion performs a four-directional flood fill from (row, col)
// across cells with non-null values, returning the bounding box. If the
// anchor cell itself is empty, it returns false.
func (s *Store) FindCurrentRegion(row, col int) (Range, bool) {
	if !s.HasValue(row, col) {
		return Range{}, false
	}

	visited := map[key]struct{}{}
	stack := []key{{uint32(row), uint32(col)}}
	visited[stack[0]] = struct{}{}

	r := Range{StartRow: row, StartCol: col, EndRow: row, EndCol: col}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cr, cc := int(cur.Row), int(cur.Col)
		if cr < r.StartRow {
			r.StartRow = cr
		}
		if cr > r.EndRow {
			r.EndRow = cr
		}
		if cc < r.StartCol {
			r.StartCol = cc
		}
		if cc > r.EndCol {
			r.EndCol = cc
		}

		for _, n := range neighbors(cur) {
			if n.Row >= MaxRows || n.Col >= MaxCols {
				continue
			}
			if _, seen := visited[n]; seen {
				continue
			}
			if s.HasValue(int(n.Row), int(n.Col)) {
				visited[n] = struct{}{}
				stack = append(stack, n)
			}
		}
	}

	return r, true
}

func neighbors(k key) []key {
	var out []key
	if k.Row > 0 {
		out = append(out, key{k.Row - 1, k.Col})
	}
	out = append(out, key{k.Row + 1, k.Col})
	if k.Col > 0 {
		out = append(out, key{k.Row, k.Col - 1})
	}
	out = append(out, key{k.Row, k.Col + 1})
	return out
}
