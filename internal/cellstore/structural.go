package cellstore

import "sort"

// InsertRows shifts every cell with row >= at upward by count, dropping
// keys that would exceed MaxRows. Row metadata shifts identically. Keys
// are processed in descending row order so the shift never overwrites a
// not-yet-moved cell.
func (s *Store) InsertRows(at, count int) error {
	if at < 0 || at >= MaxRows || count <= 0 {
		return &ErrInvalidArgument{Op: "insertRows", Message: "invalid at/count"}
	}

	keys := s.collectKeysFrom(func(row, _ int) bool { return row >= at })
	sort.Slice(keys, func(i, j int) bool { return keys[i].Row > keys[j].Row })

	for _, k := range keys {
		cell := s.cells[k]
		s.removeFromIndexes(k)
		delete(s.cells, k)
		newRow := int(k.Row) + count
		if newRow >= MaxRows {
			continue
		}
		nk := key{uint32(newRow), k.Col}
		s.cells[nk] = cell
		s.addToIndexes(nk)
	}

	s.shiftRowInfo(at, count, true)
	s.usedRangeDirty = true
	return nil
}

// DeleteRows removes cells in [at, at+count) then pulls cells with
// row >= at+count downward by count, iterated in ascending row order.
func (s *Store) DeleteRows(at, count int) error {
	if at < 0 || at >= MaxRows || count <= 0 {
		return &ErrInvalidArgument{Op: "deleteRows", Message: "invalid at/count"}
	}

	removeKeys := s.collectKeysFrom(func(row, _ int) bool { return row >= at && row < at+count })
	for _, k := range removeKeys {
		delete(s.cells, k)
		s.removeFromIndexes(k)
	}

	shiftKeys := s.collectKeysFrom(func(row, _ int) bool { return row >= at+count })
	sort.Slice(shiftKeys, func(i, j int) bool { return shiftKeys[i].Row < shiftKeys[j].Row })
	for _, k := range shiftKeys {
		cell := s.cells[k]
		s.removeFromIndexes(k)
		delete(s.cells, k)
		nk := key{uint32(int(k.Row) - count), k.Col}
		s.cells[nk] = cell
		s.addToIndexes(nk)
	}

	s.shiftRowInfo(at, count, false)
	s.usedRangeDirty = true
	return nil
}

// InsertCols and DeleteCols mirror the row operations on the column axis.
func (s *Store) InsertCols(at, count int) error {
	if at < 0 || at >= MaxCols || count <= 0 {
		return &ErrInvalidArgument{Op: "insertCols", Message: "invalid at/count"}
	}

	keys := s.collectKeysFrom(func(_, col int) bool { return col >= at })
	sort.Slice(keys, func(i, j int) bool { return keys[i].Col > keys[j].Col })

	for _, k := range keys {
		cell := s.cells[k]
		s.removeFromIndexes(k)
		delete(s.cells, k)
		newCol := int(k.Col) + count
		if newCol >= MaxCols {
			continue
		}
		nk := key{k.Row, uint32(newCol)}
		s.cells[nk] = cell
		s.addToIndexes(nk)
	}

	s.shiftColInfo(at, count, true)
	s.usedRangeDirty = true
	return nil
}

func (s *Store) DeleteCols(at, count int) error {
	if at < 0 || at >= MaxCols || count <= 0 {
		return &ErrInvalidArgument{Op: "deleteCols", Message: "invalid at/count"}
	}

	removeKeys := s.collectKeysFrom(func(_, col int) bool { return col >= at && col < at+count })
	for _, k := range removeKeys {
		delete(s.cells, k)
		s.removeFromIndexes(k)
	}

	shiftKeys := s.collectKeysFrom(func(_, col int) bool { return col >= at+count })
	sort.Slice(shiftKeys, func(i, j int) bool { return shiftKeys[i].Col < shiftKeys[j].Col })
	for _, k := range shiftKeys {
		cell := s.cells[k]
		s.removeFromIndexes(k)
		delete(s.cells, k)
		nk := key{k.Row, uint32(int(k.Col) - count)}
		s.cells[nk] = cell
		s.addToIndexes(nk)
	}

	s.shiftColInfo(at, count, false)
	s.usedRangeDirty = true
	return nil
}

func (s *Store) collectKeysFrom(pred func(row, col int) bool) []key {
	var keys []key
	for k := range s.cells {
		if pred(int(k.Row), int(k.Col)) {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *Store) shiftRowInfo(at, count int, insert bool) {
	newRows := make(map[uint32]*RowInfo, len(s.rows))
	if insert {
		for r, info := range s.rows {
			if int(r) >= at {
				newR := int(r) + count
				if newR < MaxRows {
					newRows[uint32(newR)] = info
				}
			} else {
				newRows[r] = info
			}
		}
	} else {
		for r, info := range s.rows {
			ri := int(r)
			switch {
			case ri >= at && ri < at+count:
				// dropped along with the deleted rows
			case ri >= at+count:
				newRows[uint32(ri-count)] = info
			default:
				newRows[r] = info
			}
		}
	}
	s.rows = newRows
}

func (s *Store) shiftColInfo(at, count int, insert bool) {
	newCols := make(map[uint32]*ColInfo, len(s.cols))
	if insert {
		for c, info := range s.cols {
			if int(c) >= at {
				newC := int(c) + count
				if newC < MaxCols {
					newCols[uint32(newC)] = info
				}
			} else {
				newCols[c] = info
			}
		}
	} else {
		for c, info := range s.cols {
			ci := int(c)
			switch {
			case ci >= at && ci < at+count:
			case ci >= at+count:
				newCols[uint32(ci-count)] = info
			default:
				newCols[c] = info
			}
		}
	}
	s.cols = newCols
}
