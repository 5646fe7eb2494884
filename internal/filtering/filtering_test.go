package filtering

import "testing"

func TestNoFiltersMeansAllVisible(t *testing.T) {
	m := NewManager()
	if !m.IsRowVisible(42) {
		t.Fatal("row should be visible with no filters installed")
	}
}

func TestColumnFilterHidesNonMatchingRows(t *testing.T) {
	m := NewManager()
	m.SetColumnFilter(0, func(v any) bool {
		n, ok := v.(int)
		return ok && n > 10
	})

	values := map[int]map[int]any{
		1: {0: 5},
		2: {0: 20},
		3: {0: 11},
	}
	m.Apply([]int{1, 2, 3}, func(row int) map[int]any { return values[row] })

	if m.IsRowVisible(1) {
		t.Fatal("row 1 (value 5) should be hidden by filter value > 10")
	}
	if !m.IsRowVisible(2) {
		t.Fatal("row 2 (value 20) should be visible")
	}
	if !m.IsRowVisible(3) {
		t.Fatal("row 3 (value 11) should be visible")
	}
}

func TestMultipleColumnFiltersAreConjunctive(t *testing.T) {
	m := NewManager()
	m.SetColumnFilter(0, func(v any) bool { return v == "a" })
	m.SetColumnFilter(1, func(v any) bool { return v == "b" })

	values := map[int]map[int]any{
		1: {0: "a", 1: "b"},
		2: {0: "a", 1: "x"},
	}
	m.Apply([]int{1, 2}, func(row int) map[int]any { return values[row] })

	if !m.IsRowVisible(1) {
		t.Fatal("row satisfying both predicates should be visible")
	}
	if m.IsRowVisible(2) {
		t.Fatal("row failing one predicate should be hidden")
	}
}

func TestClearColumnFilterRestoresVisibility(t *testing.T) {
	m := NewManager()
	m.SetColumnFilter(0, func(v any) bool { return false })
	m.Apply([]int{1}, func(row int) map[int]any { return map[int]any{0: "x"} })
	if m.IsRowVisible(1) {
		t.Fatal("row should be hidden before clearing filter")
	}

	m.ClearColumnFilter(0)
	if !m.Active() {
		// fine, no filters left
	}
	if !m.IsRowVisible(1) {
		t.Fatal("row should become visible once its only filter is cleared")
	}
}

func TestClearAllDeactivates(t *testing.T) {
	m := NewManager()
	m.SetColumnFilter(0, func(v any) bool { return false })
	m.Apply([]int{1}, func(row int) map[int]any { return map[int]any{0: "x"} })
	m.ClearAll()
	if m.Active() {
		t.Fatal("expected Active() == false after ClearAll")
	}
	if !m.IsRowVisible(1) {
		t.Fatal("expected all rows visible after ClearAll")
	}
}

func TestRowsNotCoveredByApplyDefaultInvisible(t *testing.T) {
	m := NewManager()
	m.SetColumnFilter(0, func(v any) bool { return true })
	m.Apply([]int{1, 2}, func(row int) map[int]any { return map[int]any{0: "x"} })
	if m.IsRowVisible(99) {
		t.Fatal("row never passed to Apply should not be considered visible once filtering is active")
	}
}
