package viewport

import "testing"

func uniformSize(n float64) SizeFunc {
	return func(i int) float64 { return n }
}

func TestPositionCacheTotalSizeIsSum(t *testing.T) {
	sizes := map[int]float64{0: 10, 1: 20, 2: 5, 3: 15}
	c := NewPositionCache(func(i int) float64 { return sizes[i] }, 4)

	want := 0.0
	for i := 0; i <= 3; i++ {
		want += sizes[i]
	}
	if got := c.TotalSize(3); got != want {
		t.Fatalf("TotalSize(3) = %v, want %v", got, want)
	}
}

func TestPositionCacheFindIndexAtInvertsPosition(t *testing.T) {
	c := NewPositionCache(uniformSize(10), 1000)
	for _, i := range []int{0, 1, 5, 50, 250, 999} {
		pos := c.Position(i)
		got := c.FindIndexAt(pos + 0.5)
		if got != i {
			t.Fatalf("FindIndexAt(Position(%d)+0.5) = %d, want %d", i, got, i)
		}
	}
}

func TestPositionCacheHiddenItemsContributeZero(t *testing.T) {
	hidden := map[int]bool{2: true}
	c := NewPositionCache(func(i int) float64 {
		if hidden[i] {
			return 0
		}
		return 10
	}, 10)
	// positions 0,1 visible (0,10,20); index2 hidden contributes 0; index3 at 20
	if got := c.Position(3); got != 20 {
		t.Fatalf("Position(3) = %v, want 20", got)
	}
}

func TestPositionCacheLazyChunkedExtension(t *testing.T) {
	calls := 0
	c := NewPositionCache(func(i int) float64 {
		calls++
		return 1
	}, 1_000_000)

	c.Position(5)
	if calls > extendChunk {
		t.Fatalf("Position(5) forced %d size() calls, expected <= chunk size %d", calls, extendChunk)
	}
}

func TestPositionCacheInvalidateForcesRebuild(t *testing.T) {
	val := 10.0
	c := NewPositionCache(func(i int) float64 { return val }, 100)
	first := c.TotalSize(9)
	val = 20.0
	c.Invalidate()
	second := c.TotalSize(9)
	if second == first {
		t.Fatalf("TotalSize after Invalidate should reflect new sizes, got %v twice", first)
	}
	if second != 200 {
		t.Fatalf("TotalSize(9) after invalidate = %v, want 200", second)
	}
}

func TestPositionCacheClampsToMaxIndex(t *testing.T) {
	c := NewPositionCache(uniformSize(1), 5)
	if got := c.TotalSize(100); got != 5 {
		t.Fatalf("TotalSize(100) over maxIndex=5 = %v, want 5", got)
	}
	if got := c.FindIndexAt(1000); got != 4 {
		t.Fatalf("FindIndexAt beyond content = %d, want maxIndex-1 = 4", got)
	}
}

func TestPositionCachePositionZeroIsZero(t *testing.T) {
	c := NewPositionCache(uniformSize(10), 10)
	if got := c.Position(0); got != 0 {
		t.Fatalf("Position(0) = %v, want 0", got)
	}
}
