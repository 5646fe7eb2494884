package depgraph

import (
	"regexp"
	"strings"

	"github.com/vectorsheet/engine/internal/cellref"
)

var (
	rangeRefPattern  = regexp.MustCompile(`\$?[A-Za-z]{1,3}\$?[0-9]+:\$?[A-Za-z]{1,3}\$?[0-9]+`)
	singleRefPattern = regexp.MustCompile(`\$?[A-Za-z]{1,3}\$?[0-9]+`)
	volatileNames    = []string{"NOW", "TODAY", "RAND", "RANDBETWEEN", "OFFSET", "INDIRECT", "INFO", "CELL"}
)

// ExtractedRefs holds the references found in a formula source.
type ExtractedRefs struct {
	Ranges  []cellref.Range
	Cells   []cellref.Address
	Precedents []Key
}

// ExtractReferences extracts both range references ("A1:B2") and single
// references ("A1") from a formula source string. Range tokens are
// matched first; any single-reference token whose text span falls inside
// an already-matched range span is discarded so it is not double-counted.
func ExtractReferences(formula string) ExtractedRefs {
	var result ExtractedRefs

	rangeSpans := rangeRefPattern.FindAllStringIndex(formula, -1)
	for _, span := range rangeSpans {
		text := formula[span[0]:span[1]]
		r, err := cellref.ParseRange(text)
		if err != nil {
			continue
		}
		result.Ranges = append(result.Ranges, r)
	}

	singleSpans := singleRefPattern.FindAllStringIndex(formula, -1)
	for _, span := range singleSpans {
		if spanInsideAny(span, rangeSpans) {
			continue
		}
		text := formula[span[0]:span[1]]
		row, col, err := cellref.ParseCell(text)
		if err != nil {
			continue
		}
		result.Cells = append(result.Cells, cellref.Address{Row: row, Col: col})
	}

	seen := make(map[Key]struct{})
	for _, addr := range result.Cells {
		if _, ok := seen[addr]; !ok {
			seen[addr] = struct{}{}
			result.Precedents = append(result.Precedents, addr)
		}
	}

	return result
}

func spanInsideAny(span []int, spans [][]int) bool {
	for _, s := range spans {
		if span[0] >= s[0] && span[1] <= s[1] {
			return true
		}
	}
	return false
}

// IsVolatile scans formula text for a call to one of the recognized
// volatile function names (NOW, TODAY, RAND, RANDBETWEEN, OFFSET,
// INDIRECT, INFO, CELL), case-insensitively, requiring an immediately
// following '(' so substrings of other identifiers don't match.
func IsVolatile(formula string) bool {
	upper := strings.ToUpper(formula)
	for _, name := range volatileNames {
		idx := 0
		for {
			pos := strings.Index(upper[idx:], name)
			if pos == -1 {
				break
			}
			pos += idx
			end := pos + len(name)
			if end < len(upper) && upper[end] == '(' && !isIdentChar(precedingRune(upper, pos)) {
				return true
			}
			idx = pos + 1
		}
	}
	return false
}

func precedingRune(s string, pos int) byte {
	if pos == 0 {
		return 0
	}
	return s[pos-1]
}

func isIdentChar(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9') || b == '_'
}
