package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vectorsheet/engine/internal/cellref"
)

// ArithmeticDemo is a minimal evaluator handling "=A1+A2" style single-
// operator arithmetic over cell references and numeric literals. It
// exists to give cmd/sheetview something to compute without pulling in a
// real formula language, which is explicitly out of scope for the core.
type ArithmeticDemo struct{}

func (ArithmeticDemo) Eval(formula string, lookup Lookup) (any, error) {
	src := strings.TrimPrefix(strings.TrimSpace(formula), "=")
	if src == "" {
		return nil, fmt.Errorf("formula: empty expression")
	}

	op, opIdx := findOperator(src)
	if opIdx == -1 {
		return resolveOperand(src, lookup)
	}

	left, err := resolveOperand(strings.TrimSpace(src[:opIdx]), lookup)
	if err != nil {
		return nil, err
	}
	right, err := resolveOperand(strings.TrimSpace(src[opIdx+1:]), lookup)
	if err != nil {
		return nil, err
	}

	lv, lok := toFloat(left)
	rv, rok := toFloat(right)
	if !lok || !rok {
		return nil, fmt.Errorf("formula: non-numeric operand in %q", formula)
	}

	switch op {
	case '+':
		return lv + rv, nil
	case '-':
		return lv - rv, nil
	case '*':
		return lv * rv, nil
	case '/':
		if rv == 0 {
			return nil, fmt.Errorf("formula: division by zero")
		}
		return lv / rv, nil
	default:
		return nil, fmt.Errorf("formula: unsupported operator %q", string(op))
	}
}

// findOperator finds the first top-level arithmetic operator, skipping a
// leading unary minus on the left operand.
func findOperator(src string) (byte, int) {
	for i := 1; i < len(src); i++ {
		switch src[i] {
		case '+', '-', '*', '/':
			return src[i], i
		}
	}
	return 0, -1
}

func resolveOperand(token string, lookup Lookup) (any, error) {
	if token == "" {
		return nil, fmt.Errorf("formula: empty operand")
	}
	if n, err := strconv.ParseFloat(token, 64); err == nil {
		return n, nil
	}
	row, col, err := cellref.ParseCell(token)
	if err != nil {
		return nil, fmt.Errorf("formula: invalid operand %q", token)
	}
	return lookup(row, col), nil
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case nil:
		return 0, true
	default:
		return 0, false
	}
}
