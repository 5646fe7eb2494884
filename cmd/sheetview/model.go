package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vectorsheet/engine/internal/cellref"
	"github.com/vectorsheet/engine/internal/cellstore"
	"github.com/vectorsheet/engine/internal/engine"
	"github.com/vectorsheet/engine/internal/selection"
)

const rowHeaderWidth = 5

// model is the bubbletea Model wrapping one Engine. It owns only display
// state (the edit buffer, the last status line); everything about cell
// content and selection lives in the engine.
type model struct {
	eng *engine.Engine
	keys keyMap

	width, height int

	editing  bool
	editText string

	status string
}

func newModel(eng *engine.Engine) model {
	return model{eng: eng, keys: defaultKeyMap}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.eng.SetHeaderSize(rowHeaderWidth, 1)
		m.eng.SetViewportSize(float64(m.width), float64(m.height-2))
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateNavigating(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case matchesKey(msg, m.keys.Enter):
		m.commitEdit()
		m.moveAfterCommit(1, 0)
		return m, nil
	case matchesKey(msg, m.keys.Escape):
		m.editing = false
		m.editText = ""
		return m, nil
	case matchesKey(msg, m.keys.Tab):
		m.commitEdit()
		m.moveAfterCommit(0, 1)
		return m, nil
	}
	switch msg.Type {
	case tea.KeyBackspace:
		if len(m.editText) > 0 {
			r := []rune(m.editText)
			m.editText = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeyRunes:
		m.editText += string(msg.Runes)
		return m, nil
	case tea.KeySpace:
		m.editText += " "
		return m, nil
	}
	return m, nil
}

func (m *model) commitEdit() {
	sel := m.eng.Selection().State()
	row, col := sel.ActiveCell.Row, sel.ActiveCell.Col
	text := m.editText
	m.editing = false
	m.editText = ""
	if strings.HasPrefix(text, "=") {
		_, circular, err := m.eng.SetFormula(row, col, text)
		if err != nil {
			m.status = err.Error()
			return
		}
		if circular {
			m.status = fmt.Sprintf("%s: circular reference", cellref.Format(row, col))
		}
		m.eng.Recalculate()
		return
	}
	if err := m.eng.SetCell(row, col, parseLiteral(text), nil); err != nil {
		m.status = err.Error()
		return
	}
	m.eng.Recalculate()
}

func (m *model) moveAfterCommit(dr, dc int) {
	m.eng.Selection().MoveActiveCell(dr, dc, false)
	sel := m.eng.Selection().State()
	m.eng.ScrollTo(sel.ActiveCell.Row, sel.ActiveCell.Col)
}

// parseLiteral interprets a committed edit buffer as a number when it
// looks like one, so typed values feed ArithmeticDemo's numeric
// operators directly rather than landing as strings.
func parseLiteral(text string) any {
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return n
	}
	return text
}

func (m model) updateNavigating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.eng.Selection()

	switch {
	case matchesKey(msg, m.keys.Quit):
		return m, tea.Quit
	case matchesKey(msg, m.keys.CtrlA):
		sel.CtrlA(time.Now())
	case matchesKey(msg, m.keys.CtrlUp):
		sel.CtrlArrow(cellstore.DirUp)
	case matchesKey(msg, m.keys.CtrlDown):
		sel.CtrlArrow(cellstore.DirDown)
	case matchesKey(msg, m.keys.CtrlLeft):
		sel.CtrlArrow(cellstore.DirLeft)
	case matchesKey(msg, m.keys.CtrlRight):
		sel.CtrlArrow(cellstore.DirRight)
	case matchesKey(msg, m.keys.ShiftUp):
		sel.MoveActiveCell(-1, 0, true)
	case matchesKey(msg, m.keys.ShiftDown):
		sel.MoveActiveCell(1, 0, true)
	case matchesKey(msg, m.keys.ShiftLeft):
		sel.MoveActiveCell(0, -1, true)
	case matchesKey(msg, m.keys.ShiftRight):
		sel.MoveActiveCell(0, 1, true)
	case matchesKey(msg, m.keys.Up):
		sel.MoveActiveCell(-1, 0, false)
	case matchesKey(msg, m.keys.Down):
		sel.MoveActiveCell(1, 0, false)
	case matchesKey(msg, m.keys.Left):
		sel.MoveActiveCell(0, -1, false)
	case matchesKey(msg, m.keys.Right):
		sel.MoveActiveCell(0, 1, false)
	case matchesKey(msg, m.keys.Home):
		sel.HomeRow(false)
	case matchesKey(msg, m.keys.End):
		sel.EndRow(false)
	case matchesKey(msg, m.keys.CtrlHome):
		sel.CtrlHome(false)
	case matchesKey(msg, m.keys.CtrlEnd):
		sel.CtrlEnd(false)
	case matchesKey(msg, m.keys.PageUp):
		sel.PageUp(false)
	case matchesKey(msg, m.keys.PageDown):
		sel.PageDown(false)
	case matchesKey(msg, m.keys.Tab):
		sel.MoveWithinSelection(selection.MoveNext)
	case matchesKey(msg, m.keys.ShiftTab):
		sel.MoveWithinSelection(selection.MovePrevious)
	case matchesKey(msg, m.keys.Enter):
		m.beginEdit("")
		return m, nil
	default:
		if msg.Type == tea.KeyRunes && len(msg.Runes) > 0 {
			m.beginEdit(string(msg.Runes))
			return m, nil
		}
	}

	state := sel.State()
	m.eng.ScrollTo(state.ActiveCell.Row, state.ActiveCell.Col)
	return m, nil
}

func (m *model) beginEdit(seed string) {
	m.editing = true
	m.editText = seed
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	row, col, ok := m.cellAtScreen(msg.X, msg.Y)
	if !ok {
		return m, nil
	}
	addr := cellref.Address{Row: row, Col: col}
	sel := m.eng.Selection()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			sel.MouseDown(addr, msg.Shift, msg.Ctrl)
		}
	case tea.MouseActionMotion:
		sel.MouseDrag(addr)
	case tea.MouseActionRelease:
		sel.MouseUp()
	}
	return m, nil
}

// cellAtScreen maps a terminal cell coordinate to a (row, col) grid
// address using the current render frame, returning ok=false when the
// click landed on a header or outside any rendered cell.
func (m model) cellAtScreen(x, y int) (row, col int, ok bool) {
	frame := m.eng.RenderFrame()
	for _, c := range frame.Cells {
		cx, cy := int(c.X), int(c.Y)
		if x >= cx && x < cx+int(c.Width) && y >= cy && y < cy+int(c.Height) {
			return c.Row, c.Col, true
		}
	}
	return 0, 0, false
}

func matchesKey(msg tea.KeyMsg, b interface{ Keys() []string }) bool {
	s := msg.String()
	for _, k := range b.Keys() {
		if k == s {
			return true
		}
	}
	return false
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}
	frame := m.eng.RenderFrame()
	sel := m.eng.Selection().State()

	var b strings.Builder
	b.WriteString(rowHeaderStyle.Width(rowHeaderWidth).Render(""))
	for _, col := range frame.Columns {
		label := cellref.Format(0, col.Index)
		label = label[:len(label)-1]
		b.WriteString(colHeaderStyle.Width(int(col.Width)).Render(label))
	}
	b.WriteString("\n")

	cellAt := make(map[[2]int]*cellstore.Cell, len(frame.Cells))
	for _, c := range frame.Cells {
		if cell, ok := c.Cell.(*cellstore.Cell); ok {
			cellAt[[2]int{c.Row, c.Col}] = cell
		}
	}

	for _, row := range frame.Rows {
		b.WriteString(rowHeaderStyle.Width(rowHeaderWidth).Render(fmt.Sprintf("%d", row.Index+1)))
		for _, col := range frame.Columns {
			text := ""
			if cell := cellAt[[2]int{row.Index, col.Index}]; cell != nil {
				text = formatCellValue(cell)
			}
			text = runewidth.Truncate(text, int(col.Width), "")

			style := cellStyle
			if row.Index == sel.ActiveCell.Row && col.Index == sel.ActiveCell.Col {
				style = activeCellStyle
			} else if inAnyRange(sel.Ranges, row.Index, col.Index) {
				style = selectedCellStyle
			}
			b.WriteString(style.Width(int(col.Width)).Render(text))
		}
		b.WriteString("\n")
	}

	statusText := fmt.Sprintf(" %s ", cellref.Format(sel.ActiveCell.Row, sel.ActiveCell.Col))
	if m.status != "" {
		statusText += "  " + m.status
	}
	b.WriteString(statusBarStyle.Width(m.width).Render(statusText))

	if m.editing {
		b.WriteString("\n")
		b.WriteString(editLineStyle.Width(m.width).Render("=" + m.editText))
	}

	return b.String()
}

func inAnyRange(ranges []cellref.Range, row, col int) bool {
	for _, r := range ranges {
		if r.Contains(row, col) {
			return true
		}
	}
	return false
}

func formatCellValue(cell *cellstore.Cell) string {
	if cell.Formula != "" && cell.FormulaResult != nil {
		return fmt.Sprintf("%v", cell.FormulaResult)
	}
	if cell.Value == nil {
		return ""
	}
	return fmt.Sprintf("%v", cell.Value)
}
