package main

import "github.com/charmbracelet/lipgloss"

var (
	colHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237")).
			Align(lipgloss.Center)

	rowHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Background(lipgloss.Color("237")).
			Align(lipgloss.Right)

	cellStyle = lipgloss.NewStyle().
			Inline(true)

	activeCellStyle = lipgloss.NewStyle().
			Inline(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("24")).
			Bold(true)

	selectedCellStyle = lipgloss.NewStyle().
				Inline(true).
				Background(lipgloss.Color("236"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	editLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("228")).
			Background(lipgloss.Color("235"))
)
