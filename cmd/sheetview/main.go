// Command sheetview is a terminal reference client over the engine
// package. It is the module's own demonstration harness: a minimal grid
// editor that exercises RenderFrame and the selection state machine, not
// a general-purpose spreadsheet shell.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vectorsheet/engine/internal/applog"
	"github.com/vectorsheet/engine/internal/config"
	"github.com/vectorsheet/engine/internal/engine"
	"github.com/vectorsheet/engine/internal/formula"
)

func main() {
	configPath := flag.String("config", "sheetengine.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "sheetview: loading config: %v\n", err)
		os.Exit(1)
	}
	// A terminal grid's dimension units are character cells, not the
	// pixel-ish defaults a GUI host would configure.
	cfg.Dimensions.DefaultRowHeight = 1
	cfg.Dimensions.DefaultColWidth = 10

	logger := applog.New(os.Stderr, *verbose)
	eng := engine.New(cfg, logger, formula.ArithmeticDemo{})

	m := newModel(eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "sheetview: %v\n", err)
		os.Exit(1)
	}
}
