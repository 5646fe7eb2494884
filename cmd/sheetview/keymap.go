package main

import "github.com/charmbracelet/bubbles/key"

// keyMap groups the bindings this client recognizes, in the pack's
// table-widget style of one key.Binding per logical action rather than a
// raw switch over key strings.
type keyMap struct {
	Up, Down, Left, Right     key.Binding
	CtrlUp, CtrlDown          key.Binding
	CtrlLeft, CtrlRight       key.Binding
	ShiftUp, ShiftDown        key.Binding
	ShiftLeft, ShiftRight     key.Binding
	Home, End                 key.Binding
	CtrlHome, CtrlEnd         key.Binding
	PageUp, PageDown          key.Binding
	CtrlA                     key.Binding
	Enter, Tab, ShiftTab      key.Binding
	Escape                    key.Binding
	Quit                      key.Binding
}

var defaultKeyMap = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "k")),
	Down:  key.NewBinding(key.WithKeys("down", "j")),
	Left:  key.NewBinding(key.WithKeys("left", "h")),
	Right: key.NewBinding(key.WithKeys("right", "l")),

	CtrlUp:    key.NewBinding(key.WithKeys("ctrl+up")),
	CtrlDown:  key.NewBinding(key.WithKeys("ctrl+down")),
	CtrlLeft:  key.NewBinding(key.WithKeys("ctrl+left")),
	CtrlRight: key.NewBinding(key.WithKeys("ctrl+right")),

	ShiftUp:    key.NewBinding(key.WithKeys("shift+up")),
	ShiftDown:  key.NewBinding(key.WithKeys("shift+down")),
	ShiftLeft:  key.NewBinding(key.WithKeys("shift+left")),
	ShiftRight: key.NewBinding(key.WithKeys("shift+right")),

	Home:     key.NewBinding(key.WithKeys("home")),
	End:      key.NewBinding(key.WithKeys("end")),
	CtrlHome: key.NewBinding(key.WithKeys("ctrl+home")),
	CtrlEnd:  key.NewBinding(key.WithKeys("ctrl+end")),

	PageUp:   key.NewBinding(key.WithKeys("pgup")),
	PageDown: key.NewBinding(key.WithKeys("pgdown")),

	CtrlA: key.NewBinding(key.WithKeys("ctrl+a")),

	Enter:    key.NewBinding(key.WithKeys("enter")),
	Tab:      key.NewBinding(key.WithKeys("tab")),
	ShiftTab: key.NewBinding(key.WithKeys("shift+tab")),
	Escape:   key.NewBinding(key.WithKeys("esc")),

	Quit: key.NewBinding(key.WithKeys("ctrl+c")),
}
