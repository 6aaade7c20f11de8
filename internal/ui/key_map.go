package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up         key.Binding
	down       key.Binding
	tab        key.Binding
	toggle     key.Binding
	louder     key.Binding
	quieter    key.Binding
	panLeft    key.Binding
	panRight   key.Binding
	masterUp   key.Binding
	masterDown key.Binding
	mute       key.Binding
	reset      key.Binding
	nextMode   key.Binding
	edit       key.Binding
	autoStart  key.Binding
	sessions   key.Binding
	save       key.Binding
	showPan    key.Binding
	enter      key.Binding
	back       key.Binding
	quit       key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		tab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next view")),
		toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		louder:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "more")),
		quieter:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "less")),
		panLeft:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "pan left")),
		panRight:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "pan right")),
		masterUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "master up")),
		masterDown: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "master down")),
		mute:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mute")),
		reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		nextMode:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next mode")),
		edit:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit minutes")),
		autoStart:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto start")),
		sessions:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "long break cadence")),
		save:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "save preferences")),
		showPan:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "pan controls")),
		enter:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply")),
		back:       key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.tab, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.toggle, k.louder, k.quieter},
		{k.panLeft, k.panRight, k.masterUp, k.masterDown, k.mute},
		{k.reset, k.nextMode, k.edit, k.autoStart, k.sessions},
		{k.save, k.showPan, k.tab, k.quit},
	}
}
