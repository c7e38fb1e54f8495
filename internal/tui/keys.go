package tui

import "github.com/charmbracelet/bubbles/key"

type inspectorKeys struct {
	Toggle    key.Binding
	Stop      key.Binding
	Back      key.Binding
	Forward   key.Binding
	DragBack  key.Binding
	DragAhead key.Binding
	Release   key.Binding
	Louder    key.Binding
	Quieter   key.Binding
	Channel   key.Binding
	Quit      key.Binding
}

var keys = inspectorKeys{
	Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "play/pause")),
	Stop:      key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
	Back:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "seek -5%")),
	Forward:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "seek +5%")),
	DragBack:  key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("shift+←", "drag")),
	DragAhead: key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("shift+→", "drag")),
	Release:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "release drag")),
	Louder:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
	Quieter:   key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "volume down")),
	Channel:   key.NewBinding(key.WithKeys("1", "2", "3"), key.WithHelp("1-3", "channel peaks")),
	Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k inspectorKeys) help() string {
	return "space play/pause • s stop • ←/→ seek • shift+←/→ drag, enter release • +/- volume • 1-3 peaks • q quit"
}
