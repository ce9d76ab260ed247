package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Refresh key.Binding
	Close   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r", "R", "f5"),
			key.WithHelp("r", "atualizar"),
		),
		Close: key.NewBinding(
			key.WithKeys("enter", "esc", "q", "x", "ctrl+c"),
			key.WithHelp("enter", "fechar"),
		),
	}
}

// ShortHelp は help.KeyMap の実装
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Close, k.Refresh}
}

// FullHelp は help.KeyMap の実装
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
