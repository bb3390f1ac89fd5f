package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	NextAsset   key.Binding
	PrevAsset   key.Binding
	PickAsset   key.Binding
	NextRange   key.Binding
	PrevRange   key.Binding
	Refresh     key.Binding
	ToggleTheme key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NextAsset: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "next coin"),
		),
		PrevAsset: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "prev coin"),
		),
		PickAsset: key.NewBinding(
			key.WithKeys("1", "2", "3"),
			key.WithHelp("1-3", "pick coin"),
		),
		NextRange: key.NewBinding(
			key.WithKeys("right", "l", "tab"),
			key.WithHelp("→/tab", "next range"),
		),
		PrevRange: key.NewBinding(
			key.WithKeys("left", "h", "shift+tab"),
			key.WithHelp("←", "prev range"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		ToggleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextAsset, k.NextRange, k.ToggleTheme, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextAsset, k.PrevAsset, k.PickAsset},
		{k.NextRange, k.PrevRange, k.Refresh},
		{k.ToggleTheme, k.Help, k.Quit},
	}
}
