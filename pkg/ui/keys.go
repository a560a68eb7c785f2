package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists every binding of the numberline view
type keyMap struct {
	ZoomIn          key.Binding
	ZoomOut         key.Binding
	PanLeft         key.Binding
	PanRight        key.Binding
	OverviewZoomIn  key.Binding
	OverviewZoomOut key.Binding
	OverviewLeft    key.Binding
	OverviewRight   key.Binding
	Select          key.Binding
	Presets         key.Binding
	Reset           key.Binding
	Copy            key.Binding
	Export          key.Binding
	Cancel          key.Binding
	Help            key.Binding
	Quit            key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom detail in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom detail out"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "pan detail left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "pan detail right"),
		),
		OverviewZoomIn: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "zoom overview in"),
		),
		OverviewZoomOut: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "zoom overview out"),
		),
		OverviewLeft: key.NewBinding(
			key.WithKeys("shift+left", "H"),
			key.WithHelp("H", "pan overview left"),
		),
		OverviewRight: key.NewBinding(
			key.WithKeys("shift+right", "L"),
			key.WithHelp("L", "pan overview right"),
		),
		Select: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "type selection"),
		),
		Presets: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "presets"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy state"),
		),
		Export: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "export svg+png"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel drag"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Select, k.Presets, k.Reset, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ZoomIn, k.ZoomOut, k.PanLeft, k.PanRight},
		{k.OverviewZoomIn, k.OverviewZoomOut, k.OverviewLeft, k.OverviewRight},
		{k.Select, k.Presets, k.Reset, k.Cancel},
		{k.Copy, k.Export, k.Help, k.Quit},
	}
}
