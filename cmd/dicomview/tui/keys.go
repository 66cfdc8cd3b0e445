package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the viewing-phase key bindings.
type keyMap struct {
	NarrowWindow key.Binding
	WidenWindow  key.Binding
	LevelUp      key.Binding
	LevelDown    key.Binding
	Brain        key.Binding
	Bone         key.Binding
	Lung         key.Binding
	Abdomen      key.Binding
	Auto         key.Binding
	Export       key.Binding
	Open         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		NarrowWindow: key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "narrow window")),
		WidenWindow:  key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "widen window")),
		LevelUp:      key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "raise level")),
		LevelDown:    key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "lower level")),
		Brain:        key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "brain preset")),
		Bone:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "bone preset")),
		Lung:         key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "lung preset")),
		Abdomen:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "abdomen preset")),
		Auto:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "auto window")),
		Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export image")),
		Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open file")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NarrowWindow, k.WidenWindow, k.LevelUp, k.LevelDown, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NarrowWindow, k.WidenWindow, k.LevelUp, k.LevelDown},
		{k.Brain, k.Bone, k.Lung, k.Abdomen, k.Auto},
		{k.Export, k.Open, k.Help, k.Quit},
	}
}
