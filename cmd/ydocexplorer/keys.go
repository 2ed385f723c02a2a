package main

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/doclist"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/jsontree"
)

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding

	// Actions
	Enter  key.Binding
	Toggle key.Binding
	Tab    key.Binding
	Esc    key.Binding

	// Documents
	Filter   key.Binding
	Open     key.Binding
	OpenPath key.Binding
	NextDoc  key.Binding
	PrevDoc  key.Binding

	// Commands
	Copy      key.Binding
	CopyValue key.Binding
	Help      key.Binding
	Quit      key.Binding

	// Tree navigation helpers
	GoToParent      key.Binding
	ExpandAll       key.Binding
	CollapseAll     key.Binding
	CollapseToLevel key.Binding
}

// DefaultKeyMap returns the default keybindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		// Navigation
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "collapse/go up"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "expand"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "page down"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "go to top"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "go to bottom"),
		),

		// Actions
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select/toggle"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("space", "expand/collapse"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),

		// Documents
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter documents"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open file"),
		),
		OpenPath: key.NewBinding(
			key.WithKeys("O", "ctrl+o"),
			key.WithHelp("O", "open path"),
		),
		NextDoc: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next document"),
		),
		PrevDoc: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "previous document"),
		),

		// Commands
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy path"),
		),
		CopyValue: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy value"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),

		// Tree navigation helpers
		GoToParent: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "go to parent"),
		),
		ExpandAll: key.NewBinding(
			key.WithKeys("E"),
			key.WithHelp("E", "expand all"),
		),
		CollapseAll: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "collapse all"),
		),
		CollapseToLevel: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "collapse to level"),
		),
	}
}

// ShortHelp returns key bindings for the short help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Quit}
}

// FullHelp returns the bindings listed in the help overlay, one group per
// section.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Home, k.End, k.Tab, k.GoToParent},
		{k.Toggle, k.ExpandAll, k.CollapseAll, k.CollapseToLevel},
		{k.Open, k.OpenPath, k.Filter, k.NextDoc, k.PrevDoc},
		{k.Copy, k.CopyValue, k.Help, k.Quit},
	}
}

func (k KeyMap) treeKeys() jsontree.Keys {
	return jsontree.Keys{
		Up:              k.Up,
		Down:            k.Down,
		Left:            k.Left,
		Right:           k.Right,
		PageUp:          k.PageUp,
		PageDown:        k.PageDown,
		Home:            k.Home,
		End:             k.End,
		Toggle:          k.Toggle,
		GoToParent:      k.GoToParent,
		ExpandAll:       k.ExpandAll,
		CollapseAll:     k.CollapseAll,
		CollapseToLevel: k.CollapseToLevel,
		CopyPath:        k.Copy,
		CopyValue:       k.CopyValue,
	}
}

func (k KeyMap) listKeys() doclist.Keys {
	return doclist.Keys{
		Up:     k.Up,
		Down:   k.Down,
		Home:   k.Home,
		End:    k.End,
		Select: k.Enter,
	}
}
