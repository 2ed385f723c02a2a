package jsontree

import "github.com/charmbracelet/bubbles/key"

// Keys defines keyboard shortcuts for the tree pane
type Keys struct {
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
	Toggle key.Binding

	// Tree operations
	GoToParent      key.Binding
	ExpandAll       key.Binding
	CollapseAll     key.Binding
	CollapseToLevel key.Binding

	// Clipboard
	CopyPath  key.Binding
	CopyValue key.Binding
}
