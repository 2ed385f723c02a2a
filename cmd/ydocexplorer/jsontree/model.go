// Package jsontree is the explorer pane that shows one decoded value as a
// collapsible tree. It owns the cursor; expand state lives in a tree.State
// supplied by the caller so it can outlive the pane's current document.
package jsontree

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/logger"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/virtuallist"
	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/tree"
)

// writeClipboard is replaced in tests; there is no clipboard in CI.
var writeClipboard = clipboard.WriteAll

// Model is the tree pane. Use it through a pointer: the renderer holds on
// to it.
type Model struct {
	value jsonv.Value
	state *tree.State
	lines []tree.Line

	renderer *virtuallist.Renderer
	keys     Keys
}

// New creates an empty tree pane.
func New(keys Keys) *Model {
	m := &Model{keys: keys}
	m.renderer = virtuallist.New(m)
	m.renderer.SetEmptyText("No document selected")
	return m
}

// SetDocument shows v with the given expand state and puts the cursor on
// the root. A nil state is replaced by a fresh, fully expanded one.
func (m *Model) SetDocument(v jsonv.Value, state *tree.State) {
	if state == nil {
		state = tree.NewState()
	}
	m.value = v
	m.state = state
	m.lines = tree.Render(v, state)
	m.renderer.Reset()
	logger.Debug("tree document set", "lines", len(m.lines), "collapsed", state.Collapsed())
}

// Clear removes the document.
func (m *Model) Clear() {
	m.value = nil
	m.state = nil
	m.lines = nil
	m.renderer.Reset()
}

// HasDocument reports whether a value is shown.
func (m *Model) HasDocument() bool { return m.value != nil }

// State returns the expand state of the shown document.
func (m *Model) State() *tree.State { return m.state }

// Lines returns the rendered lines in display order.
func (m *Model) Lines() []tree.Line { return m.lines }

// Cursor returns the index of the line under the cursor.
func (m *Model) Cursor() int { return m.renderer.Cursor() }

// SetSize sets the visible width and height.
func (m *Model) SetSize(width, height int) { m.renderer.SetSize(width, height) }

// CurrentLine returns the line under the cursor.
func (m *Model) CurrentLine() (tree.Line, bool) {
	c := m.renderer.Cursor()
	if c < 0 || c >= len(m.lines) {
		return tree.Line{}, false
	}
	return m.lines[c], true
}

// CurrentPath returns the path of the node under the cursor. A closing
// bracket belongs to its container.
func (m *Model) CurrentPath() (tree.Path, bool) {
	l, ok := m.CurrentLine()
	if !ok {
		return nil, false
	}
	return l.Path, true
}

// CurrentValue returns the node under the cursor.
func (m *Model) CurrentValue() (jsonv.Value, bool) {
	p, ok := m.CurrentPath()
	if !ok {
		return nil, false
	}
	return tree.Lookup(m.value, p)
}

// Update handles key messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.lines) == 0 {
		return nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.moveTo(m.Cursor() - 1)
	case key.Matches(keyMsg, m.keys.Down):
		m.moveTo(m.Cursor() + 1)
	case key.Matches(keyMsg, m.keys.PageUp):
		m.moveTo(m.Cursor() - m.pageSize())
	case key.Matches(keyMsg, m.keys.PageDown):
		m.moveTo(m.Cursor() + m.pageSize())
	case key.Matches(keyMsg, m.keys.Home):
		m.moveTo(0)
	case key.Matches(keyMsg, m.keys.End):
		m.moveTo(len(m.lines) - 1)
	case key.Matches(keyMsg, m.keys.Toggle):
		m.Toggle()
	case key.Matches(keyMsg, m.keys.Right):
		m.ExpandOrDescend()
	case key.Matches(keyMsg, m.keys.Left):
		m.CollapseOrAscend()
	case key.Matches(keyMsg, m.keys.GoToParent):
		m.GoToParent()
	case key.Matches(keyMsg, m.keys.ExpandAll):
		m.ExpandAll()
	case key.Matches(keyMsg, m.keys.CollapseAll):
		m.CollapseAll()
	case key.Matches(keyMsg, m.keys.CollapseToLevel):
		m.CollapseToCurrentLevel()
	case key.Matches(keyMsg, m.keys.CopyPath):
		return m.copyCmd(CopyPath)
	case key.Matches(keyMsg, m.keys.CopyValue):
		return m.copyCmd(CopyValue)
	}
	return nil
}

func (m *Model) pageSize() int {
	return max(m.renderer.Height()-1, 1)
}

func (m *Model) moveTo(i int) {
	i = min(max(i, 0), len(m.lines)-1)
	m.renderer.SetCursor(i)
}

// Toggle flips the node under the cursor. On a closing bracket it flips
// the container the bracket closes.
func (m *Model) Toggle() {
	l, ok := m.CurrentLine()
	if !ok || !(l.Expandable() || l.Kind == tree.LineClose) {
		return
	}
	m.state.Toggle(l.Path)
	logger.Debug("toggle", "path", l.Path.String(), "expanded", m.state.IsExpanded(l.Path))
	m.rebuild(l.Path)
}

// ExpandOrDescend expands a collapsed node, or moves into an expanded one.
func (m *Model) ExpandOrDescend() {
	l, ok := m.CurrentLine()
	if !ok {
		return
	}
	switch l.Kind {
	case tree.LineCollapsed:
		m.state.Expand(l.Path)
		m.rebuild(l.Path)
	case tree.LineOpen:
		m.moveTo(m.Cursor() + 1)
	}
}

// CollapseOrAscend collapses an expanded node, or moves to the parent.
func (m *Model) CollapseOrAscend() {
	l, ok := m.CurrentLine()
	if !ok {
		return
	}
	if l.Kind == tree.LineOpen || l.Kind == tree.LineClose {
		m.state.Collapse(l.Path)
		m.rebuild(l.Path)
		return
	}
	m.GoToParent()
}

// GoToParent moves the cursor to the header of the enclosing container.
func (m *Model) GoToParent() {
	l, ok := m.CurrentLine()
	if !ok || l.Path.Depth() == 0 {
		return
	}
	if i := m.indexOf(l.Path.Parent()); i >= 0 {
		m.moveTo(i)
	}
}

// ExpandAll expands every node.
func (m *Model) ExpandAll() {
	p, _ := m.CurrentPath()
	m.state.ExpandAll()
	m.rebuild(p)
}

// CollapseAll collapses everything below the root.
func (m *Model) CollapseAll() {
	m.state.CollapseBelow(m.value, 1)
	m.rebuild(m.visibleAncestor(1))
}

// CollapseToCurrentLevel collapses every container at the cursor's depth
// or deeper.
func (m *Model) CollapseToCurrentLevel() {
	l, ok := m.CurrentLine()
	if !ok {
		return
	}
	depth := max(l.Path.Depth(), 1)
	m.state.CollapseBelow(m.value, depth)
	m.rebuild(m.visibleAncestor(depth))
}

// visibleAncestor returns the cursor's path cut to depth segments, which is
// the node that stays on screen once everything at depth collapses.
func (m *Model) visibleAncestor(depth int) tree.Path {
	p, _ := m.CurrentPath()
	if p.Depth() > depth {
		return p[:depth:depth]
	}
	return p
}

// rebuild re-renders after a state change and puts the cursor on the
// header line of keep.
func (m *Model) rebuild(keep tree.Path) {
	m.lines = tree.Render(m.value, m.state)
	i := m.indexOf(keep)
	if i < 0 {
		i = m.Cursor()
	}
	m.moveTo(i)
}

// indexOf returns the first line of the node at p, or -1.
func (m *Model) indexOf(p tree.Path) int {
	for i, l := range m.lines {
		if l.Kind != tree.LineClose && l.Path.Equal(p) {
			return i
		}
	}
	return -1
}

// CopyText returns what a copy of kind would put on the clipboard.
func (m *Model) CopyText(kind CopyKind) (string, bool) {
	p, ok := m.CurrentPath()
	if !ok {
		return "", false
	}
	if kind == CopyPath {
		return p.String(), true
	}
	v, ok := tree.Lookup(m.value, p)
	if !ok {
		return "", false
	}
	return string(jsonv.MarshalIndent(v, "", "  ")), true
}

func (m *Model) copyCmd(kind CopyKind) tea.Cmd {
	text, ok := m.CopyText(kind)
	if !ok {
		return nil
	}
	p, _ := m.CurrentPath()
	err := writeClipboard(text)
	return func() tea.Msg {
		return CopyRequestedMsg{Kind: kind, Path: p.String(), Text: text, Err: err}
	}
}

// View renders the visible lines.
func (m *Model) View() string { return m.renderer.View() }

// ItemCount implements virtuallist.VirtualList.
func (m *Model) ItemCount() int { return len(m.lines) }

// RenderItem implements virtuallist.VirtualList.
func (m *Model) RenderItem(index int, isCursor bool, width int) string {
	if index < 0 || index >= len(m.lines) {
		return ""
	}
	l := m.lines[index]
	indent := strings.Repeat("  ", l.Depth)

	glyph := leafGlyph
	switch l.Kind {
	case tree.LineOpen:
		glyph = expandedGlyph
	case tree.LineCollapsed:
		glyph = collapsedGlyph
	}

	if isCursor {
		text := ansi.Truncate(indent+glyph+l.Text(), width, "…")
		return cursorStyle.Render(text)
	}

	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(toggleStyle.Render(glyph))
	if l.HasKey && l.Kind != tree.LineClose {
		b.WriteString(keyStyle.Render(jsonv.Quote(l.Key)))
		b.WriteString(": ")
	}
	b.WriteString(styleBody(l))
	if l.Comma {
		b.WriteByte(',')
	}
	return ansi.Truncate(b.String(), width, "…")
}

func styleBody(l tree.Line) string {
	switch l.Kind {
	case tree.LineOpen:
		return bracketStyle.Render(l.Open)
	case tree.LineClose:
		return bracketStyle.Render(l.Close)
	case tree.LineCollapsed:
		return bracketStyle.Render(l.Open) + elidedStyle.Render(tree.Ellipsis) + bracketStyle.Render(l.Close)
	}
	switch l.Value.(type) {
	case jsonv.String:
		return stringStyle.Render(l.Literal)
	case jsonv.Number:
		return numberStyle.Render(l.Literal)
	case jsonv.Array, jsonv.Object:
		return bracketStyle.Render(l.Literal)
	}
	return literalStyle.Render(l.Literal)
}
