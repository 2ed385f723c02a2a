// Package doclist is the explorer sidebar: the loaded documents in arrival
// order, narrowed by an optional fuzzy filter.
package doclist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/sahilm/fuzzy"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/virtuallist"
	"github.com/joshuapare/ydockit/pkg/session"
)

// Keys defines keyboard shortcuts for the document list
type Keys struct {
	Up     key.Binding
	Down   key.Binding
	Home   key.Binding
	End    key.Binding
	Select key.Binding
}

// SelectedMsg asks the host to show the document at Index (a registry
// index, not a row).
type SelectedMsg struct {
	Index int
}

var (
	nameStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	matchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500")).Bold(true)
	metaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	activeMark = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Render("●")

	rowCursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
)

// row is one visible document.
type row struct {
	index   int   // registry index
	matched []int // byte offsets of filter matches in the name
}

// Model is the document list. Use it through a pointer.
type Model struct {
	docs   []session.Document
	filter string
	rows   []row
	active int // registry index shown in the tree pane, -1 for none

	renderer *virtuallist.Renderer
	keys     Keys
}

// New creates an empty list.
func New(keys Keys) *Model {
	m := &Model{keys: keys, active: -1}
	m.renderer = virtuallist.New(m)
	m.renderer.SetEmptyText("No documents\n\nPress o to open a file\nor drop files here")
	return m
}

// SetDocuments replaces the documents, keeping the filter and, when still
// visible, the row under the cursor.
func (m *Model) SetDocuments(docs []session.Document) {
	cur, ok := m.Current()
	m.docs = docs
	m.refilter()
	if ok {
		m.moveToIndex(cur)
	}
}

// SetActive marks the document shown in the tree pane.
func (m *Model) SetActive(index int) {
	m.active = index
	m.moveToIndex(index)
}

// Active returns the document shown in the tree pane.
func (m *Model) Active() int { return m.active }

// SetFilter narrows the list to documents whose names fuzzy-match q. An
// empty q shows everything in arrival order.
func (m *Model) SetFilter(q string) {
	m.filter = q
	m.refilter()
	m.renderer.SetCursor(0)
}

// Filter returns the current filter.
func (m *Model) Filter() string { return m.filter }

// Len returns the number of visible rows.
func (m *Model) Len() int { return len(m.rows) }

// Visible returns the registry indices of the visible rows in display
// order.
func (m *Model) Visible() []int {
	out := make([]int, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.index
	}
	return out
}

// Current returns the registry index under the cursor.
func (m *Model) Current() (int, bool) {
	c := m.renderer.Cursor()
	if c < 0 || c >= len(m.rows) {
		return 0, false
	}
	return m.rows[c].index, true
}

// SetSize sets the visible width and height.
func (m *Model) SetSize(width, height int) { m.renderer.SetSize(width, height) }

type names []session.Document

func (n names) String(i int) string { return n[i].Name }
func (n names) Len() int            { return len(n) }

func (m *Model) refilter() {
	m.rows = m.rows[:0]
	if m.filter == "" {
		for i := range m.docs {
			m.rows = append(m.rows, row{index: i})
		}
		return
	}
	for _, match := range fuzzy.FindFrom(m.filter, names(m.docs)) {
		m.rows = append(m.rows, row{index: match.Index, matched: match.MatchedIndexes})
	}
	if c := m.renderer.Cursor(); c >= len(m.rows) {
		m.renderer.SetCursor(max(len(m.rows)-1, 0))
	}
}

func (m *Model) moveToIndex(index int) {
	for i, r := range m.rows {
		if r.index == index {
			m.renderer.SetCursor(i)
			return
		}
	}
}

// Update handles key messages.
func (m *Model) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.rows) == 0 {
		return nil
	}
	c := m.renderer.Cursor()
	switch {
	case key.Matches(keyMsg, m.keys.Up):
		m.renderer.SetCursor(max(c-1, 0))
	case key.Matches(keyMsg, m.keys.Down):
		m.renderer.SetCursor(min(c+1, len(m.rows)-1))
	case key.Matches(keyMsg, m.keys.Home):
		m.renderer.SetCursor(0)
	case key.Matches(keyMsg, m.keys.End):
		m.renderer.SetCursor(len(m.rows) - 1)
	case key.Matches(keyMsg, m.keys.Select):
		if idx, ok := m.Current(); ok {
			return func() tea.Msg { return SelectedMsg{Index: idx} }
		}
	}
	return nil
}

// View renders the visible rows.
func (m *Model) View() string { return m.renderer.View() }

// ItemCount implements virtuallist.VirtualList.
func (m *Model) ItemCount() int { return len(m.rows) }

// RenderItem implements virtuallist.VirtualList. A row is the name, then
// the size and decode stage.
func (m *Model) RenderItem(i int, isCursor bool, width int) string {
	if i < 0 || i >= len(m.rows) {
		return ""
	}
	r := m.rows[i]
	doc := m.docs[r.index]

	mark := " "
	if r.index == m.active {
		mark = activeMark
	}
	meta := fmt.Sprintf("%s · %s", humanize.Bytes(uint64(doc.Size)), doc.Stage)

	if isCursor {
		line := ansi.Truncate(doc.Name+"  "+meta, max(width-2, 0), "…")
		return mark + " " + rowCursorStyle.Render(line)
	}
	line := highlight(doc.Name, r.matched) + "  " + metaStyle.Render(meta)
	return mark + " " + ansi.Truncate(line, max(width-2, 0), "…")
}

// highlight styles the matched bytes of name.
func highlight(name string, matched []int) string {
	if len(matched) == 0 {
		return nameStyle.Render(name)
	}
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	var b strings.Builder
	for i, r := range name {
		s := string(r)
		if hit[i] {
			b.WriteString(matchStyle.Render(s))
		} else {
			b.WriteString(nameStyle.Render(s))
		}
	}
	return b.String()
}
