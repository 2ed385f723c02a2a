// Package virtuallist renders only the visible window of a long list, so
// scrolling cost does not grow with the number of rows.
package virtuallist

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultEmptyText is shown when the list has no items.
const DefaultEmptyText = "Loading..."

// VirtualList is implemented by components whose rows are rendered on
// demand.
type VirtualList interface {
	// ItemCount returns the total number of rows.
	ItemCount() int

	// RenderItem renders row index. isCursor marks the selected row.
	RenderItem(index int, isCursor bool, width int) string
}

// Renderer owns the cursor and scroll window of a VirtualList.
type Renderer struct {
	list      VirtualList
	viewport  viewport.Model
	cursor    int
	width     int
	height    int
	offset    int // first visible row; tracked apart from viewport.YOffset
	emptyText string
}

// New creates a renderer for list.
func New(list VirtualList) *Renderer {
	return &Renderer{
		list:      list,
		viewport:  viewport.New(0, 0),
		emptyText: DefaultEmptyText,
	}
}

// SetEmptyText sets the placeholder rendered for an empty list.
func (r *Renderer) SetEmptyText(s string) { r.emptyText = s }

// SetSize updates the window size and keeps the cursor in view.
func (r *Renderer) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.viewport.Width = width
	r.viewport.Height = height
	r.ensureCursorVisible()
}

// SetCursor moves the cursor, scrolling as needed.
func (r *Renderer) SetCursor(cursor int) {
	r.cursor = cursor
	r.ensureCursorVisible()
}

// Cursor returns the cursor row.
func (r *Renderer) Cursor() int { return r.cursor }

// Reset moves the cursor and scroll window back to the top.
func (r *Renderer) Reset() {
	r.cursor = 0
	r.offset = 0
}

// ScrollOffset returns the index of the first visible row.
func (r *Renderer) ScrollOffset() int { return r.offset }

// Update forwards window size changes to the viewport. Key messages are not
// forwarded: the owner moves the cursor, and the viewport scrolling on its
// own as well would scroll twice.
func (r *Renderer) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		var cmd tea.Cmd
		r.viewport, cmd = r.viewport.Update(msg)
		return cmd
	}
	return nil
}

// View renders the visible rows.
func (r *Renderer) View() string {
	count := r.list.ItemCount()
	if count == 0 {
		return r.emptyText
	}

	visible := r.height
	if visible <= 0 {
		visible = 20 // not sized yet
	}

	start := max(r.offset, 0)
	end := min(start+visible, count)

	// At the bottom, pull the window up so it stays full.
	if end == count && end-start < visible {
		start = max(end-visible, 0)
		r.offset = start
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(r.list.RenderItem(i, i == r.cursor, r.width))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}

	// The content is already the window, so the viewport must not scroll it.
	r.viewport.SetContent(b.String())
	r.viewport.YOffset = 0
	out := r.viewport.View()
	r.viewport.YOffset = r.offset
	return out
}

func (r *Renderer) ensureCursorVisible() {
	visible := r.height
	if visible <= 0 {
		return
	}

	if r.cursor < r.offset {
		r.offset = r.cursor
	}
	if r.cursor >= r.offset+visible {
		r.offset = r.cursor - visible + 1
	}

	maxOffset := max(r.list.ItemCount()-visible, 0)
	r.offset = min(max(r.offset, 0), maxOffset)
}

// Width returns the current width.
func (r *Renderer) Width() int { return r.width }

// Height returns the current height.
func (r *Renderer) Height() int { return r.height }

// Viewport returns the underlying viewport.
func (r *Renderer) Viewport() *viewport.Model { return &r.viewport }
