package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// View renders the entire UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		// Rebuilt each frame; a stored pointer would go stale since Update
		// returns new models.
		return overlay.New(
			helpView{keys: m.keys, width: m.width},
			&mainView{model: &m},
			overlay.Center,
			overlay.Center,
			0,
			0,
		).View()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderContent(),
		m.renderStatus(),
	)
}

// renderHeader renders the title, the current document and the cursor path
func (m Model) renderHeader() string {
	title := headerStyle.Render("Yjs Update Explorer")

	docName := "no document"
	if doc, ok := m.registry.Current(); ok {
		docName = fmt.Sprintf("%s (%s)", doc.Name, doc.Stage)
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", pathStyle.Render(docName))

	path := ""
	if p, ok := m.tree.CurrentPath(); ok {
		path = "Path: " + truncateLeft(p.String(), max(m.width-8, 8))
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, pathStyle.Render(path))
}

// renderContent renders the document list and the tree side by side
func (m Model) renderContent() string {
	docWidth, treeWidth := m.paneWidths()
	h := m.paneHeight()

	docTitle := fmt.Sprintf("Documents (%d)", m.registry.Len())
	if f := m.docList.Filter(); f != "" {
		docTitle = fmt.Sprintf("Documents (%d/%d) /%s", m.docList.Len(), m.registry.Len(), f)
	}
	docBox := m.box(docTitle, m.docList.View(), docWidth, h, m.focusedPane == DocPane)

	var treeBox string
	if m.inputMode == PickerMode {
		treeBox = m.box("Open file: "+truncateLeft(m.picker.CurrentDirectory, max(treeWidth-16, 8)),
			m.picker.View(), treeWidth, h, true)
	} else {
		treeTitle := "Tree"
		if m.tree.HasDocument() {
			treeTitle = fmt.Sprintf("Tree [%d/%d]", m.tree.Cursor()+1, m.tree.ItemCount())
		}
		treeBox = m.box(treeTitle, m.tree.View(), treeWidth, h, m.focusedPane == TreePane)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, docBox, treeBox)
}

func (m Model) box(title, content string, width, height int, active bool) string {
	body := lipgloss.NewStyle().
		Width(width - 4).
		Height(height).
		MaxHeight(height).
		Render(content)
	style := paneStyle
	if active {
		style = activePaneStyle
	}
	return style.
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, paneTitleStyle.Render(title), body))
}

// renderStatus renders the prompt, the latest status message or key hints
func (m Model) renderStatus() string {
	switch m.inputMode {
	case FilterMode, OpenPathMode:
		return statusStyle.Width(m.width).Render(m.prompt.View())
	case PickerMode:
		return statusStyle.Width(m.width).Render(
			helpStyle.Render("Enter: Open") + " │ " + helpStyle.Render("Esc: Cancel"))
	}

	if m.statusMessage != "" {
		style := statusOKStyle
		if m.statusIsError {
			style = statusErrorStyle
		}
		return statusStyle.Width(m.width).Render(style.Render(m.statusMessage))
	}

	var hints []string
	if m.focusedPane == TreePane {
		hints = []string{"↑/↓: Navigate", "Enter: Toggle", "c/y: Copy", "Tab: Documents"}
	} else {
		hints = []string{"↑/↓: Navigate", "Enter: Show", "/: Filter", "Tab: Tree"}
	}
	hints = append(hints, "o: Open", "?: Help", "q: Quit")

	var b strings.Builder
	for i, h := range hints {
		if i > 0 {
			b.WriteString(" │ ")
		}
		b.WriteString(helpStyle.Render(h))
	}

	if m.loading > 0 {
		b.WriteString(" │ ")
		b.WriteString(promptStyle.Render("loading..."))
	}
	b.WriteString(" │ ")
	b.WriteString(statusCountStyle.Render(fmt.Sprintf("%d", m.registry.Len())))
	b.WriteString(" docs")

	return statusStyle.Width(m.width).MaxHeight(statusHeight).Render(b.String())
}

// mainView is the overlay background.
type mainView struct {
	model *Model
}

func (v *mainView) Init() tea.Cmd { return nil }

func (v *mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }

func (v *mainView) View() string { return v.model.renderMain() }

// helpView is the overlay foreground listing every binding.
type helpView struct {
	keys  KeyMap
	width int
}

var helpSections = []string{"Navigation", "Tree", "Documents", "Other"}

func (h helpView) Init() tea.Cmd { return nil }

func (h helpView) Update(tea.Msg) (tea.Model, tea.Cmd) { return h, nil }

func (h helpView) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n")
	for i, group := range h.keys.FullHelp() {
		b.WriteString("\n")
		if i < len(helpSections) {
			b.WriteString(paneTitleStyle.Render(helpSections[i]))
			b.WriteString("\n")
		}
		for _, binding := range group {
			b.WriteString(helpLine(binding))
		}
	}
	b.WriteString("\n")
	b.WriteString(helpDescStyle.Render("Drop files on the terminal to open them."))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Esc or ? to close"))
	return modalStyle.Render(b.String())
}

func helpLine(binding key.Binding) string {
	help := binding.Help()
	return fmt.Sprintf("  %s %s\n",
		helpKeyStyle.Width(12).Render(help.Key),
		helpDescStyle.Render(help.Desc))
}
