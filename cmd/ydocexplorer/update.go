package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/doclist"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/jsontree"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/logger"
)

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case documentsLoadedMsg:
		return m.commitDocuments(msg)

	case doclist.SelectedMsg:
		m, cmd := m.selectDocument(msg.Index)
		m.focusedPane = TreePane
		return m, cmd

	case jsontree.CopyRequestedMsg:
		if msg.Err != nil {
			logger.Warn("clipboard write failed", "error", msg.Err)
			return m.setStatus(fmt.Sprintf("Failed to copy: %v", msg.Err), true)
		}
		if msg.Kind == jsontree.CopyPath {
			return m.setStatus(fmt.Sprintf("✓ Copied: %s", msg.Path), false)
		}
		return m.setStatus(fmt.Sprintf("✓ Copied value of %s (%d bytes)", msg.Path, len(msg.Text)), false)

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusMessage = ""
			m.statusIsError = false
		}
		return m, nil
	}

	// Directory listings and cursor blinks belong to the input widgets;
	// each ignores messages addressed to another instance.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	cmds = append(cmds, cmd)
	m.prompt, cmd = m.prompt.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Files dropped on the terminal arrive as a bracketed paste of their
	// paths. In the text prompts a paste is ordinary input.
	if msg.Paste && (m.inputMode == NormalMode || m.inputMode == PickerMode) {
		return m.handleDrop(string(msg.Runes))
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.inputMode {
	case FilterMode:
		return m.handleFilterKey(msg)
	case OpenPathMode:
		return m.handlePathKey(msg)
	case PickerMode:
		return m.handlePickerKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		if m.focusedPane == TreePane {
			m.focusedPane = DocPane
		} else {
			m.focusedPane = TreePane
		}
		return m, nil

	case key.Matches(msg, m.keys.Filter):
		m.inputMode = FilterMode
		m.focusedPane = DocPane
		m.prompt.Prompt = "Filter: "
		m.prompt.Placeholder = "document name"
		m.prompt.SetValue(m.docList.Filter())
		m.prompt.CursorEnd()
		return m, m.prompt.Focus()

	case key.Matches(msg, m.keys.Esc):
		if m.docList.Filter() != "" {
			m.docList.SetFilter("")
			return m.setStatus("Filter cleared", false)
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		m.inputMode = PickerMode
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.OpenPath):
		m.inputMode = OpenPathMode
		m.prompt.Prompt = "Open: "
		m.prompt.Placeholder = "path to update file(s)"
		m.prompt.SetValue("")
		return m, m.prompt.Focus()

	case key.Matches(msg, m.keys.NextDoc):
		return m.cycleDocument(1)

	case key.Matches(msg, m.keys.PrevDoc):
		return m.cycleDocument(-1)
	}

	if m.focusedPane == DocPane {
		return m, m.docList.Update(msg)
	}
	return m, m.tree.Update(msg)
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Esc):
		m.docList.SetFilter("")
		m.prompt.Blur()
		m.inputMode = NormalMode
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.prompt.Blur()
		m.inputMode = NormalMode
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	m.docList.SetFilter(m.prompt.Value())
	return m, cmd
}

func (m Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Esc):
		m.prompt.Blur()
		m.inputMode = NormalMode
		return m, nil
	case key.Matches(msg, m.keys.Enter):
		m.prompt.Blur()
		m.inputMode = NormalMode
		return m.openPaths(parseDroppedPaths(m.prompt.Value()))
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Esc) {
		m.inputMode = NormalMode
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.inputMode = NormalMode
		m, load := m.openPaths([]string{path})
		return m, tea.Batch(cmd, load)
	}
	return m, cmd
}

// handleDrop loads the files named in pasted text.
func (m Model) handleDrop(text string) (tea.Model, tea.Cmd) {
	paths := parseDroppedPaths(text)
	logger.Debug("drop", "paths", len(paths))
	if m.inputMode == PickerMode {
		m.inputMode = NormalMode
	}
	return m.openPaths(paths)
}

// openPaths starts one load batch.
func (m Model) openPaths(paths []string) (Model, tea.Cmd) {
	for i, p := range paths {
		paths[i] = expandHome(p)
	}
	if len(paths) == 0 {
		return m.setStatus("No file path given", true)
	}
	m.loading++
	m, status := m.setStatus(fmt.Sprintf("Loading %d file(s)...", len(paths)), false)
	return m, tea.Batch(status, m.loadFiles(paths))
}

// cycleDocument moves the selection by delta, wrapping around.
func (m Model) cycleDocument(delta int) (tea.Model, tea.Cmd) {
	n := m.registry.Len()
	idx, ok := m.registry.Selected()
	if !ok || n < 2 {
		return m, nil
	}
	return m.selectDocument(((idx+delta)%n + n) % n)
}

// resize lays out the panes for the current window size.
func (m *Model) resize() {
	docWidth, treeWidth := m.paneWidths()
	h := m.paneHeight()
	m.docList.SetSize(docWidth-4, h)
	m.tree.SetSize(treeWidth-4, h)
	m.picker.Height = max(h-1, 1)
	m.prompt.Width = max(m.width-20, 10)
}

func (m Model) paneWidths() (int, int) {
	doc := max(m.width/4, docPaneMinWidth)
	doc = min(doc, max(m.width/2, 1))
	return doc, m.width - doc
}

func (m Model) paneHeight() int {
	return max(m.height-headerHeight-statusHeight-paneChrome, minPaneHeight)
}
