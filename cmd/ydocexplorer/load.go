package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/logger"
	"github.com/joshuapare/ydockit/pkg/session"
	"github.com/joshuapare/ydockit/pkg/tree"
)

// loadFiles reads and decodes paths off the UI goroutine. The registry is
// only touched when the result comes back through Update. Callers count the
// batch in m.loading.
func (m Model) loadFiles(paths []string) tea.Cmd {
	reader, loader := m.reader, m.loader
	return func() tea.Msg {
		start := time.Now()
		inputs, failures := reader.ReadFiles(paths)
		docs, decodeFailures := loader.Decode(context.Background(), inputs)
		logger.Debug("batch decoded", "paths", len(paths), "docs", len(docs),
			"failures", len(failures)+len(decodeFailures), "elapsed", time.Since(start))
		return documentsLoadedMsg{docs: docs, failures: append(failures, decodeFailures...)}
	}
}

// commitDocuments appends a finished batch to the registry in input order
// and reports failures in the status bar.
func (m Model) commitDocuments(msg documentsLoadedMsg) (Model, tea.Cmd) {
	m.loading = max(m.loading-1, 0)
	_, hadSelection := m.registry.Selected()

	for _, doc := range msg.docs {
		m.registry.Add(doc)
		m.states = append(m.states, m.initialState(doc))
		logger.Info("document added", "name", doc.Name, "stage", doc.Stage.String(), "size", doc.Size)
	}
	for _, f := range msg.failures {
		logger.Warn("document failed", "name", f.Name, "error", f.Err)
	}
	m.docList.SetDocuments(m.registry.Documents())

	if !hadSelection {
		m.showSelected()
	}

	switch {
	case len(msg.failures) > 0:
		return m.setStatus(failureStatus(msg.failures, len(msg.docs)), true)
	case len(msg.docs) == 1:
		return m.setStatus(fmt.Sprintf("✓ Loaded %s", msg.docs[0].Name), false)
	case len(msg.docs) > 1:
		return m.setStatus(fmt.Sprintf("✓ Loaded %d documents", len(msg.docs)), false)
	}
	return m, nil
}

func (m Model) initialState(doc session.Document) *tree.State {
	state := tree.NewState()
	if m.cfg.CollapseDepth > 0 {
		state.CollapseBelow(doc.Value, m.cfg.CollapseDepth)
	}
	return state
}

// failureStatus summarizes a batch's failures in one line.
func failureStatus(failures []session.Failure, loaded int) string {
	if len(failures) == 1 {
		prefix := "✗ "
		if loaded > 0 {
			prefix = fmt.Sprintf("✓ Loaded %d, ✗ ", loaded)
		}
		return prefix + failures[0].Error()
	}
	names := make([]string, len(failures))
	for i, f := range failures {
		names[i] = f.Name
	}
	return fmt.Sprintf("✓ Loaded %d, ✗ %d failed: %s", loaded, len(failures), strings.Join(names, ", "))
}

// showSelected puts the registry's current document in the tree pane.
func (m *Model) showSelected() {
	idx, ok := m.registry.Selected()
	if !ok {
		m.tree.Clear()
		return
	}
	doc, _ := m.registry.Current()
	m.tree.SetDocument(doc.Value, m.states[idx])
	m.docList.SetActive(idx)
	logger.Debug("document shown", "index", idx, "name", doc.Name)
}

// selectDocument changes the selection and shows the document.
func (m Model) selectDocument(idx int) (Model, tea.Cmd) {
	if err := m.registry.Select(idx); err != nil {
		return m.setStatus(err.Error(), true)
	}
	m.showSelected()
	return m, nil
}

// setStatus shows msg in the status bar until the next message or timeout.
func (m Model) setStatus(msg string, isError bool) (Model, tea.Cmd) {
	m.statusSeq++
	m.statusMessage = msg
	m.statusIsError = isError
	seq := m.statusSeq
	return m, tea.Tick(statusDuration, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}
