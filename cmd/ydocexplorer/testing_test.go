package main

import (
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/doclist"
	"github.com/joshuapare/ydockit/cmd/ydocexplorer/jsontree"
	"github.com/joshuapare/ydockit/internal/config"
)

// testHelper drives a Model the way the bubbletea runtime would.
type testHelper struct {
	t     *testing.T
	model Model
}

func newTestHelper(t *testing.T, paths ...string) *testHelper {
	t.Helper()
	orig := statusDuration
	statusDuration = time.Millisecond
	t.Cleanup(func() { statusDuration = orig })

	h := &testHelper{t: t, model: NewModel(config.Default(), paths)}
	h.model.prompt.Cursor.SetMode(cursor.CursorStatic)
	h.sendWindowSize(120, 40)
	h.drain(h.model.Init())
	return h
}

func (h *testHelper) send(msg tea.Msg) tea.Cmd {
	updated, cmd := h.model.Update(msg)
	m, ok := updated.(Model)
	require.True(h.t, ok, "Update must return a Model")
	h.model = m
	return cmd
}

// drain runs cmd and everything it batches, feeding document and copy
// messages back through Update. Timers and widget messages are dropped so
// status text stays put and blink loops end.
func (h *testHelper) drain(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			h.drain(c)
		}
	case documentsLoadedMsg, doclist.SelectedMsg, jsontree.CopyRequestedMsg:
		h.drain(h.send(msg))
	}
}

func (h *testHelper) sendKey(keyType tea.KeyType) *testHelper {
	h.drain(h.send(tea.KeyMsg{Type: keyType}))
	return h
}

func (h *testHelper) sendKeyRune(r rune) *testHelper {
	h.drain(h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}))
	return h
}

func (h *testHelper) typeText(s string) *testHelper {
	for _, r := range s {
		h.sendKeyRune(r)
	}
	return h
}

// paste delivers text as a bracketed paste, which is how terminals report
// dropped files.
func (h *testHelper) paste(text string) *testHelper {
	h.drain(h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text), Paste: true}))
	return h
}

func (h *testHelper) sendWindowSize(width, height int) *testHelper {
	h.send(tea.WindowSizeMsg{Width: width, Height: height})
	return h
}
