package main

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ydockit/cmd/ydocexplorer/jsontree"
	"github.com/joshuapare/ydockit/internal/testutil"
)

var brokenUpdate = []byte{0xff, 0xff}

func fixtures(t *testing.T) []string {
	return testutil.WriteFixtures(t, map[string][]byte{
		"sample.bin":  testutil.SampleUpdate(),
		"objects.bin": testutil.ObjectsOnlyUpdate(),
	}, "sample.bin", "objects.bin")
}

func TestStartup_LoadsInitialPaths(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)
	m := h.model

	require.Equal(t, 2, m.Registry().Len())
	assert.Equal(t, 0, m.loading)

	idx, ok := m.Registry().Selected()
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	assert.True(t, m.tree.HasDocument())
	assert.Equal(t, 7, m.tree.ItemCount())

	assert.Equal(t, "✓ Loaded 2 documents", m.statusMessage)
	assert.Contains(t, m.View(), "Documents (2)")
	assert.Contains(t, m.View(), "sample.bin")
}

func TestStartup_NoPaths(t *testing.T) {
	h := newTestHelper(t)

	assert.Equal(t, 0, h.model.Registry().Len())
	assert.False(t, h.model.tree.HasDocument())
	assert.Contains(t, h.model.View(), "no document")
}

func TestDrop_LoadsPastedPaths(t *testing.T) {
	h := newTestHelper(t)
	paths := fixtures(t)

	h.paste(strings.Join(paths, "\n"))

	m := h.model
	require.Equal(t, 2, m.Registry().Len())
	assert.Equal(t, "sample.bin", m.Registry().Documents()[0].Name)
	assert.Equal(t, "objects.bin", m.Registry().Documents()[1].Name)
	assert.Equal(t, 0, m.loading)
	assert.False(t, m.statusIsError)
}

func TestDrop_FileURIs(t *testing.T) {
	h := newTestHelper(t)
	paths := fixtures(t)

	h.paste("file://" + paths[1])

	require.Equal(t, 1, h.model.Registry().Len())
	assert.Equal(t, "objects.bin", h.model.Registry().Documents()[0].Name)
	assert.Equal(t, "✓ Loaded objects.bin", h.model.statusMessage)
}

func TestDrop_EmptyPaste(t *testing.T) {
	h := newTestHelper(t)

	h.paste("   \n  ")

	assert.Equal(t, 0, h.model.Registry().Len())
	assert.Equal(t, 0, h.model.loading)
	assert.True(t, h.model.statusIsError)
	assert.Equal(t, "No file path given", h.model.statusMessage)
}

func TestDrop_KeepsSelection(t *testing.T) {
	paths := fixtures(t)
	h := newTestHelper(t, paths[0])

	h.paste(paths[1])

	require.Equal(t, 2, h.model.Registry().Len())
	idx, ok := h.model.Registry().Selected()
	require.True(t, ok)
	assert.Equal(t, 0, idx, "a drop must not steal the selection")
	assert.Equal(t, 7, h.model.tree.ItemCount())
}

func TestDrop_ClosesPicker(t *testing.T) {
	h := newTestHelper(t)
	h.sendKeyRune('o')
	require.Equal(t, PickerMode, h.model.inputMode)

	h.paste(fixtures(t)[0])

	assert.Equal(t, NormalMode, h.model.inputMode)
	assert.Equal(t, 1, h.model.Registry().Len())
}

func TestCommit_ReportsFailures(t *testing.T) {
	paths := testutil.WriteFixtures(t, map[string][]byte{
		"good.bin":   testutil.SampleUpdate(),
		"broken.bin": brokenUpdate,
	}, "good.bin", "broken.bin")
	missing := paths[0] + ".missing"

	h := newTestHelper(t)
	h.paste(paths[0] + "\n" + paths[1])

	require.Equal(t, 1, h.model.Registry().Len())
	assert.True(t, h.model.statusIsError)
	assert.Contains(t, h.model.statusMessage, "✓ Loaded 1")
	assert.Contains(t, h.model.statusMessage, "broken.bin")

	h.paste(missing)
	assert.Equal(t, 1, h.model.Registry().Len())
	assert.True(t, h.model.statusIsError)
	assert.True(t, strings.HasPrefix(h.model.statusMessage, "✗ good.bin.missing"))
}

func TestFailureStatus_Many(t *testing.T) {
	h := newTestHelper(t)
	msg := documentsLoadedMsg{}
	for _, name := range []string{"a.bin", "b.bin"} {
		msg.failures = append(msg.failures, failure(name))
	}
	h.send(msg)

	assert.Equal(t, "✓ Loaded 0, ✗ 2 failed: a.bin, b.bin", h.model.statusMessage)
}

func TestCycleDocuments(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)

	selected := func() int {
		idx, ok := h.model.Registry().Selected()
		require.True(t, ok)
		return idx
	}

	h.sendKeyRune(']')
	assert.Equal(t, 1, selected())
	assert.Equal(t, 1, h.model.docList.Active())

	h.sendKeyRune(']')
	assert.Equal(t, 0, selected(), "next wraps to the first document")

	h.sendKeyRune('[')
	assert.Equal(t, 1, selected(), "previous wraps to the last document")
}

func TestExpandState_PerDocument(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)
	require.Equal(t, TreePane, h.model.focusedPane)

	h.sendKey(tea.KeyEnter)
	assert.Equal(t, 1, h.model.tree.ItemCount(), "root collapsed")

	h.sendKeyRune(']')
	assert.Equal(t, 3, h.model.tree.ItemCount(), "second document has its own state")

	h.sendKeyRune('[')
	assert.Equal(t, 1, h.model.tree.ItemCount(), "first document stays collapsed")
}

func TestDocList_Select(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)

	h.sendKey(tea.KeyTab)
	require.Equal(t, DocPane, h.model.focusedPane)

	h.sendKey(tea.KeyDown).sendKey(tea.KeyEnter)

	idx, ok := h.model.Registry().Selected()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, TreePane, h.model.focusedPane)
	assert.Equal(t, 3, h.model.tree.ItemCount())
}

func TestFilterMode(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)

	h.sendKeyRune('/')
	require.Equal(t, FilterMode, h.model.inputMode)
	assert.Equal(t, DocPane, h.model.focusedPane)

	h.typeText("obj")
	assert.Equal(t, 1, h.model.docList.Len())
	assert.Equal(t, 2, h.model.Registry().Len(), "filtering never drops documents")
	assert.Contains(t, h.model.View(), "Documents (1/2)")

	h.sendKey(tea.KeyEnter)
	assert.Equal(t, NormalMode, h.model.inputMode)
	assert.Equal(t, "obj", h.model.docList.Filter())

	h.sendKey(tea.KeyEsc)
	assert.Equal(t, "", h.model.docList.Filter())
	assert.Equal(t, 2, h.model.docList.Len())
}

func TestFilterMode_EscClears(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)

	h.sendKeyRune('/').typeText("zzz")
	assert.Equal(t, 0, h.model.docList.Len())

	h.sendKey(tea.KeyEsc)
	assert.Equal(t, NormalMode, h.model.inputMode)
	assert.Equal(t, 2, h.model.docList.Len())
}

func TestOpenPathMode(t *testing.T) {
	h := newTestHelper(t)
	path := fixtures(t)[1]

	h.sendKeyRune('O')
	require.Equal(t, OpenPathMode, h.model.inputMode)

	h.typeText(path)
	assert.Equal(t, 0, h.model.Registry().Len(), "typing a path must not trigger commands")

	h.sendKey(tea.KeyEnter)
	assert.Equal(t, NormalMode, h.model.inputMode)
	require.Equal(t, 1, h.model.Registry().Len())
	assert.Equal(t, "objects.bin", h.model.Registry().Documents()[0].Name)
}

func TestOpenPathMode_Cancel(t *testing.T) {
	h := newTestHelper(t)

	h.sendKeyRune('O').typeText("nothing").sendKey(tea.KeyEsc)

	assert.Equal(t, NormalMode, h.model.inputMode)
	assert.Equal(t, 0, h.model.Registry().Len())
}

func TestPickerMode_Cancel(t *testing.T) {
	h := newTestHelper(t)

	h.sendKeyRune('o')
	require.Equal(t, PickerMode, h.model.inputMode)
	assert.Contains(t, h.model.View(), "Open file")

	h.sendKey(tea.KeyEsc)
	assert.Equal(t, NormalMode, h.model.inputMode)
}

func TestHelpOverlay(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)

	h.sendKeyRune('?')
	require.True(t, h.model.showHelp)
	assert.Contains(t, h.model.View(), "Keyboard Shortcuts")

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.Nil(t, cmd, "q closes help instead of quitting")
	assert.False(t, h.model.showHelp)

	h.sendKeyRune('?').sendKeyRune(']')
	assert.True(t, h.model.showHelp)
	idx, _ := h.model.Registry().Selected()
	assert.Equal(t, 0, idx, "help blocks other keys")
}

func TestQuit(t *testing.T) {
	h := newTestHelper(t)

	cmd := h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestCopyStatus(t *testing.T) {
	h := newTestHelper(t)

	h.send(jsontree.CopyRequestedMsg{Kind: jsontree.CopyPath, Path: "$.title", Text: "$.title"})
	assert.Equal(t, "✓ Copied: $.title", h.model.statusMessage)
	assert.False(t, h.model.statusIsError)

	h.send(jsontree.CopyRequestedMsg{Kind: jsontree.CopyValue, Path: "$.title", Text: `"hello"`})
	assert.Equal(t, "✓ Copied value of $.title (7 bytes)", h.model.statusMessage)

	h.send(jsontree.CopyRequestedMsg{Kind: jsontree.CopyPath, Path: "$", Err: errors.New("no clipboard")})
	assert.True(t, h.model.statusIsError)
	assert.Contains(t, h.model.statusMessage, "no clipboard")
}

func TestClearStatus_IgnoresStale(t *testing.T) {
	h := newTestHelper(t)

	m, _ := h.model.setStatus("first", false)
	stale := m.statusSeq
	m, _ = m.setStatus("second", false)
	h.model = m

	h.send(clearStatusMsg{seq: stale})
	assert.Equal(t, "second", h.model.statusMessage)

	h.send(clearStatusMsg{seq: h.model.statusSeq})
	assert.Equal(t, "", h.model.statusMessage)
}

func TestView_Resize(t *testing.T) {
	h := newTestHelper(t, fixtures(t)...)

	for _, size := range [][2]int{{80, 24}, {40, 10}, {200, 60}} {
		h.sendWindowSize(size[0], size[1])
		view := h.model.View()
		assert.NotEmpty(t, view)
		assert.Contains(t, view, "Yjs Update Explorer")
	}
}
