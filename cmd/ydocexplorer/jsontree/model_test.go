package jsontree

import (
	"errors"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/ydockit/pkg/jsonv"
	"github.com/joshuapare/ydockit/pkg/tree"
)

func testKeys() Keys {
	b := func(k string) key.Binding { return key.NewBinding(key.WithKeys(k)) }
	return Keys{
		Up: b("up"), Down: b("down"), Left: b("left"), Right: b("right"),
		PageUp: b("pgup"), PageDown: b("pgdown"), Home: b("home"), End: b("end"),
		Toggle:     key.NewBinding(key.WithKeys("enter", " ")),
		GoToParent: b("p"), ExpandAll: b("E"), CollapseAll: b("C"), CollapseToLevel: b("ctrl+l"),
		CopyPath: b("c"), CopyValue: b("y"),
	}
}

func press(m *Model, k string) tea.Cmd {
	var msg tea.KeyMsg
	switch k {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		msg = tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		msg = tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "home":
		msg = tea.KeyMsg{Type: tea.KeyHome}
	case "end":
		msg = tea.KeyMsg{Type: tea.KeyEnd}
	case "ctrl+l":
		msg = tea.KeyMsg{Type: tea.KeyCtrlL}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	return m.Update(msg)
}

func newModel(t *testing.T, src string) *Model {
	t.Helper()
	v, err := jsonv.Parse([]byte(src))
	require.NoError(t, err)
	m := New(testKeys())
	m.SetSize(80, 20)
	m.SetDocument(v, nil)
	return m
}

func texts(m *Model) []string {
	out := make([]string, 0, len(m.Lines()))
	for _, l := range m.Lines() {
		out = append(out, l.Text())
	}
	return out
}

const sample = `{"a": 1, "b": {"c": true, "d": [1, 2]}, "e": []}`

func TestModel_Empty(t *testing.T) {
	m := New(testKeys())
	m.SetSize(40, 5)
	assert.False(t, m.HasDocument())
	assert.Equal(t, "No document selected", m.View())
	assert.Nil(t, press(m, "down"))
	_, ok := m.CurrentPath()
	assert.False(t, ok)
}

func TestModel_Navigation(t *testing.T) {
	m := newModel(t, sample)
	assert.Equal(t, 0, m.Cursor())

	press(m, "up")
	assert.Equal(t, 0, m.Cursor())

	press(m, "down")
	press(m, "down")
	p, _ := m.CurrentPath()
	assert.Equal(t, "$.b", p.String())

	press(m, "end")
	assert.Equal(t, len(m.Lines())-1, m.Cursor())
	press(m, "down")
	assert.Equal(t, len(m.Lines())-1, m.Cursor())

	press(m, "home")
	assert.Equal(t, 0, m.Cursor())
}

func TestModel_ToggleKeepsCursorOnNode(t *testing.T) {
	m := newModel(t, sample)
	press(m, "down")
	press(m, "down") // "b": {

	press(m, "enter")
	assert.Equal(t, []string{`{`, `"a": 1,`, `"b": {…},`, `"e": []`, `}`}, texts(m))
	assert.Equal(t, 2, m.Cursor())
	assert.False(t, m.State().IsExpanded(tree.Path{tree.Key("b")}))

	press(m, "enter")
	assert.Equal(t, []string{`{`, `"a": 1,`, `"b": {`, `"c": true,`, `"d": [`, `1,`, `2`, `]`, `},`, `"e": []`, `}`}, texts(m))
	assert.Equal(t, 2, m.Cursor())
	assert.Equal(t, 0, m.State().Collapsed())
}

func TestModel_ToggleOnClosingBracket(t *testing.T) {
	m := newModel(t, sample)
	for range 7 {
		press(m, "down")
	}
	l, _ := m.CurrentLine()
	require.Equal(t, tree.LineClose, l.Kind)
	require.Equal(t, "$.b.d", l.Path.String())

	press(m, "enter")
	l, _ = m.CurrentLine()
	assert.Equal(t, tree.LineCollapsed, l.Kind)
	assert.Equal(t, `"d": […]`, l.Text())
}

func TestModel_ToggleLeafIsNoop(t *testing.T) {
	m := newModel(t, sample)
	press(m, "down") // "a": 1,
	before := texts(m)
	press(m, "enter")
	assert.Equal(t, before, texts(m))
	assert.Equal(t, 0, m.State().Collapsed())
}

func TestModel_LeftRight(t *testing.T) {
	m := newModel(t, sample)
	press(m, "down")
	press(m, "down") // "b": {
	press(m, "right")
	p, _ := m.CurrentPath()
	assert.Equal(t, "$.b.c", p.String(), "right on an expanded node moves into it")

	press(m, "left")
	p, _ = m.CurrentPath()
	assert.Equal(t, "$.b", p.String(), "left on a leaf goes to the parent")

	press(m, "left")
	l, _ := m.CurrentLine()
	assert.Equal(t, tree.LineCollapsed, l.Kind, "left on an expanded node collapses it")

	press(m, "right")
	l, _ = m.CurrentLine()
	assert.Equal(t, tree.LineOpen, l.Kind, "right on a collapsed node expands it")
}

func TestModel_GoToParent(t *testing.T) {
	m := newModel(t, sample)
	for range 5 {
		press(m, "down")
	}
	p, _ := m.CurrentPath()
	require.Equal(t, "$.b.d[0]", p.String())

	press(m, "p")
	p, _ = m.CurrentPath()
	assert.Equal(t, "$.b.d", p.String())

	press(m, "home")
	press(m, "p")
	assert.Equal(t, 0, m.Cursor())
}

func TestModel_CollapseAndExpandAll(t *testing.T) {
	m := newModel(t, sample)
	for range 5 {
		press(m, "down")
	}

	press(m, "C")
	assert.Equal(t, []string{`{`, `"a": 1,`, `"b": {…},`, `"e": []`, `}`}, texts(m))
	p, _ := m.CurrentPath()
	assert.Equal(t, "$.b", p.String(), "cursor moves to the collapsed ancestor")

	press(m, "E")
	assert.Len(t, m.Lines(), 11)
	p, _ = m.CurrentPath()
	assert.Equal(t, "$.b", p.String())
}

func TestModel_CollapseToCurrentLevel(t *testing.T) {
	m := newModel(t, `{"x": {"y": [1]}, "z": {"w": {"v": 2}}}`)
	press(m, "down")
	press(m, "down") // "y": [
	press(m, "ctrl+l")

	assert.Equal(t, []string{`{`, `"x": {`, `"y": […]`, `},`, `"z": {`, `"w": {…}`, `}`, `}`}, texts(m))
	p, _ := m.CurrentPath()
	assert.Equal(t, "$.x.y", p.String())
}

func TestModel_StateSurvivesSetDocument(t *testing.T) {
	v, err := jsonv.Parse([]byte(sample))
	require.NoError(t, err)
	state := tree.NewState()
	state.Collapse(tree.Path{tree.Key("b")})

	m := New(testKeys())
	m.SetDocument(v, state)
	assert.Contains(t, texts(m), `"b": {…},`)

	m.Clear()
	assert.False(t, m.HasDocument())
	m.SetDocument(v, state)
	assert.Contains(t, texts(m), `"b": {…},`)
}

func TestModel_Copy(t *testing.T) {
	var got []string
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(s string) error {
		got = append(got, s)
		return nil
	}

	m := newModel(t, sample)
	press(m, "down")
	press(m, "down") // "b": {

	cmd := press(m, "c")
	require.NotNil(t, cmd)
	msg := cmd().(CopyRequestedMsg)
	assert.Equal(t, CopyPath, msg.Kind)
	assert.Equal(t, "$.b", msg.Text)
	assert.NoError(t, msg.Err)

	cmd = press(m, "y")
	require.NotNil(t, cmd)
	msg = cmd().(CopyRequestedMsg)
	assert.Equal(t, CopyValue, msg.Kind)
	assert.Equal(t, "$.b", msg.Path)
	assert.Equal(t, "{\n  \"c\": true,\n  \"d\": [\n    1,\n    2\n  ]\n}", msg.Text)

	assert.Equal(t, []string{"$.b", msg.Text}, got)
}

func TestModel_CopyError(t *testing.T) {
	orig := writeClipboard
	t.Cleanup(func() { writeClipboard = orig })
	writeClipboard = func(string) error { return errors.New("no clipboard") }

	m := newModel(t, sample)
	msg := press(m, "c")().(CopyRequestedMsg)
	assert.EqualError(t, msg.Err, "no clipboard")
	assert.Equal(t, "$", msg.Path)
}

func TestModel_RenderItem(t *testing.T) {
	m := newModel(t, sample)
	m.SetSize(80, 20)
	view := m.View()
	assert.Contains(t, view, expandedGlyph)
	assert.Contains(t, view, "true")

	press(m, "down")
	press(m, "down")
	press(m, "enter")
	assert.Contains(t, m.View(), collapsedGlyph)

	assert.Empty(t, m.RenderItem(-1, false, 80))
	assert.Empty(t, m.RenderItem(len(m.Lines()), false, 80))
}
