package tree

import (
	"bytes"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_ToggleWithKeys(t *testing.T) {
	v := mustParse(t, `{"a": {"b": {"c": 1}}, "d": 2}`)
	m := New(WithClipboard(func(string) error { return nil })).SetSize(80, 20).SetValue(&v)

	require.Len(t, m.Rows(), 4)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor())
	assert.Equal(t, "b", m.Rows()[2].Label)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.Rows(), 5)
	assert.Equal(t, "c", m.Rows()[3].Label)

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace})
	assert.Len(t, m.Rows(), 4)

	m, _ = m.Update(keyRune('G'))
	assert.Equal(t, 3, m.Cursor())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 3, m.Cursor())
	m, _ = m.Update(keyRune('g'))
	assert.Equal(t, 0, m.Cursor())
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 0, m.Cursor())
}

func TestModel_ExpandCollapseAll(t *testing.T) {
	v := mustParse(t, `{"a": {"b": {"c": [1, 2]}}}`)
	m := New().SetValue(&v)

	m, _ = m.Update(keyRune('E'))
	assert.Len(t, m.Rows(), 6)

	m, _ = m.Update(keyRune('C'))
	assert.Len(t, m.Rows(), 1)
}

func TestModel_SetValueKeepsStateForSameValue(t *testing.T) {
	v := mustParse(t, `{"a": {"b": 1}}`)
	m := New().SetValue(&v)
	m = m.ToggleAt(RootPath.Key("a"))
	require.Len(t, m.Rows(), 2)

	m = m.SetValue(&v)
	assert.Len(t, m.Rows(), 2)

	other := mustParse(t, `{"a": {"b": 1}}`)
	m = m.SetValue(&other)
	assert.Len(t, m.Rows(), 3, "a new value starts from the default expansion")
}

func TestModel_CopyIndicator(t *testing.T) {
	v := mustParse(t, `{"b": [true, null], "a": 1}`)
	var copied string
	m := New(WithClipboard(func(s string) error {
		copied = s
		return nil
	})).SetValue(&v)

	m, cmd := m.Update(keyRune('y'))
	require.NotNil(t, cmd)
	assert.False(t, m.Copied())

	msg := cmd()
	assert.Equal(t, "{\n  \"b\": [\n    true,\n    null\n  ],\n  \"a\": 1\n}", copied)

	m, tick := m.Update(msg)
	assert.True(t, m.Copied())
	assert.NotNil(t, tick)
	assert.Contains(t, ansi.Strip(m.View()), "Copied!")

	m, _ = m.Update(copyResetMsg{seq: m.copySeq})
	assert.False(t, m.Copied())
	assert.Contains(t, ansi.Strip(m.View()), "Copy JSON")
}

func TestModel_StaleResetDoesNotClearNewerCopy(t *testing.T) {
	v := mustParse(t, `[1]`)
	m := New(WithClipboard(func(string) error { return nil })).SetValue(&v)

	m, first := m.Update(keyRune('y'))
	m, _ = m.Update(first())
	m, second := m.Update(keyRune('y'))
	m, _ = m.Update(second())
	require.True(t, m.Copied())

	m, _ = m.Update(copyResetMsg{seq: 1})
	assert.True(t, m.Copied())
}

func TestModel_CopyFailureIsLoggedNotShown(t *testing.T) {
	var logs bytes.Buffer
	v := mustParse(t, `{}`)
	m := New(
		WithClipboard(func(string) error { return errors.New("no clipboard utility installed") }),
		WithLogger(zerolog.New(&logs)),
	).SetValue(&v)

	m, cmd := m.Update(keyRune('y'))
	m, next := m.Update(cmd())

	assert.Nil(t, next)
	assert.False(t, m.Copied())
	assert.Contains(t, logs.String(), "failed to copy")
	assert.Contains(t, logs.String(), "no clipboard utility installed")
	assert.NotContains(t, ansi.Strip(m.View()), "no clipboard")
}

func TestModel_ViewWithoutValue(t *testing.T) {
	m := New()
	assert.Contains(t, ansi.Strip(m.View()), "No data")
}
