package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoclient/internal/config"
	"todoclient/internal/todo"
)

type doneMsg struct{}

// editorCalls records which transitions the editor invoked.
type editorCalls struct {
	added     []string
	saved     []string
	cancelled int
}

func (r *editorCalls) Add(text string) tea.Cmd {
	r.added = append(r.added, text)
	return func() tea.Msg { return doneMsg{} }
}

func (r *editorCalls) SaveEdit(text string) tea.Cmd {
	r.saved = append(r.saved, text)
	return func() tea.Msg { return doneMsg{} }
}

func (r *editorCalls) CancelEdit() { r.cancelled++ }

func testKeys() KeyMap {
	return NewKeyMap(config.Default().Keys)
}

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	downKey  = tea.KeyMsg{Type: tea.KeyDown}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
)

func focusedEditor() Editor {
	e := NewEditor(testKeys())
	e.Focus()
	return e
}

func TestEditor_AddSubmitsTrimmedTextAndClears(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}

	e.Update(runes("  Buy milk  "), calls)
	cmd, handled := e.Update(enterKey, calls)

	assert.True(t, handled)
	require.NotNil(t, cmd)
	assert.Equal(t, []string{"Buy milk"}, calls.added)
	assert.Empty(t, calls.saved)
	assert.Empty(t, e.Value())
}

func TestEditor_EmptySubmitIsNoOp(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}

	e.Update(runes("   "), calls)
	cmd, handled := e.Update(enterKey, calls)

	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Empty(t, calls.added)
	assert.Equal(t, "   ", e.Value())
}

func TestEditor_EditModeSavesEdit(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}

	e.Sync("1", "Buy milk", true)
	assert.Equal(t, EditMode, e.Mode())
	assert.Equal(t, "Buy milk", e.Value())

	e.Update(runes(" now"), calls)
	_, _ = e.Update(enterKey, calls)

	assert.Equal(t, []string{"Buy milk now"}, calls.saved)
	assert.Empty(t, calls.added)
	assert.Empty(t, e.Value())
}

func TestEditor_CancelRevertsBufferInEditMode(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}

	e.Sync("1", "Buy milk", true)
	e.Update(runes(" and bread"), calls)
	require.Equal(t, "Buy milk and bread", e.Value())

	cmd, handled := e.Update(escKey, calls)

	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, calls.cancelled)
	assert.Equal(t, "Buy milk", e.Value())
}

func TestEditor_CancelInAddModeIsNotHandled(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}

	e.Update(runes("draft"), calls)
	_, handled := e.Update(escKey, calls)

	assert.False(t, handled)
	assert.Zero(t, calls.cancelled)
	assert.Equal(t, "draft", e.Value())
}

func TestEditor_SyncResetsOnlyOnChange(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}

	e.Sync("1", "Buy milk", true)
	e.Update(runes("!"), calls)
	e.Sync("1", "Buy milk", true)
	assert.Equal(t, "Buy milk!", e.Value())

	e.Sync("2", "Walk dog", true)
	assert.Equal(t, "Walk dog", e.Value())

	e.Sync("", "", false)
	assert.Equal(t, AddMode, e.Mode())
	assert.Empty(t, e.Value())
}

func TestEditor_LongTextIsNotTruncated(t *testing.T) {
	e := focusedEditor()
	calls := &editorCalls{}
	long := make([]rune, todo.MaxTextLength+25)
	for i := range long {
		long[i] = 'x'
	}

	e.Update(runes(string(long)), calls)
	e.Update(enterKey, calls)

	require.Len(t, calls.added, 1)
	assert.Len(t, calls.added[0], todo.MaxTextLength+25)
}
