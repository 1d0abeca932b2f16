package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// EditorActions are the transitions the editor may invoke.
type EditorActions interface {
	Add(text string) tea.Cmd
	SaveEdit(text string) tea.Cmd
	CancelEdit()
}

type EditorMode int

const (
	AddMode EditorMode = iota
	EditMode
)

// Editor captures one line of text, either for a new todo or for the todo
// currently selected for editing.
type Editor struct {
	input   textinput.Model
	keys    KeyMap
	mode    EditorMode
	id      string
	initial string
}

func NewEditor(keys KeyMap) Editor {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Add new todo..."
	ti.CharLimit = 0
	ti.Width = 40
	return Editor{input: ti, keys: keys}
}

func (e Editor) Mode() EditorMode { return e.mode }
func (e Editor) Value() string    { return e.input.Value() }
func (e Editor) Focused() bool    { return e.input.Focused() }

func (e *Editor) Focus() { e.input.Focus() }
func (e *Editor) Blur()  { e.input.Blur() }

func (e *Editor) SetWidth(w int) {
	if w > 0 {
		e.input.Width = w
	}
}

// Sync binds the editor to an external edit target. The buffer is reset to
// initial whenever the target or its initial text changes.
func (e *Editor) Sync(id, initial string, editing bool) {
	mode := AddMode
	if editing {
		mode = EditMode
	} else {
		id, initial = "", ""
	}
	if mode == e.mode && id == e.id && initial == e.initial {
		return
	}
	e.mode, e.id, e.initial = mode, id, initial
	e.input.SetValue(initial)
	e.input.CursorEnd()
	if mode == EditMode {
		e.input.Placeholder = "Edit todo..."
	} else {
		e.input.Placeholder = "Add new todo..."
	}
}

// Update handles a message while the editor has focus. handled is false for
// a cancel key in add mode, which the caller treats as leaving the editor.
func (e *Editor) Update(msg tea.Msg, actions EditorActions) (cmd tea.Cmd, handled bool) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, e.keys.Confirm):
			return e.submit(actions), true
		case key.Matches(km, e.keys.Cancel):
			if e.mode != EditMode {
				return nil, false
			}
			e.input.SetValue(e.initial)
			e.input.CursorEnd()
			actions.CancelEdit()
			return nil, true
		}
	}
	e.input, cmd = e.input.Update(msg)
	return cmd, true
}

func (e *Editor) submit(actions EditorActions) tea.Cmd {
	text := strings.TrimSpace(e.input.Value())
	if text == "" {
		return nil
	}
	var cmd tea.Cmd
	if e.mode == EditMode {
		cmd = actions.SaveEdit(text)
	} else {
		cmd = actions.Add(text)
	}
	e.input.SetValue("")
	return cmd
}

func (e Editor) View() string {
	return e.input.View()
}
