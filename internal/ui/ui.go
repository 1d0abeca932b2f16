package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"todoclient/internal/config"
	"todoclient/internal/controller"
	"todoclient/internal/todo"
)

type focus int

const (
	focusList focus = iota
	focusEditor
)

type Model struct {
	ctrl   *controller.Controller
	keys   KeyMap
	editor Editor
	list   Presenter
	cursor int
	focus  focus
	width  int
}

func New(ctrl *controller.Controller, keymap config.Keymap) Model {
	keys := NewKeyMap(keymap)
	return Model{
		ctrl:   ctrl,
		keys:   keys,
		editor: NewEditor(keys),
		list:   NewPresenter(keys),
		focus:  focusList,
	}
}

func Run(ctrl *controller.Controller, keymap config.Keymap) error {
	program := tea.NewProgram(New(ctrl, keymap))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return m.ctrl.Initialize()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.apply(msg) {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.editor.SetWidth(msg.Width - 10)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			return m, tea.Quit
		}
		if m.ctrl.State().Loading {
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			return m, nil
		}
		var cmd tea.Cmd
		if m.focus == focusEditor {
			cmd = m.updateEditor(msg)
		} else {
			m, cmd = m.updateList(msg)
		}
		m.sync()
		return m, cmd
	}

	if m.focus == focusEditor {
		cmd, _ := m.editor.Update(msg, m.ctrl)
		return m, cmd
	}
	return m, nil
}

// apply hands controller results to the controller and keeps the cursor on
// the row it was on.
func (m *Model) apply(msg tea.Msg) bool {
	todos := m.ctrl.Todos()
	current := ""
	if m.cursor < len(todos) {
		current = todos[m.cursor].ID
	}
	if !m.ctrl.Apply(msg) {
		return false
	}
	if current != "" {
		if i := todo.IndexOf(m.ctrl.Todos(), current); i >= 0 {
			m.cursor = i
		}
	}
	m.sync()
	return true
}

func (m *Model) updateEditor(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Focus) {
		// the draft and any edit selector are kept
		m.editor.Blur()
		m.focus = focusList
		return nil
	}
	wasAdd := m.editor.Mode() == AddMode
	cmd, handled := m.editor.Update(msg, m.ctrl)
	if !handled {
		// cancel in add mode leaves the editor
		m.editor.Blur()
		m.focus = focusList
		return nil
	}
	if wasAdd && key.Matches(msg, m.keys.Confirm) && cmd != nil {
		m.editor.Blur()
		m.focus = focusList
	}
	return cmd
}

func (m Model) updateList(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Add), key.Matches(msg, m.keys.Focus):
		m.ctrl.DismissNotice()
		m.editor.Focus()
		m.focus = focusEditor
		return m, nil
	case key.Matches(msg, m.keys.Cancel):
		m.ctrl.DismissNotice()
		if _, editing := m.ctrl.Editing(); editing {
			m.ctrl.CancelEdit()
		}
		return m, nil
	}
	cursor, cmd, _ := m.list.HandleKey(msg, m.ctrl.Todos(), m.cursor, m.ctrl)
	m.cursor = cursor
	if _, editing := m.ctrl.Editing(); editing && key.Matches(msg, m.keys.Edit) {
		m.editor.Focus()
		m.focus = focusEditor
	}
	return m, cmd
}

// sync pulls the edit selector into the editor and keeps focus and cursor
// consistent with the collection.
func (m *Model) sync() {
	st := m.ctrl.State()
	m.cursor = clampCursor(m.cursor, len(st.Todos))

	prev, prevID := m.editor.Mode(), m.editor.id
	if st.Edit != nil {
		m.editor.Sync(st.Edit.ID, st.Edit.Buffer, true)
	} else {
		m.editor.Sync("", "", false)
	}
	switch {
	case m.editor.Mode() == EditMode && (prev == AddMode || prevID != m.editor.id):
		m.editor.Focus()
		m.focus = focusEditor
	case prev == EditMode && m.editor.Mode() == AddMode:
		m.editor.Blur()
		m.focus = focusList
	}
}

func (m Model) View() string {
	st := m.ctrl.State()

	var b strings.Builder
	if st.Loading {
		b.WriteString("Loading...")
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.list.Header(st.Todos))
	b.WriteString("\n\n")

	editingID := ""
	if st.Edit != nil {
		editingID = st.Edit.ID
	}
	b.WriteString(m.list.View(st.Todos, m.cursor, editingID, m.focus == focusList, m.width))
	b.WriteString("\n\n")

	b.WriteString(m.editor.View())
	if n := len([]rune(strings.TrimSpace(m.editor.Value()))); n > todo.MaxTextLength {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d/%d characters", n, todo.MaxTextLength)))
	}
	b.WriteString("\n\n")

	if st.Notice != "" {
		b.WriteString(errorStyle.Render(st.Notice))
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) help() string {
	switch {
	case m.focus == focusEditor && m.editor.Mode() == EditMode:
		return renderHelp(m.keys.Confirm, m.keys.Cancel, m.keys.Focus)
	case m.focus == focusEditor:
		add := m.keys.Confirm
		add.SetHelp(add.Help().Key, "add")
		back := m.keys.Cancel
		back.SetHelp(back.Help().Key, "back")
		return renderHelp(add, back)
	case m.editor.Mode() == EditMode:
		return renderHelp(m.keys.Up, m.keys.Down, m.keys.Toggle, m.keys.Delete, m.keys.Focus, m.keys.Cancel, m.keys.Quit)
	default:
		return renderHelp(m.keys.Up, m.keys.Down, m.keys.Add, m.keys.Edit, m.keys.Toggle, m.keys.Delete, m.keys.Quit)
	}
}
