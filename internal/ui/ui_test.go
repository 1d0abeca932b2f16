package ui

import (
	"context"
	"errors"
	"strconv"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoclient/internal/config"
	"todoclient/internal/controller"
	"todoclient/internal/todo"
)

// memRemote is an in-memory store that assigns sequential ids.
type memRemote struct {
	todos   []todo.Todo
	next    int
	failAll error
}

func (r *memRemote) ListAll(context.Context) ([]todo.Todo, error) {
	if r.failAll != nil {
		return nil, r.failAll
	}
	return append([]todo.Todo(nil), r.todos...), nil
}

func (r *memRemote) Create(_ context.Context, text string) (todo.Todo, error) {
	if r.failAll != nil {
		return todo.Todo{}, r.failAll
	}
	r.next++
	t := todo.Todo{ID: strconv.Itoa(r.next), Text: text}
	r.todos = append([]todo.Todo{t}, r.todos...)
	return t, nil
}

func (r *memRemote) Update(_ context.Context, id, text string) (todo.Todo, error) {
	return r.mutate(id, func(t *todo.Todo) { t.Text = text })
}

func (r *memRemote) Toggle(_ context.Context, id string, completed bool) (todo.Todo, error) {
	return r.mutate(id, func(t *todo.Todo) { t.Completed = completed })
}

func (r *memRemote) Remove(_ context.Context, id string) error {
	if r.failAll != nil {
		return r.failAll
	}
	i := todo.IndexOf(r.todos, id)
	if i < 0 {
		return errors.New("not found")
	}
	r.todos = append(r.todos[:i], r.todos[i+1:]...)
	return nil
}

func (r *memRemote) mutate(id string, fn func(*todo.Todo)) (todo.Todo, error) {
	if r.failAll != nil {
		return todo.Todo{}, r.failAll
	}
	i := todo.IndexOf(r.todos, id)
	if i < 0 {
		return todo.Todo{}, errors.New("not found")
	}
	fn(&r.todos[i])
	return r.todos[i], nil
}

type harness struct {
	t      *testing.T
	model  Model
	ctrl   *controller.Controller
	remote *memRemote
}

func newHarness(t *testing.T, remote *memRemote) *harness {
	t.Helper()
	ctrl := controller.New(context.Background(), remote, nil)
	h := &harness{t: t, model: New(ctrl, config.Default().Keys), ctrl: ctrl, remote: remote}
	h.resolve(h.model.Init())
	return h
}

// send delivers msg and resolves any controller command it returns.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.resolve(cmd)
}

// typeText delivers keystrokes without running the returned command, which
// may be a cursor blink timer.
func (h *harness) typeText(s string) {
	h.t.Helper()
	next, _ := h.model.Update(runes(s))
	h.model = next.(Model)
}

func (h *harness) resolve(cmd tea.Cmd) {
	h.t.Helper()
	if cmd == nil {
		return
	}
	next, _ := h.model.Update(cmd())
	h.model = next.(Model)
}

func (h *harness) view() string { return ansi.Strip(h.model.View()) }

func TestModel_LoadingThenEmpty(t *testing.T) {
	ctrl := controller.New(context.Background(), &memRemote{}, nil)
	m := New(ctrl, config.Default().Keys)

	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Contains(t, ansi.Strip(m.View()), "Loading...")

	next, _ := m.Update(cmd())
	assert.Contains(t, ansi.Strip(next.(Model).View()), "You have no todos. Enjoy your day!")
}

func TestModel_LoadFailureShowsEmptyListWithoutNotice(t *testing.T) {
	h := newHarness(t, &memRemote{failAll: errors.New("connection refused")})

	out := h.view()
	assert.Contains(t, out, "You have no todos")
	assert.NotContains(t, out, "failed")
	assert.Equal(t, controller.PhaseReady, h.ctrl.State().Phase())
}

func TestModel_AddFlow(t *testing.T) {
	h := newHarness(t, &memRemote{})

	h.send(runes("a"))
	assert.Equal(t, focusEditor, h.model.focus)

	h.typeText("Buy milk")
	h.send(enterKey)

	assert.Equal(t, []todo.Todo{{ID: "1", Text: "Buy milk"}}, h.ctrl.Todos())
	assert.Equal(t, focusList, h.model.focus)
	assert.Contains(t, h.view(), "[ ] Buy milk")
}

func TestModel_AddEscapeReturnsToList(t *testing.T) {
	h := newHarness(t, &memRemote{})

	h.send(runes("a"))
	h.send(escKey)

	assert.Equal(t, focusList, h.model.focus)
	assert.Empty(t, h.ctrl.Todos())
}

func TestModel_EditThenCancel(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}}})

	h.send(runes("e"))
	sel, ok := h.ctrl.Editing()
	require.True(t, ok)
	assert.Equal(t, controller.EditSelector{ID: "1", Buffer: "Buy milk"}, sel)
	assert.Equal(t, EditMode, h.model.editor.Mode())
	assert.Equal(t, "Buy milk", h.model.editor.Value())
	assert.Equal(t, focusEditor, h.model.focus)

	h.typeText(" and bread")
	h.send(escKey)

	_, ok = h.ctrl.Editing()
	assert.False(t, ok)
	assert.Equal(t, []todo.Todo{{ID: "1", Text: "Buy milk"}}, h.ctrl.Todos())
	assert.Equal(t, AddMode, h.model.editor.Mode())
	assert.Equal(t, focusList, h.model.focus)
}

func TestModel_EditSave(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}}})

	h.send(runes("e"))
	h.typeText(" (oat)")
	h.send(enterKey)

	assert.Equal(t, "Buy milk (oat)", h.ctrl.Todos()[0].Text)
	_, ok := h.ctrl.Editing()
	assert.False(t, ok)
	assert.Equal(t, focusList, h.model.focus)
}

func TestModel_ToggleAndDelete(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}, {ID: "2", Text: "Walk dog"}}})

	h.send(downKey)
	h.send(spaceKey)
	assert.True(t, h.ctrl.Todos()[1].Completed)
	assert.Contains(t, h.view(), "[x] Walk dog")

	h.send(runes("d"))
	assert.Equal(t, []todo.Todo{{ID: "1", Text: "Buy milk"}}, h.ctrl.Todos())
	assert.Equal(t, 0, h.model.cursor)
}

func TestModel_DeleteEditedRowFromList(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}, {ID: "2", Text: "Walk dog"}}})

	h.send(runes("e"))
	h.send(tabKey)
	_, ok := h.ctrl.Editing()
	require.True(t, ok)
	assert.Equal(t, focusList, h.model.focus)

	h.send(runes("d"))

	_, ok = h.ctrl.Editing()
	assert.False(t, ok)
	assert.Equal(t, []todo.Todo{{ID: "2", Text: "Walk dog"}}, h.ctrl.Todos())
	assert.Equal(t, AddMode, h.model.editor.Mode())
	assert.Empty(t, h.model.editor.Value())
	assert.Equal(t, focusList, h.model.focus)
}

func TestModel_ToggleWhileEditingKeepsDraft(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}}})

	h.send(runes("e"))
	h.typeText(" and bread")
	h.send(tabKey)
	h.send(spaceKey)

	assert.True(t, h.ctrl.Todos()[0].Completed)
	assert.Equal(t, controller.PhaseEditing, h.ctrl.State().Phase())
	assert.Contains(t, h.view(), "[x] Buy milk  (editing)")

	h.send(tabKey)
	assert.Equal(t, focusEditor, h.model.focus)
	assert.Equal(t, "Buy milk and bread", h.model.editor.Value())

	h.send(enterKey)
	assert.Equal(t, []todo.Todo{{ID: "1", Text: "Buy milk and bread", Completed: true}}, h.ctrl.Todos())
	assert.Equal(t, controller.PhaseReady, h.ctrl.State().Phase())
}

func TestModel_CancelEditFromList(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}}})

	h.send(runes("e"))
	h.send(tabKey)
	h.send(escKey)

	_, ok := h.ctrl.Editing()
	assert.False(t, ok)
	assert.Equal(t, AddMode, h.model.editor.Mode())
	assert.Equal(t, focusList, h.model.focus)
}

func TestModel_CursorFollowsRowWhenTodoIsPrepended(t *testing.T) {
	h := newHarness(t, &memRemote{todos: []todo.Todo{{ID: "a", Text: "Buy milk"}, {ID: "b", Text: "Walk dog"}}})

	h.send(downKey)
	require.Equal(t, 1, h.model.cursor)

	h.send(runes("a"))
	h.typeText("Call mom")
	h.send(enterKey)

	require.Len(t, h.ctrl.Todos(), 3)
	assert.Equal(t, "Call mom", h.ctrl.Todos()[0].Text)
	assert.Equal(t, 2, h.model.cursor)
	assert.Contains(t, h.view(), "> [ ] Walk dog")
}

func TestModel_MutationFailureShowsNotice(t *testing.T) {
	remote := &memRemote{todos: []todo.Todo{{ID: "1", Text: "Buy milk"}}}
	h := newHarness(t, remote)

	remote.failAll = errors.New("store unavailable")
	h.send(runes("d"))

	assert.Len(t, h.ctrl.Todos(), 1)
	assert.Contains(t, h.view(), "delete failed: store unavailable")

	h.send(escKey)
	assert.NotContains(t, h.view(), "delete failed")
}

func TestModel_TypingQInEditorDoesNotQuit(t *testing.T) {
	h := newHarness(t, &memRemote{})

	h.send(runes("a"))
	h.typeText("q")

	assert.Equal(t, "q", h.model.editor.Value())
	assert.Equal(t, focusEditor, h.model.focus)
}

func TestModel_QuitFromList(t *testing.T) {
	h := newHarness(t, &memRemote{})

	_, cmd := h.model.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
