// Package controller owns the todo collection and the edit selector. Every
// mutation goes through the remote store and is applied only once the store
// confirms it.
//
// Remote-backed transitions return a tea.Cmd. The command performs the request
// off the update loop and yields a result message; Apply reconciles that
// message on the update loop. Results are therefore applied in the order they
// resolve. There is no coalescing, deduplication or cancellation of in-flight
// commands.
package controller

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"todoclient/internal/todo"
)

// Remote is the subset of the store client the controller drives.
type Remote interface {
	ListAll(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, text string) (todo.Todo, error)
	Update(ctx context.Context, id, text string) (todo.Todo, error)
	Toggle(ctx context.Context, id string, completed bool) (todo.Todo, error)
	Remove(ctx context.Context, id string) error
}

type Phase int

const (
	PhaseLoading Phase = iota
	PhaseReady
	PhaseEditing
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseEditing:
		return "editing"
	default:
		return "unknown"
	}
}

// EditSelector names the single todo being edited. Buffer is the text the
// edit started from; it is independent of the stored text until a save is
// confirmed.
type EditSelector struct {
	ID     string
	Buffer string
}

type State struct {
	Loading bool
	Todos   []todo.Todo
	// Edit is nil when nothing is being edited.
	Edit *EditSelector
	// Notice is the last mutation failure shown to the user.
	Notice string
}

func (s State) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Edit != nil:
		return PhaseEditing
	default:
		return PhaseReady
	}
}

type Controller struct {
	ctx    context.Context
	remote Remote
	log    *slog.Logger
	state  State
	err    error
}

func New(ctx context.Context, remote Remote, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Controller{
		ctx:    ctx,
		remote: remote,
		log:    log,
		state:  State{Todos: []todo.Todo{}},
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	s := c.state
	s.Todos = append(make([]todo.Todo, 0, len(c.state.Todos)), c.state.Todos...)
	if c.state.Edit != nil {
		e := *c.state.Edit
		s.Edit = &e
	}
	return s
}

func (c *Controller) Todos() []todo.Todo { return c.State().Todos }

// Editing returns the edit selector, or false when nothing is being edited.
func (c *Controller) Editing() (EditSelector, bool) {
	if c.state.Edit == nil {
		return EditSelector{}, false
	}
	return *c.state.Edit, true
}

// Err returns the failure from the most recently applied result, if any.
func (c *Controller) Err() error { return c.err }

func (c *Controller) DismissNotice() { c.state.Notice = "" }

// Initialize starts the one-time load of the collection.
func (c *Controller) Initialize() tea.Cmd {
	c.state.Loading = true
	return func() tea.Msg {
		todos, err := c.remote.ListAll(c.ctx)
		return LoadedMsg{Todos: todos, Err: err}
	}
}

// Add creates a todo. Empty text is rejected without a request.
func (c *Controller) Add(text string) tea.Cmd {
	text, err := todo.Normalize(text)
	if err != nil {
		return nil
	}
	return func() tea.Msg {
		t, err := c.remote.Create(c.ctx, text)
		return CreatedMsg{Todo: t, Err: err}
	}
}

// BeginEdit selects id for editing with text as the working buffer. Unknown
// ids are ignored.
func (c *Controller) BeginEdit(id, text string) {
	if todo.IndexOf(c.state.Todos, id) < 0 {
		return
	}
	c.state.Edit = &EditSelector{ID: id, Buffer: text}
}

// SaveEdit sends the new text for the todo being edited. It is a no-op when
// nothing is being edited or the trimmed text is empty.
func (c *Controller) SaveEdit(text string) tea.Cmd {
	if c.state.Edit == nil {
		return nil
	}
	text, err := todo.Normalize(text)
	if err != nil {
		return nil
	}
	id := c.state.Edit.ID
	return func() tea.Msg {
		t, err := c.remote.Update(c.ctx, id, text)
		return UpdatedMsg{ID: id, Todo: t, Err: err}
	}
}

func (c *Controller) CancelEdit() {
	c.state.Edit = nil
}

// Toggle asks the store to set completed on id. The stored value comes from
// the response, never from the requested value.
func (c *Controller) Toggle(id string, completed bool) tea.Cmd {
	return func() tea.Msg {
		t, err := c.remote.Toggle(c.ctx, id, completed)
		return ToggledMsg{ID: id, Todo: t, Err: err}
	}
}

func (c *Controller) Delete(id string) tea.Cmd {
	return func() tea.Msg {
		err := c.remote.Remove(c.ctx, id)
		return RemovedMsg{ID: id, Err: err}
	}
}

// Apply reconciles a result message into the state. It reports whether msg
// was one of the controller's result messages.
func (c *Controller) Apply(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case LoadedMsg:
		c.state.Loading = false
		c.err = msg.Err
		if msg.Err != nil {
			c.log.Warn("initial load failed", "err", msg.Err)
			c.state.Todos = []todo.Todo{}
			return true
		}
		c.state.Todos = dedupe(msg.Todos)
		c.log.Debug("loaded todos", "count", len(c.state.Todos))
	case CreatedMsg:
		if c.failed("create", msg.Err) {
			return true
		}
		rest := c.state.Todos
		if i := todo.IndexOf(rest, msg.Todo.ID); i >= 0 {
			rest = remove(rest, i)
		}
		c.state.Todos = append([]todo.Todo{msg.Todo}, rest...)
	case UpdatedMsg:
		if c.failed("update", msg.Err) {
			return true
		}
		c.replace(msg.ID, msg.Todo)
		if c.state.Edit != nil && c.state.Edit.ID == msg.ID {
			c.state.Edit = nil
		}
	case ToggledMsg:
		if c.failed("toggle", msg.Err) {
			return true
		}
		c.replace(msg.ID, msg.Todo)
	case RemovedMsg:
		if c.failed("delete", msg.Err) {
			return true
		}
		if i := todo.IndexOf(c.state.Todos, msg.ID); i >= 0 {
			c.state.Todos = remove(c.state.Todos, i)
		}
		if c.state.Edit != nil && c.state.Edit.ID == msg.ID {
			c.state.Edit = nil
		}
	default:
		return false
	}
	return true
}

func (c *Controller) failed(op string, err error) bool {
	c.err = err
	if err == nil {
		c.state.Notice = ""
		return false
	}
	c.log.Warn("mutation failed", "op", op, "err", err)
	c.state.Notice = fmt.Sprintf("%s failed: %v", op, err)
	return true
}

// replace swaps the entry for id with t, keeping its position. A todo that
// is no longer in the collection is not re-added.
func (c *Controller) replace(id string, t todo.Todo) {
	i := todo.IndexOf(c.state.Todos, id)
	if i < 0 {
		return
	}
	next := append([]todo.Todo(nil), c.state.Todos...)
	next[i] = t
	if t.ID != id {
		next = dedupe(next)
	}
	c.state.Todos = next
}

func remove(todos []todo.Todo, i int) []todo.Todo {
	out := make([]todo.Todo, 0, len(todos)-1)
	out = append(out, todos[:i]...)
	return append(out, todos[i+1:]...)
}

func dedupe(todos []todo.Todo) []todo.Todo {
	seen := make(map[string]struct{}, len(todos))
	out := make([]todo.Todo, 0, len(todos))
	for _, t := range todos {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
