package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"todoclient/internal/todo"
)

const emptyMessage = "You have no todos. Enjoy your day!"

// ListActions are the transitions a list row may invoke.
type ListActions interface {
	BeginEdit(id, text string)
	Toggle(id string, completed bool) tea.Cmd
	Delete(id string) tea.Cmd
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	accentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Presenter renders the collection and forwards row actions. It keeps no
// state of its own.
type Presenter struct {
	keys KeyMap
}

func NewPresenter(keys KeyMap) Presenter {
	return Presenter{keys: keys}
}

// HandleKey applies a list key to the row under cursor and returns the new
// cursor position.
func (p Presenter) HandleKey(msg tea.KeyMsg, todos []todo.Todo, cursor int, actions ListActions) (int, tea.Cmd, bool) {
	cursor = clampCursor(cursor, len(todos))
	switch {
	case key.Matches(msg, p.keys.Down):
		return clampCursor(cursor+1, len(todos)), nil, true
	case key.Matches(msg, p.keys.Up):
		return clampCursor(cursor-1, len(todos)), nil, true
	}
	if len(todos) == 0 {
		return cursor, nil, false
	}
	t := todos[cursor]
	switch {
	case key.Matches(msg, p.keys.Toggle):
		return cursor, actions.Toggle(t.ID, !t.Completed), true
	case key.Matches(msg, p.keys.Edit):
		actions.BeginEdit(t.ID, t.Text)
		return cursor, nil, true
	case key.Matches(msg, p.keys.Delete):
		return cursor, actions.Delete(t.ID), true
	}
	return cursor, nil, false
}

func (p Presenter) Header(todos []todo.Todo) string {
	done, pending := todo.Counts(todos)
	return fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), len(todos),
	)
}

// View renders one row per todo. width <= 0 disables truncation.
func (p Presenter) View(todos []todo.Todo, cursor int, editingID string, showCursor bool, width int) string {
	if len(todos) == 0 {
		return mutedStyle.Render(emptyMessage)
	}
	cursor = clampCursor(cursor, len(todos))

	var b strings.Builder
	for i, t := range todos {
		prefix := "  "
		if showCursor && i == cursor {
			prefix = selectedStyle.Render("> ")
		}

		box := mutedStyle.Render("[ ]")
		text := t.Text
		if t.Completed {
			box = successStyle.Render("[x]")
			text = doneStyle.Render(text)
		}
		if t.ID == editingID {
			text += mutedStyle.Render("  (editing)")
		}

		line := prefix + box + " " + text
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
		}
		b.WriteString(line)
		if i < len(todos)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
