package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"todoclient/internal/controller"
	"todoclient/internal/todo"
)

type notFoundError struct {
	id string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("todo not found: %s", e.id)
}

// session drives a controller outside the bubbletea loop: every command is
// resolved and applied before the next transition starts.
type session struct {
	ctrl *controller.Controller
}

func (app *App) openSession(cmd *cobra.Command) (*session, error) {
	cfg, err := app.loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	s := &session{ctrl: controller.New(cmd.Context(), client, stderrLogger(cmd))}
	if err := s.run(s.ctrl.Initialize()); err != nil {
		return nil, fmt.Errorf("load todos: %w", err)
	}
	return s, nil
}

func (s *session) run(c tea.Cmd) error {
	if c == nil {
		return nil
	}
	s.ctrl.Apply(c())
	return s.ctrl.Err()
}

func (s *session) find(id string) (todo.Todo, error) {
	todos := s.ctrl.Todos()
	i := todo.IndexOf(todos, id)
	if i < 0 {
		return todo.Todo{}, notFoundError{id: id}
	}
	return todos[i], nil
}

func writeTodos(w io.Writer, todos []todo.Todo) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "no todos")
		return
	}
	for _, t := range todos {
		mark := " "
		if t.Completed {
			mark = "x"
		}
		fmt.Fprintf(w, "%s  [%s] %s\n", t.ID, mark, t.Text)
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print all todos, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			writeTodos(cmd.OutOrStdout(), s.ctrl.Todos())
			return nil
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Create a todo",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := todo.Normalize(strings.Join(args, " "))
			if err != nil {
				return err
			}
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			if err := s.run(s.ctrl.Add(text)); err != nil {
				return err
			}
			writeTodos(cmd.OutOrStdout(), s.ctrl.Todos())
			return nil
		},
	}
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id> <text...>",
		Short: "Replace the text of a todo",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := todo.Normalize(strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			t, err := s.find(args[0])
			if err != nil {
				return err
			}
			s.ctrl.BeginEdit(t.ID, t.Text)
			if err := s.run(s.ctrl.SaveEdit(text)); err != nil {
				return err
			}
			writeTodos(cmd.OutOrStdout(), s.ctrl.Todos())
			return nil
		},
	}
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip the completed state of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			t, err := s.find(args[0])
			if err != nil {
				return err
			}
			if err := s.run(s.ctrl.Toggle(t.ID, !t.Completed)); err != nil {
				return err
			}
			writeTodos(cmd.OutOrStdout(), s.ctrl.Todos())
			return nil
		},
	}
}

func newRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.openSession(cmd)
			if err != nil {
				return err
			}
			if err := s.run(s.ctrl.Delete(args[0])); err != nil {
				return err
			}
			writeTodos(cmd.OutOrStdout(), s.ctrl.Todos())
			return nil
		},
	}
}
