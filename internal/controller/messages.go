package controller

import "todoclient/internal/todo"

// LoadedMsg carries the result of the initial list request.
type LoadedMsg struct {
	Todos []todo.Todo
	Err   error
}

type CreatedMsg struct {
	Todo todo.Todo
	Err  error
}

type UpdatedMsg struct {
	ID   string
	Todo todo.Todo
	Err  error
}

type ToggledMsg struct {
	ID   string
	Todo todo.Todo
	Err  error
}

type RemovedMsg struct {
	ID  string
	Err error
}
