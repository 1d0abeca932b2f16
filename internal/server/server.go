// Package server is a reference remote store serving the todo REST contract
// from sqlite. The client does not depend on it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"todoclient/internal/storage"
	"todoclient/internal/todo"
)

// Store is the persistence the handlers need.
type Store interface {
	List(ctx context.Context) ([]todo.Todo, error)
	Create(ctx context.Context, text string) (todo.Todo, error)
	UpdateText(ctx context.Context, id, text string) (todo.Todo, error)
	SetCompleted(ctx context.Context, id string, completed bool) (todo.Todo, error)
	Delete(ctx context.Context, id string) error
}

type server struct {
	store Store
	log   *slog.Logger
}

// NewHandler returns the router for the todo REST contract.
func NewHandler(store Store, log *slog.Logger) http.Handler {
	s := &server{store: store, log: log}

	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			log.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path("/todos").HandlerFunc(s.listTodos)
	r.Methods(http.MethodPost).Path("/todos").HandlerFunc(s.createTodo)
	r.Methods(http.MethodPut).Path("/todos/{id}").HandlerFunc(s.updateTodo)
	r.Methods(http.MethodPatch).Path("/todos/{id}/toggle").HandlerFunc(s.toggleTodo)
	r.Methods(http.MethodDelete).Path("/todos/{id}").HandlerFunc(s.deleteTodo)
	return r
}

// ListenAndServe serves handler on addr until ctx is done.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

type textBody struct {
	Text *string `json:"text"`
}

type completedBody struct {
	Completed *bool `json:"completed"`
}

func (s *server) listTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.store.List(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *server) createTodo(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	t, err := s.store.Create(r.Context(), text)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *server) updateTodo(w http.ResponseWriter, r *http.Request) {
	text, ok := readText(w, r)
	if !ok {
		return
	}
	t, err := s.store.UpdateText(r.Context(), mux.Vars(r)["id"], text)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *server) toggleTodo(w http.ResponseWriter, r *http.Request) {
	var body completedBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Completed == nil {
		writeError(w, http.StatusBadRequest, "completed is required")
		return
	}
	t, err := s.store.SetCompleted(r.Context(), mux.Vars(r)["id"], *body.Completed)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func readText(w http.ResponseWriter, r *http.Request) (string, bool) {
	var body textBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		writeError(w, http.StatusBadRequest, "text is required")
		return "", false
	}
	text, err := todo.Normalize(*body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	return text, true
}

func (s *server) fail(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error("store failure", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
