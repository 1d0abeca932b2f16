package storage

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"todoclient/internal/todo"
)

var ErrNotFound = errors.New("todo not found")

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	const ddl = `
CREATE TABLE IF NOT EXISTS todos (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	text TEXT NOT NULL,
	completed INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`
	_, err := s.db.Exec(ddl)
	return err
}

// List returns every todo, newest first.
func (s *Store) List(ctx context.Context) ([]todo.Todo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, text, completed FROM todos ORDER BY seq DESC;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	todos := []todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return todos, nil
}

func (s *Store) Get(ctx context.Context, id string) (todo.Todo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, text, completed FROM todos WHERE id = ?;`, id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return todo.Todo{}, ErrNotFound
	}
	return t, err
}

// Create stores text under a fresh id.
func (s *Store) Create(ctx context.Context, text string) (todo.Todo, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	t := todo.Todo{ID: uuid.NewString(), Text: text}
	_, err := s.db.ExecContext(ctx, `INSERT INTO todos (id, text, completed, created_at, updated_at) VALUES (?, ?, 0, ?, ?);`,
		t.ID, t.Text, now, now)
	if err != nil {
		return todo.Todo{}, err
	}
	return t, nil
}

func (s *Store) UpdateText(ctx context.Context, id, text string) (todo.Todo, error) {
	if err := s.exec(ctx, `UPDATE todos SET text = ?, updated_at = ? WHERE id = ?;`, text, nowRFC3339(), id); err != nil {
		return todo.Todo{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) SetCompleted(ctx context.Context, id string, completed bool) (todo.Todo, error) {
	val := 0
	if completed {
		val = 1
	}
	if err := s.exec(ctx, `UPDATE todos SET completed = ?, updated_at = ? WHERE id = ?;`, val, nowRFC3339(), id); err != nil {
		return todo.Todo{}, err
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	return s.exec(ctx, `DELETE FROM todos WHERE id = ?;`, id)
}

// exec runs a single-row statement and maps zero affected rows to ErrNotFound.
func (s *Store) exec(ctx context.Context, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(sc scanner) (todo.Todo, error) {
	var t todo.Todo
	var completed int
	if err := sc.Scan(&t.ID, &t.Text, &completed); err != nil {
		return todo.Todo{}, err
	}
	t.Completed = completed == 1
	return t, nil
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
