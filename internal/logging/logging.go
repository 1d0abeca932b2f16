package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const DebugEnv = "TODO_DEBUG"

// DebugEnabled returns true if debug mode is enabled via TODO_DEBUG.
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// New returns a text logger writing to w at the given level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OpenFile returns a debug logger appending to path when debug mode is
// enabled, and a discarding logger otherwise. The terminal belongs to the
// TUI, so client logs never go to stdout or stderr.
func OpenFile(path string) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	if !DebugEnabled() || strings.TrimSpace(path) == "" {
		return Discard(), noop, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, noop, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, noop, err
	}
	return New(f, slog.LevelDebug), f.Close, nil
}
