package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"todoclient/internal/todo"
)

const DefaultBaseURL = "http://localhost:3001"

// TransportError means the store could not be reached or its reply could
// not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ResponseError carries a non-success status from the store.
type ResponseError struct {
	Op         string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Op, e.StatusCode)
}

// Client issues one request per call. There is no retry.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

func New(baseURL string, hc *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("parse api url: %q is not absolute", baseURL)
	}
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: u, http: hc}, nil
}

func (c *Client) ListAll(ctx context.Context) ([]todo.Todo, error) {
	var out []todo.Todo
	if err := c.do(ctx, "list todos", http.MethodGet, nil, &out, "todos"); err != nil {
		return nil, err
	}
	if out == nil {
		out = []todo.Todo{}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, text string) (todo.Todo, error) {
	var out todo.Todo
	err := c.do(ctx, "create todo", http.MethodPost, map[string]string{"text": text}, &out, "todos")
	return out, err
}

func (c *Client) Update(ctx context.Context, id, text string) (todo.Todo, error) {
	var out todo.Todo
	err := c.do(ctx, "update todo", http.MethodPut, map[string]string{"text": text}, &out, "todos", pathSegment(id))
	return out, err
}

func (c *Client) Toggle(ctx context.Context, id string, completed bool) (todo.Todo, error) {
	var out todo.Todo
	err := c.do(ctx, "toggle todo", http.MethodPatch, map[string]bool{"completed": completed}, &out, "todos", pathSegment(id), "toggle")
	return out, err
}

func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, "delete todo", http.MethodDelete, nil, nil, "todos", pathSegment(id))
}

// pathSegment escapes an opaque id so it stays a single path element.
func pathSegment(id string) string {
	if id == "." || id == ".." {
		return strings.Repeat("%2E", len(id))
	}
	return url.PathEscape(id)
}

// do expects elem to be already escaped.
func (c *Client) do(ctx context.Context, op, method string, body, out any, elem ...string) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", op, err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(elem...).String(), rd)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &ResponseError{Op: op, StatusCode: resp.StatusCode}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
