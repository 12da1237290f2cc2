// Package client talks to the taskboard REST backend. Client satisfies the
// board's repository contract.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"taskboard/internal/models"
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method  string
	Path    string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

// Client is an HTTP client for the /tasks and /persons resources.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client rooted at baseURL (for example
// "http://localhost:3000/api").
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// List returns every task in fetch order.
func (c *Client) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Get returns one task.
func (c *Client) Get(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &task)
	return task, err
}

// Create stores a new task and returns the server's copy.
func (c *Client) Create(ctx context.Context, task models.Task) (models.Task, error) {
	var created models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", task, &created)
	return created, err
}

// Update sends a partial update and returns the server-confirmed task.
func (c *Client) Update(ctx context.Context, id string, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), patch, &updated)
	return updated, err
}

// Delete removes a task.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

// ListPersons returns every person.
func (c *Client) ListPersons(ctx context.Context) ([]models.Person, error) {
	var persons []models.Person
	if err := c.do(ctx, http.MethodGet, "/persons", nil, &persons); err != nil {
		return nil, err
	}
	return persons, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &payload) != nil {
			payload.Error = strings.TrimSpace(string(raw))
		}
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Message: payload.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
