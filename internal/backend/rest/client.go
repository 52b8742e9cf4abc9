// Package rest implements the service.Service interface over the /todo HTTP API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/service"
)

// DefaultTimeout bounds each API call when the config leaves it unset.
const DefaultTimeout = 5 * time.Second

// Client implements service.Service against the /todo REST API.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     *slog.Logger
}

// New creates a client for cfg.Remote. A configured token is sent as a
// bearer token on every request.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) *Client {
	httpClient := &http.Client{}
	if cfg.Remote.Token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: cfg.Remote.Token,
			TokenType:   "Bearer",
		}))
	}
	c := NewWithHTTPClient(cfg.Remote.BaseURL(), httpClient, log)
	if cfg.Remote.Timeout > 0 {
		c.timeout = cfg.Remote.Timeout
	}
	return c
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
// baseURL is the collection root, e.g. http://localhost:3000/todo.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		timeout: DefaultTimeout,
		log:     logging.OrDiscard(log),
	}
}

// ListAll fetches up to limit tasks starting at offset.
func (c *Client) ListAll(ctx context.Context, limit, offset int) ([]service.Task, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))

	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/all", query, nil, &tasks); err != nil {
		c.log.Error("fetching todos failed", "err", err)
		return nil, service.ErrFetch
	}
	return tasks, nil
}

// ListCompleted fetches all completed tasks.
func (c *Client) ListCompleted(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/completed", nil, nil, &tasks); err != nil {
		c.log.Error("fetching completed todos failed", "err", err)
		return nil, service.ErrFetch
	}
	return tasks, nil
}

// ListActive fetches all active tasks.
func (c *Client) ListActive(ctx context.Context) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, http.MethodGet, "/active", nil, nil, &tasks); err != nil {
		c.log.Error("fetching active todos failed", "err", err)
		return nil, service.ErrFetch
	}
	return tasks, nil
}

// Create submits a new task.
func (c *Client) Create(ctx context.Context, in service.CreateTask) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodPost, "/create", nil, in, &task); err != nil {
		c.log.Error("creating todo failed", "err", err)
		return service.Task{}, service.ErrCreate
	}
	return task, nil
}

// mergedTask is the full record submitted by Update.
type mergedTask struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Update reads the current task, merges patch onto it and submits the result.
func (c *Client) Update(ctx context.Context, id string, patch service.UpdateTask) (service.Task, error) {
	var current service.Task
	if err := c.do(ctx, http.MethodGet, "/"+url.PathEscape(id), nil, nil, &current); err != nil {
		c.log.Error("updating todo failed", "id", id, "step", "read", "err", err)
		return service.Task{}, classify(err, service.ErrUpdate)
	}

	merged := patch.Apply(current)
	body := mergedTask{Title: merged.Title, Completed: merged.Completed}

	var task service.Task
	if err := c.do(ctx, http.MethodPut, "/update/"+url.PathEscape(id), nil, body, &task); err != nil {
		c.log.Error("updating todo failed", "id", id, "step", "write", "err", err)
		return service.Task{}, classify(err, service.ErrUpdate)
	}
	return task, nil
}

// Delete removes a task and returns the deleted record.
func (c *Client) Delete(ctx context.Context, id string) (service.Task, error) {
	var task service.Task
	if err := c.do(ctx, http.MethodDelete, "/delete/"+url.PathEscape(id), nil, nil, &task); err != nil {
		c.log.Error("deleting todo failed", "id", id, "err", err)
		return service.Task{}, classify(err, service.ErrDelete)
	}
	return task, nil
}

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// classify maps a 404 to service.ErrNotFound and everything else to fallback.
func classify(err error, fallback error) error {
	var se *StatusError
	if errors.As(err, &se) && se.Code == http.StatusNotFound {
		return service.ErrNotFound
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("request", "method", method, "url", u)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{
			Method: method,
			Path:   path,
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
