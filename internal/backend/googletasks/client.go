// Package googletasks implements the service.Service interface over one
// Google Tasks list.
package googletasks

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"todo/internal/config"
	"todo/internal/logging"
	"todo/internal/service"
)

const (
	// DefaultListID is the special ID for the default list.
	DefaultListID = "@default"

	// PageSize is the number of tasks requested per API page.
	PageSize = 100

	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	statusCompleted   = "completed"
	statusNeedsAction = "needsAction"
)

// Client implements service.Service using the Google Tasks API.
type Client struct {
	svc    *tasks.Service
	listID string
	log    *slog.Logger
}

// New creates a Google Tasks client.
// Requires oauth_client.json and token.json to exist.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Client, error) {
	tokenSource, err := TokenSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(ctx, oauth2.NewClient(ctx, tokenSource), cfg.GoogleTasks.ListID, log)
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, listID string, log *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := tasks.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tasks service: %w", err)
	}
	if listID == "" {
		listID = DefaultListID
	}
	return &Client{svc: svc, listID: listID, log: logging.OrDiscard(log)}, nil
}

// ListAll returns up to limit tasks starting at offset, in API order.
// The API pages by token, so the window is applied client-side.
func (c *Client) ListAll(ctx context.Context, limit, offset int) ([]service.Task, error) {
	all, err := c.list(ctx, true)
	if err != nil {
		c.log.Error("fetching todos failed", "list", c.listID, "err", err)
		return nil, service.ErrFetch
	}
	offset = max(offset, 0)
	if offset >= len(all) {
		return []service.Task{}, nil
	}
	end := len(all)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// ListCompleted returns all completed tasks.
func (c *Client) ListCompleted(ctx context.Context) ([]service.Task, error) {
	all, err := c.list(ctx, true)
	if err != nil {
		c.log.Error("fetching completed todos failed", "list", c.listID, "err", err)
		return nil, service.ErrFetch
	}
	return filter(all, true), nil
}

// ListActive returns all tasks that still need action.
func (c *Client) ListActive(ctx context.Context) ([]service.Task, error) {
	open, err := c.list(ctx, false)
	if err != nil {
		c.log.Error("fetching active todos failed", "list", c.listID, "err", err)
		return nil, service.ErrFetch
	}
	return filter(open, false), nil
}

func (c *Client) list(ctx context.Context, showCompleted bool) ([]service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	result := []service.Task{}
	err := c.svc.Tasks.List(c.listID).
		MaxResults(PageSize).
		ShowCompleted(showCompleted).
		ShowHidden(showCompleted).
		ShowDeleted(false).
		Pages(ctx, func(resp *tasks.Tasks) error {
			for _, t := range resp.Items {
				result = append(result, fromAPI(t))
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Create inserts a new task.
func (c *Client) Create(ctx context.Context, in service.CreateTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	created, err := c.svc.Tasks.Insert(c.listID, &tasks.Task{
		Title:  in.Title,
		Status: toStatus(in.Completed.Or(false)),
	}).Context(ctx).Do()
	if err != nil {
		c.log.Error("creating todo failed", "list", c.listID, "err", err)
		return service.Task{}, service.ErrCreate
	}
	return fromAPI(created), nil
}

// Update reads the task, merges patch onto it and writes it back.
func (c *Client) Update(ctx context.Context, id string, patch service.UpdateTask) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	current, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		c.log.Error("updating todo failed", "id", id, "step", "read", "err", err)
		return service.Task{}, wrapError(err, service.ErrUpdate)
	}

	merged := patch.Apply(fromAPI(current))
	current.Title = merged.Title
	current.Status = toStatus(merged.Completed)
	if !merged.Completed {
		current.Completed = nil
	}

	updated, err := c.svc.Tasks.Update(c.listID, id, current).Context(ctx).Do()
	if err != nil {
		c.log.Error("updating todo failed", "id", id, "step", "write", "err", err)
		return service.Task{}, wrapError(err, service.ErrUpdate)
	}
	return fromAPI(updated), nil
}

// Delete removes a task and returns the record as it was before deletion.
func (c *Client) Delete(ctx context.Context, id string) (service.Task, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	current, err := c.svc.Tasks.Get(c.listID, id).Context(ctx).Do()
	if err != nil {
		c.log.Error("deleting todo failed", "id", id, "step", "read", "err", err)
		return service.Task{}, wrapError(err, service.ErrDelete)
	}
	if err := c.svc.Tasks.Delete(c.listID, id).Context(ctx).Do(); err != nil {
		c.log.Error("deleting todo failed", "id", id, "step", "delete", "err", err)
		return service.Task{}, wrapError(err, service.ErrDelete)
	}
	return fromAPI(current), nil
}

func fromAPI(t *tasks.Task) service.Task {
	return service.Task{
		ID:        t.Id,
		Title:     t.Title,
		Completed: t.Status == statusCompleted,
	}
}

func toStatus(completed bool) string {
	if completed {
		return statusCompleted
	}
	return statusNeedsAction
}

func filter(in []service.Task, completed bool) []service.Task {
	out := []service.Task{}
	for _, t := range in {
		if t.Completed == completed {
			out = append(out, t)
		}
	}
	return out
}

// wrapError maps a 404 from the API to service.ErrNotFound and anything else
// to fallback.
func wrapError(err error, fallback error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return service.ErrNotFound
	}
	return fallback
}
