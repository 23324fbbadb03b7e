package api

import (
	"context"
	"net/http"
)

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (AuthResponse, error) {
	var resp AuthResponse
	err := c.Do(ctx, http.MethodPost, "/auth/login", req, &resp)
	return resp, err
}

// Register creates an account and returns an authenticated session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	var resp AuthResponse
	err := c.Do(ctx, http.MethodPost, "/auth/register", req, &resp)
	return resp, err
}

// Profile fetches the authenticated user's profile.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var u User
	err := c.Do(ctx, http.MethodGet, "/auth/profile", nil, &u)
	return u, err
}

// ListTasks fetches the authenticated user's full task list.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	var ts []Task
	err := c.Do(ctx, http.MethodGet, "/tasks", nil, &ts)
	return ts, err
}

// GetTask fetches a single task by id.
func (c *Client) GetTask(ctx context.Context, id string) (Task, error) {
	var t Task
	err := c.Do(ctx, http.MethodGet, taskPath(id), nil, &t)
	return t, err
}

// CreateTask creates a task; the server assigns id, owner and timestamps.
func (c *Client) CreateTask(ctx context.Context, req CreateTaskRequest) (Task, error) {
	var t Task
	err := c.Do(ctx, http.MethodPost, "/tasks", req, &t)
	return t, err
}

// UpdateTask patches a task and returns the server's updated copy.
func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (Task, error) {
	var t Task
	err := c.Do(ctx, http.MethodPatch, taskPath(id), patch, &t)
	return t, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.Do(ctx, http.MethodDelete, taskPath(id), nil, nil)
}
