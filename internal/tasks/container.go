package tasks

import (
	"context"
	"sync"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/events"
)

const (
	msgTaskCreated = "Task created successfully"
	msgTaskUpdated = "Task updated successfully"
	msgTaskDeleted = "Task deleted successfully"
)

// Container mediates every task mutation through the API transport and keeps
// the local state consistent. All mutating operations except Toggle are
// confirm-then-mutate; Toggle applies optimistically and reverts on failure.
type Container struct {
	mu     sync.Mutex
	client *api.Client
	bus    *events.Bus
	state  State
}

// NewContainer creates a container with an empty list and the all filter.
func NewContainer(client *api.Client, bus *events.Bus) *Container {
	return &Container{
		client: client,
		bus:    bus,
		state:  State{Filter: FilterAll},
	}
}

// State returns a snapshot of the container state. The Tasks slice is shared
// but never mutated in place by the reducer, so callers may range over it.
func (c *Container) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Visible returns the derived view of the snapshot: filtered by the current
// filter and ordered pending-first, newest-created-first within each group.
// Recomputed on every call, never cached.
func (c *Container) Visible() []api.Task {
	s := c.State()
	return VisibleTasks(s.Tasks, s.Filter)
}

// FetchAll replaces the local collection with the server's current list.
// Used once per session, never polled.
func (c *Container) FetchAll(ctx context.Context) error {
	c.dispatch(actionStart{})
	list, err := c.client.ListTasks(ctx)
	if err != nil {
		c.dispatch(actionFailed{msg: api.Message(err)})
		return err
	}
	c.dispatch(actionLoaded{tasks: list})
	return nil
}

// Create sends a create request and appends the server-returned task. Local
// state is untouched on failure.
func (c *Container) Create(ctx context.Context, title, description string) error {
	if err := ValidateTitle(title); err != nil {
		return err
	}
	if err := ValidateDescription(description); err != nil {
		return err
	}
	c.dispatch(actionStart{})
	task, err := c.client.CreateTask(ctx, api.CreateTaskRequest{Title: title, Description: description})
	if err != nil {
		c.dispatch(actionFailed{msg: api.Message(err)})
		return err
	}
	c.dispatch(actionCreated{task: task})
	c.bus.Notify(events.SourceTasks, events.LevelSuccess, msgTaskCreated)
	return nil
}

// Update patches a task and replaces the local copy with the server's
// response. Last writer wins when responses race.
func (c *Container) Update(ctx context.Context, id string, patch api.TaskPatch) error {
	if patch.Title != nil {
		if err := ValidateTitle(*patch.Title); err != nil {
			return err
		}
	}
	if patch.Description != nil {
		if err := ValidateDescription(*patch.Description); err != nil {
			return err
		}
	}
	c.dispatch(actionStart{})
	task, err := c.client.UpdateTask(ctx, id, patch)
	if err != nil {
		c.dispatch(actionFailed{msg: api.Message(err)})
		return err
	}
	c.dispatch(actionUpdated{task: task})
	c.bus.Notify(events.SourceTasks, events.LevelSuccess, msgTaskUpdated)
	return nil
}

// Delete removes a task locally only after the server confirms.
func (c *Container) Delete(ctx context.Context, id string) error {
	c.dispatch(actionStart{})
	if err := c.client.DeleteTask(ctx, id); err != nil {
		c.dispatch(actionFailed{msg: api.Message(err)})
		return err
	}
	c.dispatch(actionDeleted{id: id})
	c.bus.Notify(events.SourceTasks, events.LevelSuccess, msgTaskDeleted)
	return nil
}

// Toggle flips a task's done flag locally before the request resolves, so
// the view reflects the change with zero latency. On failure the flip is
// reverted by re-flipping whatever copy of the task is in state at that
// point, which preserves fields updated concurrently. Toggle does not set
// Loading: a spinner would defeat the instant feedback.
func (c *Container) Toggle(ctx context.Context, id string) error {
	c.mu.Lock()
	var target bool
	found := false
	for _, t := range c.state.Tasks {
		if t.ID == id {
			target = !t.Done
			found = true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return nil
	}

	c.dispatch(actionFlipped{id: id})

	if _, err := c.client.UpdateTask(ctx, id, api.TaskPatch{Done: &target}); err != nil {
		c.dispatch(actionFlipped{id: id})
		return err
	}
	return nil
}

// SetFilter is a pure local state change, no network call.
func (c *Container) SetFilter(f Filter) {
	c.dispatch(actionSetFilter{filter: f})
}

// ClearError drops the recorded error message.
func (c *Container) ClearError() {
	c.dispatch(actionClearError{})
}

func (c *Container) dispatch(a action) {
	c.mu.Lock()
	c.state = reduce(c.state, a)
	c.mu.Unlock()
	c.bus.Publish(events.NewEvent(events.EventTasksChanged, events.SourceTasks, nil))
}
