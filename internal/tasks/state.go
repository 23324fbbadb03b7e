// Package tasks keeps the in-memory task list consistent with the remote
// server. All mutation flows through a closed set of actions applied by a
// single pure reducer, so the state after any operation is one of a known
// set of shapes and never a partial write.
package tasks

import "github.com/asalgado/tasq/internal/api"

// State is the task container state. Tasks is a cache of the server's list;
// the server stays authoritative.
type State struct {
	Tasks   []api.Task
	Filter  Filter
	Loading bool
	Err     string
}

// action is the closed set of state transitions.
type action interface{ isAction() }

type actionStart struct{}                     // an operation began
type actionLoaded struct{ tasks []api.Task }  // fetchAll replaced the list
type actionFailed struct{ msg string }        // an operation failed
type actionCreated struct{ task api.Task }    // server confirmed a create
type actionUpdated struct{ task api.Task }    // server copy replaces the match
type actionDeleted struct{ id string }        // server confirmed a delete
type actionFlipped struct{ id string }        // optimistic toggle (and its revert)
type actionSetFilter struct{ filter Filter }  // pure view change
type actionClearError struct{}

func (actionStart) isAction()      {}
func (actionLoaded) isAction()     {}
func (actionFailed) isAction()     {}
func (actionCreated) isAction()    {}
func (actionUpdated) isAction()    {}
func (actionDeleted) isAction()    {}
func (actionFlipped) isAction()    {}
func (actionSetFilter) isAction()  {}
func (actionClearError) isAction() {}

// reduce is pure: it never mutates s or its Tasks slice.
func reduce(s State, a action) State {
	switch a := a.(type) {
	case actionStart:
		s.Loading = true
		s.Err = ""
		return s

	case actionLoaded:
		s.Tasks = a.tasks
		s.Loading = false
		s.Err = ""
		return s

	case actionFailed:
		s.Loading = false
		s.Err = a.msg
		return s

	case actionCreated:
		next := make([]api.Task, 0, len(s.Tasks)+1)
		next = append(next, s.Tasks...)
		next = append(next, a.task)
		s.Tasks = next
		s.Loading = false
		s.Err = ""
		return s

	case actionUpdated:
		next := make([]api.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			if t.ID == a.task.ID {
				next[i] = a.task
			} else {
				next[i] = t
			}
		}
		s.Tasks = next
		s.Loading = false
		s.Err = ""
		return s

	case actionDeleted:
		next := make([]api.Task, 0, len(s.Tasks))
		for _, t := range s.Tasks {
			if t.ID != a.id {
				next = append(next, t)
			}
		}
		s.Tasks = next
		s.Loading = false
		s.Err = ""
		return s

	case actionFlipped:
		next := make([]api.Task, len(s.Tasks))
		for i, t := range s.Tasks {
			if t.ID == a.id {
				t.Done = !t.Done
			}
			next[i] = t
		}
		s.Tasks = next
		return s

	case actionSetFilter:
		s.Filter = a.filter
		return s

	case actionClearError:
		s.Err = ""
		return s
	}
	return s
}
