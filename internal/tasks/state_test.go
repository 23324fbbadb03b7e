package tasks

import (
	"testing"
	"time"

	"github.com/asalgado/tasq/internal/api"
)

func task(id, title string, done bool, createdAt time.Time) api.Task {
	return api.Task{
		ID:        id,
		Title:     title,
		Done:      done,
		UserID:    "u-1",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestReduceStart(t *testing.T) {
	s := State{Err: "old error"}
	next := reduce(s, actionStart{})

	if !next.Loading {
		t.Error("start must set Loading")
	}
	if next.Err != "" {
		t.Error("start must clear Err")
	}
}

func TestReduceLoadedReplacesList(t *testing.T) {
	now := time.Now()
	s := State{Tasks: []api.Task{task("a", "old", false, now)}, Loading: true}
	incoming := []api.Task{task("b", "new 1", false, now), task("c", "new 2", true, now)}

	next := reduce(s, actionLoaded{tasks: incoming})
	if len(next.Tasks) != 2 || next.Tasks[0].ID != "b" {
		t.Errorf("unexpected tasks: %+v", next.Tasks)
	}
	if next.Loading {
		t.Error("loaded must clear Loading")
	}
}

func TestReduceCreatedAppends(t *testing.T) {
	now := time.Now()
	s := State{Tasks: []api.Task{task("a", "one", false, now)}}

	next := reduce(s, actionCreated{task: task("b", "two", false, now)})
	if len(next.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(next.Tasks))
	}
	if next.Tasks[1].ID != "b" {
		t.Errorf("new task should be appended, got %+v", next.Tasks)
	}
}

func TestReduceUpdatedReplacesById(t *testing.T) {
	now := time.Now()
	s := State{Tasks: []api.Task{task("a", "one", false, now), task("b", "two", false, now)}}

	updated := task("b", "two edited", true, now)
	next := reduce(s, actionUpdated{task: updated})
	if next.Tasks[1].Title != "two edited" || !next.Tasks[1].Done {
		t.Errorf("task b not replaced: %+v", next.Tasks[1])
	}
	if next.Tasks[0].Title != "one" {
		t.Errorf("task a must be untouched: %+v", next.Tasks[0])
	}
}

func TestReduceDeletedRemovesById(t *testing.T) {
	now := time.Now()
	s := State{Tasks: []api.Task{task("a", "one", false, now), task("b", "two", false, now)}}

	next := reduce(s, actionDeleted{id: "a"})
	if len(next.Tasks) != 1 || next.Tasks[0].ID != "b" {
		t.Errorf("unexpected tasks after delete: %+v", next.Tasks)
	}
}

func TestReduceFlippedTogglesDoneOnly(t *testing.T) {
	now := time.Now()
	s := State{Tasks: []api.Task{task("a", "one", false, now)}}

	next := reduce(s, actionFlipped{id: "a"})
	if !next.Tasks[0].Done {
		t.Error("flip must set Done")
	}
	if next.Tasks[0].Title != "one" {
		t.Error("flip must not touch other fields")
	}

	// flipping again is the revert path
	back := reduce(next, actionFlipped{id: "a"})
	if back.Tasks[0].Done {
		t.Error("second flip must restore Done")
	}
}

func TestReduceFailedKeepsTasks(t *testing.T) {
	now := time.Now()
	s := State{Tasks: []api.Task{task("a", "one", false, now)}, Loading: true}

	next := reduce(s, actionFailed{msg: "boom"})
	if next.Err != "boom" {
		t.Errorf("Err = %q", next.Err)
	}
	if next.Loading {
		t.Error("failed must clear Loading")
	}
	if len(next.Tasks) != 1 {
		t.Error("failed must leave the collection untouched")
	}
}

// The reducer is pure: the input state, including its Tasks slice, must
// never be mutated in place.
func TestReducePurity(t *testing.T) {
	now := time.Now()
	orig := State{Tasks: []api.Task{task("a", "one", false, now), task("b", "two", true, now)}}

	actions := []action{
		actionStart{},
		actionLoaded{tasks: []api.Task{task("x", "other", false, now)}},
		actionFailed{msg: "err"},
		actionCreated{task: task("c", "three", false, now)},
		actionUpdated{task: task("a", "edited", true, now)},
		actionDeleted{id: "a"},
		actionFlipped{id: "b"},
		actionSetFilter{filter: FilterCompleted},
		actionClearError{},
	}

	for _, a := range actions {
		_ = reduce(orig, a)
		if len(orig.Tasks) != 2 || orig.Tasks[0].Title != "one" || orig.Tasks[1].Done != true {
			t.Fatalf("reduce(%T) mutated its input: %+v", a, orig.Tasks)
		}
		if orig.Filter != "" || orig.Loading || orig.Err != "" {
			t.Fatalf("reduce(%T) mutated scalar fields of its input", a)
		}
	}
}
