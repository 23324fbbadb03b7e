package tasks

import (
	"sort"

	"github.com/asalgado/tasq/internal/api"
)

// VisibleTasks derives the visible sequence from a task list and filter:
// select by filter, then order pending before done and newest CreatedAt
// first within each group. Pure function of its inputs.
func VisibleTasks(list []api.Task, filter Filter) []api.Task {
	out := make([]api.Task, 0, len(list))
	for _, t := range list {
		switch filter {
		case FilterCompleted:
			if t.Done {
				out = append(out, t)
			}
		case FilterPending:
			if !t.Done {
				out = append(out, t)
			}
		default:
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Done != out[j].Done {
			return !out[i].Done
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Stats counts done and pending tasks, for list headers.
func Stats(list []api.Task) (done, pending int) {
	for _, t := range list {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return
}
