package tasks

import "fmt"

// Filter is a view-only partition of the task collection. It never affects
// stored data and is not persisted.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// ParseFilter validates a user-supplied filter name.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case FilterAll, FilterCompleted, FilterPending:
		return Filter(s), nil
	}
	return "", fmt.Errorf("unknown filter %q (want all, completed or pending)", s)
}
