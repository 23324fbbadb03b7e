package tui

import (
	"strings"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/tasks"
)

// taskList is the cursor over the visible tasks. The tasks themselves live in
// the container; the list only remembers which row is selected.
type taskList struct {
	cursor int
}

func newTaskList() taskList {
	return taskList{}
}

func (l *taskList) up() {
	if l.cursor > 0 {
		l.cursor--
	}
}

func (l *taskList) down(n int) {
	if l.cursor < n-1 {
		l.cursor++
	}
}

// clamp keeps the cursor valid after the visible set shrank.
func (l *taskList) clamp(n int) {
	if n == 0 {
		l.cursor = 0
		return
	}
	if l.cursor >= n {
		l.cursor = n - 1
	}
}

func (l *taskList) current(visible []api.Task) (api.Task, bool) {
	if l.cursor < 0 || l.cursor >= len(visible) {
		return api.Task{}, false
	}
	return visible[l.cursor], true
}

func (l *taskList) view(visible []api.Task, s tasks.State) string {
	if s.Loading && len(visible) == 0 {
		return mutedStyle.Render("Loading tasks...")
	}
	if len(visible) == 0 {
		return mutedStyle.Render(emptyMessage(s.Filter))
	}

	var b strings.Builder
	for i, t := range visible {
		b.WriteString(l.renderRow(i, t))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (l *taskList) renderRow(i int, t api.Task) string {
	box := pendingStyle.Render(boxUnchecked)
	title := t.Title
	if t.Done {
		box = successStyle.Render(boxChecked)
		title = doneStyle.Render(title)
	}

	line := box + " " + title
	if t.Description != "" {
		line += " " + mutedStyle.Render("· "+firstLine(t.Description))
	}
	if i == l.cursor {
		return selectedStyle.Render("> ") + line
	}
	return "  " + line
}

func emptyMessage(f tasks.Filter) string {
	switch f {
	case tasks.FilterCompleted:
		return "No completed tasks yet."
	case tasks.FilterPending:
		return "No pending tasks. All done!"
	default:
		return "No tasks yet. Press a to add one."
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
