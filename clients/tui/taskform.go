package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/tasks"
)

// taskForm is the inline add/edit form. editID is empty for a new task.
type taskForm struct {
	inputs []textinput.Model // title, description
	focus  int
	errs   []string
	editID string
}

func newTaskForm(edit *api.Task) taskForm {
	title := textinput.New()
	title.Placeholder = "title"
	title.CharLimit = tasks.TitleMaxLen
	title.Width = 48

	description := textinput.New()
	description.Placeholder = "description (optional)"
	description.CharLimit = tasks.DescriptionMaxLen
	description.Width = 48

	f := taskForm{
		inputs: []textinput.Model{title, description},
		errs:   make([]string, 2),
	}
	if edit != nil {
		f.editID = edit.ID
		f.inputs[0].SetValue(edit.Title)
		f.inputs[1].SetValue(edit.Description)
	}
	return f
}

func (f taskForm) focusCmd() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f taskForm) update(msg tea.KeyMsg) (taskForm, tea.Cmd) {
	if cmd, moved := cycleFocus(msg, f.inputs, &f.focus); moved {
		return f, cmd
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f taskForm) submit() (title, description, editID string, err error) {
	title = strings.TrimSpace(f.inputs[0].Value())
	description = strings.TrimSpace(f.inputs[1].Value())

	f.errs[0] = fieldError(tasks.ValidateTitle(title))
	f.errs[1] = fieldError(tasks.ValidateDescription(description))
	for _, e := range f.errs {
		if e != "" {
			return "", "", "", errInvalidForm
		}
	}
	return title, description, f.editID, nil
}

func (f taskForm) view() string {
	heading := "New task"
	if f.editID != "" {
		heading = "Edit task"
	}
	rows := []string{titleStyle.Render(heading)}
	labels := []string{"Title", "Description"}
	for i, in := range f.inputs {
		rows = append(rows, mutedStyle.Render(labels[i]), in.View())
		if f.errs[i] != "" {
			rows = append(rows, fieldErrStyle.Render(f.errs[i]))
		}
	}
	rows = append(rows, helpStyle.Render("enter save · esc cancel"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
