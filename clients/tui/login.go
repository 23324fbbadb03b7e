package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/auth"
)

// errInvalidForm signals that a submit was rejected locally; the per-field
// messages carry the detail.
var errInvalidForm = errors.New("invalid form")

func newAuthInput(placeholder string, secret bool) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = 120
	in.Width = 36
	if secret {
		in.EchoMode = textinput.EchoPassword
		in.EchoCharacter = '•'
	}
	return in
}

type loginForm struct {
	inputs []textinput.Model // email, password
	focus  int
	errs   []string // per input, "" when valid
}

func newLoginForm() loginForm {
	f := loginForm{
		inputs: []textinput.Model{
			newAuthInput("email", false),
			newAuthInput("password", true),
		},
		errs: make([]string, 2),
	}
	return f
}

func (f loginForm) focusCmd() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f loginForm) update(msg tea.KeyMsg) (loginForm, tea.Cmd) {
	if cmd, moved := cycleFocus(msg, f.inputs, &f.focus); moved {
		return f, cmd
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

// submit validates both fields and returns the credentials. On failure the
// per-field messages are kept for the next render.
func (f loginForm) submit() (email, password string, err error) {
	email = strings.TrimSpace(f.inputs[0].Value())
	password = f.inputs[1].Value()

	f.errs[0] = fieldError(auth.ValidateEmail(email))
	f.errs[1] = fieldError(auth.ValidatePassword(password))
	for _, e := range f.errs {
		if e != "" {
			return "", "", errInvalidForm
		}
	}
	return email, password, nil
}

func (f loginForm) view() string {
	rows := []string{titleStyle.Render("Sign in")}
	labels := []string{"Email", "Password"}
	for i, in := range f.inputs {
		rows = append(rows, mutedStyle.Render(labels[i]), in.View())
		if f.errs[i] != "" {
			rows = append(rows, fieldErrStyle.Render(f.errs[i]))
		}
	}
	rows = append(rows, "", helpStyle.Render("enter sign in · ctrl+r register · esc quit"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

type registerForm struct {
	inputs []textinput.Model // name, email, password, confirmation
	focus  int
	errs   []string
}

func newRegisterForm() registerForm {
	return registerForm{
		inputs: []textinput.Model{
			newAuthInput("name", false),
			newAuthInput("email", false),
			newAuthInput("password", true),
			newAuthInput("repeat password", true),
		},
		errs: make([]string, 4),
	}
}

func (f registerForm) focusCmd() tea.Cmd {
	return f.inputs[f.focus].Focus()
}

func (f registerForm) update(msg tea.KeyMsg) (registerForm, tea.Cmd) {
	if cmd, moved := cycleFocus(msg, f.inputs, &f.focus); moved {
		return f, cmd
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f registerForm) submit() (name, email, password string, err error) {
	name = strings.TrimSpace(f.inputs[0].Value())
	email = strings.TrimSpace(f.inputs[1].Value())
	password = f.inputs[2].Value()

	f.errs[0] = fieldError(auth.ValidateName(name))
	f.errs[1] = fieldError(auth.ValidateEmail(email))
	f.errs[2] = fieldError(auth.ValidatePassword(password))
	f.errs[3] = fieldError(auth.ValidatePasswordConfirmation(password, f.inputs[3].Value()))
	for _, e := range f.errs {
		if e != "" {
			return "", "", "", errInvalidForm
		}
	}
	return name, email, password, nil
}

func (f registerForm) view() string {
	rows := []string{titleStyle.Render("Create account")}
	labels := []string{"Name", "Email", "Password", "Repeat password"}
	for i, in := range f.inputs {
		rows = append(rows, mutedStyle.Render(labels[i]), in.View())
		if f.errs[i] != "" {
			rows = append(rows, fieldErrStyle.Render(f.errs[i]))
		}
	}
	rows = append(rows, "", helpStyle.Render("enter create account · esc back to sign in"))
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// cycleFocus moves focus between inputs on tab / shift+tab / arrows.
func cycleFocus(msg tea.KeyMsg, inputs []textinput.Model, focus *int) (tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "down":
		inputs[*focus].Blur()
		*focus = (*focus + 1) % len(inputs)
	case "shift+tab", "up":
		inputs[*focus].Blur()
		*focus = (*focus - 1 + len(inputs)) % len(inputs)
	default:
		return nil, false
	}
	return inputs[*focus].Focus(), true
}

// fieldError renders a validation error inline, without the kind prefix a
// normalized API error would otherwise carry.
func fieldError(err error) string {
	if err == nil {
		return ""
	}
	return api.Message(err)
}
