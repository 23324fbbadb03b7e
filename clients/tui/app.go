package tui

import (
	"context"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/asalgado/tasq/internal/api"
	"github.com/asalgado/tasq/internal/auth"
	"github.com/asalgado/tasq/internal/events"
	"github.com/asalgado/tasq/internal/tasks"
)

type screen int

const (
	screenLogin screen = iota
	screenRegister
	screenTasks
)

// App is the root TUI model. It owns no task or session state of its own:
// every view is derived from the session store and the task container, and
// async completions arrive as messages.
type App struct {
	session   *auth.Store
	container *tasks.Container
	bus       *events.Bus

	screen screen
	width  int
	height int

	login    loginForm
	register registerForm
	list     taskList
	form     *taskForm // non-nil while the add/edit form is open
	spin     spinner.Model

	toast     *events.Notice
	toastID   string
	toastDur  time.Duration
	eventCh   <-chan events.Event
	cancelSub func()

	quitting bool
}

// NewApp wires the TUI to the session store, task container and bus.
func NewApp(session *auth.Store, container *tasks.Container, bus *events.Bus, toastDur time.Duration) *App {
	ch, cancel := bus.SubscribeChan(32,
		events.EventNotice, events.EventSessionExpired, events.EventTasksChanged)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = pendingStyle

	a := &App{
		session:   session,
		container: container,
		bus:       bus,
		login:     newLoginForm(),
		register:  newRegisterForm(),
		list:      newTaskList(),
		spin:      sp,
		toastDur:  toastDur,
		eventCh:   ch,
		cancelSub: cancel,
	}
	if session.Status() == auth.StatusAuthenticated {
		a.screen = screenTasks
	}
	return a
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.waitForEvent(), a.spin.Tick}
	if a.screen == screenTasks {
		cmds = append(cmds, a.fetchCmd())
	} else {
		cmds = append(cmds, a.login.focusCmd())
	}
	return tea.Batch(cmds...)
}

// waitForEvent turns the bus subscription into Bubble Tea messages.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		e, ok := <-a.eventCh
		if !ok {
			return busClosedMsg{}
		}
		return busEventMsg{event: e}
	}
}

func (a *App) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{err: a.container.FetchAll(context.Background())}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case busEventMsg:
		return a.handleBusEvent(msg.event)

	case busClosedMsg:
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case toastExpiredMsg:
		if msg.id == a.toastID {
			a.toast = nil
		}
		return a, nil

	case authDoneMsg:
		if msg.err != nil {
			// The form stays open with the message; state machine already
			// holds Failed.
			return a, nil
		}
		a.screen = screenTasks
		a.login = newLoginForm()
		a.register = newRegisterForm()
		return a, a.fetchCmd()

	case opDoneMsg:
		// Container state changed (or an error toast is on its way); either
		// way the next View reads fresh state. Keep the cursor in range.
		a.list.clamp(len(a.container.Visible()))
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a.quit()
		}
		switch a.screen {
		case screenLogin:
			return a.updateLogin(msg)
		case screenRegister:
			return a.updateRegister(msg)
		default:
			return a.updateTasks(msg)
		}
	}

	return a, nil
}

func (a *App) handleBusEvent(e events.Event) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{a.waitForEvent()}

	switch e.Type {
	case events.EventNotice:
		if n, ok := e.Payload.(events.Notice); ok {
			a.toast = &n
			a.toastID = e.ID
			id := e.ID
			cmds = append(cmds, tea.Tick(a.toastDur, func(time.Time) tea.Msg {
				return toastExpiredMsg{id: id}
			}))
		}

	case events.EventSessionExpired:
		// The transport already dropped the credentials; steer back to the
		// login screen.
		a.screen = screenLogin
		a.login = newLoginForm()
		a.form = nil
		cmds = append(cmds, a.login.focusCmd())

	case events.EventTasksChanged:
		// The container mutated state, possibly mid-request (the optimistic
		// toggle). Receiving the message is enough to trigger a re-render.
		a.list.clamp(len(a.container.Visible()))
	}

	return a, tea.Batch(cmds...)
}

func (a *App) quit() (tea.Model, tea.Cmd) {
	a.quitting = true
	a.cancelSub()
	return a, tea.Quit
}

func (a *App) View() string {
	if a.quitting {
		return ""
	}

	var body string
	switch a.screen {
	case screenLogin:
		body = a.login.view()
	case screenRegister:
		body = a.register.view()
	default:
		body = a.tasksView()
	}

	if a.toast != nil {
		style := toastSuccessStyle
		if a.toast.Level == events.LevelError {
			style = toastErrorStyle
		}
		body += "\n" + style.Render(a.toast.Message)
	}

	return panelStyle.Render(body)
}

func (a *App) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return a.quit()
	case "ctrl+r":
		a.screen = screenRegister
		return a, a.register.focusCmd()
	case "enter":
		email, password, err := a.login.submit()
		if err != nil {
			return a, nil // field error rendered by the form
		}
		return a, func() tea.Msg {
			return authDoneMsg{err: a.session.Login(context.Background(), email, password)}
		}
	}
	var cmd tea.Cmd
	a.login, cmd = a.login.update(msg)
	return a, cmd
}

func (a *App) updateRegister(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.screen = screenLogin
		return a, a.login.focusCmd()
	case "enter":
		name, email, password, err := a.register.submit()
		if err != nil {
			return a, nil
		}
		return a, func() tea.Msg {
			return authDoneMsg{err: a.session.Register(context.Background(), name, email, password)}
		}
	}
	var cmd tea.Cmd
	a.register, cmd = a.register.update(msg)
	return a, cmd
}

func (a *App) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The add/edit form captures all keys while open.
	if a.form != nil {
		return a.updateTaskForm(msg)
	}

	visible := a.container.Visible()

	switch msg.String() {
	case "q", "esc":
		return a.quit()

	case "up", "k":
		a.list.up()
		return a, nil

	case "down", "j":
		a.list.down(len(visible))
		return a, nil

	case "tab", "f":
		a.container.SetFilter(nextFilter(a.container.State().Filter))
		a.list.clamp(len(a.container.Visible()))
		return a, nil

	case "r":
		return a, a.fetchCmd()

	case " ":
		if t, ok := a.list.current(visible); ok {
			id := t.ID
			return a, func() tea.Msg {
				return opDoneMsg{err: a.container.Toggle(context.Background(), id)}
			}
		}
		return a, nil

	case "d":
		if t, ok := a.list.current(visible); ok {
			id := t.ID
			return a, func() tea.Msg {
				return opDoneMsg{err: a.container.Delete(context.Background(), id)}
			}
		}
		return a, nil

	case "a":
		f := newTaskForm(nil)
		a.form = &f
		return a, f.focusCmd()

	case "e":
		if t, ok := a.list.current(visible); ok {
			f := newTaskForm(&t)
			a.form = &f
			return a, f.focusCmd()
		}
		return a, nil

	case "ctrl+o":
		a.session.Logout()
		a.screen = screenLogin
		a.login = newLoginForm()
		return a, a.login.focusCmd()
	}

	return a, nil
}

func (a *App) updateTaskForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.form = nil
		return a, nil
	case "enter":
		title, description, editID, err := a.form.submit()
		if err != nil {
			return a, nil
		}
		a.form = nil
		if editID == "" {
			return a, func() tea.Msg {
				return opDoneMsg{err: a.container.Create(context.Background(), title, description)}
			}
		}
		patch := api.TaskPatch{Title: &title, Description: &description}
		return a, func() tea.Msg {
			return opDoneMsg{err: a.container.Update(context.Background(), editID, patch)}
		}
	}
	var cmd tea.Cmd
	*a.form, cmd = a.form.update(msg)
	return a, cmd
}

func (a *App) tasksView() string {
	s := a.container.State()
	visible := tasks.VisibleTasks(s.Tasks, s.Filter)

	header := a.headerView(s)
	body := a.list.view(visible, s)

	sections := []string{header, body}
	if a.form != nil {
		sections = append(sections, a.form.view())
	}
	sections = append(sections, helpStyle.Render(
		"space toggle · a add · e edit · d delete · tab filter · r refresh · ctrl+o sign out · q quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (a *App) headerView(s tasks.State) string {
	done, pending := tasks.Stats(s.Tasks)
	who := ""
	if u, ok := a.session.User(); ok {
		who = mutedStyle.Render(" · " + u.Name)
	}
	if s.Loading {
		who += " " + a.spin.View()
	}
	return titleStyle.Render("Tasks") +
		"  " + successStyle.Render(boxChecked) + mutedStyle.Render(" "+strconv.Itoa(done)) +
		"  " + pendingStyle.Render("•") + mutedStyle.Render(" "+strconv.Itoa(pending)) +
		"  " + mutedStyle.Render("filter: "+string(s.Filter)) +
		who
}

func nextFilter(f tasks.Filter) tasks.Filter {
	switch f {
	case tasks.FilterAll:
		return tasks.FilterPending
	case tasks.FilterPending:
		return tasks.FilterCompleted
	default:
		return tasks.FilterAll
	}
}
