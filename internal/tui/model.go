// Package tui is the interactive terminal front end. It renders whatever
// screen the navigation controller has on top and turns key presses into
// core operations.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/app"
	"todo/internal/nav"
	"todo/internal/service"
)

// startedMsg arrives when the loading gate opens.
type startedMsg struct{ err error }

// navigatedMsg arrives after an operation that may have changed the stack
// or the task collection.
type navigatedMsg struct{ err error }

type detailMsg struct {
	task service.Task
	err  error
}

type profileMsg struct {
	profile service.Profile
	err     error
}

// Model is the bubbletea model for the whole program.
type Model struct {
	app *app.App
	ctx context.Context
	now func() time.Time

	spinner spinner.Model
	screen  nav.Route
	tasks   []service.Task
	cursor  int
	detail  service.Task
	profile service.Profile

	inputs []textinput.Model
	focus  int

	confirmDelete bool
	busy          bool
	message       string
	width         int
}

// New creates the model. Nothing happens until the program calls Init.
func New(ctx context.Context, a *app.App) *Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = accentStyle
	return &Model{
		app:     a,
		ctx:     ctx,
		now:     time.Now,
		spinner: s,
		screen:  nav.Route{Screen: nav.Loading},
	}
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, a *app.App, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(ctx, a), opts...).Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.start())
}

func (m *Model) start() tea.Cmd {
	return func() tea.Msg {
		_, err := m.app.Start(m.ctx)
		return startedMsg{err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startedMsg:
		if msg.err != nil {
			return m, tea.Quit
		}
		return m, m.sync()

	case navigatedMsg:
		m.busy = false
		m.message = errorText(msg.err)
		return m, m.sync()

	case detailMsg:
		m.busy = false
		if msg.err != nil {
			m.message = errorText(msg.err)
			return m, nil
		}
		m.detail = msg.task
		return m, nil

	case profileMsg:
		m.busy = false
		if msg.err != nil {
			m.message = errorText(msg.err)
			return m, nil
		}
		m.profile = msg.profile
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.busy || m.screen.Screen == nav.Loading {
			return m, nil
		}
		return m.handleKey(msg)
	}
	return m, nil
}

// sync copies the navigation and task state into the model and loads what
// a newly shown screen needs.
func (m *Model) sync() tea.Cmd {
	top := m.app.Nav.Top()
	changed := top != m.screen
	m.screen = top
	m.tasks = m.app.Tasks.Tasks()
	if m.cursor >= len(m.tasks) {
		m.cursor = max(len(m.tasks)-1, 0)
	}
	if !changed {
		// Same detail screen after an operation: its cached task may be stale.
		if top.Screen == nav.TaskDetail {
			m.busy = true
			return m.fetchDetail(top.TaskID)
		}
		return nil
	}

	m.confirmDelete = false
	m.inputs = m.formFor(top.Screen)
	m.focus = 0
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}

	switch top.Screen {
	case nav.TaskDetail:
		m.detail = service.Task{}
		m.busy = true
		return m.fetchDetail(top.TaskID)
	case nav.Profile:
		m.profile = service.Profile{}
		m.busy = true
		return m.fetchProfile()
	}
	return nil
}

// run performs fn off the UI goroutine and reports back with navigatedMsg.
func (m *Model) run(fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	m.message = ""
	return func() tea.Msg {
		return navigatedMsg{err: fn(m.ctx)}
	}
}

func (m *Model) fetchDetail(id string) tea.Cmd {
	return func() tea.Msg {
		t, err := m.app.Tasks.FetchOne(m.ctx, id)
		return detailMsg{task: t, err: err}
	}
}

func (m *Model) fetchProfile() tea.Cmd {
	return func() tea.Msg {
		p, err := m.app.Session.Profile(m.ctx)
		return profileMsg{profile: p, err: err}
	}
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	var re *service.RejectedError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return err.Error()
}
