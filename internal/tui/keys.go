package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"todo/internal/nav"
	"todo/internal/service"
	"todo/internal/tasks"
	"todo/internal/validate"
)

// Form field order per screen.
const (
	loginEmail = iota
	loginPassword
)

const (
	registerName = iota
	registerEmail
	registerPassword
	registerConfirm
)

const (
	taskTitle = iota
	taskDescription
	taskPriority
)

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen.Screen {
	case nav.Login, nav.Register, nav.AddTask, nav.EditTask:
		return m.handleFormKey(msg)
	case nav.TaskList:
		return m.handleListKey(msg)
	case nav.TaskDetail:
		return m.handleDetailKey(msg)
	case nav.Profile:
		return m.handleProfileKey(msg)
	}
	return m, nil
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case "r":
		return m, m.run(func(ctx context.Context) error {
			m.app.Tasks.List(ctx)
			return nil
		})
	case "a":
		return m, m.push(nav.Route{Screen: nav.AddTask})
	case "p":
		return m, m.push(nav.Route{Screen: nav.Profile})
	case "enter":
		if t, ok := m.selected(); ok {
			return m, m.push(nav.Route{Screen: nav.TaskDetail, TaskID: t.ID})
		}
	case " ", "x":
		if t, ok := m.selected(); ok {
			return m, m.run(func(ctx context.Context) error {
				return m.app.Tasks.ToggleCompletion(ctx, t.ID, t.Status)
			})
		}
	}
	return m, nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		m.confirmDelete = false
		if msg.String() != "y" {
			return m, nil
		}
		id := m.screen.TaskID
		return m, m.run(func(ctx context.Context) error {
			if err := m.app.Tasks.Remove(ctx, id); err != nil {
				return err
			}
			m.app.Nav.Back()
			return nil
		})
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m, m.back()
	case "e":
		if m.detail.ID != "" {
			return m, m.push(nav.Route{Screen: nav.EditTask, TaskID: m.detail.ID})
		}
	case "d":
		m.confirmDelete = true
	case " ", "x":
		if m.detail.ID != "" {
			t := m.detail
			return m, m.run(func(ctx context.Context) error {
				return m.app.Tasks.ToggleCompletion(ctx, t.ID, t.Status)
			})
		}
	}
	return m, nil
}

func (m *Model) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		return m, m.back()
	case "l":
		return m, m.run(func(ctx context.Context) error {
			return m.app.Nav.Logout()
		})
	}
	return m, nil
}

func (m *Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab, tea.KeyDown:
		m.setFocus(m.focus + 1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.setFocus(m.focus - 1)
		return m, nil
	case tea.KeyEnter:
		return m, m.submit()
	case tea.KeyEsc:
		if m.screen.Screen != nav.Login {
			return m, m.back()
		}
		return m, nil
	case tea.KeyCtrlR:
		if m.screen.Screen == nav.Login {
			return m, m.push(nav.Route{Screen: nav.Register})
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) setFocus(i int) {
	n := len(m.inputs)
	if n == 0 {
		return
	}
	m.inputs[m.focus].Blur()
	m.focus = (i%n + n) % n
	m.inputs[m.focus].Focus()
}

func (m *Model) value(i int) string {
	return m.inputs[i].Value()
}

// submit validates the focused form and sends it.
func (m *Model) submit() tea.Cmd {
	switch m.screen.Screen {
	case nav.Login:
		email, password := m.value(loginEmail), m.value(loginPassword)
		if err := validate.Login(email, password); err != nil {
			m.message = err.Error()
			return nil
		}
		return m.run(func(ctx context.Context) error {
			token, err := m.app.Service.Login(ctx, email, password)
			if err != nil {
				return err
			}
			return m.app.Nav.LoginSucceeded(token)
		})

	case nav.Register:
		reg := service.Registration{
			FullName: m.value(registerName),
			Email:    m.value(registerEmail),
			Password: m.value(registerPassword),
		}
		if err := validate.Registration(reg.FullName, reg.Email, reg.Password, m.value(registerConfirm)); err != nil {
			m.message = err.Error()
			return nil
		}
		return m.run(func(ctx context.Context) error {
			token, err := m.app.Service.Register(ctx, reg)
			if err != nil {
				return err
			}
			return m.app.Nav.RegisterSucceeded(token)
		})

	case nav.AddTask:
		title, description := m.value(taskTitle), m.value(taskDescription)
		priority, err := validate.Task(title, description, m.value(taskPriority))
		if err != nil {
			m.message = err.Error()
			return nil
		}
		created := m.now().Format(tasks.CreatedAtLayout)
		return m.run(func(ctx context.Context) error {
			_, err := m.app.Tasks.Create(ctx, service.NewTask{
				Title:       title,
				Description: description,
				Priority:    priority,
				CreatedAt:   created,
			})
			if err != nil {
				return err
			}
			m.app.Nav.Back()
			return nil
		})

	case nav.EditTask:
		id := m.screen.TaskID
		title, description := m.value(taskTitle), m.value(taskDescription)
		priority, err := validate.Task(title, description, m.value(taskPriority))
		if err != nil {
			m.message = err.Error()
			return nil
		}
		return m.run(func(ctx context.Context) error {
			if err := m.app.Tasks.Update(ctx, id, title, description, priority); err != nil {
				return err
			}
			m.app.Nav.Back()
			return nil
		})
	}
	return nil
}

func (m *Model) push(r nav.Route) tea.Cmd {
	return m.run(func(context.Context) error {
		return m.app.Nav.Push(r)
	})
}

func (m *Model) back() tea.Cmd {
	return m.run(func(context.Context) error {
		m.app.Nav.Back()
		return nil
	})
}

func (m *Model) selected() (service.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// formFor builds the inputs shown on screen s.
func (m *Model) formFor(s nav.Screen) []textinput.Model {
	switch s {
	case nav.Login:
		return []textinput.Model{
			newInput("Email", false),
			newInput("Password", true),
		}
	case nav.Register:
		return []textinput.Model{
			newInput("Full name", false),
			newInput("Email", false),
			newInput("Password", true),
			newInput("Confirm password", true),
		}
	case nav.AddTask:
		return []textinput.Model{
			newInput("Title", false),
			newInput("Description", false),
			newInput("Priority (low, medium, high)", false),
		}
	case nav.EditTask:
		inputs := []textinput.Model{
			newInput("Title", false),
			newInput("Description", false),
			newInput("Priority (low, medium, high)", false),
		}
		inputs[taskTitle].SetValue(m.detail.Title)
		inputs[taskDescription].SetValue(m.detail.Description)
		inputs[taskPriority].SetValue(string(m.detail.Priority))
		return inputs
	}
	return nil
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 200
	ti.Width = 40
	ti.PromptStyle = labelStyle
	if secret {
		ti.EchoMode = textinput.EchoPassword
	}
	return ti
}
