package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"todo/internal/nav"
	"todo/internal/service"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230"))

	completedStyle = lipgloss.NewStyle().
			Strikethrough(true).
			Foreground(lipgloss.Color("241"))

	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))

	priorityStyles = map[service.Priority]lipgloss.Style{
		service.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		service.PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		service.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	}
)

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder

	switch m.screen.Screen {
	case nav.Loading:
		fmt.Fprintf(&b, "\n  %s Loading your tasks...\n", m.spinner.View())
		return b.String()
	case nav.Login:
		m.viewForm(&b, "Sign in", []string{"Email", "Password"}, "enter: sign in  tab: next field  ctrl+r: create account")
	case nav.Register:
		m.viewForm(&b, "Create account", []string{"Full name", "Email", "Password", "Confirm"}, "enter: register  tab: next field  esc: back")
	case nav.AddTask:
		m.viewForm(&b, "New task", []string{"Title", "Description", "Priority"}, "enter: save  tab: next field  esc: cancel")
	case nav.EditTask:
		m.viewForm(&b, "Edit task", []string{"Title", "Description", "Priority"}, "enter: save  tab: next field  esc: cancel")
	case nav.TaskList:
		m.viewList(&b)
	case nav.TaskDetail:
		m.viewDetail(&b)
	case nav.Profile:
		m.viewProfile(&b)
	}

	if m.busy {
		fmt.Fprintf(&b, "\n%s working...", m.spinner.View())
	}
	if m.message != "" {
		fmt.Fprintf(&b, "\n%s", errorStyle.Render(m.message))
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) viewForm(b *strings.Builder, title string, labels []string, help string) {
	fmt.Fprintf(b, "%s\n\n", titleStyle.Render(title))
	for i, in := range m.inputs {
		fmt.Fprintf(b, "%s\n%s\n\n", labelStyle.Render(labels[i]), in.View())
	}
	b.WriteString(helpStyle.Render(help))
	b.WriteString("\n")
}

func (m *Model) viewList(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", titleStyle.Render("My tasks"))
	if len(m.tasks) == 0 {
		b.WriteString(labelStyle.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n")
	}
	for i, t := range m.tasks {
		mark := "[ ]"
		title := t.Title
		if t.Status == service.StatusCompleted {
			mark = "[x]"
			title = completedStyle.Render(title)
		}
		line := fmt.Sprintf("%s %s %s", mark, title, priorityStyles[t.Priority].Render(string(t.Priority)))
		if i == m.cursor {
			line = selectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: open  space: toggle  a: add  r: refresh  p: profile  q: quit"))
	b.WriteString("\n")
}

func (m *Model) viewDetail(b *strings.Builder) {
	t := m.detail
	fmt.Fprintf(b, "%s\n\n", titleStyle.Render("Task"))
	if t.ID == "" {
		return
	}
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Title:      "), t.Title)
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Description:"), t.Description)
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Priority:   "), priorityStyles[t.Priority].Render(string(t.Priority)))
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Status:     "), t.Status)
	if t.CreatedAt != "" {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Created:    "), t.CreatedAt)
	}
	b.WriteString("\n")
	if m.confirmDelete {
		b.WriteString(errorStyle.Render("Delete this task? (y/n)"))
	} else {
		b.WriteString(helpStyle.Render("e: edit  space: toggle  d: delete  esc: back"))
	}
	b.WriteString("\n")
}

func (m *Model) viewProfile(b *strings.Builder) {
	fmt.Fprintf(b, "%s\n\n", titleStyle.Render("Profile"))
	if m.profile.Email != "" {
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Name: "), m.profile.FullName)
		fmt.Fprintf(b, "%s %s\n", labelStyle.Render("Email:"), m.profile.Email)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("l: log out  esc: back"))
	b.WriteString("\n")
}
