// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todo/internal/service"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [{x| }] {TITLE} ({PRIORITY})\n"
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s (%s)\n", num, marker(task.Status), normalizeTitle(task.Title), normalizePriority(task.Priority))
}

// FormatTaskDetail prints every field of one task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "Title:       %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "Description: %s\n", normalizeText(task.Description))
	fmt.Fprintf(w, "Priority:    %s\n", normalizePriority(task.Priority))
	fmt.Fprintf(w, "Status:      %s\n", task.Status)
	if task.CreatedAt != "" {
		fmt.Fprintf(w, "Created:     %s\n", task.CreatedAt)
	}
}

// FormatProfile prints the logged-in user.
func FormatProfile(w io.Writer, p service.Profile) {
	fmt.Fprintf(w, "%s <%s>\n", normalizeText(p.FullName), p.Email)
}

func marker(s service.Status) string {
	if s == service.StatusCompleted {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func normalizeText(s string) string {
	s = flatten(s)
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func normalizePriority(p service.Priority) string {
	if p == "" {
		return string(service.DefaultPriority)
	}
	return string(p)
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
