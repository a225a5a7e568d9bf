// Package service defines the contract with the remote task/user service.
package service

import "strings"

// Priority is the importance level of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// DefaultPriority is used when the user does not pick one.
const DefaultPriority = PriorityMedium

// ParsePriority matches a priority name case-insensitively.
// The empty string yields DefaultPriority.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultPriority, true
	case "low":
		return PriorityLow, true
	case "medium":
		return PriorityMedium, true
	case "high":
		return PriorityHigh, true
	}
	return "", false
}

// Status is the completion state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Complement returns the opposite status.
// Anything that is not completed toggles to completed.
func (s Status) Complement() Status {
	if s == StatusCompleted {
		return StatusPending
	}
	return StatusCompleted
}

// Task is a single task as returned by the server.
type Task struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`
	CreatedAt   string   `json:"createdAt"` // display text captured by the client
}

// NewTask holds the fields sent on creation.
type NewTask struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	CreatedAt   string   `json:"createdAt"`
}

// TaskEdit is the full-field update payload for PATCH /task/update.
type TaskEdit struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

// StatusChange is the partial update payload used when toggling completion.
type StatusChange struct {
	ID     string `json:"_id"`
	Status Status `json:"status"`
}

// Registration is the body of POST /user.
type Registration struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the logged-in user as returned by GET /user/logout.
type Profile struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"`
}
