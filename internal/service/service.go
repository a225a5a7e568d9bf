package service

import "context"

// Service defines the remote task/user API consumed by the client core.
// The bearer token is passed explicitly; implementations never read storage.
//
// Some operations take no token: the server accepts single-task reads,
// edits and deletes without one. That contract is kept as observed.
type Service interface {
	// CheckSession validates a bearer token. A nil error means the token is valid.
	CheckSession(ctx context.Context, token string) error

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// Register creates an account and returns its bearer token.
	Register(ctx context.Context, reg Registration) (string, error)

	// Profile returns the user the token belongs to.
	Profile(ctx context.Context, token string) (Profile, error)

	// ListTasks returns the user's tasks in server order.
	ListTasks(ctx context.Context, token string) ([]Task, error)

	// CreateTask creates a task owned by the token's user.
	CreateTask(ctx context.Context, token string, t NewTask) (Task, error)

	// GetTask returns one task by id.
	GetTask(ctx context.Context, id string) (Task, error)

	// EditTask replaces title, description and priority.
	EditTask(ctx context.Context, edit TaskEdit) (Task, error)

	// SetStatus changes only the status of a task.
	SetStatus(ctx context.Context, token string, change StatusChange) (Task, error)

	// DeleteTask removes a task by id.
	DeleteTask(ctx context.Context, id string) error
}
