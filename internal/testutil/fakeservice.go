// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"todo/internal/service"
)

// Operation names used by Calls.
const (
	OpCheckSession = "CheckSession"
	OpLogin        = "Login"
	OpRegister     = "Register"
	OpProfile      = "Profile"
	OpListTasks    = "ListTasks"
	OpCreateTask   = "CreateTask"
	OpGetTask      = "GetTask"
	OpEditTask     = "EditTask"
	OpSetStatus    = "SetStatus"
	OpDeleteTask   = "DeleteTask"
)

// Common rejections returned by the fake, shaped like the real server's answers.
var (
	ErrInvalidToken       = &service.RejectedError{StatusCode: http.StatusUnauthorized, Message: "invalid token"}
	ErrInvalidCredentials = &service.RejectedError{StatusCode: http.StatusUnauthorized, Message: "Invalid credentials"}
	ErrUserExists         = &service.RejectedError{StatusCode: http.StatusConflict, Message: "User already exists"}
	ErrTaskNotFound       = &service.RejectedError{StatusCode: http.StatusNotFound, Message: "Task not found"}
)

type fakeUser struct {
	profile  service.Profile
	password string
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.Mutex
	users  map[string]fakeUser       // email -> user
	tokens map[string]string         // token -> email
	tasks  map[string][]service.Task // email -> tasks, creation order
	calls  map[string]int

	// Error injection for testing
	CheckSessionErr error
	LoginErr        error
	RegisterErr     error
	ProfileErr      error
	ListTasksErr    error
	CreateTaskErr   error
	GetTaskErr      error
	EditTaskErr     error
	SetStatusErr    error
	DeleteTaskErr   error

	// ListTasksFunc, when set, replaces the ListTasks implementation.
	// The call is still counted.
	ListTasksFunc func(ctx context.Context, token string) ([]service.Task, error)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		users:  make(map[string]fakeUser),
		tokens: make(map[string]string),
		tasks:  make(map[string][]service.Task),
		calls:  make(map[string]int),
	}
}

// AddUser registers a user and returns a valid token for it.
func (f *FakeService) AddUser(fullname, email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUserLocked(fullname, email, password)
}

func (f *FakeService) addUserLocked(fullname, email, password string) string {
	f.users[email] = fakeUser{
		profile:  service.Profile{FullName: fullname, Email: email},
		password: password,
	}
	token := uuid.NewString()
	f.tokens[token] = email
	return token
}

// RevokeToken makes token invalid for subsequent calls.
func (f *FakeService) RevokeToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
}

// AddTask stores a pending task for the token's user and returns it.
func (f *FakeService) AddTask(token, title, description string, priority service.Priority) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	email := f.tokens[token]
	t := service.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Priority:    priority,
		Status:      service.StatusPending,
	}
	f.tasks[email] = append(f.tasks[email], t)
	return t
}

// Calls returns how many times op was invoked.
func (f *FakeService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of calls across all operations.
func (f *FakeService) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) count(op string) {
	f.mu.Lock()
	f.calls[op]++
	f.mu.Unlock()
}

// CheckSession implements service.Service.
func (f *FakeService) CheckSession(ctx context.Context, token string) error {
	f.count(OpCheckSession)
	if f.CheckSessionErr != nil {
		return f.CheckSessionErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tokens[token]; !ok {
		return ErrInvalidToken
	}
	return nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, email, password string) (string, error) {
	f.count(OpLogin)
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || u.password != password {
		return "", ErrInvalidCredentials
	}
	token := uuid.NewString()
	f.tokens[token] = email
	return token, nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, reg service.Registration) (string, error) {
	f.count(OpRegister)
	if f.RegisterErr != nil {
		return "", f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[reg.Email]; exists {
		return "", ErrUserExists
	}
	return f.addUserLocked(reg.FullName, reg.Email, reg.Password), nil
}

// Profile implements service.Service.
func (f *FakeService) Profile(ctx context.Context, token string) (service.Profile, error) {
	f.count(OpProfile)
	if f.ProfileErr != nil {
		return service.Profile{}, f.ProfileErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.tokens[token]
	if !ok {
		return service.Profile{}, ErrInvalidToken
	}
	return f.users[email].profile, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	f.count(OpListTasks)
	if f.ListTasksFunc != nil {
		return f.ListTasksFunc(ctx, token)
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	result := make([]service.Task, len(f.tasks[email]))
	copy(result, f.tasks[email])
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, token string, t service.NewTask) (service.Task, error) {
	f.count(OpCreateTask)
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, ok := f.tokens[token]
	if !ok {
		return service.Task{}, ErrInvalidToken
	}
	created := service.Task{
		ID:          uuid.NewString(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      service.StatusPending,
		CreatedAt:   t.CreatedAt,
	}
	f.tasks[email] = append(f.tasks[email], created)
	return created, nil
}

// GetTask implements service.Service.
func (f *FakeService) GetTask(ctx context.Context, id string) (service.Task, error) {
	f.count(OpGetTask)
	if f.GetTaskErr != nil {
		return service.Task{}, f.GetTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, i, ok := f.findLocked(id)
	if !ok {
		return service.Task{}, ErrTaskNotFound
	}
	return f.tasks[email][i], nil
}

// EditTask implements service.Service.
func (f *FakeService) EditTask(ctx context.Context, edit service.TaskEdit) (service.Task, error) {
	f.count(OpEditTask)
	if f.EditTaskErr != nil {
		return service.Task{}, f.EditTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, i, ok := f.findLocked(edit.ID)
	if !ok {
		return service.Task{}, ErrTaskNotFound
	}
	t := &f.tasks[email][i]
	t.Title = edit.Title
	t.Description = edit.Description
	t.Priority = edit.Priority
	return *t, nil
}

// SetStatus implements service.Service. The token is not checked, matching
// the server's update endpoint.
func (f *FakeService) SetStatus(ctx context.Context, token string, change service.StatusChange) (service.Task, error) {
	f.count(OpSetStatus)
	if f.SetStatusErr != nil {
		return service.Task{}, f.SetStatusErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, i, ok := f.findLocked(change.ID)
	if !ok {
		return service.Task{}, ErrTaskNotFound
	}
	f.tasks[email][i].Status = change.Status
	return f.tasks[email][i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.count(OpDeleteTask)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	email, i, ok := f.findLocked(id)
	if !ok {
		return ErrTaskNotFound
	}
	tasks := f.tasks[email]
	f.tasks[email] = append(tasks[:i:i], tasks[i+1:]...)
	return nil
}

func (f *FakeService) findLocked(id string) (string, int, bool) {
	for email, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				return email, i, true
			}
		}
	}
	return "", 0, false
}
