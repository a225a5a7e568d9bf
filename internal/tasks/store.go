// Package tasks mediates task operations for the logged-in user and keeps
// an in-memory copy of the user's task list.
//
// The copy is only ever replaced wholesale by List. Mutations never patch it;
// the list converges on the next List, which the task-list view triggers
// whenever it regains focus. ToggleCompletion is the one operation that
// refreshes immediately after the server confirms.
package tasks

import (
	"context"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"todo/internal/service"
)

// CreatedAtLayout is the date format clients stamp on new tasks.
const CreatedAtLayout = "1/2/2006"

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// Store holds the task collection for the active session.
type Store struct {
	svc    service.Service
	tokens TokenSource
	log    logr.Logger

	mu    sync.Mutex
	tasks []service.Task
}

// New creates a Store with an empty collection.
func New(svc service.Service, tokens TokenSource, log logr.Logger) *Store {
	return &Store{
		svc:    svc,
		tokens: tokens,
		log:    log.WithName("tasks"),
	}
}

// Tasks returns a copy of the current collection.
func (s *Store) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]service.Task(nil), s.tasks...)
}

// Reset discards the collection.
func (s *Store) Reset() {
	s.mu.Lock()
	s.tasks = nil
	s.mu.Unlock()
}

// List fetches the user's tasks and replaces the collection with them.
//
// Without a token it returns an empty list and makes no call. On failure the
// previous collection is kept and returned; the error is logged only.
// Concurrent calls are not deduplicated: whichever response settles last
// determines the collection.
func (s *Store) List(ctx context.Context) []service.Task {
	tasks, err := s.Refresh(ctx)
	if err != nil {
		s.log.Error(err, "fetching tasks")
		return s.Tasks()
	}
	return tasks
}

// Refresh is List for callers that report failures themselves. The
// collection is left untouched when it returns an error.
func (s *Store) Refresh(ctx context.Context) ([]service.Task, error) {
	token := s.tokens.Token()
	if token == "" {
		s.log.V(1).Info("no token, skipping task fetch")
		return []service.Task{}, nil
	}

	fetched, err := s.svc.ListTasks(ctx, token)
	if err != nil {
		return nil, err
	}
	if fetched == nil {
		fetched = []service.Task{}
	}

	s.mu.Lock()
	s.tasks = fetched
	s.mu.Unlock()

	return append([]service.Task(nil), fetched...), nil
}

// Create submits a new task. Title and description must be non-empty; an
// empty priority becomes service.DefaultPriority. The collection is untouched.
func (s *Store) Create(ctx context.Context, t service.NewTask) (service.Task, error) {
	if strings.TrimSpace(t.Title) == "" || strings.TrimSpace(t.Description) == "" {
		return service.Task{}, service.ErrInvalidInput
	}
	if t.Priority == "" {
		t.Priority = service.DefaultPriority
	}

	created, err := s.svc.CreateTask(ctx, s.tokens.Token(), t)
	if err != nil {
		s.log.V(1).Info("creating task failed", "title", t.Title, "err", err.Error())
		return service.Task{}, err
	}
	s.log.V(1).Info("task created", "id", created.ID)
	return created, nil
}

// ToggleCompletion flips a task between pending and completed, then refreshes
// the collection once the server confirms. On failure the collection is left
// as it was.
func (s *Store) ToggleCompletion(ctx context.Context, id string, current service.Status) error {
	change := service.StatusChange{ID: id, Status: current.Complement()}

	if _, err := s.svc.SetStatus(ctx, s.tokens.Token(), change); err != nil {
		s.log.V(1).Info("updating task status failed", "id", id, "status", change.Status, "err", err.Error())
		return err
	}

	s.List(ctx)
	return nil
}

// Update replaces title, description and priority of a task.
func (s *Store) Update(ctx context.Context, id, title, description string, priority service.Priority) error {
	edit := service.TaskEdit{
		ID:          id,
		Title:       title,
		Description: description,
		Priority:    priority,
	}
	if _, err := s.svc.EditTask(ctx, edit); err != nil {
		s.log.V(1).Info("updating task failed", "id", id, "err", err.Error())
		return err
	}
	return nil
}

// Remove deletes a task by id.
func (s *Store) Remove(ctx context.Context, id string) error {
	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.log.V(1).Info("deleting task failed", "id", id, "err", err.Error())
		return err
	}
	return nil
}

// FetchOne reads a single task independently of the collection.
func (s *Store) FetchOne(ctx context.Context, id string) (service.Task, error) {
	t, err := s.svc.GetTask(ctx, id)
	if err != nil {
		s.log.V(1).Info("fetching task failed", "id", id, "err", err.Error())
		return service.Task{}, err
	}
	return t, nil
}
