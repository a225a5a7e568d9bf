// Package session owns the persisted bearer credential and the authentication state.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"todo/internal/credstore"
	"todo/internal/service"
)

// Status is the authentication state of the running client.
type Status int

const (
	Unknown Status = iota
	Validating
	Authenticated
	Unauthenticated
)

func (s Status) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case Validating:
		return "validating"
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Settled reports whether the status is a final validation outcome.
func (s Status) Settled() bool {
	return s == Authenticated || s == Unauthenticated
}

// ErrNotAuthenticated is returned by operations that need a token when none is held.
var ErrNotAuthenticated = errors.New("not logged in")

// Manager holds the session token and status.
// Authenticated implies the token is non-empty and was confirmed by the server.
type Manager struct {
	store credstore.Store
	svc   service.Service
	log   logr.Logger

	mu        sync.Mutex
	token     string
	status    Status
	listeners []func(Status)
}

// New creates a Manager in the Unknown state.
func New(store credstore.Store, svc service.Service, log logr.Logger) *Manager {
	return &Manager{
		store: store,
		svc:   svc,
		log:   log.WithName("session"),
	}
}

// OnChange registers fn to be called after every status transition.
func (m *Manager) OnChange(fn func(Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

// Status returns the current status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Token returns the in-memory token, or "" when none is held.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// LoadPersisted reads the stored credential without any network I/O.
// Storage failures degrade to "no credential".
func (m *Manager) LoadPersisted() string {
	token, err := m.store.Load()
	if err != nil {
		m.log.Error(fmt.Errorf("%w: %v", service.ErrStorage, err), "reading persisted credential")
		token = ""
	}

	if token == "" {
		m.log.V(1).Info("no valid token found")
		m.set("", Unauthenticated)
		return ""
	}
	m.set(token, Validating)
	return token
}

// Validate asks the server whether token is still valid.
// An explicit rejection also clears the persisted credential; a transport
// failure leaves it in place so a later start can try again.
func (m *Manager) Validate(ctx context.Context, token string) Status {
	status, err := m.Check(ctx, token)
	if service.IsTransport(err) {
		m.log.Error(err, "checking session")
	}
	return status
}

// Check is Validate that also returns why the session is not authenticated:
// ErrNotAuthenticated without a token, otherwise the service error.
func (m *Manager) Check(ctx context.Context, token string) (Status, error) {
	if token == "" {
		m.set("", Unauthenticated)
		return Unauthenticated, ErrNotAuthenticated
	}

	err := m.svc.CheckSession(ctx, token)
	switch {
	case err == nil:
		m.log.V(1).Info("token is valid")
		m.set(token, Authenticated)
		return Authenticated, nil

	case service.IsRejected(err):
		m.log.Info("token rejected, logging out", "reason", err.Error())
		if cerr := m.store.Clear(); cerr != nil {
			m.log.Error(fmt.Errorf("%w: %v", service.ErrStorage, cerr), "clearing rejected credential")
		}

	default:
		m.log.V(1).Info("checking session failed", "err", err.Error())
	}

	m.set("", Unauthenticated)
	return Unauthenticated, err
}

// SetToken persists token and marks the session authenticated.
func (m *Manager) SetToken(token string) error {
	if token == "" {
		return errors.New("empty token")
	}
	if err := m.store.Save(token); err != nil {
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	m.set(token, Authenticated)
	return nil
}

// Clear removes the persisted credential and marks the session unauthenticated.
// The in-memory token is dropped even if storage fails.
func (m *Manager) Clear() error {
	err := m.store.Clear()
	m.set("", Unauthenticated)
	if err != nil {
		return fmt.Errorf("%w: %v", service.ErrStorage, err)
	}
	return nil
}

// Login exchanges credentials for a token and persists it.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	token, err := m.svc.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return m.SetToken(token)
}

// Register creates an account and persists its token.
func (m *Manager) Register(ctx context.Context, reg service.Registration) error {
	token, err := m.svc.Register(ctx, reg)
	if err != nil {
		return err
	}
	return m.SetToken(token)
}

// Profile fetches the logged-in user.
func (m *Manager) Profile(ctx context.Context) (service.Profile, error) {
	token := m.Token()
	if token == "" {
		return service.Profile{}, ErrNotAuthenticated
	}
	return m.svc.Profile(ctx, token)
}

func (m *Manager) set(token string, status Status) {
	m.mu.Lock()
	changed := m.status != status
	m.token = token
	m.status = status
	listeners := append(([]func(Status))(nil), m.listeners...)
	m.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(status)
	}
}
