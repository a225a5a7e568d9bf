// Package app assembles the client core from configuration and runs the
// startup sequence shared by the command line and the terminal UI.
package app

import (
	"context"
	"io"
	"net/http"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"

	"todo/internal/backend/restapi"
	"todo/internal/config"
	"todo/internal/credstore"
	"todo/internal/gate"
	"todo/internal/nav"
	"todo/internal/service"
	"todo/internal/session"
	"todo/internal/tasks"
)

// App is the wired client core.
type App struct {
	Config  *config.Config
	Log     logr.Logger
	Service service.Service
	Session *session.Manager
	Tasks   *tasks.Store
	Nav     *nav.Controller

	creds credstore.Store
	clock clockwork.Clock
}

// Factory builds an App for a parsed configuration.
type Factory func(ctx context.Context, cfg *config.Config, log logr.Logger) (*App, error)

// New opens the configured credential store and talks to cfg.Server over
// http.DefaultClient.
func New(ctx context.Context, cfg *config.Config, log logr.Logger) (*App, error) {
	creds, err := credstore.Open(cfg.CredentialStore, cfg.Dir)
	if err != nil {
		return nil, err
	}
	svc := restapi.New(cfg.Server, http.DefaultClient)
	return Assemble(cfg, creds, svc, clockwork.NewRealClock(), log), nil
}

// Assemble wires the core around an existing store and service.
// When the task list gains focus the collection is refreshed synchronously.
func Assemble(cfg *config.Config, creds credstore.Store, svc service.Service, clock clockwork.Clock, log logr.Logger) *App {
	sess := session.New(creds, svc, log)
	store := tasks.New(svc, sess, log)
	a := &App{
		Config:  cfg,
		Log:     log,
		Service: svc,
		Session: sess,
		Tasks:   store,
		Nav:     nav.New(sess, store, log),
		creds:   creds,
		clock:   clock,
	}
	a.Nav.OnListFocused(func() {
		a.Tasks.List(context.Background())
	})
	return a
}

// Start reads the persisted credential, validates it behind the loading gate
// and boots navigation with the outcome. It returns once the gate opens.
// If ctx ends first the navigation stays on the loading screen.
func (a *App) Start(ctx context.Context) (session.Status, error) {
	token := a.Session.LoadPersisted()

	g := gate.New[session.Status](a.clock, a.Config.SplashDuration)
	status, err := g.Wait(ctx, func(ctx context.Context) session.Status {
		return a.Session.Validate(ctx, token)
	})
	if err != nil {
		return a.Session.Status(), err
	}

	a.Log.V(1).Info("startup complete", "status", status.String())
	a.Nav.Boot(status)
	return status, nil
}

// Authenticate validates the persisted credential without the loading gate
// or navigation. Command-line invocations use it. The error says why the
// session is not authenticated.
func (a *App) Authenticate(ctx context.Context) (session.Status, error) {
	return a.Session.Check(ctx, a.Session.LoadPersisted())
}

// Close releases the credential store.
func (a *App) Close() error {
	if c, ok := a.creds.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
