package testutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"todo/internal/service"
)

// Request records what the fake server saw for one call.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

// FakeServer serves the REST contract over HTTP, backed by a FakeService.
type FakeServer struct {
	*httptest.Server
	Svc *FakeService

	mu       sync.Mutex
	requests []Request
}

// NewFakeServer starts a server. Callers must Close it.
func NewFakeServer(svc *FakeService) *FakeServer {
	fs := &FakeServer{Svc: svc}

	r := mux.NewRouter()
	r.Use(fs.record)
	r.HandleFunc("/user/check", fs.checkSession).Methods(http.MethodGet)
	r.HandleFunc("/user/login", fs.login).Methods(http.MethodGet)
	r.HandleFunc("/user", fs.register).Methods(http.MethodPost)
	r.HandleFunc("/user/logout", fs.profile).Methods(http.MethodGet)
	r.HandleFunc("/task/my-task", fs.listTasks).Methods(http.MethodGet)
	r.HandleFunc("/task", fs.createTask).Methods(http.MethodPost)
	r.HandleFunc("/task/particular-task", fs.getTask).Methods(http.MethodGet)
	r.HandleFunc("/task/update", fs.updateTask).Methods(http.MethodPatch)
	r.HandleFunc("/task/delete", fs.deleteTask).Methods(http.MethodDelete)

	fs.Server = httptest.NewServer(r)
	return fs
}

// Requests returns the calls seen so far, in arrival order.
func (fs *FakeServer) Requests() []Request {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]Request(nil), fs.requests...)
}

// LastRequest returns the most recent call for path.
func (fs *FakeServer) LastRequest(path string) (Request, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	for i := len(fs.requests) - 1; i >= 0; i-- {
		if fs.requests[i].Path == path {
			return fs.requests[i], true
		}
	}
	return Request{}, false
}

func (fs *FakeServer) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.requests = append(fs.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
		})
		fs.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var re *service.RejectedError
	if errors.As(err, &re) {
		writeJSON(w, re.StatusCode, map[string]string{"error": re.Message})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}

func (fs *FakeServer) checkSession(w http.ResponseWriter, r *http.Request) {
	if err := fs.Svc.CheckSession(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (fs *FakeServer) login(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token, err := fs.Svc.Login(r.Context(), q.Get("email"), q.Get("password"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

func (fs *FakeServer) register(w http.ResponseWriter, r *http.Request) {
	var reg service.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	token, err := fs.Svc.Register(r.Context(), reg)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, token)
}

func (fs *FakeServer) profile(w http.ResponseWriter, r *http.Request) {
	p, err := fs.Svc.Profile(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (fs *FakeServer) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := fs.Svc.ListTasks(r.Context(), bearerToken(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []service.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (fs *FakeServer) createTask(w http.ResponseWriter, r *http.Request) {
	var t service.NewTask
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}
	created, err := fs.Svc.CreateTask(r.Context(), bearerToken(r), t)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (fs *FakeServer) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := fs.Svc.GetTask(r.Context(), r.URL.Query().Get("taskId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// updateTask applies whichever fields are present, like the real endpoint.
func (fs *FakeServer) updateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID          string            `json:"_id"`
		Title       *string           `json:"title"`
		Description *string           `json:"description"`
		Priority    *service.Priority `json:"priority"`
		Status      *service.Status   `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	ctx := r.Context()
	t, err := fs.Svc.GetTask(ctx, body.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	if body.Title != nil || body.Description != nil || body.Priority != nil {
		edit := service.TaskEdit{ID: t.ID, Title: t.Title, Description: t.Description, Priority: t.Priority}
		if body.Title != nil {
			edit.Title = *body.Title
		}
		if body.Description != nil {
			edit.Description = *body.Description
		}
		if body.Priority != nil {
			edit.Priority = *body.Priority
		}
		if t, err = fs.Svc.EditTask(ctx, edit); err != nil {
			writeError(w, err)
			return
		}
	}
	if body.Status != nil {
		if t, err = fs.Svc.SetStatus(ctx, bearerToken(r), service.StatusChange{ID: t.ID, Status: *body.Status}); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, t)
}

func (fs *FakeServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := fs.Svc.DeleteTask(r.Context(), r.URL.Query().Get("taskId")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
