// Package restapi implements service.Service against the to-do REST backend.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"todo/internal/service"
)

// DefaultBaseURL is the production backend.
const DefaultBaseURL = "https://to-do-backend-zeta.vercel.app"

// maxMessageLen bounds how much of an error body ends up in a message.
const maxMessageLen = 200

// Client implements service.Service over HTTP.
// No client-side timeouts are applied; callers control lifetime through ctx.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for baseURL. If httpClient is nil, http.DefaultClient is used.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
	}
}

// bearer returns an HTTP client that sends token as a bearer credential.
func (c *Client) bearer(ctx context.Context, token string) *http.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	return oauth2.NewClient(ctx, src)
}

// CheckSession implements service.Service.
func (c *Client) CheckSession(ctx context.Context, token string) error {
	return c.do(ctx, c.bearer(ctx, token), http.MethodGet, "/user/check", nil, nil, nil)
}

// Login implements service.Service.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	q := url.Values{}
	q.Set("email", email)
	q.Set("password", password)

	var token string
	if err := c.do(ctx, c.http, http.MethodGet, "/user/login", q, nil, &token); err != nil {
		return "", err
	}
	return token, nil
}

// Register implements service.Service.
func (c *Client) Register(ctx context.Context, reg service.Registration) (string, error) {
	var token string
	if err := c.do(ctx, c.http, http.MethodPost, "/user", nil, reg, &token); err != nil {
		return "", err
	}
	if token == "" {
		return "", errors.New("token not received")
	}
	return token, nil
}

// Profile implements service.Service.
func (c *Client) Profile(ctx context.Context, token string) (service.Profile, error) {
	var p service.Profile
	err := c.do(ctx, c.bearer(ctx, token), http.MethodGet, "/user/logout", nil, nil, &p)
	return p, err
}

// ListTasks implements service.Service.
func (c *Client) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	var tasks []service.Task
	if err := c.do(ctx, c.bearer(ctx, token), http.MethodGet, "/task/my-task", nil, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask implements service.Service.
func (c *Client) CreateTask(ctx context.Context, token string, t service.NewTask) (service.Task, error) {
	var created service.Task
	err := c.do(ctx, c.bearer(ctx, token), http.MethodPost, "/task", nil, t, &created)
	return created, err
}

// GetTask implements service.Service. The endpoint takes no bearer credential.
func (c *Client) GetTask(ctx context.Context, id string) (service.Task, error) {
	q := url.Values{}
	q.Set("taskId", id)

	var t service.Task
	err := c.do(ctx, c.http, http.MethodGet, "/task/particular-task", q, nil, &t)
	return t, err
}

// EditTask implements service.Service. The endpoint takes no bearer credential.
func (c *Client) EditTask(ctx context.Context, edit service.TaskEdit) (service.Task, error) {
	var t service.Task
	err := c.do(ctx, c.http, http.MethodPatch, "/task/update", nil, edit, &t)
	return t, err
}

// SetStatus implements service.Service.
func (c *Client) SetStatus(ctx context.Context, token string, change service.StatusChange) (service.Task, error) {
	var t service.Task
	err := c.do(ctx, c.bearer(ctx, token), http.MethodPatch, "/task/update", nil, change, &t)
	return t, err
}

// DeleteTask implements service.Service. The endpoint takes no bearer credential.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("taskId", id)
	return c.do(ctx, c.http, http.MethodDelete, "/task/delete", q, nil, nil)
}

// do sends one request and decodes a JSON answer into out (if non-nil).
func (c *Client) do(ctx context.Context, hc *http.Client, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding %s request: %w", op, err)
		}
		rdr = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := hc.Do(req)
	if err != nil {
		return &service.TransportError{Op: op, Err: err}
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return rejection(err)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", op, err)
	}
	return nil
}

// rejection converts a googleapi error into service.RejectedError.
func rejection(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}
	return &service.RejectedError{
		StatusCode: gerr.Code,
		Message:    messageOf(gerr),
	}
}

// messageOf extracts a human-readable message from the error reply.
// The backend answers with {"error": "..."} or {"message": "..."}.
func messageOf(gerr *googleapi.Error) string {
	if gerr.Message != "" {
		return gerr.Message
	}

	var reply struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal([]byte(gerr.Body), &reply) == nil {
		if s, ok := reply.Error.(string); ok && s != "" {
			return s
		}
		if reply.Message != "" {
			return reply.Message
		}
	}

	msg := strings.TrimSpace(gerr.Body)
	if len(msg) > maxMessageLen {
		msg = msg[:maxMessageLen]
	}
	return msg
}
