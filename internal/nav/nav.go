// Package nav owns the screen stack and resets it across authentication
// transitions.
//
// The stack never mixes screens from both sides of the auth boundary: login
// and registration replace whatever was there with the task list, and logout
// replaces it with the login screen. Back can therefore never reach a stale
// auth or content screen.
package nav

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"todo/internal/session"
)

// Screen identifies one view of the client.
type Screen int

const (
	Loading Screen = iota
	Login
	Register
	TaskList
	TaskDetail
	AddTask
	EditTask
	Profile
)

var screenNames = [...]string{
	Loading:    "Loading",
	Login:      "Login",
	Register:   "Register",
	TaskList:   "TaskList",
	TaskDetail: "TaskDetail",
	AddTask:    "AddTask",
	EditTask:   "EditTask",
	Profile:    "Profile",
}

func (s Screen) String() string {
	if int(s) < len(screenNames) {
		return screenNames[s]
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// authenticated reports whether the screen requires a logged-in user.
func (s Screen) authenticated() bool {
	switch s {
	case TaskList, TaskDetail, AddTask, EditTask, Profile:
		return true
	}
	return false
}

// Route is a stack entry. TaskID is set for TaskDetail and EditTask.
type Route struct {
	Screen Screen
	TaskID string
}

func (r Route) String() string {
	if r.TaskID != "" {
		return r.Screen.String() + "(" + r.TaskID + ")"
	}
	return r.Screen.String()
}

// ErrCrossesAuthBoundary is returned by Push when the target screen belongs
// to the other side of the login boundary than the current stack.
var ErrCrossesAuthBoundary = errors.New("navigation crosses the authentication boundary")

// ErrNeedsTask is returned by Push for task screens without a task id.
var ErrNeedsTask = errors.New("screen requires a task id")

// Session is the part of session.Manager the controller drives.
type Session interface {
	SetToken(token string) error
	Clear() error
}

// Collection is discarded on logout.
type Collection interface {
	Reset()
}

// Controller holds the screen stack.
type Controller struct {
	sess  Session
	tasks Collection
	log   logr.Logger

	mu        sync.Mutex
	stack     []Route
	listeners []func()
}

// New returns a Controller showing the loading screen.
func New(sess Session, tasks Collection, log logr.Logger) *Controller {
	return &Controller{
		sess:  sess,
		tasks: tasks,
		log:   log.WithName("nav"),
		stack: []Route{{Screen: Loading}},
	}
}

// OnListFocused registers fn to run whenever the task list becomes the top
// of the stack. Listeners run synchronously, outside the controller's lock.
func (c *Controller) OnListFocused(fn func()) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

// Top returns the visible route.
func (c *Controller) Top() Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stack[len(c.stack)-1]
}

// Stack returns a copy of the stack, root first.
func (c *Controller) Stack() []Route {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Route(nil), c.stack...)
}

// Boot chooses the initial stack from the session status.
func (c *Controller) Boot(status session.Status) {
	switch status {
	case session.Authenticated:
		c.reset(Route{Screen: TaskList})
	case session.Unauthenticated:
		c.reset(Route{Screen: Login})
	default:
		c.reset(Route{Screen: Loading})
	}
}

// Push shows r on top of the current screen. It is a no-op while loading.
func (c *Controller) Push(r Route) error {
	if (r.Screen == TaskDetail || r.Screen == EditTask) && r.TaskID == "" {
		return ErrNeedsTask
	}

	c.mu.Lock()
	root := c.stack[0].Screen
	if root == Loading {
		c.mu.Unlock()
		c.log.V(1).Info("ignoring push while loading", "route", r.String())
		return nil
	}
	if r.Screen == Loading || r.Screen.authenticated() != root.authenticated() {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s on top of %s", ErrCrossesAuthBoundary, r, root)
	}
	c.stack = append(c.stack, r)
	c.mu.Unlock()

	c.log.V(1).Info("push", "route", r.String())
	if r.Screen == TaskList {
		c.notify()
	}
	return nil
}

// Back pops the top screen. It reports false at the root or while loading.
func (c *Controller) Back() bool {
	c.mu.Lock()
	if len(c.stack) <= 1 {
		c.mu.Unlock()
		return false
	}
	c.stack = c.stack[:len(c.stack)-1]
	top := c.stack[len(c.stack)-1]
	c.mu.Unlock()

	c.log.V(1).Info("back", "route", top.String())
	if top.Screen == TaskList {
		c.notify()
	}
	return true
}

// LoginSucceeded stores token and replaces the stack with the task list.
func (c *Controller) LoginSucceeded(token string) error {
	return c.signedIn(token)
}

// RegisterSucceeded behaves like LoginSucceeded.
func (c *Controller) RegisterSucceeded(token string) error {
	return c.signedIn(token)
}

func (c *Controller) signedIn(token string) error {
	if err := c.sess.SetToken(token); err != nil {
		return err
	}
	c.reset(Route{Screen: TaskList})
	return nil
}

// Logout clears the session, then replaces the stack with the login screen
// and discards the task collection. The stack is reset even when the
// credential could not be removed from storage; that error is returned.
func (c *Controller) Logout() error {
	err := c.sess.Clear()
	if err != nil {
		c.log.V(1).Info("clearing credential on logout failed", "err", err.Error())
	}
	c.reset(Route{Screen: Login})
	c.tasks.Reset()
	return err
}

func (c *Controller) reset(root Route) {
	c.mu.Lock()
	c.stack = []Route{root}
	c.mu.Unlock()

	c.log.V(1).Info("reset", "route", root.String())
	if root.Screen == TaskList {
		c.notify()
	}
}

func (c *Controller) notify() {
	c.mu.Lock()
	listeners := append([]func(){}, c.listeners...)
	c.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
