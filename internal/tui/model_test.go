package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-logr/logr/testr"
	"github.com/jonboulle/clockwork"

	"todo/internal/app"
	"todo/internal/config"
	"todo/internal/nav"
	"todo/internal/service"
	"todo/internal/testutil"
)

type harness struct {
	t     *testing.T
	m     *Model
	svc   *testutil.FakeService
	store *testutil.MemoryStore
}

func newHarness(t *testing.T, stored string, svc *testutil.FakeService) *harness {
	t.Helper()
	cfg := &config.Config{Dir: t.TempDir()}
	store := testutil.NewMemoryStore(stored)
	a := app.Assemble(cfg, store, svc, clockwork.NewRealClock(), testr.New(t))
	m := New(context.Background(), a)
	m.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }
	h := &harness{t: t, m: m, svc: svc, store: store}
	h.drive(m.start())
	return h
}

// drive runs cmd and feeds each resulting message back until nothing is left.
func (h *harness) drive(cmd tea.Cmd) {
	h.t.Helper()
	for i := 0; cmd != nil; i++ {
		if i > 10 {
			h.t.Fatal("command chain did not settle")
		}
		_, cmd = h.m.Update(cmd())
	}
}

func (h *harness) key(s string) {
	h.t.Helper()
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+r":
		msg = tea.KeyMsg{Type: tea.KeyCtrlR}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := h.m.Update(msg)
	h.drive(cmd)
}

func (h *harness) fill(values ...string) {
	h.t.Helper()
	if len(values) != len(h.m.inputs) {
		h.t.Fatalf("form has %d fields, got %d values", len(h.m.inputs), len(values))
	}
	for i, v := range values {
		h.m.inputs[i].SetValue(v)
	}
}

func (h *harness) expectScreen(s nav.Screen) {
	h.t.Helper()
	if h.m.screen.Screen != s {
		h.t.Fatalf("expected %v screen, got %v (message %q)", s, h.m.screen, h.m.message)
	}
}

func (h *harness) expectView(substr string) {
	h.t.Helper()
	if v := h.m.View(); !strings.Contains(v, substr) {
		h.t.Errorf("expected view to contain %q, got:\n%s", substr, v)
	}
}

func loggedIn(t *testing.T) (*harness, service.Task) {
	t.Helper()
	svc := testutil.NewFakeService()
	token := svc.AddUser("Ada Lovelace", "ada@example.com", "secret1")
	task := svc.AddTask(token, "Buy milk", "2%", service.PriorityLow)
	h := newHarness(t, token, svc)
	h.expectScreen(nav.TaskList)
	return h, task
}

func TestStart_NoTokenShowsLogin(t *testing.T) {
	h := newHarness(t, "", testutil.NewFakeService())

	h.expectScreen(nav.Login)
	h.expectView("Sign in")
}

func TestLoadingIgnoresKeys(t *testing.T) {
	svc := testutil.NewFakeService()
	cfg := &config.Config{Dir: t.TempDir()}
	a := app.Assemble(cfg, testutil.NewMemoryStore(""), svc, clockwork.NewRealClock(), testr.New(t))
	m := New(context.Background(), a)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd != nil {
		t.Error("expected keys to be ignored while loading")
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Errorf("expected loading view, got %q", m.View())
	}
}

func TestLogin_ShowsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	token := svc.AddUser("Ada", "ada@example.com", "secret1")
	svc.AddTask(token, "Buy milk", "2%", service.PriorityLow)
	h := newHarness(t, "", svc)

	h.fill("ada@example.com", "secret1")
	h.key("enter")

	h.expectScreen(nav.TaskList)
	h.expectView("Buy milk")
	if h.store.Stored() == "" {
		t.Error("expected token persisted")
	}
	if len(h.m.app.Nav.Stack()) != 1 {
		t.Errorf("expected login to reset the stack, got %v", h.m.app.Nav.Stack())
	}
}

func TestLogin_ValidationStaysLocal(t *testing.T) {
	svc := testutil.NewFakeService()
	h := newHarness(t, "", svc)

	h.fill("not-an-email", "secret1")
	h.key("enter")

	h.expectScreen(nav.Login)
	h.expectView("invalid email format")
	if svc.Calls(testutil.OpLogin) != 0 {
		t.Error("expected no login call")
	}
}

func TestLogin_RejectedShowsServerMessage(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("Ada", "ada@example.com", "secret1")
	h := newHarness(t, "", svc)

	h.fill("ada@example.com", "wrong-password")
	h.key("enter")

	h.expectScreen(nav.Login)
	h.expectView("Invalid credentials")
}

func TestRegister(t *testing.T) {
	svc := testutil.NewFakeService()
	h := newHarness(t, "", svc)

	h.key("ctrl+r")
	h.expectScreen(nav.Register)

	h.fill("Ada", "ada@example.com", "secret1", "secret1")
	h.key("enter")

	h.expectScreen(nav.TaskList)
	h.expectView("No tasks yet")
}

func TestList_Toggle(t *testing.T) {
	h, _ := loggedIn(t)

	h.key("space")
	h.expectView("[x]")
	if got := h.m.tasks[0].Status; got != service.StatusCompleted {
		t.Errorf("expected completed, got %q", got)
	}

	h.key("x")
	if got := h.m.tasks[0].Status; got != service.StatusPending {
		t.Errorf("expected pending, got %q", got)
	}
}

func TestAddTask(t *testing.T) {
	h, _ := loggedIn(t)

	h.key("a")
	h.expectScreen(nav.AddTask)

	h.fill("Call mom", "Sunday", "high")
	h.key("enter")

	h.expectScreen(nav.TaskList)
	h.expectView("Call mom")
	if len(h.m.tasks) != 2 {
		t.Fatalf("expected 2 tasks after refresh, got %d", len(h.m.tasks))
	}
	added := h.m.tasks[1]
	if added.Priority != service.PriorityHigh || added.CreatedAt != "1/1/2024" {
		t.Errorf("unexpected task: %+v", added)
	}
}

func TestAddTask_RequiresFields(t *testing.T) {
	h, _ := loggedIn(t)
	h.key("a")

	h.fill("Call mom", "", "")
	h.key("enter")

	h.expectScreen(nav.AddTask)
	h.expectView("title and description are required")
}

func TestDetail_EditThenDelete(t *testing.T) {
	h, task := loggedIn(t)

	h.key("enter")
	h.expectScreen(nav.TaskDetail)
	h.expectView("2%")

	h.key("e")
	h.expectScreen(nav.EditTask)
	if got := h.m.inputs[taskTitle].Value(); got != "Buy milk" {
		t.Errorf("expected form prefilled, got %q", got)
	}
	h.fill("Buy oat milk", "2%", "Low")
	h.key("enter")

	h.expectScreen(nav.TaskDetail)
	h.expectView("Buy oat milk")

	h.key("d")
	h.expectView("Delete this task?")
	h.key("y")

	h.expectScreen(nav.TaskList)
	for _, t2 := range h.m.tasks {
		if t2.ID == task.ID {
			t.Error("deleted task still listed")
		}
	}
}

func TestDetail_DoubleToggle(t *testing.T) {
	h, task := loggedIn(t)
	h.key("enter")
	h.expectScreen(nav.TaskDetail)

	h.key("x")
	if h.m.detail.Status != service.StatusCompleted {
		t.Fatalf("expected detail to show completed, got %q", h.m.detail.Status)
	}
	h.expectView("completed")

	h.key("x")
	got, err := h.svc.GetTask(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != service.StatusPending {
		t.Errorf("expected server status pending after two toggles, got %q", got.Status)
	}
	if h.m.detail.Status != service.StatusPending {
		t.Errorf("expected detail to show pending, got %q", h.m.detail.Status)
	}
	h.expectView("pending")
}

func TestDetail_DeleteCancelled(t *testing.T) {
	h, _ := loggedIn(t)
	h.key("enter")

	h.key("d")
	h.key("n")

	h.expectScreen(nav.TaskDetail)
	if h.svc.Calls(testutil.OpDeleteTask) != 0 {
		t.Error("expected no delete call")
	}
}

func TestProfile_Logout(t *testing.T) {
	h, _ := loggedIn(t)

	h.key("p")
	h.expectScreen(nav.Profile)
	h.expectView("ada@example.com")

	h.key("l")
	h.expectScreen(nav.Login)
	if h.store.Stored() != "" {
		t.Error("expected token cleared")
	}
	if len(h.m.tasks) != 0 {
		t.Error("expected tasks discarded")
	}
}
