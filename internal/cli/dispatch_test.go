package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-logr/logr"
	"github.com/jonboulle/clockwork"

	"todo/internal/app"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// testFactory assembles apps around svc and store instead of the network
// and the config directory. The last config seen is kept in *seen.
func testFactory(svc *testutil.FakeService, store *testutil.MemoryStore, seen **config.Config) app.Factory {
	return func(ctx context.Context, cfg *config.Config, log logr.Logger) (*app.App, error) {
		if seen != nil {
			*seen = cfg
		}
		return app.Assemble(cfg, store, svc, clockwork.NewFakeClock(), log), nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	args = append(args, "--config", t.TempDir())
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func newDispatcher(svc *testutil.FakeService, store *testutil.MemoryStore) *cli.Dispatcher {
	return cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc, store, nil))
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"unknowncmd"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	stdout, stderr, code := run(t, d, "help")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	stdout, stderr, code := run(t, d, "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	stdout, stderr, code := run(t, d, "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"login", "--email"}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -email\n"
	if stderr.String() != expected {
		t.Errorf("expected %q, got %q", expected, stderr.String())
	}
}

func TestDispatcher_NoArgsListsTasks(t *testing.T) {
	svc := testutil.NewFakeService()
	token := svc.AddUser("Ada", "ada@example.com", "secret1")
	svc.AddTask(token, "Buy milk", "2%", service.PriorityLow)
	d := newDispatcher(svc, testutil.NewMemoryStore(token))
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), nil, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "   1  [ ] Buy milk (Low)\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	d := newDispatcher(svc, testutil.NewMemoryStore(""))

	stdout, stderr, code := run(t, d, "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: not logged in (run: todo login)\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if svc.TotalCalls() != 0 {
		t.Errorf("expected no service calls without a token, got %d", svc.TotalCalls())
	}
}

func TestDispatcher_RevokedToken(t *testing.T) {
	svc := testutil.NewFakeService()
	token := svc.AddUser("Ada", "ada@example.com", "secret1")
	svc.RevokeToken(token)
	store := testutil.NewMemoryStore(token)
	d := newDispatcher(svc, store)

	_, stderr, code := run(t, d, "list")

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if !strings.Contains(stderr, "not logged in") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if store.Stored() != "" {
		t.Error("expected rejected token to be cleared")
	}
}

func TestDispatcher_ServerUnreachable(t *testing.T) {
	svc := testutil.NewFakeService()
	token := svc.AddUser("Ada", "ada@example.com", "secret1")
	svc.CheckSessionErr = &service.TransportError{Op: "GET /user/check-auth", Err: errors.New("connection refused")}
	store := testutil.NewMemoryStore(token)
	d := newDispatcher(svc, store)

	_, stderr, code := run(t, d, "list")

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: backend error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if store.Stored() != token {
		t.Error("expected token kept after a transport failure")
	}
}

func TestDispatcher_CommonFlags(t *testing.T) {
	var seen *config.Config
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService(), testutil.NewMemoryStore(""), &seen))

	_, stderr, code := run(t, d, "version", "--server", "http://localhost:5000", "--quiet", "--debug")

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if seen == nil {
		t.Fatal("factory was not called")
	}
	if seen.Server != "http://localhost:5000" {
		t.Errorf("expected server flag applied, got %q", seen.Server)
	}
	if !seen.Quiet || !seen.Debug {
		t.Errorf("expected quiet and debug set, got %+v", seen)
	}
}

func TestDispatcher_InvalidConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("splash_ms = -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	d := newDispatcher(testutil.NewFakeService(), testutil.NewMemoryStore(""))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"version", "--config", dir}, &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr.String(), config.ConfigFile) {
		t.Errorf("expected error to name the config file, got %q", stderr.String())
	}
}

func TestDispatcher_LoginThenList(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("Ada", "ada@example.com", "secret1")
	store := testutil.NewMemoryStore("")
	d := newDispatcher(svc, store)

	stdout, stderr, code := run(t, d, "login", "--email", "ada@example.com", "--password", "secret1")
	if code != exitcode.Success {
		t.Fatalf("login: expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected ok, got %q", stdout)
	}

	stdout, stderr, code = run(t, d, "list")
	if code != exitcode.Success {
		t.Fatalf("list: expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_RefreshFailureAfterToggleIsLogged(t *testing.T) {
	svc := testutil.NewFakeService()
	token := svc.AddUser("Ada", "ada@example.com", "secret1")
	task := svc.AddTask(token, "Buy milk", "2%", service.PriorityLow)
	var calls atomic.Int32
	svc.ListTasksFunc = func(ctx context.Context, tok string) ([]service.Task, error) {
		if calls.Add(1) == 1 {
			return []service.Task{task}, nil
		}
		return nil, &service.TransportError{Op: "GET /task/my-task", Err: errors.New("connection reset")}
	}
	d := newDispatcher(svc, testutil.NewMemoryStore(token))

	var stdout, stderr bytes.Buffer
	code := d.Run(context.Background(), []string{"done", "--config", t.TempDir(), "1"}, &stdout, &stderr)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, stderr.String())
	}
	if stdout.String() != "completed\n" {
		t.Errorf("unexpected output %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "fetching tasks") || !strings.Contains(stderr.String(), "connection reset") {
		t.Errorf("expected the failed refresh on stderr, got %q", stderr.String())
	}
}
