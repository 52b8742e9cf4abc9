package cli_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
	"todo/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) cli.ServiceFactory {
	return func(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Service, error) {
		return svc, nil
	}
}

// run dispatches args with an isolated config directory.
func run(t *testing.T, factory cli.ServiceFactory, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, factory)
	if len(args) > 0 {
		args = append([]string{args[0], "--config", t.TempDir()}, args[1:]...)
	}
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "unknowncmd")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))
	code := d.Run(context.Background(), []string{"--quiet"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	stdout, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help")

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
	stdout, _, code := run(t, testFactory(testutil.NewFakeService()), "version")

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "todo 0.1.0\n" {
		t.Errorf("expected 'todo 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	_, stderr, code := run(t, testFactory(testutil.NewFakeService()), "help", "--unknown")

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagNeedsArgument(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))
	code := d.Run(context.Background(), []string{"list", "--limit"}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -limit\n"
	if errBuf.String() != expected {
		t.Errorf("expected %q, got %q", expected, errBuf.String())
	}
}

func TestDispatcher_AddThenList(t *testing.T) {
	svc := testutil.NewFakeService()
	factory := testFactory(svc)

	if _, stderr, code := run(t, factory, "add", "buy", "milk"); code != exitcode.Success {
		t.Fatalf("add failed with %d: %s", code, stderr)
	}
	if _, stderr, code := run(t, factory, "add", "--done", "pay", "rent"); code != exitcode.Success {
		t.Fatalf("add --done failed with %d: %s", code, stderr)
	}

	stdout, _, code := run(t, factory, "list", "--active")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "[ ] 1  buy milk\n" {
		t.Errorf("unexpected active list %q", stdout)
	}

	stdout, _, _ = run(t, factory, "ls")
	if stdout != "[ ] 1  buy milk\n[x] 2  pay rent\n" {
		t.Errorf("unexpected full list %q", stdout)
	}
}

func TestDispatcher_NoArgsListsAll(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask("a", "buy milk", false)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	code := d.Run(context.Background(), nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d (stderr %q)", exitcode.Success, code, errBuf.String())
	}
	if outBuf.String() != "[ ] a  buy milk\n" {
		t.Errorf("unexpected output %q", outBuf.String())
	}
}

func TestDispatcher_FactoryErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"auth", fmt.Errorf("%w: not logged in", cli.ErrAuth), exitcode.AuthError},
		{"backend", errors.New("dial tcp: refused"), exitcode.BackendError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory := func(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Service, error) {
				return nil, tt.err
			}
			_, stderr, code := run(t, factory, "list")

			if code != tt.code {
				t.Errorf("expected exit code %d, got %d", tt.code, code)
			}
			if !strings.Contains(stderr, tt.err.Error()) {
				t.Errorf("expected stderr to mention %q, got %q", tt.err, stderr)
			}
		})
	}
}

func TestDispatcher_LocalCommandSkipsFactory(t *testing.T) {
	called := false
	factory := func(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Service, error) {
		called = true
		return nil, errors.New("should not be called")
	}

	if _, _, code := run(t, factory, "version"); code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if called {
		t.Error("factory should not run for local commands")
	}
}

func TestDispatcher_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte("backend: carrier-pigeon\n"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	var outBuf, errBuf bytes.Buffer
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))
	code := d.Run(context.Background(), []string{"list", "--config", dir}, &outBuf, &errBuf)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(errBuf.String(), "error: ") {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
}

func TestNewService_SelectsBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dir = t.TempDir()

	svc, err := cli.NewService(context.Background(), cfg, nil)
	if err != nil || svc == nil {
		t.Fatalf("expected rest backend, got %v, %v", svc, err)
	}

	cfg.Backend = config.BackendGoogleTasks
	if _, err := cli.NewService(context.Background(), cfg, nil); !errors.Is(err, cli.ErrAuth) {
		t.Errorf("expected ErrAuth without credentials, got %v", err)
	}
}
