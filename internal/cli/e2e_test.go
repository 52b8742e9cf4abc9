package cli_test

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/devserver"
	"todo/internal/exitcode"
	"todo/internal/storage"
)

// TestRESTBackend_EndToEnd drives the CLI through the REST backend against
// the reference server.
func TestRESTBackend_EndToEnd(t *testing.T) {
	srv := httptest.NewServer(devserver.New(storage.NewMemory()).Handler())
	t.Cleanup(srv.Close)

	host, port, err := net.SplitHostPort(strings.TrimPrefix(srv.URL, "http://"))
	if err != nil {
		t.Fatalf("bad server url %s: %v", srv.URL, err)
	}

	dir := t.TempDir()
	settings := fmt.Sprintf("backend: rest\nremote:\n  host: %s\n  port: %s\n  base_path: /todo\n", host, port)
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(settings), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	d := cli.NewDispatcher(commands.DefaultRegistry, nil)
	exec := func(args ...string) (string, int) {
		t.Helper()
		var outBuf, errBuf bytes.Buffer
		args = append([]string{args[0], "--config", dir}, args[1:]...)
		code := d.Run(context.Background(), args, &outBuf, &errBuf)
		if code != exitcode.Success {
			t.Logf("%v: stderr %q", args, errBuf.String())
		}
		return outBuf.String(), code
	}

	out, code := exec("add", "--quiet", "buy", "milk")
	if code != exitcode.Success || out != "" {
		t.Fatalf("add: code %d, out %q", code, out)
	}
	if _, code := exec("add", "--done", "pay", "rent"); code != exitcode.Success {
		t.Fatalf("add --done: code %d", code)
	}

	out, _ = exec("list", "--active")
	if !strings.Contains(out, "[ ] ") || !strings.Contains(out, "buy milk") || strings.Contains(out, "pay rent") {
		t.Fatalf("unexpected active list %q", out)
	}
	id := strings.Fields(out)[2]

	if out, code := exec("done", id); code != exitcode.Success || !strings.HasPrefix(out, "[x] "+id) {
		t.Errorf("done: code %d, out %q", code, out)
	}
	if out, code := exec("rename", id, "buy", "oat", "milk"); code != exitcode.Success || !strings.Contains(out, "buy oat milk") {
		t.Errorf("rename: code %d, out %q", code, out)
	}

	out, _ = exec("list", "--completed")
	if strings.Count(out, "[x]") != 2 {
		t.Errorf("expected two completed tasks, got %q", out)
	}

	if _, code := exec("rm", id); code != exitcode.Success {
		t.Errorf("rm: code %d", code)
	}
	if _, code := exec("rm", id); code != exitcode.UserError {
		t.Errorf("second rm: expected exit code %d, got %d", exitcode.UserError, code)
	}

	out, _ = exec("list")
	if strings.Contains(out, "milk") || !strings.Contains(out, "pay rent") {
		t.Errorf("unexpected final list %q", out)
	}
}
