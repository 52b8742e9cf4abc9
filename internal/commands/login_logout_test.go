package commands_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	var outBuf, errBuf bytes.Buffer
	cfg := &config.Config{Dir: t.TempDir()}

	code := (&commands.LoginCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !bytes.Contains(errBuf.Bytes(), []byte("oauth_client.json not found")) {
		t.Errorf("expected missing oauth_client.json message, got %q", errBuf.String())
	}
}

// A token that cannot be refreshed must not count as logged in. The context
// is cancelled so the command stops before waiting for the browser.
func TestLoginCommand_UnusableToken(t *testing.T) {
	tokens := map[string]string{
		"corrupt":    `{"access_token":`,
		"no refresh": `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
	}

	for name, token := range tokens {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
			writeFile(t, dir, config.TokenFile, token)

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var outBuf, errBuf bytes.Buffer
			code := (&commands.LoginCmd{}).Run(ctx, &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

			if strings.HasPrefix(outBuf.String(), "already logged in") {
				t.Error("should not say 'already logged in'")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
		})
	}
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		status  int
		code    string
		wantErr bool
	}{
		{"code delivered", "state=s1&code=abc", http.StatusOK, "abc", false},
		{"state mismatch ignored", "state=other&code=abc", http.StatusBadRequest, "", false},
		{"missing code", "state=s1", http.StatusBadRequest, "", true},
		{"access denied", "state=s1&error=access_denied", http.StatusForbidden, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			errCh := make(chan error, 1)
			h := commands.CallbackHandler("s1", codeCh, errCh)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/callback?"+tt.query, nil))

			if w.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, w.Code)
			}
			select {
			case code := <-codeCh:
				if code != tt.code {
					t.Errorf("expected code %q, got %q", tt.code, code)
				}
			default:
				if tt.code != "" {
					t.Errorf("expected code %q, got none", tt.code)
				}
			}
			select {
			case err := <-errCh:
				if !tt.wantErr {
					t.Errorf("unexpected error %v", err)
				}
			default:
				if tt.wantErr {
					t.Error("expected an error on errCh")
				}
			}
		})
	}
}

func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := t.TempDir()
	oauthPath := writeFile(t, dir, config.OAuthClientFile, testOAuthClient)
	tokenPath := writeFile(t, dir, config.TokenFile, `{"access_token":"test","refresh_token":"test"}`)

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Error("oauth_client.json should NOT have been deleted")
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	tests := []struct {
		quiet bool
		want  string
	}{
		{false, "not logged in\n"},
		{true, ""},
	}

	for _, tt := range tests {
		var outBuf, errBuf bytes.Buffer
		cfg := &config.Config{Dir: t.TempDir(), Quiet: tt.quiet}

		code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

		if code != exitcode.Success {
			t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
		}
		if errBuf.String() != "" {
			t.Errorf("expected no stderr, got %q", errBuf.String())
		}
		if outBuf.String() != tt.want {
			t.Errorf("quiet=%v: expected %q, got %q", tt.quiet, tt.want, outBuf.String())
		}
	}
}
