package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"todo/internal/backend/googletasks"
	"todo/internal/backend/rest"
	"todo/internal/config"
	"todo/internal/service"
)

// ErrAuth marks factory failures caused by missing or unusable credentials.
var ErrAuth = errors.New("auth error")

// NewService builds the backend named by cfg.Backend.
func NewService(ctx context.Context, cfg *config.Config, log *slog.Logger) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogleTasks:
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("%w: oauth_client.json not found in %s", ErrAuth, cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("%w: not logged in (run: todo login)", ErrAuth)
		}
		c, err := googletasks.New(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrAuth, err)
		}
		return c, nil
	case config.BackendREST, "":
		return rest.New(ctx, cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown backend: %s", cfg.Backend)
	}
}
