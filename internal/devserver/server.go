// Package devserver is a reference implementation of the /todo HTTP service
// the REST backend talks to. `todo serve` runs it for local development and
// the backend tests drive it through httptest.
package devserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"todo/internal/logging"
	"todo/internal/storage"
)

const (
	// BasePath is the route group every endpoint lives under.
	BasePath = "/todo"

	// ShutdownTimeout bounds graceful shutdown in Run.
	ShutdownTimeout = 5 * time.Second
)

// Server serves the /todo API over a Storage.
type Server struct {
	store  storage.Storage
	log    *slog.Logger
	token  string
	router *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithToken requires `Authorization: Bearer <token>` on every request.
func WithToken(token string) Option {
	return func(s *Server) { s.token = token }
}

// New creates a server over st.
func New(st storage.Storage, opts ...Option) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{store: st}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.OrDiscard(s.log)

	router := gin.New()
	router.Use(gin.Recovery(), s.logRequests())
	if s.token != "" {
		router.Use(s.requireToken())
	}

	api := router.Group(BasePath)
	{
		api.GET("/all", s.handleListAll)
		api.GET("/completed", s.handleListCompleted)
		api.GET("/active", s.handleListActive)
		api.GET("/:id", s.handleGet)
		api.POST("/create", s.handleCreate)
		api.PUT("/update/:id", s.handleUpdate)
		api.DELETE("/delete/:id", s.handleDelete)
	}

	s.router = router
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving todo api", "addr", addr, "base_path", BasePath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) requireToken() gin.HandlerFunc {
	want := "Bearer " + s.token
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != want {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
