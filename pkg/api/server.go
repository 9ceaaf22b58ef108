// Package api is the gin-based HTTP surface for the context-curation
// engine: accept a curation request, return its job ID immediately, and
// let the caller poll for the finished Context Package.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forgeflow-dev/taskforge/pkg/artifact"
	"github.com/forgeflow-dev/taskforge/pkg/config"
	"github.com/forgeflow-dev/taskforge/pkg/curator"
)

const version = "0.1.0"

// Server is the HTTP API server.
type Server struct {
	engine      *gin.Engine
	httpServer  *http.Server
	cfg         *config.Config
	jobs        *curator.JobManager
	router      Router
	allowedRoot string
}

// NewServer builds a Server with routes registered. router may be nil if
// the deployment only needs the context-curation job endpoints — /intents
// is omitted in that case.
func NewServer(cfg *config.Config, jobs *curator.JobManager, router Router) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), securityHeaders())

	s := &Server{
		engine:      engine,
		cfg:         cfg,
		jobs:        jobs,
		router:      router,
		allowedRoot: cfg.Output.AllowedProjectRoot,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.engine.GET("/health", s.healthHandler)
	s.engine.POST("/jobs", s.submitCurationHandler)
	s.engine.GET("/jobs/:id", s.getJobHandler)
	if s.router != nil {
		s.engine.POST("/intents", s.submitIntentHandler)
	}
}

// Start runs the HTTP server on addr until the context is cancelled, then
// shuts it down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	s.httpServer = &http.Server{Addr: addr, Handler: s.engine}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// resolveProjectPath resolves path under root, the same symlink-safe check
// the artifact parser and curation Phase 1 apply to every project path
// they're handed.
func resolveProjectPath(root, path string) (string, error) {
	return artifact.ResolveUnderRoot(root, path)
}
