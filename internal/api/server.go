// Package api exposes the evaluation engine over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/snackops/graze/internal/engine"
	"github.com/snackops/graze/internal/llm"
	"github.com/snackops/graze/internal/service"
)

// Server wires the evaluation engine, storage, and optional generative
// client into an HTTP API.
type Server struct {
	storage   service.Storage
	evaluator *engine.Evaluator
	generator llm.Client
	router    *gin.Engine
}

// NewServer creates a server. The generator may be nil, in which case the
// generate endpoint reports the provider as unconfigured.
func NewServer(storage service.Storage, evaluator *engine.Evaluator, generator llm.Client) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{
		storage:   storage,
		evaluator: evaluator,
		generator: generator,
		router:    router,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying HTTP handler, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")
	{
		api.GET("/team", s.getTeam)
		api.POST("/team", s.createTeamMember)
		api.PUT("/team/:id", s.updateTeamMember)
		api.GET("/config", s.getConfig)
		api.PUT("/config", s.updateConfig)
		api.POST("/evaluate", s.evaluate)
		api.POST("/generate", s.generate)
		api.GET("/search", s.search)
		api.GET("/review-queue", s.reviewQueue)
		api.POST("/review/:id", s.markReviewed)
		api.GET("/compliance", s.complianceReport)
	}
}

// Run serves HTTP until the context is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
