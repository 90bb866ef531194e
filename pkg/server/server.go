// Package server exposes extraction and sync over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"content-sync/pkg/domain"
	"content-sync/pkg/logger"
)

// EntrySource lists the entries extracted when a request names no URLs
type EntrySource interface {
	Entries(ctx context.Context) ([]domain.Entry, error)
}

// Extractor runs the fan-out extraction
type Extractor interface {
	Run(ctx context.Context, entries []domain.Entry) []domain.Record
}

// SyncRunner runs batch syncs
type SyncRunner interface {
	Run(ctx context.Context) (domain.SyncResult, error)
	History(ctx context.Context, limit int) ([]domain.SyncResult, error)
}

// Config holds configuration for the HTTP server
type Config struct {
	Address         string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Debug           bool
}

// SetDefaults fills zero values
func (c *Config) SetDefaults() {
	if c.Address == "" {
		c.Address = ":8080"
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 30 * time.Second
	}
	// Extraction and sync requests wait on many page fetches
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 10 * time.Minute
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}

// Server represents the HTTP trigger with lifecycle management.
type Server struct {
	router    *gin.Engine
	server    *http.Server
	source    EntrySource
	extractor Extractor
	syncer    SyncRunner
	logger    logger.Logger
	config    Config
}

// New creates the server and registers its routes. syncer may be nil, in
// which case the sync routes are not registered.
func New(cfg Config, src EntrySource, extractor Extractor, syncer SyncRunner, log logger.Logger) *Server {
	cfg.SetDefaults()
	log = logger.OrNop(log)

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(recoveryMiddleware(log))
	router.Use(loggerMiddleware(log))
	router.Use(corsMiddleware())

	s := &Server{
		router:    router,
		source:    src,
		extractor: extractor,
		syncer:    syncer,
		logger:    log,
		config:    cfg,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleExtract)
	s.router.GET("/extract", s.handleExtract)
	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if s.syncer != nil {
		s.router.POST("/sync", s.handleSync)
		s.router.GET("/sync/history", s.handleHistory)
	}
}

// Handler returns the router for use with httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", logger.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Context cancelled, shutting down")
	}

	// ctx is already done; shutdown gets its own deadline
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("HTTP server stopped gracefully")
	return nil
}
