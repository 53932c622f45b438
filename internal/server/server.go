// Package server is the static-asset server for the prebuilt web
// bundle. It serves files from the dist directory with an SPA fallback
// to index.html, so client-side routes survive a hard reload.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/deskd-dev/deskd/internal/config"
)

// Server represents the HTTP server
type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   zerolog.Logger
	version  string
	degraded bool
}

// New creates a new server instance. When the built bundle is missing,
// the startup policy decides between refusing to start and coming up
// degraded with a fixed unavailable page.
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	server := &Server{
		config:  cfg,
		logger:  zlog,
		version: version,
	}

	indexPath := filepath.Join(cfg.Server.DistPath, "index.html")
	if _, err := os.Stat(indexPath); err != nil {
		switch cfg.Server.StartupPolicy {
		case config.StartupDegrade:
			zlog.Warn().Str("dist_path", cfg.Server.DistPath).
				Msg("Build output missing, serving unavailable page")
			server.degraded = true
		default:
			return nil, fmt.Errorf("build output missing at %s: %w", indexPath, err)
		}
	}

	server.setupRouter()

	return server, nil
}

// Router returns the underlying handler, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware for the dev setup where the API runs on its own
	// origin.
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Liveness endpoint, served in both startup modes
	s.router.GET("/healthz", s.healthCheck)

	if s.degraded {
		s.router.NoRoute(s.serveUnavailable)
		return
	}

	s.router.NoRoute(s.serveStatic)
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "deskd-web",
	})
}

// serveStatic serves the requested file from the dist directory, or
// index.html for any unmatched path (client-side routing fallback).
func (s *Server) serveStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	// Clean before joining so ".." never escapes the dist directory.
	relPath := filepath.Clean("/" + c.Request.URL.Path)
	fullPath := filepath.Join(s.config.Server.DistPath, relPath)

	if info, err := os.Stat(fullPath); err == nil && !info.IsDir() {
		c.File(fullPath)
		return
	}

	c.File(filepath.Join(s.config.Server.DistPath, "index.html"))
}

func (s *Server) serveUnavailable(c *gin.Context) {
	c.Header("Retry-After", "30")
	c.String(http.StatusServiceUnavailable, "deskd is temporarily unavailable")
}

// Start starts the HTTP server and blocks until a shutdown signal
func (s *Server) Start() error {
	addr := ":" + s.config.Server.Port

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		s.logger.Info().Str("addr", addr).Str("version", s.version).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Server shutdown complete")
	return nil
}
