// Package server exposes the visualizations over HTTP: one HTML shell and one
// data response per chart under /dataviz, plus health and metrics endpoints.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/huangsam/bountyviz/core"
	"github.com/huangsam/bountyviz/internal/contract"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Timeouts of the HTTP server.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves the visualization pages of one store.
type Server struct {
	cfg    *contract.Config
	store  contract.BountyStore
	opts   []core.Option
	logger *zap.Logger
	engine *gin.Engine
}

// New builds a Server with its routes registered.
func New(cfg *contract.Config, store contract.BountyStore, opts ...core.Option) (*Server, error) {
	if cfg == nil {
		cfg = contract.DefaultConfig()
	}
	pages, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	s := &Server{
		cfg:    cfg,
		store:  store,
		opts:   opts,
		logger: contract.Logger().Named("server"),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLogger(s.logger))
	engine.SetHTMLTemplate(pages)
	s.engine = engine
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured address until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr,
		Handler:           s.engine,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// visualizer returns a request-scoped visualizer.
func (s *Server) visualizer() *core.Visualizer {
	opts := append([]core.Option{core.WithLogger(s.logger)}, s.opts...)
	return core.NewVisualizer(s.store, s.cfg, opts...)
}

// health reports liveness.
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

var metricsHandler = gin.WrapH(promhttp.Handler())
