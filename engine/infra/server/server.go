// Package server hosts the HTTP surface of the relay.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/startrelay/startrelay/engine/infra/monitoring"
	"github.com/startrelay/startrelay/engine/infra/server/router"
	relayrouter "github.com/startrelay/startrelay/engine/relay/router"
	"github.com/startrelay/startrelay/pkg/config"
	"github.com/startrelay/startrelay/pkg/logger"
	"github.com/startrelay/startrelay/pkg/version"
)

const (
	httpReadTimeout       = 15 * time.Second
	httpReadHeaderTimeout = 15 * time.Second
	httpIdleTimeout       = 60 * time.Second
	serverShutdownTimeout = 5 * time.Second
	hostAny               = "0.0.0.0"
	hostLoopback          = "127.0.0.1"
)

// Server hosts the relay HTTP endpoints with graceful shutdown.
type Server struct {
	runner     relayrouter.Runner
	monitoring *monitoring.Service
	router     *gin.Engine
	ctx        context.Context
	cancel     context.CancelFunc
}

// NewServer creates a Server bound to the configuration reachable through ctx.
func NewServer(ctx context.Context, runner relayrouter.Runner, monitoringSvc *monitoring.Service) *Server {
	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		runner:     runner,
		monitoring: monitoringSvc,
		ctx:        serverCtx,
		cancel:     cancel,
	}
}

// Run builds the router, starts the HTTP server, and blocks until a shutdown
// signal arrives or the parent context is canceled.
func (s *Server) Run() error {
	if err := s.buildRouter(); err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	srv := s.createHTTPServer()
	go s.startServer(srv)
	s.logStartupBanner()
	return s.handleGracefulShutdown(srv)
}

func (s *Server) buildRouter() error {
	cfg := config.FromContext(s.ctx)
	if cfg.Runtime.Environment == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	if s.monitoring != nil && s.monitoring.IsInitialized() {
		r.Use(s.monitoring.GinMiddleware(s.ctx))
	}
	r.Use(LoggerMiddleware(logger.FromContext(s.ctx)))
	if cfg.Server.CORSEnabled {
		r.Use(CORSMiddleware(cfg.Server.CORS))
	}
	r.Use(router.ErrorHandler())
	if s.monitoring != nil && s.monitoring.IsInitialized() {
		r.GET(s.monitoring.Path(), gin.WrapH(s.monitoring.ExporterHandler()))
	}
	relayrouter.Register(r, relayrouter.NewHandlers(s.runner, cfg.Relay.ExposeFullJWT.Bool()))
	s.router = r
	return nil
}

func (s *Server) createHTTPServer() *http.Server {
	cfg := config.FromContext(s.ctx)
	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	return &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       httpReadTimeout,
		ReadHeaderTimeout: httpReadHeaderTimeout,
		IdleTimeout:       httpIdleTimeout,
		// No WriteTimeout: a trigger response blocks for as long as the
		// relayed session start runs.
	}
}

func (s *Server) startServer(srv *http.Server) {
	log := logger.FromContext(s.ctx)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("Server failed to start", "error", err)
		s.cancel()
	}
}

func (s *Server) handleGracefulShutdown(srv *http.Server) error {
	log := logger.FromContext(s.ctx)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
		log.Debug("Received shutdown signal, initiating graceful shutdown")
	case <-s.ctx.Done():
		log.Debug("Context canceled, initiating graceful shutdown")
	}
	s.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	if s.monitoring != nil {
		if err := s.monitoring.Shutdown(shutdownCtx); err != nil {
			log.Warn("Monitoring shutdown failed", "error", err)
		}
	}
	log.Info("Server shutdown completed successfully")
	return nil
}

// Stop cancels the server context, triggering a graceful shutdown.
func (s *Server) Stop() {
	s.cancel()
}

func (s *Server) logStartupBanner() {
	log := logger.FromContext(s.ctx)
	cfg := config.FromContext(s.ctx)
	httpURL := fmt.Sprintf("http://%s:%d", friendlyHost(cfg.Server.Host), cfg.Server.Port)
	lines := []string{
		fmt.Sprintf("Start Server Relay %s", version.Get().Version),
		fmt.Sprintf("  Trigger > %s/trigger", httpURL),
		fmt.Sprintf("  Health  > %s/healthz", httpURL),
		fmt.Sprintf("  Version > %s/version", httpURL),
	}
	if s.monitoring != nil && s.monitoring.Enabled() {
		lines = append(lines, fmt.Sprintf("  Metrics > %s%s", httpURL, s.monitoring.Path()))
	}
	log.Info("\n" + strings.Join(lines, "\n"))
}

func friendlyHost(h string) string {
	if h == hostAny || h == "::" || h == "" {
		return hostLoopback
	}
	return h
}
