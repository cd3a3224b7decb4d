// ABOUTME: serve command runs the HTTP API with graceful shutdown
// ABOUTME: SIGHUP reloads the engine routing table without a restart

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"ai-search-api/api"
	"ai-search-api/api/middleware"
	"ai-search-api/infrastructure/observability"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server exposing GET /search, GET /health and GET /stats.
OpenAPI documentation is served at /docs and /openapi.json.

Send SIGHUP to reload the ENGINES_CONFIG routing table.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger(cfg, os.Stdout)
	logger.Info("Starting AI Search API", map[string]interface{}{
		"port":          cfg.Server.Port,
		"environment":   cfg.Server.Environment,
		"cache_type":    cfg.Cache.Type,
		"analyzer_mode": cfg.Analyzer.Mode,
		"cross_encoder": cfg.Reranker.Enabled,
	})

	_, shutdownTracing, err := observability.InitTracer(cmd.Context(), cfg.Tracing)
	if err != nil {
		_ = logger.Close()
		return err
	}
	if cfg.Tracing.Enabled {
		logger.Info("Tracing enabled", map[string]interface{}{
			"endpoint": cfg.Tracing.Endpoint,
			"protocol": cfg.Tracing.Protocol,
			"sampler":  cfg.Tracing.Sampler,
		})
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return err
	}
	a.closers = append(a.closers, closerFunc(func() error {
		return shutdownTracing(context.Background())
	}))
	defer func() {
		if err := a.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
		}
	}()

	humaAPI, router := api.NewAPIWithMiddleware(api.APIConfig{
		Logger:      logger,
		RateLimiter: a.rateLimiter(),
		Flags:       a.flags,
	})
	api.RegisterRoutes(humaAPI, a.service, cfg.Server.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	for {
		select {
		case err, ok := <-serverErr:
			if ok {
				logger.Error("HTTP server error", map[string]interface{}{
					"error": err.Error(),
				})
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-hup:
			a.reloadRoutes()
		case <-quit:
			logger.Info("Shutting down server...", nil)

			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Server forced to shutdown", map[string]interface{}{
					"error": err.Error(),
				})
				return err
			}
			logger.Info("Server exited", nil)
			return nil
		}
	}
}

// rateLimiter builds the per-client limiter and registers it for Close.
// It returns nil when rate limiting is configured off.
func (a *app) rateLimiter() *middleware.RateLimiter {
	rl := a.cfg.RateLimit
	if rl.Limit <= 0 || rl.Window <= 0 {
		return nil
	}
	limiter := middleware.NewRateLimiter(rl.Limit, rl.Window, middleware.WithTrustedProxies(rl.TrustedProxies))
	a.closers = append(a.closers, limiter)
	return limiter
}

// reloadRoutes re-reads ENGINES_CONFIG. On error the current table stays active.
func (a *app) reloadRoutes() {
	path := a.cfg.Search.EnginesConfig
	if path == "" {
		a.logger.Info("No ENGINES_CONFIG set, nothing to reload", nil)
		return
	}
	if err := a.router.ReloadFile(path); err != nil {
		a.logger.Error("Failed to reload routing table", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
	}
}
