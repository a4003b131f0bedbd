package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/sunil-gumatimath/react-router/common/id"
	"github.com/sunil-gumatimath/react-router/common/logger"
	"github.com/sunil-gumatimath/react-router/common/otel"
	"github.com/sunil-gumatimath/react-router/core/config"
	"github.com/sunil-gumatimath/react-router/internal/http/handler"
	"github.com/sunil-gumatimath/react-router/internal/http/middleware"
	httprouter "github.com/sunil-gumatimath/react-router/internal/http/router"
	"github.com/sunil-gumatimath/react-router/internal/jobs"
	"github.com/sunil-gumatimath/react-router/internal/navigation"
	"github.com/sunil-gumatimath/react-router/internal/render"
	"github.com/sunil-gumatimath/react-router/internal/site"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		// Can't use slog yet, OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "jobs site starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err, "node_id", cfg.NodeID)
		os.Exit(1)
	}

	client, err := jobs.NewClient(jobs.ClientConfig{
		BaseURL:           cfg.JobsAPI.BaseURL,
		RequestsPerSecond: cfg.JobsAPI.RequestsPerSecond,
		Burst:             cfg.JobsAPI.Burst,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create jobs api client", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "jobs api configured",
		"base_url", cfg.JobsAPI.BaseURL,
		"rate_limited", cfg.JobsAPI.RateLimited())

	tree, err := site.Routes(client)
	if err != nil {
		slog.ErrorContext(ctx, "invalid route table", "error", err)
		os.Exit(1)
	}

	renderer, err := render.New()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load page templates", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	pages := handler.NewPageHandler(navigation.New(tree), renderer, !cfg.IsProduction())
	router := setupRouter(cfg, pages)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, pages *handler.PageHandler) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, pages)

	return router
}

const banner = `
   _       _               _ _
  (_) ___ | |__  ___   ___(_) |_ ___
  | |/ _ \| '_ \/ __| / __| | __/ _ \
  | | (_) | |_) \__ \ \__ \ | ||  __/
 _/ |\___/|_.__/|___/ |___/_|\__\___|
|__/
`
