package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sunil-gumatimath/react-router/common/logger"
	"github.com/sunil-gumatimath/react-router/core/config"
	"github.com/sunil-gumatimath/react-router/internal/devapi"
	"github.com/sunil-gumatimath/react-router/internal/http/middleware"
)

// jobsapi serves fixture job data on the API the site reads, for local
// development without the real jobs service.
func main() {
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeJobsAPI)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Setup(cfg)

	list, err := devapi.LoadFixture(cfg.DevAPI.Fixture)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load fixture", "error", err, "path", cfg.DevAPI.Fixture)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "fixture loaded", "jobs", len(list), "path", cfg.DevAPI.Fixture)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	devapi.NewServer(list).Routes(router)

	server := &http.Server{
		Addr:              ":" + cfg.DevAPI.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "jobs api starting", "port", cfg.DevAPI.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}
	slog.InfoContext(shutdownCtx, "shutdown complete")
}
