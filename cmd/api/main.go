// Command api is the Waktu Solat API server.
//
// Usage:
//
//	waktu-api
//	API_PORT=8080 STORE_BACKEND=redis waktu-api

// @title Waktu Solat API
// @version 1.0.0
// @description Malaysian prayer times with travel-aware grouping, reminder planning and Hijri calendar events.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Waktu
// @license.name MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/waktu/internal/api"
	"github.com/albapepper/waktu/internal/api/handler"
	"github.com/albapepper/waktu/internal/app"
	"github.com/albapepper/waktu/internal/cache"
	"github.com/albapepper/waktu/internal/config"
	"github.com/albapepper/waktu/internal/maintenance"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/refresh"

	_ "github.com/albapepper/waktu/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	// Initialize cache
	appCache := cache.New(cfg.CacheEnabled)
	logger.Info("Cache initialized", "enabled", cfg.CacheEnabled)

	// Reminder dispatch worker
	go notifications.StartWorker(ctx, a.Sink, notifications.NewLogDeliverer(logger), logger)

	// Cron jobs (daily refetch, periodic re-plan)
	if cfg.SchedulerEnabled {
		sched, err := maintenance.New(a.Orch, maintenance.Config{
			RefreshSchedule: cfg.RefreshSchedule,
			TickSchedule:    cfg.TickSchedule,
			Location:        cfg.Location,
		}, logger)
		if err != nil {
			logger.Error("Invalid schedule", "error", err)
			os.Exit(1)
		}
		go sched.Start(ctx)
	} else {
		logger.Info("Scheduler disabled")
	}

	// Initial pass so the first request has a snapshot
	go func() {
		if _, err := a.Orch.Run(ctx, refresh.Request{}); err != nil {
			logger.Warn("Initial refresh incomplete", "error", err)
		}
	}()

	h := handler.New(a.Orch, a.Sink, a.Store, appCache, cfg, logger)
	router := api.NewRouter(h, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // refresh may wait on provider retries
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting Waktu Solat API",
			"addr", addr,
			"environment", cfg.Environment,
			"store", a.Store.Name(),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
