// Package app assembles the store, provider, sink and orchestrator shared by
// cmd/api and cmd/waktu.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/waktu/internal/config"
	"github.com/albapepper/waktu/internal/geo"
	"github.com/albapepper/waktu/internal/kv"
	"github.com/albapepper/waktu/internal/metrics"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/provider/waktusolat"
	"github.com/albapepper/waktu/internal/refresh"
	"github.com/albapepper/waktu/internal/settings"
	"github.com/albapepper/waktu/internal/timetable"
)

// App holds the wired components.
type App struct {
	Store    kv.Backend
	Settings *settings.Store
	Sink     *notifications.MemorySink
	Orch     *refresh.Orchestrator
}

// New opens the configured backend and wires the refresh pipeline on top of it.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	st := settings.NewStore(store, logger)
	if err := seedLocation(ctx, st, cfg); err != nil {
		store.Close()
		return nil, err
	}

	provider := waktusolat.NewClient(cfg.ProviderBaseURL, waktusolat.Options{
		RequestsPerMinute: cfg.ProviderRequestsPerMinute,
		MaxAttempts:       cfg.ProviderMaxAttempts,
		RetryBase:         cfg.ProviderRetryBase,
		Location:          cfg.Location,
		Observer: func(status string, elapsed time.Duration) {
			metrics.ProviderFetches.WithLabelValues(status).Inc()
			metrics.ProviderFetchDuration.WithLabelValues(status).Observe(elapsed.Seconds())
		},
	}, logger)

	sink := notifications.NewMemorySink()
	orch := refresh.New(provider, timetable.NewCache(store, cfg.Location, logger), st, sink, refresh.Options{
		Location:            cfg.Location,
		HijriOffset:         cfg.HijriOffset,
		Title:               cfg.ReminderTitle,
		TravelNotifications: cfg.TravelNotifications,
	}, logger)

	return &App{Store: store, Settings: st, Sink: sink, Orch: orch}, nil
}

// Close releases the backend.
func (a *App) Close() error {
	return a.Store.Close()
}

// seedLocation stores the configured starting location when none is saved.
func seedLocation(ctx context.Context, st *settings.Store, cfg *config.Config) error {
	at := geo.Coordinate{Latitude: cfg.InitialLatitude, Longitude: cfg.InitialLongitude}
	if !at.IsSet() {
		return nil
	}
	current, err := st.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if current.Current.Coordinate.IsSet() {
		return nil
	}
	return st.SaveCurrent(ctx, settings.Place{Coordinate: at, Label: cfg.InitialLabel})
}
