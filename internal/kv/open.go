package kv

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/waktu/internal/config"
	"github.com/albapepper/waktu/internal/db"
)

// Open connects the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		backend Backend
		err     error
	)
	switch cfg.StoreBackend {
	case config.BackendMemory:
		backend = NewMemory()
	case config.BackendSQLite:
		backend, err = NewSQLite(cfg.SQLitePath)
	case config.BackendRedis:
		backend, err = NewRedis(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
	case config.BackendPostgres:
		var pool *db.Pool
		pool, err = db.New(ctx, cfg)
		if err == nil {
			backend = NewPostgres(pool)
		}
	case config.BackendMongo:
		backend, err = NewMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}

	logger.Info("Store opened", "backend", backend.Name())
	return backend, nil
}
