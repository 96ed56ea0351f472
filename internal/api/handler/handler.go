// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the refresh orchestrator directly; there is no service layer.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/albapepper/waktu/internal/api/respond"
	"github.com/albapepper/waktu/internal/cache"
	"github.com/albapepper/waktu/internal/config"
	"github.com/albapepper/waktu/internal/kv"
	"github.com/albapepper/waktu/internal/notifications"
	"github.com/albapepper/waktu/internal/prayer"
	"github.com/albapepper/waktu/internal/refresh"
	"github.com/albapepper/waktu/internal/timetable"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	orch   *refresh.Orchestrator
	sink   *notifications.MemorySink
	store  kv.Backend
	cache  *cache.Cache
	cfg    *config.Config
	logger *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(orch *refresh.Orchestrator, sink *notifications.MemorySink, store kv.Backend, c *cache.Cache, cfg *config.Config, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{orch: orch, sink: sink, store: store, cache: c, cfg: cfg, logger: logger}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "Waktu Solat API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckStore verifies key-value store connectivity.
// @Summary Store health check
// @Description Pings the configured settings and timetable store.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/store [get]
func (h *Handler) HealthCheckStore(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Ping(r.Context()); err != nil {
		h.logger.Warn("Store health check failed", "backend", h.store.Name(), "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"backend":   h.store.Name(),
			"error":     "Store connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"backend":   h.store.Name(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory response cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// --------------------------------------------------------------------------
// Error mapping
// --------------------------------------------------------------------------

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var rangeErr *prayer.RangeError
	switch {
	case errors.As(err, &rangeErr):
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, "OUT_OF_RANGE", "Value out of range", rangeErr.Error())
	case errors.Is(err, prayer.ErrOutOfRange):
		respond.WriteErrorDetail(w, http.StatusUnprocessableEntity, "OUT_OF_RANGE", "Value out of range", err.Error())
	case errors.Is(err, refresh.ErrNoLocation):
		respond.WriteError(w, http.StatusConflict, "NO_LOCATION", "No location has been set")
	case errors.Is(err, refresh.ErrNoTimetable):
		respond.WriteError(w, http.StatusServiceUnavailable, "NO_TIMETABLE", "No timetable available for today")
	case errors.Is(err, refresh.ErrSuperseded):
		respond.WriteError(w, http.StatusConflict, "SUPERSEDED", "A newer refresh completed first")
	case errors.Is(err, notifications.ErrEmptyPlan):
		respond.WriteError(w, http.StatusNotFound, "EMPTY_PLAN", "No reminders are planned")
	case errors.Is(err, timetable.ErrNetwork), errors.Is(err, timetable.ErrDecode):
		respond.WriteErrorDetail(w, http.StatusBadGateway, "PROVIDER_ERROR", "Timetable provider failed", err.Error())
	default:
		h.logger.Error("Request failed", "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// afterSettingsChange drops cached responses and re-plans. A missing
// location is not an error here.
func (h *Handler) afterSettingsChange(r *http.Request) {
	h.cache.Purge()
	if _, err := h.orch.Run(r.Context(), refresh.Request{}); err != nil &&
		!errors.Is(err, refresh.ErrNoLocation) && !errors.Is(err, refresh.ErrSuperseded) {
		h.logger.Warn("Refresh after settings change failed", "error", err)
	}
}
