package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/albapepper/waktu/internal/api/handler"
	"github.com/albapepper/waktu/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag", "Retry-After"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	r.Get("/", h.Root)

	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/store", h.HealthCheckStore)
		r.Get("/cache", h.HealthCheckCache)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		// Prayer times
		r.Get("/prayers", h.GetPrayers)
		r.Get("/prayers/current", h.GetCurrent)
		r.Get("/snapshot", h.GetSnapshot)
		r.Post("/refresh", h.PostRefresh)
		r.Get("/hijri", h.GetHijri)

		// Reminders
		r.Get("/reminders", h.GetReminders)
		r.Get("/reminders.ics", h.GetRemindersICS)

		// Location and travel
		r.Put("/location", h.PutLocation)
		r.Put("/home", h.PutHome)
		r.Delete("/home", h.DeleteHome)
		r.Get("/travel", h.GetTravel)
		r.Put("/travel", h.PutTravel)

		// Settings
		r.Get("/settings/offsets", h.GetOffsets)
		r.Put("/settings/offsets", h.PutOffsets)
		r.Get("/settings/notifications", h.GetNotifications)
		r.Put("/settings/notifications", h.PutNotifications)
	})

	return r
}
