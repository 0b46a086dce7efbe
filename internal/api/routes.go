package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/bazi-api/internal/config"
)

// RequestTimeout bounds a whole request. The per-lookup calendar timeout
// from config is applied separately by the resolver.
const RequestTimeout = 30 * time.Second

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET  /health                 liveness
//	GET  /api/v1/charts          one chart from query parameters
//	POST /api/v1/charts/batch    many charts, order preserved
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	baseMiddleware := ChainMiddleware(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	// Limits apply to chart calculation only; /health stays outside them.
	chartMiddleware := ChainMiddleware(
		RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
		TimeoutMiddleware(RequestTimeout),
	)

	r.Use(baseMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteMethodNotAllowed(w, "Method not allowed")
	})

	r.Get("/health", handlers.HealthCheck)

	r.Route("/api/v1/charts", func(r chi.Router) {
		r.Use(chartMiddleware)
		r.Get("/", handlers.GetChart)
		r.Post("/batch", handlers.BatchCharts)
	})

	return r
}
