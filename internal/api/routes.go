package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zapponejosh/verbenas-api/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /metrics
//	GET    /api/v1/events
//	GET    /api/v1/events/{id}
//	POST   /api/v1/events            (API key)
//	PUT    /api/v1/events/{id}       (API key)
//	DELETE /api/v1/events/{id}       (API key)
//	GET    /api/v1/municipalities
//	GET    /api/v1/stats
//	GET    /api/v1/continuity
//	GET    /api/v1/carnival/{year}
func SetupRoutes(handlers *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(cfg.CORSOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", handlers.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/events", handlers.ListEvents)
		r.Get("/events/{id}", handlers.GetEvent)
		r.Get("/municipalities", handlers.ListMunicipalities)
		r.Get("/stats", handlers.GetStats)
		r.Get("/continuity", handlers.GetContinuity)
		r.Get("/carnival/{year}", handlers.GetCarnival)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))
			r.Post("/events", handlers.CreateEvent)
			r.Put("/events/{id}", handlers.UpdateEvent)
			r.Delete("/events/{id}", handlers.DeleteEvent)
		})
	})

	return r
}
