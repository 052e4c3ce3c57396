package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"noteshare/internal/metrics"
	"noteshare/internal/middleware"
)

// NewRouter constructs and returns the HTTP handler serving the
// noteshare API.
//
// Routes:
//
//	POST   /api/auth/signup        → authHandler.Signup
//	POST   /api/auth/login         → authHandler.Login
//	GET    /api/notes/public       → noteHandler.ListPublic
//	GET    /api/notes/download/{id}→ noteHandler.Download
//	POST   /api/notes/upload       → noteHandler.Upload   (authenticated)
//	GET    /api/notes              → noteHandler.ListOwned (authenticated)
//	DELETE /api/notes/{id}         → noteHandler.Delete    (authenticated)
//	GET    /metrics                → Prometheus scrape endpoint
//
// Middleware chain (applied in order): request logging, metrics
// recording, per-client rate limiting; the authenticated group
// additionally passes the bearer-token gate.
func NewRouter(
	authHandler *AuthHandler,
	noteHandler *NoteHandler,
	verifier middleware.TokenVerifier,
	limiter *middleware.RateLimiter,
	collector *metrics.Collector,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))
	// Record status codes and latency
	r.Use(collector.Middleware)
	// Throttle abusive clients
	r.Use(limiter.Middleware)

	// Mount API routes
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/signup", authHandler.Signup)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/notes/public", noteHandler.ListPublic)
		r.Get("/notes/download/{id}", noteHandler.Download)

		// Protected group: requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(verifier))
			r.Post("/notes/upload", noteHandler.Upload)
			r.Get("/notes", noteHandler.ListOwned)
			r.Delete("/notes/{id}", noteHandler.Delete)
		})
	})

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler(gatherer))

	return r
}
