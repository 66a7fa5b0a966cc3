package router

import "github.com/go-chi/chi/v5"

// GET /, GET /health y GET /metrics. Públicos.
func registerHealthRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.Health
	r.Get("/", c.Root)
	r.Get("/health", c.Health)
	if deps.MetricsHandler != nil {
		r.Method("GET", "/metrics", deps.MetricsHandler)
	}
}
