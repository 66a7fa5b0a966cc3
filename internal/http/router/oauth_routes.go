package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/zoombroker/internal/http/middlewares"
)

func registerOAuthRoutes(r chi.Router, deps Deps) {
	c := deps.Controllers.OAuth

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore())

		// Inicio y retorno del flujo: limitados por IP.
		r.Group(func(r chi.Router) {
			r.Use(mw.WithRateLimit(deps.LoginLimiter, mw.IPPathRateKey))
			r.Get("/oauth/login", c.Login)
			r.Get("/oauth/login-simple", c.LoginSimple)
			r.Get("/oauth/callback", c.Callback)
		})

		r.Get("/oauth/status", c.Status)
		r.Delete("/oauth/logout/{user_id}", c.Logout)
		r.Get("/user/{user_id}", c.User)
	})
}
