package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dropDatabas3/zoombroker/internal/http/middlewares"
)

func registerRecordingsRoutes(r chi.Router, deps Deps) {
	r.With(mw.WithNoStore()).Get("/recordings", deps.Controllers.Recordings.List)
}
