// Package router arma el handler HTTP del broker sobre chi.
package router

import (
	"net/http"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/zoombroker/internal/http/controllers"
	httperrors "github.com/dropDatabas3/zoombroker/internal/http/errors"
	mw "github.com/dropDatabas3/zoombroker/internal/http/middlewares"
	"github.com/dropDatabas3/zoombroker/internal/metrics"
	"github.com/dropDatabas3/zoombroker/internal/rate"
)

// Deps contiene todo lo que necesita el router.
type Deps struct {
	Controllers *controllers.Controllers

	Metrics        *metrics.Metrics
	MetricsHandler http.Handler // nil = sin /metrics

	CORSOrigins    []string
	TrustedProxies []netip.Prefix
	LoginLimiter   rate.Limiter // opcional; aplica a /oauth/login* y /oauth/callback
}

// New registra todas las rutas y la cadena base de middlewares.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRequestID(),
		mw.WithClientIP(deps.TrustedProxies),
		mw.WithLogging(),
		mw.WithMetrics(deps.Metrics),
		mw.WithRecover(),
		mw.WithCORS(deps.CORSOrigins),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	registerHealthRoutes(r, deps)
	registerOAuthRoutes(r, deps)
	registerRecordingsRoutes(r, deps)
	return r
}
