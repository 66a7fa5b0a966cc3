package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/zoombroker/internal/metrics"
	"github.com/go-chi/chi/v5"
)

// WithMetrics registra método, patrón de ruta y status. Se usa el patrón de chi
// (/user/{user_id}) y no el path para no explotar la cardinalidad.
func WithMetrics(m *metrics.Metrics) Middleware {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			m.HTTPRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start).Seconds())
		})
	}
}
