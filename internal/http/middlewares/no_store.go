package middlewares

import "net/http"

// WithNoStore agrega Cache-Control: no-store. Se usa en todas las rutas de OAuth y
// en las que devuelven datos del usuario.
func WithNoStore() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "no-store")
			w.Header().Set("Pragma", "no-cache")
			next.ServeHTTP(w, r)
		})
	}
}
