// internal/adapters/in/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"
)

// DefaultAllowedOrigin is the storefront origin; overridable per environment.
const DefaultAllowedOrigin = "https://tienda-dev.web.app"

// CORS locks responses to a single allowed origin and answers preflights.
func CORS(origin string) func(http.Handler) http.Handler {
	if strings.TrimSpace(origin) == "" {
		origin = DefaultAllowedOrigin
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type,"+GuestCartHeader)
			w.Header().Set("Access-Control-Max-Age", "600")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
