package middlewares

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the configured browser origins; "*" allows any origin.
// Credentials are not used: the client sends bearer tokens.
func CORS(origins []string) Middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPatch,
			http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{
			"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After", "X-Response-Time",
		},
		MaxAge: 3600,
	})
	return c.Handler
}
