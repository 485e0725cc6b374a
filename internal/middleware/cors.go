// Package middleware provides HTTP middleware for the flight insights server.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler returns a middleware that applies CORS headers for
// allowedOrigins. Each entry must be a full origin (scheme + host, no
// trailing slash). The API is read-only, so only GET and OPTIONS are allowed.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Accept"},
	})
	return c.Handler
}
