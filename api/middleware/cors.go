package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var devCORSOrigins = []string{
	"http://localhost:3000",
}

// CORS returns middleware applying the gateway's allowed origin policy to JSON endpoints.
// With no configured origins only the local dev frontend is admitted, and only in dev.
func CORS(origins []string, dev bool) func(http.Handler) http.Handler {
	if len(origins) == 0 && dev {
		origins = devCORSOrigins
	}
	opts := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{HeaderUserID, HeaderUserRole},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(origins) == 0 {
		// go-chi/cors treats an empty list as "*".
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return cors.New(opts).Handler
}
