package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS allows the portal UI origins to call the BFF. An empty list allows any origin.
// Callers authenticate with a bearer header, so cookies and other credentials are never allowed.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization", TraceHeader},
		ExposedHeaders:   []string{TraceHeader},
		AllowCredentials: false,
	})
	return c.Handler
}
