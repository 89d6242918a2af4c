package middleware

import (
	"net/http"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/pkg/logger"
)

// ForwardToken stores the caller's bearer token in the request context so the directory client
// can send it upstream. The token is not verified here; the directory backend owns that.
func ForwardToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := transport.ExtractBearerToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := internal.ContextWithToken(r.Context(), token)
		ctx = logger.With(ctx, "authenticated", true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
