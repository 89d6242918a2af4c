package middleware

import (
	"net/http"
	"strings"

	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/google/uuid"
)

// TraceHeader carries the trace id between the portal UI, the BFF and its logs.
const TraceHeader = "X-Trace-ID"

const maxTraceIDLength = 128

// RequestID reuses the caller's trace id, or mints one, and scopes the request logger to it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := strings.TrimSpace(r.Header.Get(TraceHeader))
		if traceID == "" || len(traceID) > maxTraceIDLength {
			traceID = uuid.NewString()
		}

		w.Header().Set(TraceHeader, traceID)
		ctx := logger.With(r.Context(), "trace_id", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
