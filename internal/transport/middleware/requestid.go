package middleware

import (
	"net/http"

	"github.com/taskflow/taskflow/pkg/logger"

	"github.com/google/uuid"
)

// TraceHeader carries the request id between client, server and logs.
const TraceHeader = "X-Trace-ID"

// RequestID tags every request with a trace id. An inbound header wins so
// upstream proxies can correlate; otherwise a fresh UUID is minted. The id
// is attached to the request-scoped logger and echoed on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		w.Header().Set(TraceHeader, traceID)

		ctx := logger.With(r.Context(), "traceID", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
