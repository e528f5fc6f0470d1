package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// HeaderCorrelationID carries the correlation ID end to end. The same
// value appears in the request log and in the roster handlers' warning
// lines, so one ID follows an assignment update from the HTTP edge to
// its notification dispatch.
const HeaderCorrelationID = "X-Correlation-ID"

type contextKey string

const correlationIDKey contextKey = "correlation_id"

// CorrelationID tags every request with a correlation ID. An inbound
// header value is reused only when it is a well-formed UUID; anything
// else is replaced, so the log pipeline never indexes arbitrary client
// input. The final value is echoed on the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderCorrelationID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		ctx := context.WithValue(r.Context(), correlationIDKey, id)
		w.Header().Set(HeaderCorrelationID, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCorrelationID retrieves the correlation ID stored by the middleware.
// Returns an empty string if the middleware was not applied.
func GetCorrelationID(ctx context.Context) string {
	v, _ := ctx.Value(correlationIDKey).(string)
	return v
}
