package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/srcfoundry/mvcore/component"
	"go.uber.org/zap"
)

type traceIDKey struct{}

// TraceIDFromContext returns the trace id assigned to the request, if any.
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

// traceMiddleware propagates the caller's trace id, or assigns a new one, and attaches a
// logger carrying it to the request context.
func traceMiddleware(logger *zap.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := ""
		// header.Get() canonicalizes keys, so the lookup is case insensitive.
		for _, header := range []string{"TraceID", "Trace-ID"} {
			traceID = r.Header.Get(header)
			if len(traceID) > 0 {
				break
			}
		}

		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
		ctx = component.ContextWithLogger(ctx, logger.With(zap.String("trace_id", traceID)))
		r = r.WithContext(ctx)

		w.Header().Set("traceId", traceID)
		next.ServeHTTP(w, r)
	})
}
