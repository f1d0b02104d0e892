package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"staffhive/internal/platform/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID propagates X-Request-ID, minting one when absent, and attaches a
// request-scoped logger carrying it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" || len(reqID) > 128 {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)
		next.ServeHTTP(w, r.WithContext(logger.WithRequestID(r.Context(), reqID)))
	})
}

func GetRequestID(ctx context.Context) string {
	return logger.RequestID(ctx)
}
