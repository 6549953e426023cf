package middleware

import (
	"context"
	"net/http"

	"staybook/pkg/logger"
)

const UserIDKey contextKey = "user_id"

// userIDHeader carries the caller identity resolved by the auth layer in
// front of this service. The core never resolves identity itself; it only
// threads the value through explicitly.
const userIDHeader = "X-User-ID"

// Identity extracts the authenticated user ID from the request and stores it
// in the context. Requests without an identity are rejected before reaching
// any handler.
func Identity(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get(userIDHeader)
			if userID == "" {
				log.Warn("Request without resolved identity",
					"request_id", requestIDFromContext(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Missing user identity"}`))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the identity placed by the Identity middleware.
func UserIDFromContext(ctx context.Context) string {
	if uid := ctx.Value(UserIDKey); uid != nil {
		if id, ok := uid.(string); ok {
			return id
		}
	}
	return ""
}
