package middleware

import (
	"context"
	"net/http"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// RequestIDHeader is echoed on every response
const RequestIDHeader = "X-Request-ID"

// RequestIDs assigns each request a UUID, reusing a well-formed incoming
// X-Request-ID. The id is stored under chi's key so chi's logger and
// GetReqID see the same value.
func RequestIDs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), chiMiddleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestID returns the id assigned by RequestIDs
func RequestID(r *http.Request) string {
	return chiMiddleware.GetReqID(r.Context())
}
