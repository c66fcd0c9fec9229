package middleware

import (
	"context"
	"net/http"
	"strings"

	"bakebot/internal/domain"
	"bakebot/internal/service"
	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// UserContextKey is the key for user information in context
	UserContextKey ContextKey = "user"

	// SessionCookie is the cookie the web app stores the Supabase access token in
	SessionCookie = "sb-access-token"
)

// Auth rejects requests without a valid Supabase session
func Auth(authService service.AuthService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				errors.Write(w, errors.NewAuthenticationError("Unauthorized"), RequestID(r))
				return
			}

			user, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				appErr := errors.As(err)
				log.WithError(err).WithField("path", r.URL.Path).Debug("Session rejected")
				errors.Write(w, appErr, RequestID(r))
				return
			}

			log.WithField("user_id", user.ID).Debug("User authenticated")
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalAuth attaches the user when a valid session is present and
// otherwise lets the request through anonymously
func OptionalAuth(authService service.AuthService, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := authService.ValidateToken(r.Context(), token)
			if err != nil {
				log.WithError(err).Debug("Ignoring invalid optional session")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// SessionToken reads the access token from the Authorization header, falling
// back to the session cookie
func SessionToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// WithUser stores user in ctx
func WithUser(ctx context.Context, user *domain.AuthUser) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *domain.AuthUser {
	user, _ := ctx.Value(UserContextKey).(*domain.AuthUser)
	return user
}
