package middleware

import (
	"net/http"
	"strconv"

	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
	"bakebot/pkg/ratelimit"
)

// RateLimitMessage is returned with every 429
const RateLimitMessage = "Too many requests. Please try again later."

// KeyFunc derives the rate limit identifier for a request. An empty result
// skips limiting.
type KeyFunc func(r *http.Request) string

// ByIP keys requests as "<scope>:<client ip>"
func ByIP(scope string) KeyFunc {
	return func(r *http.Request) string {
		return scope + ":" + ClientIP(r)
	}
}

// ByUser keys requests as "<scope>:<user id>" and falls back to the client
// IP for anonymous requests
func ByUser(scope string) KeyFunc {
	return func(r *http.Request) string {
		if user := UserFromContext(r.Context()); user != nil {
			return scope + ":" + user.ID
		}
		return scope + ":" + ClientIP(r)
	}
}

// RateLimit rejects requests over rule with 429 and a Retry-After header.
// Store failures let the request through.
func RateLimit(limiter *ratelimit.Limiter, rule ratelimit.Rule, key KeyFunc, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := key(r)
			if id == "" {
				next.ServeHTTP(w, r)
				return
			}

			decision, err := limiter.Allow(r.Context(), id, rule)
			if err != nil {
				log.WithError(err).WithField("key", id).Warn("Rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining()))

			if !decision.Allowed {
				log.WithFields(map[string]interface{}{
					"key":         id,
					"count":       decision.Count,
					"retry_after": decision.RetryAfterSeconds(),
				}).Info("Rate limit exceeded")
				errors.Write(w, errors.NewRateLimitError(RateLimitMessage, decision.RetryAfterSeconds()), RequestID(r))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
