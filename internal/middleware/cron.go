package middleware

import (
	"crypto/subtle"
	"net/http"

	"bakebot/pkg/errors"
)

// CronSecret requires "Authorization: Bearer <secret>" when secret is set
func CronSecret(secret string) func(http.Handler) http.Handler {
	expected := []byte("Bearer " + secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				next.ServeHTTP(w, r)
				return
			}

			got := []byte(r.Header.Get("Authorization"))
			if subtle.ConstantTimeCompare(got, expected) != 1 {
				errors.Write(w, errors.NewAuthenticationError("Unauthorized"), RequestID(r))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
