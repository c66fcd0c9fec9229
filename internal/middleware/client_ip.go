package middleware

import (
	"net/http"
	"strings"
)

// UnknownClientIP is used when no proxy header identifies the caller
const UnknownClientIP = "unknown"

// ClientIP returns the first X-Forwarded-For entry, then X-Real-IP.
// RemoteAddr is not consulted.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return UnknownClientIP
}
