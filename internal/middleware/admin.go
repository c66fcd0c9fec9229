package middleware

import (
	"net/http"

	"bakebot/pkg/errors"
	"bakebot/pkg/logger"
)

// AdminIPAllowlist restricts admin routes to the configured client IPs.
// An empty list allows every IP.
func AdminIPAllowlist(allowed []string, log *logger.Logger) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, ip := range allowed {
		set[ip] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(set) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r)
			if _, ok := set[ip]; !ok {
				log.WithFields(map[string]interface{}{
					"ip":   ip,
					"path": r.URL.Path,
				}).Warn("Blocked unauthorized admin access attempt")
				errors.Write(w, errors.NewAuthorizationError("Access Denied: IP not allowed"), RequestID(r))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
