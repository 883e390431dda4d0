package middleware

import (
	"net"
	"net/http"
	"strings"
)

// HSTS adds the Strict-Transport-Security header. Only wired in when the
// server terminates TLS itself.
func HSTS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// IsHostAllowed validates a host against the allowed hosts list before the
// HTTP listener redirects to HTTPS, preventing redirect poisoning. Returns
// true when no allowed hosts are configured.
func IsHostAllowed(host string, allowedHosts []string) bool {
	if len(allowedHosts) == 0 {
		return true
	}

	host = strings.ToLower(strings.TrimSpace(host))
	hostWithoutPort, _, err := net.SplitHostPort(host)
	if err != nil {
		hostWithoutPort = host
	}

	for _, allowedHost := range allowedHosts {
		allowedHost = strings.ToLower(strings.TrimSpace(allowedHost))
		allowedWithoutPort, _, err := net.SplitHostPort(allowedHost)
		if err != nil {
			allowedWithoutPort = allowedHost
		}

		if host == allowedHost || hostWithoutPort == allowedWithoutPort {
			return true
		}
	}

	return false
}
