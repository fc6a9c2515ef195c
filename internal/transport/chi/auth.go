package chi

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

const staticPrefix = "/static/"

// public reports whether path is reachable without an API key: the UI, its assets, health and metrics.
func public(path string) bool {
	switch path {
	case "/", "/health", "/metrics":
		return true
	}
	return strings.HasPrefix(path, staticPrefix)
}

// APIKeyAuth requires "Authorization: Bearer <key>" on the /api routes.
// With no non-empty keys configured the gateway is open and the middleware is a no-op.
// CORS preflight requests are never challenged.
func APIKeyAuth(keys []string) func(http.Handler) http.Handler {
	var digests [][sha256.Size]byte
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			digests = append(digests, sha256.Sum256([]byte(k)))
		}
	}

	return func(next http.Handler) http.Handler {
		if len(digests) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || public(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			if msg := checkBearer(r.Header.Get("Authorization"), digests); msg != "" {
				w.Header().Set("WWW-Authenticate", `Bearer realm="ytsearch"`)
				writeError(w, http.StatusUnauthorized, CategoryUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// checkBearer returns an empty string for a known key, otherwise the rejection message.
// Keys are compared as digests in constant time.
func checkBearer(header string, digests [][sha256.Size]byte) string {
	if header == "" {
		return "missing authorization header"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "authorization header must use Bearer scheme"
	}
	got := sha256.Sum256([]byte(strings.TrimSpace(token)))
	match := 0
	for _, d := range digests {
		match |= subtle.ConstantTimeCompare(got[:], d[:])
	}
	if match == 0 {
		return "invalid api key"
	}
	return ""
}
