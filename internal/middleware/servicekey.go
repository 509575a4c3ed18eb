package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// ServiceKey rejects requests whose apikey header or bearer token does not
// match key. An empty key disables the check.
func ServiceKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !matchesKey(r, key) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid API key"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func matchesKey(r *http.Request, key string) bool {
	if v := r.Header.Get("apikey"); v != "" {
		return constantTimeEqual(v, key)
	}
	authHeader := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return false
	}
	return constantTimeEqual(strings.TrimSpace(token), key)
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
