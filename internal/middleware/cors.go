package middleware

import (
	"net/http"
	"slices"
	"strings"
)

const (
	corsAllowHeaders = "Content-Type, Authorization"
	corsAllowMethods = "GET,POST,PUT,DELETE,OPTIONS"
	corsMaxAge       = "600"
)

type corsPolicy struct {
	allowAll bool
	origins  []string
}

func newCORSPolicy(allowedOrigins []string) corsPolicy {
	var p corsPolicy
	for _, origin := range allowedOrigins {
		if origin == "*" {
			return corsPolicy{allowAll: true}
		}
		p.origins = append(p.origins, strings.ToLower(origin))
	}
	return p
}

func (p corsPolicy) allowed(origin string) bool {
	return p.allowAll || slices.Contains(p.origins, strings.ToLower(origin))
}

// CORS adds Access-Control headers for allowed origins and answers preflight requests.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && policy.allowed(origin) {
			h := w.Header()
			if policy.allowAll {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
