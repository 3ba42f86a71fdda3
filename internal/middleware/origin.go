package middleware

import (
	"net/http"

	"github.com/Volker37318/pronounce-backend/pkg/response"
)

// OriginAllowList returns a middleware that rejects browser requests whose
// Origin header is not in the configured list. An empty list is permissive.
// The set is built once at startup; requests without an Origin header
// (curl, server-to-server) are not subject to the check.
func OriginAllowList(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if len(allowed) > 0 && origin != "" {
				if _, ok := allowed[origin]; !ok {
					response.Forbidden(w, "origin not allowed")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
