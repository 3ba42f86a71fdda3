package middleware

import (
	"net/http"
	"strings"

	"github.com/Volker37318/pronounce-backend/pkg/response"
)

// SecretHeader is the header clients supply the shared secret in.
const SecretHeader = "X-Pronounce-Secret"

// SharedSecret returns a middleware that checks the shared-secret header
// against the configured value. Both sides are compared after trimming
// whitespace. An empty configured secret rejects every request; the endpoint
// is never silently open.
func SharedSecret(secret string) func(http.Handler) http.Handler {
	secret = strings.TrimSpace(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				response.Unauthorized(w, "shared secret is not configured")
				return
			}

			supplied := strings.TrimSpace(r.Header.Get(SecretHeader))
			if supplied == "" {
				response.Unauthorized(w, "missing "+SecretHeader+" header")
				return
			}
			if supplied != secret {
				response.Unauthorized(w, "invalid secret")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
