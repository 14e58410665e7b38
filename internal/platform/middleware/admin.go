package middleware

import (
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

// RequireAdmin guards operational endpoints with a static admin token,
// compared against its bcrypt hash from configuration. An empty hash
// disables the surface entirely.
func RequireAdmin(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenHash == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			token := r.Header.Get("X-Admin-Token")
			if token == "" {
				writeUnauthorized(w, "Missing admin token")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(tokenHash), []byte(token)); err != nil {
				logger.WarnContext(r.Context(), "admin token mismatch", "path", r.URL.Path)
				writeUnauthorized(w, "Invalid admin token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
