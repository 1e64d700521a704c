package middleware

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

const bearerPrefix = "Bearer "

// UnauthorizedBody is the single response body for every rejected credential
const UnauthorizedBody = `{"detail":"Unauthorized: invalid token"}`

// Authorized reports whether header is exactly "Bearer <secret>".
// The comparison is constant time; an empty secret never authorizes.
func Authorized(header, secret string) bool {
	if secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(bearerPrefix+secret)) == 1
}

// Auth returns a middleware that rejects requests without the shared bearer secret.
// Rejected requests never reach the next handler.
func Auth(secret string, logger *zap.Logger) func(next http.Handler) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !Authorized(r.Header.Get("Authorization"), secret) {
				AuthFailuresTotal.Inc()
				logger.Warn("rejected request with invalid credential",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(UnauthorizedBody))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
