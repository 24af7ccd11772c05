// Package auth provides HTTP middleware for bearer token authentication of
// the method channel.
package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/jamesprial/extstorage-mcp/internal/logging"
)

// NewAuthMiddleware returns an HTTP middleware that enforces bearer token
// authentication. If the configured token is empty, authentication is disabled
// and all requests pass through to the next handler unconditionally. Requests
// whose URL path is listed in exempt (e.g. a health probe) also pass through.
//
// When enabled, the middleware requires the incoming request to carry an
// Authorization header with the exact format:
//
//	Authorization: Bearer <token>
//
// The "Bearer" prefix is case-sensitive and must be followed by exactly one
// space before the token value. Any deviation results in a 401 Unauthorized
// response carrying a WWW-Authenticate challenge, and the next handler is
// never called. Tokens are compared in constant time.
func NewAuthMiddleware(token string, exempt ...string) func(http.Handler) http.Handler {
	open := make(map[string]struct{}, len(exempt))
	for _, p := range exempt {
		open[p] = struct{}{}
	}
	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, ok := open[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			const prefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			provided, ok := strings.CutPrefix(authHeader, prefix)
			if !ok || provided == "" || subtle.ConstantTimeCompare([]byte(provided), want) != 1 {
				logging.Warn().
					Str("remote", r.RemoteAddr).
					Str("path", r.URL.Path).
					Msg("rejected unauthenticated request")
				w.Header().Set("WWW-Authenticate", `Bearer realm="extstorage"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
