package web

import (
	"net/http"

	"github.com/JonMunkholm/blo/internal/core"
)

// withClientIP stores the client address in the request context so core
// can log it. RemoteAddr has already been resolved by TrustedRealIP.
func withClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := core.ContextWithClientIP(r.Context(), clientIP(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
