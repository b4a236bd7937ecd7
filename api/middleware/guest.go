package middleware

import (
	"net/http"
	"strings"
)

const (
	guestTokenHeader = "X-Guest-Token"
	guestTokenCookie = "mobimart_guest"
)

// GuestToken lifts the anonymous cart token into the request context. The
// header wins over the cookie so API clients can override a stale cookie.
func GuestToken() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(guestTokenHeader))
			if token == "" {
				if cookie, err := r.Cookie(guestTokenCookie); err == nil {
					token = strings.TrimSpace(cookie.Value)
				}
			}
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithGuestToken(r.Context(), token)))
		})
	}
}
