// Package api implements the Recallify REST API using chi.
package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// accessTokenParam carries the token for EventSource clients, which cannot
// set request headers.
const accessTokenParam = "access_token"

type tokenSource func(r *http.Request) string

func fromHeader(r *http.Request) string {
	got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return ""
	}
	return got
}

func fromHeaderOrQuery(r *http.Request) string {
	if got := fromHeader(r); got != "" {
		return got
	}
	return r.URL.Query().Get(accessTokenParam)
}

func requireToken(enabled bool, token string, source tokenSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				next.ServeHTTP(w, r)
				return
			}
			got := source(r)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="recallify"`)
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware returns middleware that validates an
// "Authorization: Bearer <token>" header. If enabled is false, all requests
// pass through.
func AuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return requireToken(enabled, token, fromHeader)
}

// StreamAuthMiddleware is AuthMiddleware that also accepts the token in the
// access_token query parameter.
func StreamAuthMiddleware(enabled bool, token string) func(http.Handler) http.Handler {
	return requireToken(enabled, token, fromHeaderOrQuery)
}
