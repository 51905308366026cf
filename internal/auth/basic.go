// Package auth gates mutating API routes behind HTTP Basic credentials
// checked against the credential store on every request. There are no
// sessions or tokens: each request carries and proves its own credentials.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"bookapp/internal/store"
)

type contextKey struct{}

var userContextKey contextKey

// BasicAuthMiddleware authenticates requests via HTTP Basic against a
// UserStore.
type BasicAuthMiddleware struct {
	users *store.UserStore
}

// NewBasicAuthMiddleware creates a new BasicAuthMiddleware.
func NewBasicAuthMiddleware(users *store.UserStore) *BasicAuthMiddleware {
	return &BasicAuthMiddleware{users: users}
}

// Authenticate verifies the request's Basic credentials. On success the
// username is injected into the request context; on failure the response is
// 401 with a WWW-Authenticate challenge. A credential store read failure is
// reported as 500, not 401, so corruption never looks like a bad password.
func (m *BasicAuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok {
			writeUnauthorized(w)
			return
		}

		valid, err := m.users.Verify(username, password)
		if err != nil {
			if errors.Is(err, store.ErrCorrupt) {
				writeAuthError(w, http.StatusInternalServerError, "credential store unavailable", "STORAGE_ERROR")
				return
			}
			writeAuthError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
			return
		}
		if !valid {
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated username, or "" if the request
// was not authenticated.
func UserFromContext(ctx context.Context) string {
	u, _ := ctx.Value(userContextKey).(string)
	return u
}

// writeUnauthorized writes a 401 JSON response with a Basic challenge.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="bookapp"`)
	writeAuthError(w, http.StatusUnauthorized, "invalid username or password", "UNAUTHORIZED")
}

// writeAuthError mirrors the API's {error,code} body so clients decode
// auth failures the same way as every other error.
func writeAuthError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
