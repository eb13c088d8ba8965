package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// OwnerHeader carries the authenticated user's ID, set by the upstream gateway.
const OwnerHeader = "X-Owner-ID"

// BearerAuthMiddleware rejects requests without "Authorization: Bearer <token>".
// An empty token disables the check.
func BearerAuthMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ownerFromRequest(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(OwnerHeader))
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
