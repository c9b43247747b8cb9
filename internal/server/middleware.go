package server

import (
	"context"
	"net/http"

	"github.com/Ryan24313/formWords/internal/game"
)

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// identityMiddleware resolves the authenticated identity for /api routes.
// Requests without one are sent back to the external login flow.
func identityMiddleware(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := identityFromRequest(r, secret)
			if err != nil {
				writeRedirect(w, http.StatusUnauthorized, "not authenticated", "/login")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFrom(r *http.Request) game.Identity {
	return r.Context().Value(ctxKeyIdentity).(game.Identity)
}
