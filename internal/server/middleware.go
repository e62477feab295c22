package server

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const (
	ctxKeyUser ctxKey = iota
	ctxKeyAdmin
)

const userHeader = "X-User-ID"

// userMiddleware trusts the intranet shell in front of the service to set
// X-User-ID. Requests without it are rejected.
func userMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(userHeader))
		if userID == "" {
			userID = r.URL.Query().Get("user")
		}
		if userID == "" {
			writeError(w, http.StatusUnauthorized, "missing "+userHeader+" header")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyUser, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func adminAuthMiddleware(admin *AdminStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := adminFromRequest(r, admin)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "not authenticated")
				return
			}
			ctx := context.WithValue(r.Context(), ctxKeyAdmin, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func userFrom(r *http.Request) string {
	return r.Context().Value(ctxKeyUser).(string)
}

func adminFrom(r *http.Request) adminSession {
	return r.Context().Value(ctxKeyAdmin).(adminSession)
}
