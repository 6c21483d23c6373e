package token

import (
	"context"
	"net/http"
	"strings"
)

type contextKey struct{}

var subjectKey contextKey

// Subject returns the authenticated subject stored by the middleware, or ""
// for unauthenticated requests.
func Subject(ctx context.Context) string {
	sub, _ := ctx.Value(subjectKey).(string)
	return sub
}

func bearer(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// Require wraps next so it only runs with a valid token granting role; the
// token subject is placed on the request context.
func Require(issuer *Issuer, role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := bearer(r)
		if raw == "" {
			http.Error(w, "authorization required", http.StatusUnauthorized)
			return
		}
		sub, err := issuer.Verify(raw, role)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), subjectKey, sub)))
	}
}

// Optional wraps next so a valid token for role attaches its subject, while
// requests without one still pass through anonymously.
func Optional(issuer *Issuer, role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if raw := bearer(r); raw != "" {
			if sub, err := issuer.Verify(raw, role); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), subjectKey, sub))
			}
		}
		next(w, r)
	}
}
