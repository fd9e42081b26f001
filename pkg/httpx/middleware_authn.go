package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// AuthnMiddleware is the authentication gate. It extracts the bearer access
// token, verifies it, and attaches the principal to the request context. Any
// verification failure short-circuits with 401; nothing is retried or
// repaired here.
func AuthnMiddleware(v jwtx.Verifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			authz := r.Header.Get("Authorization")
			if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
				writeBearerError(w, "missing bearer token")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer"))

			claims, err := v.Verify(raw)
			if err != nil {
				writeBearerError(w, "token verification failed")
				log.Warn("access token verify failed", "err", err)
				return
			}

			ctx = contextWithPrincipal(ctx, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func contextWithPrincipal(ctx context.Context, c jwtx.Claims) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, c.Subject)
	ctx = context.WithValue(ctx, CtxKeyRole, c.Role)
	ctx = context.WithValue(ctx, CtxKeyClaims, c)
	return ctx
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	w.WriteHeader(http.StatusUnauthorized)
}
