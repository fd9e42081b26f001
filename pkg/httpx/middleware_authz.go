package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// RequireRole is the authorization guard: the caller must hold one of the
// listed roles. It assumes AuthnMiddleware already ran; reaching it without
// an attached principal is a route-wiring bug, not a request error, so that
// case fails loudly as a 500 instead of masquerading as 401/403.
//
// Role mismatch is 403 ("we know who you are and you may not do this"),
// never 401.
func RequireRole(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, role := range required {
		want[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := RoleFromContext(r.Context())
			if role == "" {
				slogx.FromContext(r.Context()).
					Error("RequireRole used without AuthnMiddleware", "path", r.URL.Path)
				http.Error(w, "misconfigured route", http.StatusInternalServerError)
				return
			}

			if _, ok := want[role]; !ok {
				writeBearerRoleError(w, required...)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RFC 6750-style error response for an authenticated caller whose role does
// not grant access.
func writeBearerRoleError(w http.ResponseWriter, required ...string) {
	w.Header().
		Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	w.WriteHeader(http.StatusForbidden)
	_, _ = w.Write([]byte("forbidden"))
}
