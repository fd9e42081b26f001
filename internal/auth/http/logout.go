package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// LogoutHandler revokes the presented session and clears the cookie. It is
// idempotent: logging out twice, or with no cookie at all, still succeeds.
type LogoutHandler struct {
	TokenService *service.TokenService
	DevMode      bool
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.TokenService.Logout(ctx, sessionTokenFromRequest(r)); err != nil {
		// Revocation failures are logged but do not surface: the client's
		// cookie is cleared either way.
		slogx.FromContext(ctx).Error("logout revocation failed", "err", err)
	}

	clearSessionCookie(w, h.DevMode)
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
