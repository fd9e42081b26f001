package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// RenewHandler exchanges the session cookie for a fresh access token, and in
// rotating mode a fresh session cookie.
//
// Every failure mode deliberately collapses to the same generic 401: the
// distinction between expired, revoked and reused only matters server-side
// and is already logged there.
type RenewHandler struct {
	TokenService *service.TokenService
	DevMode      bool
}

func (h *RenewHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	token := sessionTokenFromRequest(r)
	if token == "" {
		authsdk.ErrInvalidSession.WriteError(w)
		return
	}

	pair, err := h.TokenService.Renew(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSession),
			errors.Is(err, service.ErrSessionReuse),
			errors.Is(err, service.ErrUserNotFound):
			clearSessionCookie(w, h.DevMode)
			authsdk.ErrInvalidSession.WriteError(w)
		default:
			l.Error("renew failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	if pair.SessionToken != "" {
		setSessionCookie(w, pair.SessionToken, pair.SessionExp, h.DevMode)
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
	})
}
