package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// LoginHandler exchanges a username/password pair for credentials.
type LoginHandler struct {
	TokenService *service.TokenService
	DevMode      bool
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}
	if req.Username == "" || req.Password == "" {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	pair, err := h.TokenService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		l.Error("login failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	setSessionCookie(w, pair.SessionToken, pair.SessionExp, h.DevMode)
	httpx.WriteJSON(w, http.StatusOK, authsdk.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
	})
}
