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

// RegisterHandler creates a new user and logs them straight in: the response
// carries the access token and the session cookie like a login would.
type RegisterHandler struct {
	UserService  *service.UserService
	TokenService *service.TokenService
	DevMode      bool
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		authsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	u, err := h.UserService.Register(ctx, req.Username, req.Password, req.PreferredName)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			authsdk.ErrUsernameTaken.WriteError(w)
		case errors.Is(err, service.ErrInvalidRequest):
			authsdk.ErrInvalidRequest.WriteError(w)
		default:
			l.Error("register failed", "err", err)
			authsdk.ErrServerError.WriteError(w)
		}
		return
	}

	pair, err := h.TokenService.Issue(ctx, u)
	if err != nil {
		l.Error("credential issue after register failed", "err", err, "user_id", u.ID)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	setSessionCookie(w, pair.SessionToken, pair.SessionExp, h.DevMode)
	httpx.WriteJSON(w, http.StatusCreated, authsdk.TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(pair.ExpiresIn.Seconds()),
	})
}
