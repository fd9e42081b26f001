package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// UserInfoHandler returns the authenticated principal's profile.
type UserInfoHandler struct {
	UserService *service.UserService
}

func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		// Unreachable behind AuthnMiddleware; guard anyway.
		authsdk.ErrInvalidCredentials.WriteError(w)
		return
	}

	u, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			// Token outlived the account.
			authsdk.ErrInvalidCredentials.WriteError(w)
			return
		}
		slogx.FromContext(ctx).Error("userinfo lookup failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.UserInfoResponse{
		ID:            u.ID,
		Username:      u.Username,
		PreferredName: u.PreferredName,
		Role:          u.Role.String(),
		CreatedAt:     u.CreatedAt,
	})
}
