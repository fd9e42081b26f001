package http

import (
	"net/http"

	"github.com/aussiebroadwan/doorman/internal/auth/service"
	"github.com/aussiebroadwan/doorman/pkg/authsdk"
	"github.com/aussiebroadwan/doorman/pkg/httpx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

// UsersHandler lists all users. Admin-gated at the router.
type UsersHandler struct {
	UserService *service.UserService
}

func (h *UsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		slogx.FromContext(ctx).Error("user listing failed", "err", err)
		authsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]authsdk.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, authsdk.UserSummary{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role.String(),
			CreatedAt: u.CreatedAt,
		})
	}

	httpx.WriteJSON(w, http.StatusOK, out)
}
