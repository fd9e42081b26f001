package httpx

import (
	"context"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
)

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyRole   ctxKey = "role"
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromContext returns the authenticated principal's id, or "" when the
// authentication gate has not run.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// RoleFromContext returns the authenticated principal's role tag, or "".
func RoleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRole).(string); ok {
		return v
	}
	return ""
}

// ClaimsFromContext returns the full verified claims when present.
func ClaimsFromContext(ctx context.Context) (jwtx.Claims, bool) {
	c, ok := ctx.Value(CtxKeyClaims).(jwtx.Claims)
	return c, ok
}
