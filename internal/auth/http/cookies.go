package http

import (
	"net/http"
	"time"
)

// SessionCookieName carries the session JWT between browser and service.
const SessionCookieName = "doorman_session"

// sessionCookiePath scopes the cookie to the renewal/logout endpoints so it
// is never sent to API routes that have no business seeing it.
const sessionCookiePath = "/v1/auth"

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time, devMode bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     sessionCookiePath,
		Expires:  expires,
		HttpOnly: true,
		Secure:   !devMode,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, devMode bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     sessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !devMode,
		SameSite: http.SameSiteStrictMode,
	})
}

// sessionTokenFromRequest returns the session JWT, or "" when the cookie is
// absent.
func sessionTokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}
