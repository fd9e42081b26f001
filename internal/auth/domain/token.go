package domain

import "time"

// TokenPair is what the credential-issuing endpoints produce: the
// short-lived access token (returned in the body) and the long-lived
// session token (set as a cookie).
type TokenPair struct {
	AccessToken  string
	SessionToken string        // empty when renewal does not rotate the session
	ExpiresIn    time.Duration // access token lifetime
	SessionExp   time.Time     // session token expiry, drives the cookie Expires
}

// Session models the stored rotation record for one session token. The ID is
// the rotation identifier carried in the token's sid claim.
//
// State machine: issued (SpentAt nil, Revoked false) → spent on rotation,
// revoked on logout, or expired by ExpiresAt. All three end states are
// terminal; presenting a token whose record is in one of them fails renewal.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	SpentAt   *time.Time // set when the session was rotated away
	Revoked   bool       // set by logout
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Terminal reports whether the session can no longer be renewed.
func (s Session) Terminal(now time.Time) bool {
	return s.Revoked || s.SpentAt != nil || now.After(s.ExpiresAt)
}
