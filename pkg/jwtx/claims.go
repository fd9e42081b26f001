package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Short access tokens limit the blast radius of a leaked
// bearer value; the session token is what keeps users logged in.
const (
	// DefaultAccessTokenTTL is the default lifetime for access tokens.
	DefaultAccessTokenTTL = 15 * time.Minute

	// DefaultSessionTokenTTL is the default lifetime for session (refresh)
	// tokens. Must always be longer than the access TTL.
	DefaultSessionTokenTTL = 7 * 24 * time.Hour
)

// Claims is the payload carried inside both credential classes. Claims are
// immutable once minted; renewal always produces fresh claims.
type Claims struct {
	jwt.RegisteredClaims

	// Role is the principal's role tag ("user", "admin").
	Role string `json:"role,omitempty"`

	// SID is the session rotation identifier. Every minted session token
	// gets a fresh SID; a spent SID presented again signals reuse.
	SID string `json:"sid,omitempty"`
}

// NewClaims builds minimally-correct claims for either credential class.
func NewClaims(
	subject, role, sid string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Role: role,
		SID:  sid,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
