package jwtx

import (
	"errors"
	"time"
)

// Verifier validates a token string and gives back the claims if it's legit.
// Verification is a pure computation over the token and the configured
// secret; implementations hold no mutable state and are safe for unbounded
// concurrent use.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// VerifyOptions captures common expectations used by verifiers.
type VerifyOptions struct {
	// Issuer the token must have (claims.iss). Empty means "don't care".
	Issuer string

	// Leeway allows small clock skew when validating exp/nbf/iat.
	// Because time sync is never perfect.
	Leeway time.Duration
}

var (
	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrNotYetValid  = errors.New("jwtx: token not yet valid")
	ErrIssuer       = errors.New("jwtx: issuer mismatch")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// NewVerifierHS256 creates a verifier for one credential class. The secret
// must match the signer's secret for that class.
func NewVerifierHS256(secret []byte, opts VerifyOptions) (Verifier, error) {
	return newHS256Verifier(secret, opts)
}
