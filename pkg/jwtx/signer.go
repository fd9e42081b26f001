package jwtx

import "errors"

// MinSecretBytes is the minimum accepted HMAC secret length. Anything
// shorter than the HS256 output size weakens the MAC for no benefit.
const MinSecretBytes = 32

var (
	ErrSecretTooShort = errors.New("jwtx: secret shorter than 32 bytes")
	ErrEmptySubject   = errors.New("jwtx: claims missing subject")
)

// Signer is our interface for anything that can sign token claims.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// NewSignerHS256 creates an HS256 signer bound to one credential class's
// secret. Access and session tokens must be given distinct secrets so a
// leaked access secret cannot forge session credentials.
func NewSignerHS256(secret []byte) (Signer, error) {
	return newHS256Signer(secret)
}
