package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type hs256Signer struct {
	secret []byte
}

func newHS256Signer(secret []byte) (*hs256Signer, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrSecretTooShort
	}
	return &hs256Signer{secret: secret}, nil
}

func (s *hs256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign produces the compact three-segment token for the given claims. An
// empty subject means the caller passed a principal it never validated, so
// that is rejected rather than minted.
func (s *hs256Signer) Sign(c Claims) (string, error) {
	if c.Subject == "" {
		return "", ErrEmptySubject
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.secret)
}

type hs256Verifier struct {
	secret []byte
	parser *jwt.Parser
	issuer string
}

func newHS256Verifier(secret []byte, opts VerifyOptions) (*hs256Verifier, error) {
	if len(secret) < MinSecretBytes {
		return nil, ErrSecretTooShort
	}

	return &hs256Verifier{
		secret: secret,
		issuer: opts.Issuer,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithLeeway(opts.Leeway),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

// Verify checks structure, then signature, then time claims, in that order.
// The HMAC comparison inside golang-jwt is constant-time.
func (v *hs256Verifier) Verify(token string) (Claims, error) {
	var claims Claims

	_, err := v.parser.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return v.secret, nil
	})
	if err != nil {
		return Claims{}, mapJWTError(err)
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Claims{}, ErrIssuer
	}

	return claims, nil
}

// mapJWTError flattens golang-jwt's joined errors into our taxonomy so
// callers can switch on sentinel values.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrNotYetValid
	default:
		return ErrInvalidClaim
	}
}
