package jwtx_test

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const testIssuer = "doorman-test"

var (
	accessSecret  = []byte("0123456789abcdef0123456789abcdef")
	sessionSecret = []byte("fedcba9876543210fedcba9876543210")
)

func newSigner(t *testing.T, secret []byte) jwtx.Signer {
	t.Helper()
	s, err := jwtx.NewSignerHS256(secret)
	require.NoError(t, err)
	return s
}

func newVerifier(t *testing.T, secret []byte) jwtx.Verifier {
	t.Helper()
	v, err := jwtx.NewVerifierHS256(secret, jwtx.VerifyOptions{Issuer: testIssuer})
	require.NoError(t, err)
	return v
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, accessSecret)
	verifier := newVerifier(t, accessSecret)

	now := time.Now().UTC()
	claims := jwtx.NewClaims("user-123", "admin", "sid-1", time.Minute, testIssuer, now)

	token, err := signer.Sign(claims)
	require.NoError(t, err)
	require.Len(t, strings.Split(token, "."), 3)

	parsed, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-123", parsed.Subject)
	require.Equal(t, "admin", parsed.Role)
	require.Equal(t, "sid-1", parsed.SID)
	require.Equal(t, testIssuer, parsed.Issuer)
	require.NotEmpty(t, parsed.ID)
}

func TestVerifyExpiredToken(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, accessSecret)
	verifier := newVerifier(t, accessSecret)

	// Validly signed, already expired. Expiry must win over the otherwise
	// good signature.
	issued := time.Now().UTC().Add(-2 * time.Minute)
	claims := jwtx.NewClaims("user-123", "user", "sid-1", time.Minute, testIssuer, issued)

	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestVerifyTamperedSignature(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, accessSecret)
	verifier := newVerifier(t, accessSecret)

	claims := jwtx.NewClaims("user-123", "user", "sid-1", time.Minute, testIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	require.NoError(t, err)

	// Flipping any single byte of the raw signature must invalidate it.
	for i := range sig {
		mutated := make([]byte, len(sig))
		copy(mutated, sig)
		mutated[i] ^= 0x01

		forged := parts[0] + "." + parts[1] + "." + base64.RawURLEncoding.EncodeToString(mutated)
		_, err := verifier.Verify(forged)
		require.ErrorIs(t, err, jwtx.ErrInvalidSig, "byte %d", i)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, accessSecret)
	verifier := newVerifier(t, accessSecret)

	claims := jwtx.NewClaims("user-123", "user", "sid-1", time.Minute, testIssuer, time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	escalated := jwtx.NewClaims("user-123", "admin", "sid-1", time.Minute, testIssuer, time.Now().UTC())
	forgedPayload, err := signer.Sign(escalated)
	require.NoError(t, err)

	// Splice the escalated payload under the original signature.
	forged := parts[0] + "." + strings.Split(forgedPayload, ".")[1] + "." + parts[2]
	_, err = verifier.Verify(forged)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyWrongClassSecret(t *testing.T) {
	t.Parallel()

	// A session token presented to the access verifier (and vice versa)
	// must fail the signature check because the classes use distinct
	// secrets.
	sessionSigner := newSigner(t, sessionSecret)
	accessVerifier := newVerifier(t, accessSecret)

	claims := jwtx.NewClaims("user-123", "user", "sid-1", time.Hour, testIssuer, time.Now().UTC())
	token, err := sessionSigner.Sign(claims)
	require.NoError(t, err)

	_, err = accessVerifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestVerifyMalformedToken(t *testing.T) {
	t.Parallel()

	verifier := newVerifier(t, accessSecret)

	for _, token := range []string{"", "garbage", "a.b", "a.b.c.d", "!!.!!.!!"} {
		_, err := verifier.Verify(token)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "token %q", token)
	}
}

func TestVerifyIssuerMismatch(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, accessSecret)
	verifier := newVerifier(t, accessSecret)

	claims := jwtx.NewClaims("user-123", "user", "sid-1", time.Minute, "someone-else", time.Now().UTC())
	token, err := signer.Sign(claims)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.ErrorIs(t, err, jwtx.ErrIssuer)
}

func TestSignRejectsEmptySubject(t *testing.T) {
	t.Parallel()

	signer := newSigner(t, accessSecret)
	claims := jwtx.NewClaims("", "user", "sid-1", time.Minute, testIssuer, time.Now().UTC())

	_, err := signer.Sign(claims)
	require.ErrorIs(t, err, jwtx.ErrEmptySubject)
}

func TestShortSecretsRejected(t *testing.T) {
	t.Parallel()

	_, err := jwtx.NewSignerHS256([]byte("too short"))
	require.ErrorIs(t, err, jwtx.ErrSecretTooShort)

	_, err = jwtx.NewVerifierHS256([]byte("too short"), jwtx.VerifyOptions{})
	require.ErrorIs(t, err, jwtx.ErrSecretTooShort)
}
