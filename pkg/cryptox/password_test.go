package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Tests must not touch the working directory's pepper file.
	dir, err := filepath.Abs("testdata")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))
	m.Run()
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := cryptox.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	t.Run("matching password verifies", func(t *testing.T) {
		require.NoError(t, cryptox.VerifyPassword("correct horse battery staple", hash))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		err := cryptox.VerifyPassword("wrong password", hash)
		require.ErrorIs(t, err, cryptox.ErrPasswordMismatch)
	})

	t.Run("hashes are salted", func(t *testing.T) {
		other, err := cryptox.HashPassword("correct horse battery staple")
		require.NoError(t, err)
		require.NotEqual(t, hash, other)
	})
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	cases := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing segments", "$argon2id$v=19$m=19456,t=2,p=1"},
		{"bad salt encoding", "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, cryptox.VerifyPassword("password", tc.hash))
		})
	}
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("tokens are unique", func(t *testing.T) {
		a, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		b, err := cryptox.GenerateToken(cryptox.TokenSize256)
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})

	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	fp := cryptox.FingerprintToken("some-secret-token")
	require.Equal(t, fp, cryptox.FingerprintToken("some-secret-token"))
	require.NotEqual(t, fp, cryptox.FingerprintToken("other-token"))
	require.NotContains(t, fp, "some-secret-token")
}
