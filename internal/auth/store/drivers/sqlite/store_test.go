package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())

	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedUser(t *testing.T, s *Store) domain.User {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     "alice-" + idx.New().String(),
		PasswordHash: "$argon2id$fake",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, s.Users().CreateUser(context.Background(), u))
	return u
}

func seedSession(t *testing.T, s *Store, userID string, expiresAt time.Time) domain.Session {
	t.Helper()

	now := time.Now().UTC()
	sess := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Sessions().CreateSession(context.Background(), sess))
	return sess
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s)

	dup := u
	dup.ID = idx.New().String()
	err := s.Users().CreateUser(ctx, dup)
	require.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Users().GetUserByUsername(context.Background(), "nobody")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersIsEmpty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	empty, err := s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.True(t, empty)

	seedUser(t, s)

	empty, err = s.Users().IsEmpty(ctx)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestClaimSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	t.Run("live session claims once", func(t *testing.T) {
		sess := seedSession(t, s, u.ID, time.Now().Add(time.Hour))

		ok, err := s.Sessions().ClaimSession(ctx, sess.ID)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Sessions().ClaimSession(ctx, sess.ID)
		require.NoError(t, err)
		require.False(t, ok, "second claim of a spent session must lose")

		got, err := s.Sessions().GetSessionByID(ctx, sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got.SpentAt)
	})

	t.Run("expired session cannot be claimed", func(t *testing.T) {
		sess := seedSession(t, s, u.ID, time.Now().Add(-time.Minute))

		ok, err := s.Sessions().ClaimSession(ctx, sess.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("revoked session cannot be claimed", func(t *testing.T) {
		sess := seedSession(t, s, u.ID, time.Now().Add(time.Hour))
		require.NoError(t, s.Sessions().RevokeSession(ctx, sess.ID))

		ok, err := s.Sessions().ClaimSession(ctx, sess.ID)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown session is not an error", func(t *testing.T) {
		ok, err := s.Sessions().ClaimSession(ctx, idx.New().String())
		require.NoError(t, err)
		require.False(t, ok)
	})
}

func TestClaimSession_ConcurrentExactlyOneWins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)
	sess := seedSession(t, s, u.ID, time.Now().Add(time.Hour))

	const claimers = 8
	type outcome struct {
		ok  bool
		err error
	}
	outcomes := make(chan outcome, claimers)

	var wg sync.WaitGroup
	for range claimers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := s.Sessions().ClaimSession(ctx, sess.ID)
			outcomes <- outcome{ok: ok, err: err}
		}()
	}
	wg.Wait()
	close(outcomes)

	var won int
	for o := range outcomes {
		require.NoError(t, o.err)
		if o.ok {
			won++
		}
	}
	require.Equal(t, 1, won, "exactly one concurrent claimer must win")
}

func TestRevokeAllUserSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	a := seedSession(t, s, u.ID, time.Now().Add(time.Hour))
	b := seedSession(t, s, u.ID, time.Now().Add(time.Hour))

	require.NoError(t, s.Sessions().RevokeAllUserSessions(ctx, u.ID))

	for _, id := range []string{a.ID, b.ID} {
		got, err := s.Sessions().GetSessionByID(ctx, id)
		require.NoError(t, err)
		require.True(t, got.Revoked)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s)

	stale := seedSession(t, s, u.ID, time.Now().Add(-time.Hour))
	live := seedSession(t, s, u.ID, time.Now().Add(time.Hour))

	require.NoError(t, s.Sessions().DeleteExpiredSessions(ctx))

	_, err := s.Sessions().GetSessionByID(ctx, stale.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Sessions().GetSessionByID(ctx, live.ID)
	require.NoError(t, err)
}

func TestWithTx_RollbackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Username:     "rollback",
		PasswordHash: "$argon2id$fake",
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	sentinel := store.ErrNotFound
	err := s.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, u); err != nil {
			return err
		}
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound, "insert must have been rolled back")
}
