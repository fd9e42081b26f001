package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable, and make
// it harder to accidentally nest transactions.
type Store interface {
	Users() Users
	Sessions() Sessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to run
	// multi-step operations that must be atomic (e.g. session rotation).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repos plus Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByUsername is used during login and duplicate checks.
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the username is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// DeleteUser cascades to sessions (per schema).
	DeleteUser(ctx context.Context, userID string) error

	// ListUsers returns all users ordered by creation date (newest first).
	ListUsers(ctx context.Context) ([]domain.User, error)

	// IsEmpty returns true if there are no users. Drives the first-user
	// admin bootstrap.
	IsEmpty(ctx context.Context) (bool, error)
}

type Sessions interface {
	// CreateSession stores a new session rotation record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByID returns the record for a rotation identifier.
	GetSessionByID(ctx context.Context, id string) (domain.Session, error)

	// ClaimSession atomically marks the session spent if and only if it is
	// still unspent, unrevoked and unexpired. Exactly one of any number of
	// concurrent claimers wins; the rest get false. This is the single
	// stateful step of the rotation protocol.
	ClaimSession(ctx context.Context, id string) (bool, error)

	// RevokeSession flips revoked on logout. Missing ids are a no-op so
	// logout stays idempotent.
	RevokeSession(ctx context.Context, id string) error

	// RevokeAllUserSessions bulk revocation for a user (e.g. password reset).
	RevokeAllUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}
