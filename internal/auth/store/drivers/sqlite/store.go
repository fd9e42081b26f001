package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	_ "modernc.org/sqlite"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// repos work identically inside and outside transactions.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db  *sql.DB
	dsn string
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A plain :memory: DSN gives every pooled connection its own database;
	// pin the pool to one connection so the schema is shared.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}

	// Enforce FKs so deleting a user cascades to their sessions.
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, dsn: dsn}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Tx starts a read/write transaction and returns a Tx-scoped Store.
func (s *Store) Tx(ctx context.Context) (store.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return newTx(tx), nil
}

// WithTx executes fn within a transaction, automatically handling
// commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	tx, err := s.Tx(ctx)
	if err != nil {
		return err
	}

	// Rollback is safe to call after commit; it covers panics and early
	// error returns.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users       { return &usersRepo{q: s.db} }
func (s *Store) Sessions() store.Sessions { return &sessionsRepo{q: s.db} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConstraint translates sqlite unique-constraint violations into the
// portable store error.
func mapConstraint(err error) error {
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func mapNullTimePtr(nt sql.NullTime) *time.Time {
	if nt.Valid {
		val := nt.Time
		return &val
	}
	return nil
}

func mapUserRow(scan func(dest ...any) error) (domain.User, error) {
	var u domain.User
	var role string
	if err := scan(
		&u.ID,
		&u.Username,
		&u.PreferredName,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		return domain.User{}, err
	}
	u.Role = domain.Role(role)
	return u, nil
}

func mapSessionRow(scan func(dest ...any) error) (domain.Session, error) {
	var sess domain.Session
	var spentAt sql.NullTime
	if err := scan(
		&sess.ID,
		&sess.UserID,
		&sess.ExpiresAt,
		&spentAt,
		&sess.Revoked,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	); err != nil {
		return domain.Session{}, err
	}
	sess.SpentAt = mapNullTimePtr(spentAt)
	return sess, nil
}
