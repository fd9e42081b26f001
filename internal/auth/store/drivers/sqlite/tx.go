package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aussiebroadwan/doorman/internal/auth/store"
)

// txStore is a transaction-scoped Store. It reuses the same repos over the
// *sql.Tx so queries run inside the transaction.
type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Users() store.Users       { return &usersRepo{q: t.tx} }
func (t *txStore) Sessions() store.Sessions { return &sessionsRepo{q: t.tx} }

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

// Nested transactions are not supported.
func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errors.New("sqlite: nested transactions are not supported")
}

func (t *txStore) ApplyMigrations() error {
	return errors.New("sqlite: cannot migrate inside a transaction")
}

func (t *txStore) Close() error { return t.Rollback() }

func (t *txStore) Ping(ctx context.Context) error { return nil }
