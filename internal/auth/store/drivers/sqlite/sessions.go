package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
)

type sessionsRepo struct {
	q dbtx
}

const sessionColumns = `id, user_id, expires_at, spent_at, revoked, created_at, updated_at`

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, expires_at, spent_at, revoked, created_at, updated_at)
		 VALUES (?, ?, ?, NULL, 0, ?, ?)`,
		s.ID, s.UserID, s.ExpiresAt, s.CreatedAt, s.UpdatedAt)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.Session, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	s, err := mapSessionRow(row.Scan)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

// ClaimSession is a compare-and-set: the WHERE clause only matches a live
// session, so of any number of concurrent claimers exactly one sees a row
// affected.
func (r *sessionsRepo) ClaimSession(ctx context.Context, id string) (bool, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx,
		`UPDATE sessions
		 SET spent_at = ?, updated_at = ?
		 WHERE id = ? AND spent_at IS NULL AND revoked = 0 AND expires_at > ?`,
		now, now, id, now)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, id string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), id)
	return err
}

func (r *sessionsRepo) RevokeAllUserSessions(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx,
		`UPDATE sessions SET revoked = 1, updated_at = ? WHERE user_id = ? AND revoked = 0`,
		time.Now().UTC(), userID)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
