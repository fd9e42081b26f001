package sqlite

import (
	"context"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
)

type usersRepo struct {
	q dbtx
}

const userColumns = `id, username, preferred_name, password_hash, role, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := mapUserRow(row.Scan)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)

	u, err := mapUserRow(row.Scan)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO users (id, username, preferred_name, password_hash, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.PreferredName, u.PasswordHash, u.Role.String(), u.CreatedAt, u.UpdatedAt)
	return mapConstraint(err)
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	return err
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := mapUserRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var n int
	if err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
