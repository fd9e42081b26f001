package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/idx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

var (
	ErrUsernameTaken  = errors.New("username_taken")
	ErrInvalidRequest = errors.New("invalid_request")
)

// UserService manages principals.
type UserService struct {
	Store store.Store
}

// Register creates a new user with a hashed password. The first user ever
// registered becomes an admin so a fresh deployment can administer itself;
// everyone after that starts as a regular user.
//
// The duplicate check runs inside the same transaction as the insert, with
// the unique index on username as the backstop against races.
func (s *UserService) Register(ctx context.Context, username, password, preferredName string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.User{}, ErrInvalidRequest
	}
	if preferredName == "" {
		preferredName = username
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:            idx.New().String(),
		Username:      username,
		PreferredName: preferredName,
		PasswordHash:  hash,
		Role:          domain.RoleUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if _, err := tx.Users().GetUserByUsername(ctx, username); err == nil {
			return ErrUsernameTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		empty, err := tx.Users().IsEmpty(ctx)
		if err != nil {
			return err
		}
		if empty {
			u.Role = domain.RoleAdmin
		}

		if err := tx.Users().CreateUser(ctx, u); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	if u.Role == domain.RoleAdmin {
		l.Info("bootstrapped first user as admin", slog.String("user_id", u.ID))
	}

	return u, nil
}

// GetUserByID returns the principal profile.
func (s *UserService) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return u, nil
}

// ListUsers returns all users, newest first. Admin only at the HTTP layer.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// DeleteUser removes a user and, via FK cascade, their sessions.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	return s.Store.Users().DeleteUser(ctx, id)
}
