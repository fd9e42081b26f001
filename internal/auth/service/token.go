package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/doorman/internal/auth/domain"
	"github.com/aussiebroadwan/doorman/internal/auth/store"
	"github.com/aussiebroadwan/doorman/pkg/cryptox"
	"github.com/aussiebroadwan/doorman/pkg/idx"
	"github.com/aussiebroadwan/doorman/pkg/jwtx"
	"github.com/aussiebroadwan/doorman/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidSession     = errors.New("invalid_session")
	ErrSessionReuse       = errors.New("session_reused")
	ErrUserNotFound       = errors.New("user_not_found")
)

// TokenService issues and renews the access/session credential pair.
//
// Access tokens and session tokens are both HS256 JWTs but signed with
// class-specific secrets, so one can never be presented in place of the
// other. The session token carries a sid claim pointing at a stored
// rotation record; the access token is verified statelessly.
type TokenService struct {
	AccessSigner    jwtx.Signer
	SessionSigner   jwtx.Signer
	SessionVerifier jwtx.Verifier
	Store           store.Store
	Issuer          string
	AccessTTL       time.Duration
	SessionTTL      time.Duration

	// RotateSessions selects the rotation protocol: every renewal spends
	// the presented session and issues a fresh one, which is what makes
	// reuse (theft) detectable. When false renewal is stateless and the
	// same session token rides until natural expiry.
	RotateSessions bool
}

// Issue mints a fresh credential pair for the user and persists the session
// rotation record. Used by login and registration.
func (s *TokenService) Issue(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	now := time.Now()

	sid := idx.New().String()
	sess := domain.Session{
		ID:        sid,
		UserID:    u.ID,
		ExpiresAt: now.Add(s.SessionTTL).UTC(),
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	return s.mintPair(u, sid, sess.ExpiresAt, now)
}

// Login verifies the username/password pair and issues credentials. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (s *TokenService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		l.Info("password verification failed", slog.String("user_id", u.ID))
		return nil, ErrInvalidCredentials
	}

	return s.Issue(ctx, u)
}

// Renew exchanges a valid session token for a fresh access token and, in
// rotating mode, a fresh session token.
//
// The JWT is verified before any storage is touched, so an expired or
// tampered token fails as ErrInvalidSession without ever looking like reuse.
// In rotating mode the sid is then claimed with a compare-and-set; a failed
// claim on a spent record means the token was already rotated away, which is
// the reuse (possible theft) signal.
func (s *TokenService) Renew(ctx context.Context, sessionToken string) (*domain.TokenPair, error) {
	now := time.Now()
	l := slogx.FromContext(ctx)

	claims, err := s.SessionVerifier.Verify(sessionToken)
	if err != nil {
		return nil, errors.Join(ErrInvalidSession, err)
	}
	sid := claims.SID
	if sid == "" {
		return nil, ErrInvalidSession
	}

	u, err := s.Store.Users().GetUserByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !s.RotateSessions {
		return s.renewStateless(ctx, u, sid, now)
	}

	var result *domain.TokenPair

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		claimed, err := tx.Sessions().ClaimSession(ctx, sid)
		if err != nil {
			return err
		}
		if !claimed {
			return s.classifyFailedClaim(ctx, tx, u.ID, sid, now)
		}

		newSID := idx.New().String()
		sess := domain.Session{
			ID:        newSID,
			UserID:    u.ID,
			ExpiresAt: now.Add(s.SessionTTL).UTC(),
			CreatedAt: now.UTC(),
			UpdatedAt: now.UTC(),
		}
		if err := tx.Sessions().CreateSession(ctx, sess); err != nil {
			return err
		}

		result, err = s.mintPair(u, newSID, sess.ExpiresAt, now)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrSessionReuse) {
			l.Warn("session token reuse detected, revoking all user sessions",
				slog.String("user_id", u.ID),
				slog.String("sid", sid),
			)
			// Theft response: the legitimate holder and the thief both lose
			// their sessions and must log in again.
			_ = s.Store.Sessions().RevokeAllUserSessions(ctx, u.ID)
		}
		return nil, err
	}

	return result, nil
}

// renewStateless mints a new access token against the existing session
// record without spending it.
func (s *TokenService) renewStateless(ctx context.Context, u domain.User, sid string, now time.Time) (*domain.TokenPair, error) {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, sid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if sess.Terminal(now) {
		return nil, ErrInvalidSession
	}

	access, err := s.signAccess(u, sid, now)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken: access,
		ExpiresIn:   s.AccessTTL,
		SessionExp:  sess.ExpiresAt,
	}, nil
}

// classifyFailedClaim decides whether a failed compare-and-set was reuse of
// a spent session or just a stale/revoked/unknown one.
func (s *TokenService) classifyFailedClaim(ctx context.Context, tx store.Tx, userID, sid string, now time.Time) error {
	sess, err := tx.Sessions().GetSessionByID(ctx, sid)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrInvalidSession
		}
		return err
	}
	if sess.UserID == userID && sess.SpentAt != nil && !sess.Revoked {
		return ErrSessionReuse
	}
	return ErrInvalidSession
}

// Logout revokes the session named by the token. It is idempotent: absent,
// malformed or expired tokens are treated as already logged out.
func (s *TokenService) Logout(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return nil
	}

	claims, err := s.SessionVerifier.Verify(sessionToken)
	if err != nil || claims.SID == "" {
		return nil
	}

	return s.Store.Sessions().RevokeSession(ctx, claims.SID)
}

// RevokeAllUserSessions force-logs-out every session of a user. Exposed for
// admin and password-reset style flows.
func (s *TokenService) RevokeAllUserSessions(ctx context.Context, userID string) error {
	return s.Store.Sessions().RevokeAllUserSessions(ctx, userID)
}

func (s *TokenService) mintPair(u domain.User, sid string, sessionExp time.Time, now time.Time) (*domain.TokenPair, error) {
	access, err := s.signAccess(u, sid, now)
	if err != nil {
		return nil, err
	}

	sessionClaims := jwtx.NewClaims(u.ID, u.Role.String(), sid, s.SessionTTL, s.Issuer, now)
	session, err := s.SessionSigner.Sign(sessionClaims)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  access,
		SessionToken: session,
		ExpiresIn:    s.AccessTTL,
		SessionExp:   sessionExp,
	}, nil
}

func (s *TokenService) signAccess(u domain.User, sid string, now time.Time) (string, error) {
	claims := jwtx.NewClaims(u.ID, u.Role.String(), sid, s.AccessTTL, s.Issuer, now)
	return s.AccessSigner.Sign(claims)
}
