package users

import (
	"context"
	"errors"
	"time"

	"vod-platform/internal/auth"
	"vod-platform/internal/password"
)

// LoginLimiter throttles login attempts per username. A nil limiter
// disables throttling.
type LoginLimiter interface {
	Allow(ctx context.Context, username string) (bool, error)
}

// Service composes the credential store, the password hasher and the token
// issuer into the login flow. Verification and hashing are pure; the store
// lookup is the only I/O boundary.
type Service struct {
	store   Store
	hasher  password.Hasher
	tokens  *auth.Manager
	limiter LoginLimiter

	now func() time.Time
}

func NewService(store Store, hasher password.Hasher, tokens *auth.Manager, limiter LoginLimiter) *Service {
	return &Service{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		now:     time.Now,
	}
}

// WithClock overrides the service clock. Test hook.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Login authenticates a username/password pair and issues a session token.
// Unknown user and wrong password yield the same error.
func (s *Service) Login(ctx context.Context, username, plaintext string) (LoginResult, error) {
	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, username)
		if err != nil {
			return LoginResult{}, err
		}
		if !allowed {
			return LoginResult{}, ErrTooManyAttempts
		}
	}

	u, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !s.hasher.Verify(plaintext, u.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(s.now(), u.ID, u.IsAdmin)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		Token:    token,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}, nil
}

// GetProfile returns the public view of a user record. Only the subject
// identified by the caller's token, or an admin, may read it.
func (s *Service) GetProfile(ctx context.Context, callerID string, callerAdmin bool, id string) (Profile, error) {
	if callerID != id && !callerAdmin {
		return Profile{}, ErrAccessDenied
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	return Profile{
		ID:       u.ID,
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}, nil
}

// ChangePassword is the only mutation of a user record. The old password
// must verify before the new digest is stored.
func (s *Service) ChangePassword(ctx context.Context, userID, oldPlaintext, newPlaintext string) error {
	u, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.hasher.Verify(oldPlaintext, u.PasswordHash) {
		return ErrInvalidCredentials
	}

	digest, err := s.hasher.Hash(newPlaintext)
	if err != nil {
		return err
	}
	return s.store.UpdatePassword(ctx, u.ID, digest)
}

// Count reports the number of user records for the admin dashboard.
func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.store.Count(ctx)
}
