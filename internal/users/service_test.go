package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"vod-platform/internal/auth"
	"vod-platform/internal/config"
	"vod-platform/internal/password"
)

type fakeStore struct {
	byUsername map[string]User
	byID       map[string]User

	updatedHash string
}

func newFakeStore(users ...User) *fakeStore {
	s := &fakeStore{byUsername: map[string]User{}, byID: map[string]User{}}
	for _, u := range users {
		s.byUsername[u.Username] = u
		s.byID[u.ID] = u
	}
	return s
}

func (s *fakeStore) GetByUsername(ctx context.Context, username string) (User, error) {
	u, ok := s.byUsername[username]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) GetByID(ctx context.Context, id string) (User, error) {
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) Create(ctx context.Context, u User) error { return nil }

func (s *fakeStore) UpdatePassword(ctx context.Context, id, hash string) error {
	if _, ok := s.byID[id]; !ok {
		return ErrNotFound
	}
	s.updatedHash = hash
	return nil
}

func (s *fakeStore) Count(ctx context.Context) (int64, error) {
	return int64(len(s.byID)), nil
}

type fakeLimiter struct {
	allow bool
	err   error
}

func (l fakeLimiter) Allow(ctx context.Context, username string) (bool, error) {
	return l.allow, l.err
}

func testTokens(t *testing.T) *auth.Manager {
	t.Helper()
	m, err := auth.NewManager(config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func seedUser(t *testing.T, h password.Hasher, id, username, plaintext string, admin bool) User {
	t.Helper()
	digest, err := h.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return User{ID: id, Username: username, PasswordHash: digest, IsAdmin: admin}
}

func TestLogin_IssuesTokenWithStoredIdentity(t *testing.T) {
	h := password.NewHasher(4)
	tokens := testTokens(t)
	alice := seedUser(t, h, "alice-id", "alice", "pw-alice", true)

	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(newFakeStore(alice), h, tokens, nil).WithClock(func() time.Time { return now })

	res, err := svc.Login(context.Background(), "alice", "pw-alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Username != "alice" || !res.IsAdmin {
		t.Fatalf("unexpected result: %+v", res)
	}

	claims, err := tokens.Verify(res.Token, now)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "alice-id" || !claims.IsAdmin {
		t.Fatalf("token claims do not match stored user: %+v", claims)
	}
}

func TestLogin_UnknownUserAndWrongPasswordAreIndistinguishable(t *testing.T) {
	h := password.NewHasher(4)
	alice := seedUser(t, h, "alice-id", "alice", "pw-alice", false)
	svc := NewService(newFakeStore(alice), h, testTokens(t), nil)

	_, errUnknown := svc.Login(context.Background(), "nobody", "whatever")
	_, errWrongPw := svc.Login(context.Background(), "alice", "wrong")

	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
	}
}

func TestLogin_RateLimited(t *testing.T) {
	h := password.NewHasher(4)
	alice := seedUser(t, h, "alice-id", "alice", "pw-alice", false)
	svc := NewService(newFakeStore(alice), h, testTokens(t), fakeLimiter{allow: false})

	_, err := svc.Login(context.Background(), "alice", "pw-alice")
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestGetProfile_SelfOrAdminOnly(t *testing.T) {
	h := password.NewHasher(4)
	alice := seedUser(t, h, "alice-id", "alice", "pw", false)
	svc := NewService(newFakeStore(alice), h, testTokens(t), nil)
	ctx := context.Background()

	// self read
	p, err := svc.GetProfile(ctx, "alice-id", false, "alice-id")
	if err != nil {
		t.Fatalf("self read: %v", err)
	}
	if p.ID != "alice-id" || p.Username != "alice" {
		t.Fatalf("unexpected profile: %+v", p)
	}

	// unrelated non-admin caller
	if _, err := svc.GetProfile(ctx, "bob-id", false, "alice-id"); !errors.Is(err, ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied, got %v", err)
	}

	// admin caller
	if _, err := svc.GetProfile(ctx, "bob-id", true, "alice-id"); err != nil {
		t.Fatalf("admin read: %v", err)
	}

	// missing target
	if _, err := svc.GetProfile(ctx, "ghost-id", true, "ghost-id"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestChangePassword_RequiresOldPassword(t *testing.T) {
	h := password.NewHasher(4)
	alice := seedUser(t, h, "alice-id", "alice", "old-pw", false)
	store := newFakeStore(alice)
	svc := NewService(store, h, testTokens(t), nil)
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, "alice-id", "wrong", "new-pw"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	if err := svc.ChangePassword(ctx, "alice-id", "old-pw", "new-pw"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if store.updatedHash == "" {
		t.Fatalf("expected new hash stored")
	}
	if !h.Verify("new-pw", store.updatedHash) {
		t.Fatalf("stored hash does not verify new password")
	}
	if store.updatedHash == alice.PasswordHash {
		t.Fatalf("hash unchanged")
	}
}
