package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Store is the credential store consumed by the login flow and profile
// reads. The interface exists so the auth path can be tested with an
// in-memory fake.
type Store interface {
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

// PostgresStore implements Store over database/sql.
//
// NOTE: assumes a `users` table with columns
// (id, username UNIQUE, password_hash, is_admin, created_at).
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (User, error) {
	const q = `
SELECT id, username, password_hash, is_admin, created_at
FROM users
WHERE username = $1
`
	var u User
	if err := s.db.QueryRowContext(ctx, q, username).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (User, error) {
	const q = `
SELECT id, username, password_hash, is_admin, created_at
FROM users
WHERE id = $1
`
	var u User
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID,
		&u.Username,
		&u.PasswordHash,
		&u.IsAdmin,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

// Create inserts a user record. Used by seeding; there is no public
// registration endpoint.
func (s *PostgresStore) Create(ctx context.Context, u User) error {
	const q = `
INSERT INTO users (id, username, password_hash, is_admin, created_at)
VALUES ($1,$2,$3,$4,$5)
`
	created := u.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, q, u.ID, u.Username, u.PasswordHash, u.IsAdmin, created)
	return err
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const q = `
UPDATE users SET password_hash = $2 WHERE id = $1
`
	res, err := s.db.ExecContext(ctx, q, id, passwordHash)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	const q = `SELECT COUNT(*) FROM users`
	var n int64
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
