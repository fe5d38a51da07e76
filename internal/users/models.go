package users

import (
	"errors"
	"time"
)

// User is a credential store record. PasswordHash never leaves this
// package in any response shape.
type User struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsAdmin      bool      `json:"isAdmin" db:"is_admin"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Profile is the public view of a user record.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

// LoginResult is returned to a successfully authenticated client.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}

var (
	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// so responses cannot be used for username enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrNotFound        = errors.New("user not found")
	ErrAccessDenied    = errors.New("access denied")
	ErrTooManyAttempts = errors.New("too many login attempts")
)
