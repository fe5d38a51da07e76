package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported session token shape for this service.
// Subject carries the user id. A token's claims are trusted only after
// successful signature verification; an unverified or expired token
// carries no authority.
type Claims struct {
	jwt.RegisteredClaims

	IsAdmin bool `json:"isAdmin"`
}
