// Package password wraps one-way salted hashing of user credentials.
// Hashing is deliberately expensive; the work factor is tunable.
package password

import "golang.org/x/crypto/bcrypt"

// Hasher produces and checks salted digests. The zero cost falls back to
// bcrypt's default work factor.
type Hasher struct {
	cost int
}

func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash returns a randomized salted digest. The salt is embedded in the
// digest, so the same plaintext yields a different digest on each call.
func (h Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify recomputes the digest using the embedded salt and compares the
// full digests. bcrypt's comparison does not early-exit on a prefix match.
func (h Hasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
