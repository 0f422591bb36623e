// Password hashing for the auth package.
//
// bcrypt is deliberately slow — that slowness is the security property.
// It also generates a random salt per hash and embeds it in the output, so
// two users with the same password get different digests and no separate
// salt column is needed.
package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor: roughly 250ms per hash on current
// server hardware — acceptable for an interactive login, expensive for an
// attacker iterating a wordlist.
const defaultCost = 12

// ErrPasswordMismatch is returned by Verify when the password does not
// match the stored hash, including when the stored hash is malformed.
// A malformed hash is indistinguishable from a wrong password on purpose.
var ErrPasswordMismatch = errors.New("auth: password does not match")

// PasswordService provides bcrypt hashing and verification. It is a struct
// rather than free functions so the cost can be lowered in tests.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the production cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceForTest creates a PasswordService with a custom cost.
// Tests pass bcrypt.MinCost (4) to avoid ~250ms per hash. Never use a low
// cost in production.
func NewPasswordServiceForTest(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash produces the bcrypt digest of a plaintext password. The output is a
// self-contained string (version, cost, salt, hash) stored directly in the
// password_hash column.
//
// Hashing failures are bubbled up, never swallowed: a registration that
// cannot hash its password must fail loudly.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		// bcrypt silently truncates input beyond 72 bytes; reject instead.
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}

	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. Returns nil on
// match and ErrPasswordMismatch otherwise. bcrypt's comparison is
// constant-time, so response timing reveals nothing about how close the
// guess was.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); err != nil {
		// Mismatch and malformed-hash both map to the same error: callers
		// must not be able to probe which one happened.
		return ErrPasswordMismatch
	}
	return nil
}
