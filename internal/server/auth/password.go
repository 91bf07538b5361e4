package auth

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor the service has always used.
const DefaultBcryptCost = 10

// PasswordHasher wraps bcrypt hashing with a configurable work factor and
// mints ids for new accounts. Its id domain (UUIDv7) is independent of the
// repository's (UUIDv4).
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of the plaintext.
func (h *PasswordHasher) Hash(password string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Compare reports whether the plaintext matches the hash. bcrypt's comparison
// runs in time independent of where a mismatch occurs.
func (h *PasswordHasher) Compare(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NewID mints a time-ordered unique id for a new account.
func (h *PasswordHasher) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
