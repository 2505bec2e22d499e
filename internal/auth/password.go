package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the bcrypt work factor used when none is configured.
	DefaultCost = 12
	// MinCost is the cheapest factor bcrypt accepts; tests use it.
	MinCost = bcrypt.MinCost
	MaxCost = bcrypt.MaxCost
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused
// rather than silently shortened.
const maxPasswordBytes = 72

// ErrInvalidPassword means the password does not match, including the case
// of an account that has no password at all (GitHub sign-in only).
var ErrInvalidPassword = errors.New("auth: invalid password")

// PasswordService hashes and checks account passwords with bcrypt.
type PasswordService struct {
	cost int
}

// NewPasswordService uses cost, or DefaultCost when cost is 0. Values
// outside [MinCost, MaxCost] are clamped.
func NewPasswordService(cost int) *PasswordService {
	switch {
	case cost == 0:
		cost = DefaultCost
	case cost < MinCost:
		cost = MinCost
	case cost > MaxCost:
		cost = MaxCost
	}
	return &PasswordService{cost: cost}
}

// Hash returns a self-describing bcrypt hash (salt and cost included).
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > maxPasswordBytes {
		return "", fmt.Errorf("auth: password must be %d bytes or fewer", maxPasswordBytes)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks plaintext against hash. A mismatch or an empty hash is
// ErrInvalidPassword; a corrupt hash is a different error.
func (p *PasswordService) Verify(hash, plaintext string) error {
	if hash == "" {
		return ErrInvalidPassword
	}
	switch err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)); {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrInvalidPassword
	default:
		return fmt.Errorf("auth: comparing password hash: %w", err)
	}
}
