package cryptox

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the work factor used by HashSecret. Tests lower it to
// bcrypt.MinCost to keep the suite fast.
var BcryptCost = bcrypt.DefaultCost

// MaxSecretBytes is the longest secret HashSecret accepts.
const MaxSecretBytes = 72

// HashSecret returns the bcrypt hash of secret. The result carries its own
// random salt and cost, so VerifySecret needs nothing else.
//
// Secrets longer than MaxSecretBytes are rejected by the underlying
// library, so callers validate the length first.
func HashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(h), nil
}

// VerifySecret reports whether secret matches hash.
//
// A plain mismatch is (false, nil). A hash that cannot be parsed yields
// (false, ErrMalformedHash); callers treat that as a failed check.
func VerifySecret(hash, secret string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}
