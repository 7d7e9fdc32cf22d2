package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeySize is the length of the derived session key (AES-256).
	KeySize = 32
	// SaltSize is the length of the per-account salt.
	SaltSize = 16
	// KDFIterations is the PBKDF2 iteration count.
	KDFIterations = 100_000
)

// DeriveKey stretches secret with the account salt into a KeySize-byte key
// using PBKDF2-HMAC-SHA256. The same (secret, salt) pair always yields the
// same key.
//
// Example:
//
//	salt, _ := cryptox.NewSalt()
//	key, err := cryptox.DeriveKey(accountKey, salt)
//	if err != nil {
//	    return err
//	}
//	defer common.WipeByteArray(key)
func DeriveKey(secret string, salt []byte) ([]byte, error) {
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSaltLength, len(salt), SaltSize)
	}
	return pbkdf2.Key([]byte(secret), salt, KDFIterations, KeySize, sha256.New), nil
}

// NewSalt returns SaltSize bytes from crypto/rand. Accounts get one at
// registration and every export file gets its own.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return salt, nil
}
