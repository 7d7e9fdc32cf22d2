package cryptox

import "errors"

var (
	// ErrIntegrity is returned by DecryptField when the blob is truncated,
	// tampered with, or was sealed under a different key.
	ErrIntegrity = errors.New("integrity check failed")

	// ErrMalformedHash is returned by VerifySecret when the stored hash
	// cannot be parsed.
	ErrMalformedHash = errors.New("malformed secret hash")

	ErrInvalidKeyLength  = errors.New("invalid key length")
	ErrInvalidSaltLength = errors.New("invalid salt length")
)
