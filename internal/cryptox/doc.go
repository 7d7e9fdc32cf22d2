// Package cryptox holds the cryptographic primitives of the vault.
//
// Three pieces live here:
//
//   - HashSecret / VerifySecret: bcrypt hashing for the login password,
//     the account key and the optional unlock passcode. Salt and cost are
//     embedded in the returned string.
//   - DeriveKey: PBKDF2-HMAC-SHA256 turning the account key and the stored
//     16-byte account salt into the 32-byte session key.
//   - EncryptField / DecryptField: AES-256-GCM over a single credential
//     field. Every call draws a fresh 12-byte nonce.
//
// # Blob format
//
// EncryptField returns a self-contained blob:
//
//	nonce (12 bytes) || tag (16 bytes) || ciphertext (len(plaintext) bytes)
//
// There is no per-field salt; the key is derived once per account and the
// nonce guarantees that two encryptions of the same text differ.
//
// Failures that indicate a broken caller (wrong key or salt length) are
// reported as ErrInvalidKeyLength / ErrInvalidSaltLength. Anything that
// looks like corrupted or foreign data on decrypt is ErrIntegrity, and no
// plaintext is ever returned alongside it.
package cryptox
