// Package models defines the records persisted by the vault and the values
// handed to the UI layer.
package models

const (
	DefaultThemeColor = "turquoise"
	DefaultColorMode  = "light"
)

// Account is a registered vault owner.
type Account struct {
	// ID is assigned by storage on creation and never changes.
	ID int64

	// Email identifies the account at login. Stored lower-cased.
	Email string

	// PasswordHash is the bcrypt hash of the login password.
	PasswordHash string

	// KeyHash is the bcrypt hash of the account key shown once at
	// registration. The session key is derived from that key, so it must
	// never be recoverable from PasswordHash.
	KeyHash string

	// PasscodeHash is the bcrypt hash of the optional short unlock
	// passcode. Empty means the passcode is disabled.
	PasscodeHash string

	// Salt is generated once at registration and is immutable.
	Salt []byte

	ThemeColor string
	ColorMode  string

	// LockTimer is the auto-lock delay applied after each unlock.
	LockTimer LockTimer
}

// HasPasscode reports whether unlocking with the passcode is enabled.
func (a *Account) HasPasscode() bool {
	return a.PasscodeHash != ""
}

// AccountChanges lists the account columns to overwrite. Nil fields keep
// their stored value; a pointer to "" for PasscodeHash disables the
// passcode.
type AccountChanges struct {
	Email        *string
	PasswordHash *string
	PasscodeHash *string
	LockTimer    *LockTimer
}

// IsEmpty reports whether there is nothing to write.
func (c AccountChanges) IsEmpty() bool {
	return c.Email == nil && c.PasswordHash == nil && c.PasscodeHash == nil && c.LockTimer == nil
}
