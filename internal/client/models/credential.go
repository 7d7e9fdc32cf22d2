package models

// Credential is a stored vault entry. Account (the site or app name) is
// kept in clear so it can be searched; Username and Password hold
// cryptox blobs.
type Credential struct {
	ID        int64
	AccountID int64
	Account   string
	Username  []byte
	Password  []byte
}

// CredentialChanges lists the credential columns to overwrite. Nil fields
// keep their stored value.
type CredentialChanges struct {
	Account  *string
	Username []byte
	Password []byte
}

// IsEmpty reports whether there is nothing to write.
func (c CredentialChanges) IsEmpty() bool {
	return c.Account == nil && c.Username == nil && c.Password == nil
}

// SearchFieldAccount is the only credential field stored in clear text.
const SearchFieldAccount = "account"

// IsSearchableField reports whether field can be matched without decrypting.
func IsSearchableField(field string) bool {
	return field == SearchFieldAccount
}

// DisplayEntry is a decrypted credential ready to be shown. When the
// blobs could not be opened Err is set and Username/Password are empty.
type DisplayEntry struct {
	ID       int64
	Account  string
	Username string
	Password string
	Err      error
}
