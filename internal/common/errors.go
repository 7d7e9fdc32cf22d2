// Package common defines sentinel errors and small helpers shared by the
// passkeeper packages. Callers should use errors.Is to match these values.
package common

import "errors"

var (

	// repository specific errors
	ErrorNotFound = errors.New("not found")

	// service specific errors
	ErrorInternal = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// account errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")

	// session errors
	ErrNotLoggedIn    = errors.New("not logged in")
	ErrVaultLocked    = errors.New("vault is locked")
	ErrVaultNotLocked = errors.New("vault is not locked")

	// vault errors
	ErrFieldNotSearchable = errors.New("field is not searchable")
)
