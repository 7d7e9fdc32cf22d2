// Package services contains the application services of the passkeeper
// client.
//
//   - AccountService registers accounts and changes account settings.
//   - VaultService manages the encrypted credentials of the logged-in
//     account. It obtains the vault key from a KeyProvider (the session
//     controller) for every call and wipes it afterwards.
//
// Input problems are reported as validation.Errors, which match
// common.ErrValidation.
package services

import "strings"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
