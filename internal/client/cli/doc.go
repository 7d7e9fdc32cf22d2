// Package cli provides the interactive passkeeper terminal client.
//
// It wires configuration, storage, the session controller and the
// services into a read-eval-print loop. Typical flow: register once and
// note the account key, log in with email, password and key, unlock, then
// add, list, copy, edit, delete or export credentials. The vault locks itself
// after the account's lock timer; an open add or edit form postpones it.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits
// or input ends.
package cli
