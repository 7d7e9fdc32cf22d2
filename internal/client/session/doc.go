// Package session tracks who is logged in and whether their vault is
// locked.
//
// A Controller moves between three states:
//
//	LoggedOut --Login--> Locked --Unlock--> Unlocked
//	                       ^                   |
//	                       +---Lock/timeout----+
//
// Logout returns to LoggedOut from either logged-in state and wipes the
// session key. Unlocking with the optional passcode is allowed while
// attempts remain; once they run out only the login password unlocks.
//
// The key used for the vault cipher is derived at login and lives only
// in memory. It is handed out through SessionKey, and only while the
// vault is unlocked.
package session
