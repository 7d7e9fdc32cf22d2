package session

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
)

type State int

const (
	StateLoggedOut State = iota
	StateLocked
	StateUnlocked
)

func (s State) String() string {
	switch s {
	case StateLoggedOut:
		return "logged out"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// LockReason tells lock observers what locked the vault.
type LockReason int

const (
	LockManual LockReason = iota
	LockTimeout
)

func (r LockReason) String() string {
	if r == LockTimeout {
		return "timeout"
	}
	return "manual"
}

// AccountFinder is the part of the account repository the controller needs.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id int64) (*models.Account, error)
}

// Credentials are the three secrets asked for at login.
type Credentials struct {
	Email    string
	Password string
	Key      string
}

const (
	DefaultMaxAttempts         = 3
	DefaultEditRecheckInterval = time.Second
)

// Options tune a Controller. Zero values pick the defaults.
type Options struct {
	// MaxAttempts is how many wrong unlock inputs are tolerated before the
	// passcode stops being accepted.
	MaxAttempts int

	// EditRecheckInterval is how long auto-lock waits before trying again
	// when it fires in the middle of an edit.
	EditRecheckInterval time.Duration

	Scheduler Scheduler
}

func (o Options) withDefaults() Options {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if o.EditRecheckInterval <= 0 {
		o.EditRecheckInterval = DefaultEditRecheckInterval
	}
	if o.Scheduler == nil {
		o.Scheduler = RealScheduler()
	}
	return o
}

// UnlockResult describes the outcome of an unlock attempt.
type UnlockResult struct {
	Unlocked bool

	// AttemptsLeft is the remaining number of failures before the passcode
	// is refused.
	AttemptsLeft int

	// PasscodeTried is set when the input was also checked against the
	// passcode.
	PasscodeTried bool

	// PasswordRequired is set once the passcode has been locked out.
	PasswordRequired bool
}

// Message renders the result for the user.
func (r UnlockResult) Message() string {
	switch {
	case r.Unlocked:
		return "Passwords unlocked."
	case r.PasscodeTried && r.AttemptsLeft > 0:
		return fmt.Sprintf("Wrong password or passcode. %d %s left.", r.AttemptsLeft, attemptsWord(r.AttemptsLeft))
	case r.PasscodeTried:
		return "Wrong password or passcode. Password required."
	case r.PasswordRequired:
		return "Wrong password. Password required."
	default:
		return "Wrong password."
	}
}

func attemptsWord(n int) string {
	if n == 1 {
		return "attempt"
	}
	return "attempts"
}
