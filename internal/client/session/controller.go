package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/validation"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/google/uuid"
)

// Controller is the session and vault-lock state machine. All methods
// are safe for concurrent use.
type Controller struct {
	accounts AccountFinder
	log      logging.Logger
	opts     Options

	mu        sync.Mutex
	state     State
	account   models.Account
	key       []byte
	sessionID string
	attempts  int
	editing   bool
	timer     Timer
	// gen invalidates auto-lock callbacks that were scheduled before the
	// last lock, unlock or logout.
	gen       uint64
	observers []func(LockReason)
}

func NewController(accounts AccountFinder, logger logging.Logger, opts Options) *Controller {
	return &Controller{
		accounts: accounts,
		log:      logger,
		opts:     opts.withDefaults(),
	}
}

// OnLock registers fn to be called after the vault locks. Observers run
// without the controller lock held.
func (c *Controller) OnLock(fn func(LockReason)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, fn)
}

// Login authenticates with email, password and account key. Both the
// password and the key must match. On success any previous session is
// replaced and the vault starts out locked.
func (c *Controller) Login(ctx context.Context, cr Credentials) error {
	err := validation.Validate(ctx,
		validation.Field{Name: "email", Value: cr.Email, Rules: []validation.Rule{validation.Required()}},
		validation.Field{Name: "password", Value: cr.Password, Rules: []validation.Rule{validation.Required()}},
		validation.Field{Name: "key", Value: cr.Key, Rules: []validation.Rule{validation.Required()}},
	)
	if err != nil {
		return err
	}

	email := strings.ToLower(strings.TrimSpace(cr.Email))
	acc, err := c.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			c.log.Info(ctx, "login failed: unknown email")
			return common.ErrInvalidCredentials
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	if !c.matches(ctx, acc.ID, acc.PasswordHash, cr.Password, "password") ||
		!c.matches(ctx, acc.ID, acc.KeyHash, cr.Key, "key") {
		c.log.Info(ctx, "login failed: wrong secret", "account_id", acc.ID)
		return common.ErrInvalidCredentials
	}

	key, err := cryptox.DeriveKey(cr.Key, acc.Salt)
	if err != nil {
		c.log.Error(ctx, "failed to derive session key", "account_id", acc.ID, "error", err)
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.state = StateLocked
	c.account = *acc
	c.key = key
	c.sessionID = uuid.NewString()
	c.attempts = c.opts.MaxAttempts

	c.log.Info(ctx, "logged in", "account_id", acc.ID, "session_id", c.sessionID)
	return nil
}

// matches verifies secret against hash. A malformed stored hash is logged
// and counts as a mismatch.
func (c *Controller) matches(ctx context.Context, accountID int64, hash, secret, what string) bool {
	ok, err := cryptox.VerifySecret(hash, secret)
	if err != nil {
		c.log.Error(ctx, "stored hash is unreadable", "account_id", accountID, "field", what, "error", err)
		return false
	}
	return ok
}

// Unlock opens a locked vault with the login password or, while attempts
// remain and a passcode is set, with the passcode. Every miss costs one
// attempt; a successful unlock restores them and arms auto-lock.
//
// A wrong input is not an error: it is reported through UnlockResult.
func (c *Controller) Unlock(ctx context.Context, input string) (UnlockResult, error) {
	err := validation.Validate(ctx, validation.Field{
		Name: "password_or_passcode", Value: input, Rules: []validation.Rule{validation.Required()},
	})
	if err != nil {
		return UnlockResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateLoggedOut:
		return UnlockResult{}, common.ErrNotLoggedIn
	case StateUnlocked:
		return UnlockResult{}, common.ErrVaultNotLocked
	}

	acc := c.account
	res := UnlockResult{PasscodeTried: acc.HasPasscode() && c.attempts > 0}

	ok := c.matches(ctx, acc.ID, acc.PasswordHash, input, "password")
	if !ok && res.PasscodeTried {
		ok = c.matches(ctx, acc.ID, acc.PasscodeHash, input, "passcode")
	}

	if !ok {
		if c.attempts > 0 {
			c.attempts--
		}
		res.AttemptsLeft = c.attempts
		res.PasswordRequired = acc.HasPasscode() && c.attempts == 0
		c.log.Warn(ctx, "unlock failed", "account_id", acc.ID, "session_id", c.sessionID, "attempts_left", c.attempts)
		return res, nil
	}

	c.attempts = c.opts.MaxAttempts
	c.state = StateUnlocked
	c.editing = false
	c.armLocked()

	res.Unlocked = true
	res.AttemptsLeft = c.attempts
	c.log.Info(ctx, "vault unlocked", "account_id", acc.ID, "session_id", c.sessionID)
	return res, nil
}

// Lock locks an unlocked vault. It drops any edit in progress.
func (c *Controller) Lock() error {
	c.mu.Lock()
	switch c.state {
	case StateLoggedOut:
		c.mu.Unlock()
		return common.ErrNotLoggedIn
	case StateLocked:
		c.mu.Unlock()
		return common.ErrVaultLocked
	}
	accountID := c.account.ID
	observers := c.lockLocked()
	c.mu.Unlock()

	c.log.Info(context.Background(), "vault locked", "account_id", accountID, "reason", LockManual)
	notify(observers, LockManual)
	return nil
}

// lockLocked moves to StateLocked and returns the observers to notify.
func (c *Controller) lockLocked() []func(LockReason) {
	c.stopTimerLocked()
	c.state = StateLocked
	c.editing = false
	return append([]func(LockReason){}, c.observers...)
}

func notify(observers []func(LockReason), reason LockReason) {
	for _, fn := range observers {
		fn(reason)
	}
}

// Logout ends the session and wipes the session key.
func (c *Controller) Logout() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoggedOut {
		return common.ErrNotLoggedIn
	}
	c.log.Info(context.Background(), "logged out", "account_id", c.account.ID, "session_id", c.sessionID)
	c.resetLocked()
	return nil
}

func (c *Controller) resetLocked() {
	c.stopTimerLocked()
	common.WipeByteArray(c.key)
	c.key = nil
	c.account = models.Account{}
	c.sessionID = ""
	c.attempts = 0
	c.editing = false
	c.state = StateLoggedOut
}

// armLocked schedules auto-lock according to the account's lock timer.
func (c *Controller) armLocked() {
	c.stopTimerLocked()
	if c.account.LockTimer.IsNever() {
		return
	}
	gen := c.gen
	c.timer = c.opts.Scheduler.AfterFunc(c.account.LockTimer.Duration(), func() { c.autoLock(gen) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.gen++
}

func (c *Controller) autoLock(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.state != StateUnlocked {
		c.mu.Unlock()
		return
	}
	if c.editing {
		c.timer = c.opts.Scheduler.AfterFunc(c.opts.EditRecheckInterval, func() { c.autoLock(gen) })
		c.mu.Unlock()
		return
	}
	accountID := c.account.ID
	observers := c.lockLocked()
	c.mu.Unlock()

	c.log.Info(context.Background(), "vault locked", "account_id", accountID, "reason", LockTimeout)
	notify(observers, LockTimeout)
}

// BeginEdit marks an add or edit form as open. Auto-lock waits until
// EndEdit is called.
func (c *Controller) BeginEdit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireUnlockedLocked(); err != nil {
		return err
	}
	c.editing = true
	return nil
}

func (c *Controller) EndEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = false
}

func (c *Controller) requireUnlockedLocked() error {
	switch c.state {
	case StateLoggedOut:
		return common.ErrNotLoggedIn
	case StateLocked:
		return common.ErrVaultLocked
	}
	return nil
}

// Refresh reloads the account after its settings changed. Attempts are
// restored and a running auto-lock is re-armed with the new timer.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateLoggedOut {
		c.mu.Unlock()
		return common.ErrNotLoggedIn
	}
	id := c.account.ID
	c.mu.Unlock()

	acc, err := c.accounts.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to reload account: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoggedOut || c.account.ID != id {
		return common.ErrNotLoggedIn
	}
	c.account = *acc
	c.attempts = c.opts.MaxAttempts
	if c.state == StateUnlocked {
		c.armLocked()
	}
	return nil
}

// SessionKey returns the account id and a copy of the vault key. The key
// is available in both logged-in states so entries can be written while
// the vault is locked; gating decrypted output is up to the caller (see
// RequireUnlocked). The caller should wipe the copy when done.
func (c *Controller) SessionKey() (int64, []byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoggedOut {
		return 0, nil, common.ErrNotLoggedIn
	}
	return c.account.ID, common.CloneBytes(c.key), nil
}

// RequireUnlocked returns ErrNotLoggedIn or ErrVaultLocked unless the
// vault is unlocked.
func (c *Controller) RequireUnlocked() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requireUnlockedLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Attempts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempts
}

// Account returns a copy of the logged-in account.
func (c *Controller) Account() (models.Account, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoggedOut {
		return models.Account{}, false
	}
	acc := c.account
	acc.Salt = common.CloneBytes(acc.Salt)
	return acc, true
}

func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}
