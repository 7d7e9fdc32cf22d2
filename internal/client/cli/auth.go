package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/services"
	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/dmitrijs2005/passkeeper/internal/common"
)

func (a *App) isLoggedIn() bool {
	return a.state() != session.StateLoggedOut
}

func (a *App) isUnlocked() bool {
	return a.state() == session.StateUnlocked
}

// Register asks for the sign-up form and prints the account key once.
func (a *App) Register(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}
	confirmation, err := a.askSecret("Confirm password")
	if err != nil {
		return err
	}

	key, err := a.accounts.Register(ctx, services.Registration{
		Email:                email,
		Password:             password,
		PasswordConfirmation: confirmation,
	})
	if err != nil {
		return a.fail(ctx, err)
	}

	a.flash(levelSuccess, "Account created.")
	a.printf("Your account key is: %s\n", key)
	a.flash(levelWarning, "Write it down. It is required to log in and is never shown again.")
	return nil
}

// Login asks for email, password and account key and opens a locked session.
func (a *App) Login(ctx context.Context) error {
	email, err := a.ask("Email")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password")
	if err != nil {
		return err
	}
	key, err := a.askSecret("Account key")
	if err != nil {
		return err
	}

	err = a.session.Login(ctx, session.Credentials{Email: email, Password: password, Key: key})
	if err != nil {
		return a.fail(ctx, err)
	}

	a.flash(levelSuccess, "Logged in. Type 'unlock' to open your passwords.")
	return nil
}

// Unlock asks for the password or passcode.
func (a *App) Unlock(ctx context.Context) error {
	if !a.isLoggedIn() {
		return a.fail(ctx, common.ErrNotLoggedIn)
	}
	if a.isUnlocked() {
		return a.fail(ctx, common.ErrVaultNotLocked)
	}

	input, err := a.askSecret("Password or passcode")
	if err != nil {
		return err
	}

	res, err := a.session.Unlock(ctx, input)
	if err != nil {
		return a.fail(ctx, err)
	}
	if !res.Unlocked {
		a.flash(levelDanger, res.Message())
		return common.ErrInvalidCredentials
	}

	a.flash(levelSuccess, res.Message())
	return nil
}

func (a *App) Lock(ctx context.Context) error {
	if err := a.session.Lock(); err != nil {
		return a.fail(ctx, err)
	}
	a.flash(levelSuccess, "Passwords locked.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(); err != nil {
		return a.fail(ctx, err)
	}
	a.releaseClipboard(ctx)
	a.flash(levelSuccess, "Logged out.")
	return nil
}

// Settings updates email, password, lock timer and passcode of the current
// account. Blank answers keep the stored value.
func (a *App) Settings(ctx context.Context) error {
	if !a.isUnlocked() {
		if !a.isLoggedIn() {
			return a.fail(ctx, common.ErrNotLoggedIn)
		}
		return a.fail(ctx, common.ErrVaultLocked)
	}
	acc, _ := a.session.Account()

	var u services.DetailsUpdate
	var err error

	if u.CurrentPassword, err = a.askSecret("Current password"); err != nil {
		return err
	}

	email, err := a.ask("Email [" + acc.Email + "]")
	if err != nil {
		return err
	}
	if email != "" {
		u.Email = &email
	}

	if u.NewPassword, err = a.askSecret("New password (blank keeps the current one)"); err != nil {
		return err
	}
	if u.NewPassword != "" {
		if u.NewPasswordConfirmation, err = a.askSecret("Confirm new password"); err != nil {
			return err
		}
	}

	timer, err := a.ask("Lock timer [" + acc.LockTimer.String() + "] (" + presetList() + ")")
	if err != nil {
		return err
	}
	if timer != "" {
		lt, err := models.ParseLockTimer(timer)
		if err != nil {
			a.flash(levelDanger, "Lock timer must be one of the presets.")
			return err
		}
		u.LockTimer = &lt
	}

	passcode, err := a.askSecret("Passcode, 4 digits ('-' disables, blank keeps)")
	if err != nil {
		return err
	}
	switch passcode {
	case "":
	case "-":
		off := ""
		u.Passcode = &off
	default:
		u.Passcode = &passcode
	}

	err = a.accounts.UpdateDetails(ctx, acc.ID, u)
	if errors.Is(err, common.ErrInvalidCredentials) {
		a.flash(levelDanger, "Wrong password.")
		return err
	}
	if err != nil {
		return a.fail(ctx, err)
	}

	if err := a.session.Refresh(ctx); err != nil {
		return a.fail(ctx, err)
	}
	a.flash(levelSuccess, "User details updated successfully.")
	return nil
}

func presetList() string {
	labels := make([]string, 0, len(models.LockTimerPresets))
	for _, p := range models.LockTimerPresets {
		labels = append(labels, p.String())
	}
	return strings.Join(labels, ", ")
}
