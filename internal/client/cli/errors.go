package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/passkeeper/internal/client/validation"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
)

var errUsage = errors.New("usage")

// fail reports err to the user and returns it unchanged. Errors without a
// user-facing meaning are logged and shown as a generic message.
func (a *App) fail(ctx context.Context, err error) error {
	if ve, ok := validation.AsErrors(err); ok {
		a.flash(levelDanger, ve.Error())
		return err
	}

	switch {
	case errors.Is(err, common.ErrNotLoggedIn):
		a.flash(levelWarning, "Please log in first.")
	case errors.Is(err, common.ErrVaultLocked):
		a.flash(levelWarning, "Passwords are locked. Type 'unlock' to continue.")
	case errors.Is(err, common.ErrVaultNotLocked):
		a.flash(levelInfo, "Passwords are already unlocked.")
	case errors.Is(err, common.ErrorNotFound):
		a.flash(levelDanger, "No such entry.")
	case errors.Is(err, common.ErrInvalidCredentials):
		a.flash(levelDanger, "Wrong credentials.")
	case errors.Is(err, common.ErrFieldNotSearchable):
		a.flash(levelDanger, "Only the web/app name can be searched.")
	case errors.Is(err, cryptox.ErrIntegrity):
		a.flash(levelDanger, "Entry is damaged and cannot be decrypted.")
	case errors.Is(err, errUsage):
		a.flash(levelWarning, err.Error())
	default:
		a.log.Error(ctx, "command failed", "error", err)
		a.flash(levelDanger, "Something went wrong, see the log for details.")
	}
	return err
}

func usage(text string) error {
	return &usageError{text: text}
}

type usageError struct {
	text string
}

func (e *usageError) Error() string { return "Usage: " + e.text }
func (e *usageError) Unwrap() error { return errUsage }

// parseID reads the entry id from the first argument.
func parseID(args []string, text string) (int64, error) {
	if len(args) == 0 {
		return 0, usage(text)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, usage(text)
	}
	return id, nil
}
