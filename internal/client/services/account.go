package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/repositories/accounts"
	"github.com/dmitrijs2005/passkeeper/internal/client/storage"
	"github.com/dmitrijs2005/passkeeper/internal/client/validation"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
)

const (
	minPasswordLength = 8
	passcodeLength    = 4

	// accountKeyBytes is the entropy of the key shown at registration; it
	// is rendered as twice as many hex characters.
	accountKeyBytes = 16
)

// Registration is the sign-up form.
type Registration struct {
	Email                string
	Password             string
	PasswordConfirmation string
}

// DetailsUpdate is the settings form. CurrentPassword is always required.
// Nil fields are left alone; an empty NewPassword keeps the current one and
// a pointer to "" in Passcode disables the passcode.
type DetailsUpdate struct {
	CurrentPassword         string
	Email                   *string
	NewPassword             string
	NewPasswordConfirmation string
	LockTimer               *models.LockTimer
	Passcode                *string
}

// AccountService defines account lifecycle operations.
//
// Contract:
//   - Register: validate the form, create the account and return the
//     one-time account key. The key is not stored in clear anywhere.
//   - UpdateDetails: verify the current password, validate and apply the
//     requested changes. Salt and account key never change.
type AccountService interface {
	Register(ctx context.Context, r Registration) (string, error)
	UpdateDetails(ctx context.Context, accountID int64, u DetailsUpdate) error
}

// TxRunner runs fn inside a transaction. *storage.Store implements it.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos storage.Repositories) error) error
}

type accountService struct {
	store TxRunner
	log   logging.Logger
}

func NewAccountService(store TxRunner, logger logging.Logger) AccountService {
	return &accountService{store: store, log: logger}
}

func emailTaken(repo accounts.Repository) func(ctx context.Context, email string) (bool, error) {
	return func(ctx context.Context, email string) (bool, error) {
		_, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, common.ErrorNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

func (s *accountService) Register(ctx context.Context, r Registration) (string, error) {
	email := normalizeEmail(r.Email)
	var accountKey string

	err := s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		err := validation.Validate(ctx,
			validation.Field{Name: "email", Value: email, Rules: []validation.Rule{
				validation.Required(),
				validation.Email(),
				validation.Unique(emailTaken(repos.Accounts), common.ErrDuplicateAccount),
			}},
			validation.Field{Name: "password", Value: r.Password, Rules: []validation.Rule{
				validation.Required(),
				validation.Min(minPasswordLength),
				validation.MaxBytes(cryptox.MaxSecretBytes),
			}},
			validation.Field{Name: "password_confirmation", Value: r.PasswordConfirmation, Rules: []validation.Rule{
				validation.Required(),
				validation.Match(r.Password),
			}},
		)
		if err != nil {
			return err
		}

		salt, err := cryptox.NewSalt()
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		key, err := common.MakeRandHexString(accountKeyBytes)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		passwordHash, err := cryptox.HashSecret(r.Password)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}
		keyHash, err := cryptox.HashSecret(key)
		if err != nil {
			return fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		acc := &models.Account{
			Email:        email,
			PasswordHash: passwordHash,
			KeyHash:      keyHash,
			Salt:         salt,
			ThemeColor:   models.DefaultThemeColor,
			ColorMode:    models.DefaultColorMode,
			LockTimer:    models.DefaultLockTimer,
		}
		if _, err := repos.Accounts.Create(ctx, acc); err != nil {
			return err
		}

		accountKey = key
		s.log.Info(ctx, "account registered", "account_id", acc.ID)
		return nil
	})
	if err != nil {
		return "", err
	}
	return accountKey, nil
}

func lockTimerRule(lt models.LockTimer) validation.Rule {
	return func(_ context.Context, name, _ string) (*validation.Violation, error) {
		if !lt.Valid() {
			return &validation.Violation{Message: validation.Label(name) + " must be one of the presets."}, nil
		}
		return nil, nil
	}
}

func (s *accountService) UpdateDetails(ctx context.Context, accountID int64, u DetailsUpdate) error {
	return s.store.WithTx(ctx, func(ctx context.Context, repos storage.Repositories) error {
		acc, err := repos.Accounts.FindByID(ctx, accountID)
		if err != nil {
			return err
		}

		fields := []validation.Field{
			{Name: "current_password", Value: u.CurrentPassword, Rules: []validation.Rule{validation.Required()}},
		}

		var email string
		if u.Email != nil {
			email = normalizeEmail(*u.Email)
			rules := []validation.Rule{validation.Required(), validation.Email()}
			if email != acc.Email {
				rules = append(rules, validation.Unique(emailTaken(repos.Accounts), common.ErrDuplicateAccount))
			}
			fields = append(fields, validation.Field{Name: "email", Value: email, Rules: rules})
		}

		if u.NewPassword != "" {
			fields = append(fields,
				validation.Field{Name: "new_password", Value: u.NewPassword, Rules: []validation.Rule{
					validation.Min(minPasswordLength),
					validation.MaxBytes(cryptox.MaxSecretBytes),
				}},
				validation.Field{Name: "new_password_confirmation", Value: u.NewPasswordConfirmation, Rules: []validation.Rule{
					validation.Required(),
					validation.Match(u.NewPassword),
				}},
			)
		}

		if u.Passcode != nil && *u.Passcode != "" {
			fields = append(fields, validation.Field{Name: "passcode", Value: *u.Passcode, Rules: []validation.Rule{
				validation.Numeric(),
				validation.Length(passcodeLength),
			}})
		}

		if u.LockTimer != nil {
			fields = append(fields, validation.Field{Name: "lock_timer", Value: u.LockTimer.String(), Rules: []validation.Rule{
				lockTimerRule(*u.LockTimer),
			}})
		}

		if err := validation.Validate(ctx, fields...); err != nil {
			return err
		}

		ok, err := cryptox.VerifySecret(acc.PasswordHash, u.CurrentPassword)
		if err != nil {
			s.log.Error(ctx, "stored hash is unreadable", "account_id", accountID, "field", "password", "error", err)
		}
		if !ok {
			return common.ErrInvalidCredentials
		}

		var changes models.AccountChanges
		if u.Email != nil && email != acc.Email {
			changes.Email = &email
		}
		if u.NewPassword != "" {
			h, err := cryptox.HashSecret(u.NewPassword)
			if err != nil {
				return fmt.Errorf("%w: %v", common.ErrorInternal, err)
			}
			changes.PasswordHash = &h
		}
		if u.Passcode != nil {
			h := ""
			if *u.Passcode != "" {
				if h, err = cryptox.HashSecret(*u.Passcode); err != nil {
					return fmt.Errorf("%w: %v", common.ErrorInternal, err)
				}
			}
			changes.PasscodeHash = &h
		}
		if u.LockTimer != nil && *u.LockTimer != acc.LockTimer {
			changes.LockTimer = u.LockTimer
		}

		if changes.IsEmpty() {
			return nil
		}
		if err := repos.Accounts.Update(ctx, accountID, changes); err != nil {
			return err
		}
		s.log.Info(ctx, "account details updated", "account_id", accountID)
		return nil
	})
}
