package services

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/validation"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, svc AccountService, email string) string {
	t.Helper()
	key, err := svc.Register(context.Background(), Registration{
		Email: email, Password: "password1", PasswordConfirmation: "password1",
	})
	require.NoError(t, err)
	return key
}

func verify(t *testing.T, hash, secret string) bool {
	t.Helper()
	ok, err := cryptox.VerifySecret(hash, secret)
	require.NoError(t, err)
	return ok
}

func TestRegister_Success(t *testing.T) {
	store := openStore(t)
	svc := NewAccountService(store, logging.Discard())

	key := register(t, svc, " New@Example.com ")
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{32}$`), key)

	acc, err := store.Accounts.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.True(t, verify(t, acc.PasswordHash, "password1"))
	assert.True(t, verify(t, acc.KeyHash, key))
	assert.NotContains(t, acc.KeyHash, key)
	assert.Len(t, acc.Salt, cryptox.SaltSize)
	assert.False(t, acc.HasPasscode())
	assert.Equal(t, models.DefaultLockTimer, acc.LockTimer)
	assert.Equal(t, models.DefaultThemeColor, acc.ThemeColor)
}

func TestRegister_KeysDiffer(t *testing.T) {
	svc := NewAccountService(openStore(t), logging.Discard())
	assert.NotEqual(t, register(t, svc, "a@example.com"), register(t, svc, "b@example.com"))
}

func TestRegister_Duplicate(t *testing.T) {
	svc := NewAccountService(openStore(t), logging.Discard())
	register(t, svc, "a@example.com")

	_, err := svc.Register(context.Background(), Registration{
		Email: "A@EXAMPLE.COM", Password: "password1", PasswordConfirmation: "password1",
	})
	require.ErrorIs(t, err, common.ErrDuplicateAccount)

	errs, ok := validation.AsErrors(err)
	require.True(t, ok)
	assert.Equal(t, "Email is taken.", errs["email"].Message)
}

// longPassword is short in characters but over the bcrypt limit in bytes.
var longPassword = strings.Repeat("ü", 40)

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name  string
		r     Registration
		field string
		msg   string
	}{
		{"missing email", Registration{Password: "password1", PasswordConfirmation: "password1"}, "email", "Email is required."},
		{"bad email", Registration{Email: "nope", Password: "password1", PasswordConfirmation: "password1"}, "email", "Email is not a valid email address."},
		{"short password", Registration{Email: "a@b.com", Password: "short", PasswordConfirmation: "short"}, "password", "Password must consist of at least 8 characters."},
		{"long password", Registration{Email: "a@b.com", Password: longPassword, PasswordConfirmation: longPassword}, "password", "Password must not be longer than 72 bytes."},
		{"mismatch", Registration{Email: "a@b.com", Password: "password1", PasswordConfirmation: "password2"}, "password_confirmation", "Passwords do not match."},
		{"missing confirmation", Registration{Email: "a@b.com", Password: "password1"}, "password_confirmation", "Password confirmation is required."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := openStore(t)
			svc := NewAccountService(store, logging.Discard())

			_, err := svc.Register(context.Background(), tt.r)
			require.ErrorIs(t, err, common.ErrValidation)
			errs, _ := validation.AsErrors(err)
			assert.Equal(t, tt.msg, errs[tt.field].Message)

			_, err = store.Accounts.FindByEmail(context.Background(), "a@b.com")
			require.ErrorIs(t, err, common.ErrorNotFound, "nothing is stored on failure")
		})
	}
}

func setupAccount(t *testing.T) (AccountService, *models.Account, func() *models.Account) {
	t.Helper()
	store := openStore(t)
	svc := NewAccountService(store, logging.Discard())
	register(t, svc, "a@example.com")
	register(t, svc, "taken@example.com")

	acc, err := store.Accounts.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	reload := func() *models.Account {
		got, err := store.Accounts.FindByID(context.Background(), acc.ID)
		require.NoError(t, err)
		return got
	}
	return svc, acc, reload
}

func TestUpdateDetails_AllFields(t *testing.T) {
	svc, acc, reload := setupAccount(t)

	err := svc.UpdateDetails(context.Background(), acc.ID, DetailsUpdate{
		CurrentPassword:         "password1",
		Email:                   ptr("Changed@Example.com"),
		NewPassword:             "password2",
		NewPasswordConfirmation: "password2",
		LockTimer:               ptr(models.LockTimer(300_000)),
		Passcode:                ptr("4321"),
	})
	require.NoError(t, err)

	got := reload()
	assert.Equal(t, "changed@example.com", got.Email)
	assert.True(t, verify(t, got.PasswordHash, "password2"))
	assert.True(t, verify(t, got.PasscodeHash, "4321"))
	assert.Equal(t, models.LockTimer(300_000), got.LockTimer)
	assert.Equal(t, acc.Salt, got.Salt)
	assert.Equal(t, acc.KeyHash, got.KeyHash)
}

func TestUpdateDetails_ClearPasscode(t *testing.T) {
	svc, acc, reload := setupAccount(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateDetails(ctx, acc.ID, DetailsUpdate{CurrentPassword: "password1", Passcode: ptr("1234")}))
	require.True(t, reload().HasPasscode())

	require.NoError(t, svc.UpdateDetails(ctx, acc.ID, DetailsUpdate{CurrentPassword: "password1", Passcode: ptr("")}))
	assert.False(t, reload().HasPasscode())
}

func TestUpdateDetails_SameEmailIsNotTaken(t *testing.T) {
	svc, acc, reload := setupAccount(t)

	err := svc.UpdateDetails(context.Background(), acc.ID, DetailsUpdate{CurrentPassword: "password1", Email: ptr("a@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", reload().Email)
}

func TestUpdateDetails_WrongPassword(t *testing.T) {
	svc, acc, reload := setupAccount(t)

	err := svc.UpdateDetails(context.Background(), acc.ID, DetailsUpdate{
		CurrentPassword: "wrong-password",
		Passcode:        ptr("1234"),
	})
	require.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.False(t, reload().HasPasscode())
}

func TestUpdateDetails_Validation(t *testing.T) {
	tests := []struct {
		name  string
		u     DetailsUpdate
		field string
		msg   string
		cause error
	}{
		{"no current password", DetailsUpdate{}, "current_password", "Current password is required.", nil},
		{"email taken", DetailsUpdate{CurrentPassword: "password1", Email: ptr("taken@example.com")}, "email", "Email is taken.", common.ErrDuplicateAccount},
		{"empty email", DetailsUpdate{CurrentPassword: "password1", Email: ptr(" ")}, "email", "Email is required.", nil},
		{"short new password", DetailsUpdate{CurrentPassword: "password1", NewPassword: "short", NewPasswordConfirmation: "short"}, "new_password", "New password must consist of at least 8 characters.", nil},
		{"long new password", DetailsUpdate{CurrentPassword: "password1", NewPassword: longPassword, NewPasswordConfirmation: longPassword}, "new_password", "New password must not be longer than 72 bytes.", nil},
		{"confirmation mismatch", DetailsUpdate{CurrentPassword: "password1", NewPassword: "password2", NewPasswordConfirmation: "password3"}, "new_password_confirmation", "Passwords do not match.", nil},
		{"missing confirmation", DetailsUpdate{CurrentPassword: "password1", NewPassword: "password2"}, "new_password_confirmation", "New password confirmation is required.", nil},
		{"passcode letters", DetailsUpdate{CurrentPassword: "password1", Passcode: ptr("12a4")}, "passcode", "Passcode must consist of digits only.", nil},
		{"passcode length", DetailsUpdate{CurrentPassword: "password1", Passcode: ptr("12345")}, "passcode", "Passcode must consist of 4 characters.", nil},
		{"lock timer", DetailsUpdate{CurrentPassword: "password1", LockTimer: ptr(models.LockTimer(20_000))}, "lock_timer", "Lock timer must be one of the presets.", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, acc, _ := setupAccount(t)

			err := svc.UpdateDetails(context.Background(), acc.ID, tt.u)
			require.ErrorIs(t, err, common.ErrValidation)
			if tt.cause != nil {
				require.ErrorIs(t, err, tt.cause)
			}
			errs, _ := validation.AsErrors(err)
			assert.Equal(t, tt.msg, errs[tt.field].Message)
		})
	}
}

func TestUpdateDetails_UnknownAccount(t *testing.T) {
	svc, _, _ := setupAccount(t)

	err := svc.UpdateDetails(context.Background(), 999, DetailsUpdate{CurrentPassword: "password1"})
	require.ErrorIs(t, err, common.ErrorNotFound)
}
