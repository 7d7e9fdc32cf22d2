package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_RegisterLoginUnlockAddDelete(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)
	log := logging.Discard()

	accounts := NewAccountService(store, log)
	key, err := accounts.Register(ctx, Registration{
		Email: "alice@example.com", Password: "s3cret-pass", PasswordConfirmation: "s3cret-pass",
	})
	require.NoError(t, err)

	ctl := session.NewController(store.Accounts, log, session.Options{})
	t.Cleanup(func() { _ = ctl.Logout() })
	vault := NewVaultService(ctl, store.Credentials, log)

	require.ErrorIs(t, ctl.Login(ctx, session.Credentials{Email: "alice@example.com", Password: "s3cret-pass", Key: "wrong"}),
		common.ErrInvalidCredentials)
	require.NoError(t, ctl.Login(ctx, session.Credentials{Email: "alice@example.com", Password: "s3cret-pass", Key: key}))

	// entries can be added before the vault is unlocked
	require.ErrorIs(t, ctl.RequireUnlocked(), common.ErrVaultLocked)
	c, err := vault.Create(ctx, "example.org", "alice", "pa55word")
	require.NoError(t, err)
	assert.Equal(t, session.StateLocked, ctl.State())

	res, err := ctl.Unlock(ctx, "s3cret-pass")
	require.NoError(t, err)
	require.True(t, res.Unlocked)

	entries, err := vault.Entries(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.DisplayEntry{ID: c.ID, Account: "example.org", Username: "alice", Password: "pa55word"}, entries[0])

	require.NoError(t, vault.Delete(ctx, c.ID))
	entries, err = vault.Entries(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// settings change flows back into the session
	acc, _ := ctl.Account()
	require.NoError(t, accounts.UpdateDetails(ctx, acc.ID, DetailsUpdate{CurrentPassword: "s3cret-pass", Passcode: ptr("2468")}))
	require.NoError(t, ctl.Refresh(ctx))
	require.NoError(t, ctl.Lock())

	res, err = ctl.Unlock(ctx, "2468")
	require.NoError(t, err)
	assert.True(t, res.Unlocked)

	require.NoError(t, ctl.Logout())
	_, err = vault.Entries(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)
}
