package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultLock = models.DefaultLockTimer.Duration()

func TestApp_RegisterValidation(t *testing.T) {
	h := newHarness(t)

	h.input("not-an-email")
	stubSecrets(t, "short", "other")
	require.Error(t, h.app.Register(context.Background()))

	out := h.output()
	assert.Contains(t, out, "Email is not a valid email address.")
	assert.Contains(t, out, "Password must consist of at least 8 characters.")
	assert.NotContains(t, out, "account key")
}

func TestApp_RegisterDuplicate(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	require.NoError(t, h.app.Logout(context.Background()))

	h.input(strings.ToUpper(testEmail))
	stubSecrets(t, testPassword, testPassword)
	require.Error(t, h.app.Register(context.Background()))
	assert.Contains(t, h.output(), "Email is taken.")
}

func TestApp_LoginWrongKey(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	require.NoError(t, h.app.Logout(context.Background()))
	h.output()

	h.input(testEmail)
	stubSecrets(t, testPassword, strings.Repeat("0", 32))
	require.Error(t, h.app.Login(context.Background()))
	assert.Contains(t, h.output(), "Wrong credentials.")
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_UnlockWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()

	require.NoError(t, h.app.Lock(ctx))
	assert.Contains(t, h.output(), "Passwords locked.")

	stubSecrets(t, "nope")
	require.Error(t, h.app.Unlock(ctx))
	assert.Contains(t, h.output(), "Wrong password.")
	assert.False(t, h.app.isUnlocked())

	stubSecrets(t, testPassword)
	require.NoError(t, h.app.Unlock(ctx))
	assert.Contains(t, h.output(), "Passwords unlocked.")

	require.Error(t, h.app.Unlock(ctx))
	assert.Contains(t, h.output(), "already unlocked")
}

func TestApp_CommandsNeedSession(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	require.Error(t, h.app.List(ctx))
	assert.Contains(t, h.output(), "Please log in first.")

	require.Error(t, h.app.Unlock(ctx))
	assert.Contains(t, h.output(), "Please log in first.")

	h.registerAndUnlock(t)
	require.NoError(t, h.app.Lock(ctx))
	h.output()

	require.Error(t, h.app.List(ctx))
	assert.Contains(t, h.output(), "Passwords are locked.")
	require.Error(t, h.app.Show(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Passwords are locked.")
	require.Error(t, h.app.Settings(ctx))
	assert.Contains(t, h.output(), "Passwords are locked.")
	require.Error(t, h.app.Copy(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Passwords are locked.")
}

func TestApp_AddAndDeleteWhileLocked(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()

	require.NoError(t, h.app.Lock(ctx))
	h.add(t, "mybank", "alice", "s3cret!!")
	assert.Contains(t, h.output(), "Entry 1 saved.")
	assert.Equal(t, session.StateLocked, h.app.state())

	stubSecrets(t, testPassword)
	require.NoError(t, h.app.Unlock(ctx))
	require.NoError(t, h.app.Show(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Password: s3cret!!")

	require.NoError(t, h.app.Lock(ctx))
	h.input("y")
	require.NoError(t, h.app.Delete(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Entry 1 deleted.")

	require.NoError(t, h.app.Logout(ctx))
	require.Error(t, h.app.Add(ctx))
	assert.Contains(t, h.output(), "Please log in first.")
}

func TestApp_AddListShow(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()

	h.add(t, "mybank", "alice", "s3cret!!")
	assert.Contains(t, h.output(), "Entry 1 saved.")
	h.add(t, "mail", "al", "")
	assert.Contains(t, h.output(), "Generated a password")

	require.NoError(t, h.app.List(ctx))
	out := h.output()
	assert.Contains(t, out, "WEB/APP")
	assert.Contains(t, out, "mybank")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, passwordMask)
	assert.NotContains(t, out, "s3cret!!")
	assert.Less(t, strings.Index(out, "mail"), strings.Index(out, "mybank"), "newest first")

	require.NoError(t, h.app.Show(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Password: s3cret!!")

	require.Error(t, h.app.Show(ctx, []string{"99"}))
	assert.Contains(t, h.output(), "No such entry.")

	require.Error(t, h.app.Show(ctx, nil))
	assert.Contains(t, h.output(), "Usage: show <id>")
}

func TestApp_AddValidation(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)

	h.input("", "alice")
	stubSecrets(t, "pw")
	require.Error(t, h.app.Add(context.Background()))
	assert.Contains(t, h.output(), "Web/app is required.")

	require.NoError(t, h.app.List(context.Background()))
	assert.Contains(t, h.output(), "No entries.")
}

func TestApp_SearchAndEdit(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()

	h.add(t, "mybank", "alice", "one")
	h.add(t, "Gmail", "alice", "two")
	h.output()

	require.NoError(t, h.app.Search(ctx, []string{"bank"}))
	out := h.output()
	assert.Contains(t, out, "mybank")
	assert.NotContains(t, out, "Gmail")

	h.input("", "bob")
	stubSecrets(t, "")
	require.NoError(t, h.app.Edit(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Entry 1 updated.")

	require.NoError(t, h.app.Show(ctx, []string{"1"}))
	out = h.output()
	assert.Contains(t, out, "Web/App:  mybank")
	assert.Contains(t, out, "Username: bob")
	assert.Contains(t, out, "Password: one")

	h.input("", "")
	stubSecrets(t, "gen")
	require.NoError(t, h.app.Edit(ctx, []string{"1"}))
	require.NoError(t, h.app.Show(ctx, []string{"1"}))
	assert.NotContains(t, h.output(), "Password: one")
}

func TestApp_Delete(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()

	h.add(t, "mybank", "alice", "one")
	h.output()

	h.input("n")
	require.NoError(t, h.app.Delete(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Cancelled.")

	h.input("y")
	require.NoError(t, h.app.Delete(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "Entry 1 deleted.")

	require.Error(t, h.app.Delete(ctx, []string{"1"}))
	assert.Contains(t, h.output(), "No such entry.")
}

func TestApp_CopyClearsClipboard(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()
	clearAfter := h.app.config.ClipboardClearAfter

	h.add(t, "mybank", "alice", "s3cret!!")

	require.NoError(t, h.app.Copy(ctx, []string{"1"}))
	assert.Equal(t, "s3cret!!", h.clip.text)
	require.True(t, h.sched.fire(clearAfter))
	assert.Equal(t, "", h.clip.text)

	require.NoError(t, h.app.Copy(ctx, []string{"1", "username"}))
	assert.Equal(t, "alice", h.clip.text)
	require.NoError(t, h.clip.WriteAll("something else"))
	require.True(t, h.sched.fire(clearAfter))
	assert.Equal(t, "something else", h.clip.text)

	require.Error(t, h.app.Copy(ctx, []string{"1", "notes"}))
	assert.Contains(t, h.output(), "Usage: copy <id>")
}

func TestApp_CloseClearsCopiedSecret(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()
	clearAfter := h.app.config.ClipboardClearAfter

	h.add(t, "mybank", "alice", "s3cret!!")
	require.NoError(t, h.app.Copy(ctx, []string{"1"}))
	require.NoError(t, h.app.Copy(ctx, []string{"1", "username"}))
	assert.Equal(t, "alice", h.clip.text)

	require.NoError(t, h.app.Close())
	assert.Equal(t, "", h.clip.text)
	assert.False(t, h.sched.fire(clearAfter), "pending clears are cancelled")
}

func TestApp_LogoutClearsCopiedSecret(t *testing.T) {
	tests := []struct {
		name   string
		change string
		want   string
	}{
		{"still copied", "", ""},
		{"replaced by user", "something else", "something else"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.registerAndUnlock(t)
			ctx := context.Background()

			h.add(t, "mybank", "alice", "s3cret!!")
			require.NoError(t, h.app.Copy(ctx, []string{"1"}))
			if tt.change != "" {
				require.NoError(t, h.clip.WriteAll(tt.change))
			}

			require.NoError(t, h.app.Logout(ctx))
			assert.Equal(t, tt.want, h.clip.text)
		})
	}
}

func TestApp_AutoLock(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)

	require.True(t, h.sched.fire(defaultLock))
	assert.Equal(t, session.StateLocked, h.app.state())
	assert.Contains(t, h.output(), "Passwords locked.")
}

func TestApp_AutoLockWaitsForOpenForm(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)

	orig := getSimpleText
	t.Cleanup(func() { getSimpleText = orig })
	getSimpleText = func(r *bufio.Reader, prompt string, w io.Writer) (string, error) {
		if prompt == "Username" {
			require.True(t, h.sched.fire(defaultLock))
		}
		return orig(r, prompt, w)
	}

	h.add(t, "mybank", "alice", "s3cret!!")
	assert.Contains(t, h.output(), "Entry 1 saved.")
	assert.True(t, h.app.isUnlocked())

	require.True(t, h.sched.fire(h.app.config.EditRecheckInterval))
	assert.Equal(t, session.StateLocked, h.app.state())
}

func TestApp_Settings(t *testing.T) {
	h := newHarness(t)
	h.registerAndUnlock(t)
	ctx := context.Background()

	h.input("", "")
	stubSecrets(t, "wrong-password", "", "")
	require.Error(t, h.app.Settings(ctx))
	assert.Contains(t, h.output(), "Wrong password.")

	h.input("", "soon")
	stubSecrets(t, testPassword, "")
	require.Error(t, h.app.Settings(ctx))
	assert.Contains(t, h.output(), "Lock timer must be one of the presets.")

	h.input("", "1 minute")
	stubSecrets(t, testPassword, "", "1234")
	require.NoError(t, h.app.Settings(ctx))
	assert.Contains(t, h.output(), "User details updated successfully.")

	acc, ok := h.app.session.Account()
	require.True(t, ok)
	assert.Equal(t, models.LockTimer(60_000), acc.LockTimer)
	assert.True(t, acc.HasPasscode())

	require.True(t, h.sched.fire(time.Minute))
	assert.Equal(t, session.StateLocked, h.app.state())
	h.output()

	stubSecrets(t, "1234")
	require.NoError(t, h.app.Unlock(ctx))
	assert.Contains(t, h.output(), "Passwords unlocked.")
}

func TestApp_Run(t *testing.T) {
	h := newHarness(t)
	key := h.registerAndUnlock(t)
	require.NoError(t, h.app.Logout(context.Background()))
	h.output()

	var prompts []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		prompts = append(prompts, fmt.Sprint(a...))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })

	h.input(
		"login", testEmail,
		"unlock",
		"add", "mybank", "alice",
		"list",
		"exit",
	)
	stubSecrets(t, testPassword, key, testPassword, "s3cret!!")

	h.app.Run(context.Background())

	out := h.output()
	assert.Contains(t, out, "Welcome to passkeeper")
	assert.Contains(t, out, "Passwords unlocked.")
	assert.Contains(t, out, "Entry 1 saved.")
	assert.Contains(t, out, "mybank")
	assert.Contains(t, prompts, "pk> ")
	assert.Contains(t, prompts, "pk ("+testEmail+" unlocked)> ")
	assert.Contains(t, prompts, "Bye!")
}

func TestApp_Generate(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.Generate(context.Background()))
	assert.GreaterOrEqual(t, len(strings.TrimSpace(h.output())), 18)
}
