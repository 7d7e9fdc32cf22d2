package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
)

// Clipboard is the system clipboard as seen by the CLI.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Copy puts the username or password of an entry on the clipboard and
// clears it after the configured delay, unless something else was copied
// in the meantime.
func (a *App) Copy(ctx context.Context, args []string) error {
	const text = "copy <id> [username|password]"

	id, err := parseID(args, text)
	if err != nil {
		return a.fail(ctx, err)
	}
	field := "password"
	if len(args) > 1 {
		field = strings.ToLower(args[1])
	}
	if field != "password" && field != "username" {
		return a.fail(ctx, usage(text))
	}
	if err := a.session.RequireUnlocked(); err != nil {
		return a.fail(ctx, err)
	}

	e, err := a.vault.Entry(ctx, id)
	if err == nil {
		err = e.Err
	}
	if err != nil {
		return a.fail(ctx, err)
	}
	value := e.Password
	if field == "username" {
		value = e.Username
	}

	if err := a.clip.WriteAll(value); err != nil {
		return a.fail(ctx, fmt.Errorf("failed to write clipboard: %w", err))
	}
	a.clipMu.Lock()
	if a.clipTimer != nil {
		a.clipTimer.Stop()
	}
	a.clipValue = value
	a.clipTimer = a.sched.AfterFunc(a.config.ClipboardClearAfter, func() { a.clearClipboard(ctx, value) })
	a.clipMu.Unlock()

	a.flash(levelSuccess, fmt.Sprintf("Copied %s of entry %d. The clipboard is cleared in %s.", field, id, a.config.ClipboardClearAfter))
	return nil
}

func (a *App) clearClipboard(ctx context.Context, copied string) {
	cur, err := a.clip.ReadAll()
	if err != nil {
		a.log.Warn(ctx, "failed to read clipboard", "error", err)
		return
	}
	if cur != copied {
		return
	}
	if err := a.clip.WriteAll(""); err != nil {
		a.log.Warn(ctx, "failed to clear clipboard", "error", err)
	}
}

// releaseClipboard cancels a pending clear and clears the clipboard right
// away if it still holds the last copied value.
func (a *App) releaseClipboard(ctx context.Context) {
	a.clipMu.Lock()
	timer, value := a.clipTimer, a.clipValue
	a.clipTimer, a.clipValue = nil, ""
	a.clipMu.Unlock()

	if timer == nil {
		return
	}
	timer.Stop()
	a.clearClipboard(ctx, value)
}
