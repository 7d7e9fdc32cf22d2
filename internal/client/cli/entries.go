package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/passkeeper/internal/client/models"
	"github.com/dmitrijs2005/passkeeper/internal/client/passgen"
	"github.com/dmitrijs2005/passkeeper/internal/client/services"
	"github.com/dmitrijs2005/passkeeper/internal/common"
)

const passwordMask = "********"

// List prints every entry of the vault, newest first.
func (a *App) List(ctx context.Context) error {
	if err := a.session.RequireUnlocked(); err != nil {
		return a.fail(ctx, err)
	}
	entries, err := a.vault.Entries(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.renderTable(entries)
	return nil
}

// Search lists the entries whose web/app name contains the given term.
func (a *App) Search(ctx context.Context, args []string) error {
	if err := a.session.RequireUnlocked(); err != nil {
		return a.fail(ctx, err)
	}
	entries, err := a.vault.Search(ctx, strings.Join(args, " "))
	if err != nil {
		return a.fail(ctx, err)
	}
	a.renderTable(entries)
	return nil
}

func (a *App) renderTable(entries []models.DisplayEntry) {
	if len(entries) == 0 {
		a.flash(levelInfo, "No entries.")
		return
	}

	a.outMu.Lock()
	defer a.outMu.Unlock()

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWEB/APP\tUSERNAME\tPASSWORD")
	for _, e := range entries {
		username, password := e.Username, passwordMask
		if e.Err != nil {
			username, password = "<unreadable>", "<unreadable>"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.ID, e.Account, username, password)
	}
	_ = w.Flush()
}

// Show prints one entry with its password in clear.
func (a *App) Show(ctx context.Context, args []string) error {
	id, err := parseID(args, "show <id>")
	if err != nil {
		return a.fail(ctx, err)
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
	a.printf("ID:       %d\nWeb/App:  %s\nUsername: %s\nPassword: %s\n", e.ID, e.Account, e.Username, e.Password)
	return nil
}

// Add asks for a new entry. A blank password is replaced by a generated
// one. Entries can be added while the vault is locked; when it is unlocked
// auto-lock is held off until the form is done.
func (a *App) Add(ctx context.Context) error {
	switch {
	case !a.isLoggedIn():
		return a.fail(ctx, common.ErrNotLoggedIn)
	case a.isUnlocked():
		if err := a.session.BeginEdit(); err != nil {
			return a.fail(ctx, err)
		}
		defer a.session.EndEdit()
	}

	account, err := a.ask("Web/App")
	if err != nil {
		return err
	}
	username, err := a.ask("Username")
	if err != nil {
		return err
	}
	password, err := a.askSecret("Password (blank generates one)")
	if err != nil {
		return err
	}
	if password == "" {
		if password, err = passgen.Generate(); err != nil {
			return a.fail(ctx, err)
		}
		a.flash(levelInfo, "Generated a password for this entry.")
	}

	c, err := a.vault.Create(ctx, account, username, password)
	if err != nil {
		return a.fail(ctx, err)
	}
	a.flash(levelSuccess, fmt.Sprintf("Entry %d saved.", c.ID))
	return nil
}

// Edit asks for replacement values; blank answers keep the stored ones.
func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := parseID(args, "edit <id>")
	if err != nil {
		return a.fail(ctx, err)
	}
	if err := a.session.BeginEdit(); err != nil {
		return a.fail(ctx, err)
	}
	defer a.session.EndEdit()

	current, err := a.vault.Entry(ctx, id)
	if err == nil {
		err = current.Err
	}
	if err != nil {
		return a.fail(ctx, err)
	}

	var u services.CredentialUpdate
	account, err := a.ask("Web/App [" + current.Account + "]")
	if err != nil {
		return err
	}
	if account != "" {
		u.Account = &account
	}
	username, err := a.ask("Username [" + current.Username + "]")
	if err != nil {
		return err
	}
	if username != "" {
		u.Username = &username
	}
	password, err := a.askSecret("Password (blank keeps, 'gen' generates)")
	if err != nil {
		return err
	}
	switch password {
	case "":
	case "gen":
		if password, err = passgen.Generate(); err != nil {
			return a.fail(ctx, err)
		}
		u.Password = &password
	default:
		u.Password = &password
	}

	if _, err := a.vault.Update(ctx, id, u); err != nil {
		return a.fail(ctx, err)
	}
	a.flash(levelSuccess, fmt.Sprintf("Entry %d updated.", id))
	return nil
}

// Delete removes an entry after confirmation. Only the clear-text name is
// shown, so the vault may be locked.
func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := parseID(args, "delete <id>")
	if err != nil {
		return a.fail(ctx, err)
	}
	e, err := a.vault.Get(ctx, id)
	if err != nil {
		return a.fail(ctx, err)
	}

	ok, err := a.confirm(fmt.Sprintf("Delete entry %d (%s)?", e.ID, e.Account))
	if err != nil {
		return err
	}
	if !ok {
		a.flash(levelInfo, "Cancelled.")
		return nil
	}

	if err := a.vault.Delete(ctx, id); err != nil {
		return a.fail(ctx, err)
	}
	a.flash(levelSuccess, fmt.Sprintf("Entry %d deleted.", id))
	return nil
}

// Generate prints a fresh random password.
func (a *App) Generate(ctx context.Context) error {
	p, err := passgen.Generate()
	if err != nil {
		return a.fail(ctx, err)
	}
	a.printf("%s\n", p)
	return nil
}
