package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/passkeeper/internal/common"
	"github.com/dmitrijs2005/passkeeper/internal/cryptox"
)

const exportVersion = 1

// exportFile is the on-disk layout of an export. Data is the AES-GCM
// sealed JSON array of exportEntry, keyed by PBKDF2 over the account
// password and Salt.
type exportFile struct {
	Version int    `json:"version"`
	KDF     string `json:"kdf"`
	Salt    []byte `json:"salt"`
	Data    []byte `json:"data"`
}

type exportEntry struct {
	Account  string `json:"web_app"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Export writes every readable entry to a new file encrypted with the
// account password. An existing file is never overwritten.
func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return a.fail(ctx, usage("export <file>"))
	}
	path := args[0]

	if err := a.session.BeginEdit(); err != nil {
		return a.fail(ctx, err)
	}
	defer a.session.EndEdit()

	acc, _ := a.session.Account()
	password, err := a.askSecret("Current password")
	if err != nil {
		return err
	}
	ok, err := cryptox.VerifySecret(acc.PasswordHash, password)
	if err != nil {
		a.log.Warn(ctx, "password check failed", "account_id", acc.ID, "error", err)
	}
	if !ok {
		a.flash(levelDanger, "Wrong password.")
		return common.ErrInvalidCredentials
	}

	entries, err := a.vault.Entries(ctx)
	if err != nil {
		return a.fail(ctx, err)
	}
	out := make([]exportEntry, 0, len(entries))
	skipped := 0
	for _, e := range entries {
		if e.Err != nil {
			skipped++
			continue
		}
		out = append(out, exportEntry{Account: e.Account, Username: e.Username, Password: e.Password})
	}

	blob, err := sealExport(out, password)
	if err != nil {
		return a.fail(ctx, err)
	}
	if err := writeNewFile(path, blob); err != nil {
		if errors.Is(err, fs.ErrExist) {
			a.flash(levelDanger, "File already exists: "+path)
			return err
		}
		return a.fail(ctx, err)
	}

	a.log.Info(ctx, "entries exported", "account_id", acc.ID, "count", len(out))
	if skipped > 0 {
		a.flash(levelWarning, fmt.Sprintf("%d damaged entries were left out.", skipped))
	}
	a.flash(levelSuccess, fmt.Sprintf("Exported %d entries to %s.", len(out), path))
	return nil
}

func sealExport(entries []exportEntry, password string) ([]byte, error) {
	plain, err := json.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	defer common.WipeByteArray(plain)

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	key, err := cryptox.DeriveKey(password, salt)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(key)

	data, err := cryptox.EncryptField(string(plain), key)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(exportFile{Version: exportVersion, KDF: "pbkdf2-sha256", Salt: salt, Data: data}, "", "  ")
}

func writeNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
