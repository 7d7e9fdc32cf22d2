package config

import (
	"context"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dmitrijs2005/passkeeper/internal/client/storage"
	"github.com/dmitrijs2005/passkeeper/internal/client/validation"
	"github.com/dmitrijs2005/passkeeper/internal/filex"
)

const dataDirName = ".passkeeper"

// Config holds runtime settings for the passkeeper CLI.
type Config struct {
	// DataDir holds the SQLite vault and the log file. Empty means
	// ~/.passkeeper.
	DataDir string

	DatabaseDriver string
	DatabaseDSN    string

	LogLevel string
	// LogFile is relative to DataDir unless absolute.
	LogFile string

	MaxUnlockAttempts   int
	EditRecheckInterval time.Duration
	ClipboardClearAfter time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DataDir = ""
	c.DatabaseDriver = storage.DriverSQLite
	c.DatabaseDSN = "vault.db"
	c.LogLevel = "info"
	c.LogFile = "passkeeper.log"
	c.MaxUnlockAttempts = 3
	c.EditRecheckInterval = time.Second
	c.ClipboardClearAfter = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// Validate checks the values that have a closed set of options.
func (c *Config) Validate(ctx context.Context) error {
	positive := func(_ context.Context, name, value string) (*validation.Violation, error) {
		if n, err := strconv.Atoi(value); err != nil || n <= 0 {
			return &validation.Violation{Message: validation.Label(name) + " must be positive."}, nil
		}
		return nil, nil
	}

	return validation.Validate(ctx,
		validation.Field{Name: "database_driver", Value: c.DatabaseDriver, Rules: []validation.Rule{
			validation.Required(), validation.In(storage.DriverSQLite, storage.DriverPostgres),
		}},
		validation.Field{Name: "database_dsn", Value: c.DatabaseDSN, Rules: []validation.Rule{validation.Required()}},
		validation.Field{Name: "log_level", Value: c.LogLevel, Rules: []validation.Rule{
			validation.In("debug", "info", "warn", "error"),
		}},
		validation.Field{Name: "max_unlock_attempts", Value: strconv.Itoa(c.MaxUnlockAttempts), Rules: []validation.Rule{positive}},
		validation.Field{Name: "edit_recheck_interval", Value: strconv.FormatInt(int64(c.EditRecheckInterval), 10), Rules: []validation.Rule{positive}},
		validation.Field{Name: "clipboard_clear_after", Value: strconv.FormatInt(int64(c.ClipboardClearAfter), 10), Rules: []validation.Rule{positive}},
	)
}

// ResolvePaths creates the data directory and makes DatabaseDSN (for
// SQLite) and LogFile absolute within it.
func (c *Config) ResolvePaths() error {
	var (
		dir string
		err error
	)
	if c.DataDir == "" {
		dir, err = filex.UserDataDir(dataDirName)
	} else {
		dir, err = filex.EnsureDir(c.DataDir)
	}
	if err != nil {
		return err
	}
	c.DataDir = dir

	if c.DatabaseDriver == storage.DriverSQLite && c.DatabaseDSN != ":memory:" {
		c.DatabaseDSN = filepath.Clean(filex.ResolvePath(dir, c.DatabaseDSN))
	}
	c.LogFile = filex.ResolvePath(dir, c.LogFile)
	return nil
}
