package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/passkeeper/internal/flagx"
	"github.com/dmitrijs2005/passkeeper/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from a zero value.
type JsonConfig struct {
	DataDir             string          `json:"data_dir"`
	DatabaseDriver      string          `json:"database_driver"`
	DatabaseDSN         string          `json:"database_dsn"`
	LogLevel            string          `json:"log_level"`
	LogFile             string          `json:"log_file"`
	MaxUnlockAttempts   *int            `json:"max_unlock_attempts"`
	EditRecheckInterval *timex.Duration `json:"edit_recheck_interval"`
	ClipboardClearAfter *timex.Duration `json:"clipboard_clear_after"`
}

// parseJson overlays cfg with values from the JSON file named by -c or
// -config. Without the flag nothing happens. Read or decode failures
// panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&cfg.DataDir, jc.DataDir)
	setString(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFile, jc.LogFile)

	if jc.MaxUnlockAttempts != nil {
		cfg.MaxUnlockAttempts = *jc.MaxUnlockAttempts
	}
	if jc.EditRecheckInterval != nil {
		cfg.EditRecheckInterval = jc.EditRecheckInterval.Duration
	}
	if jc.ClipboardClearAfter != nil {
		cfg.ClipboardClearAfter = jc.ClipboardClearAfter.Duration
	}
}
