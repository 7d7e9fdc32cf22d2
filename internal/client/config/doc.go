// Package config loads runtime configuration for the passkeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string     database driver: sqlite or postgres
//	-dsn string   database DSN; a relative sqlite path is placed in the data dir
//	-l string     log level: debug, info, warn or error
//	-data string  data directory (default ~/.passkeeper)
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "15s"
// or integer nanoseconds:
//
//	{
//	  "database_driver": "sqlite",
//	  "database_dsn": "vault.db",
//	  "log_level": "info",
//	  "log_file": "passkeeper.log",
//	  "max_unlock_attempts": 3,
//	  "edit_recheck_interval": "1s",
//	  "clipboard_clear_after": "15s"
//	}
//
// Keys that are missing from the file keep their previous value.
package config
