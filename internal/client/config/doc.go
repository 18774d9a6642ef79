// Package config loads runtime configuration for the profilekeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the remote profile API
//	-d string   path of the local SQLite database
//	-t int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so "30s" and integer nanoseconds both work.
// Keys missing from the file keep their current value.
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080/api",
//	  "database_dsn": "profilekeeper.db",
//	  "request_timeout": "30s",
//	  "log_level": "debug"
//	}
package config
