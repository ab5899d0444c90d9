// Package config loads runtime configuration for the bookmarks CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment: BOOKMARKS_SERVER, BOOKMARKS_TOKEN, BOOKMARKS_DATA_DIR,
//     BOOKMARKS_TIMEOUT, BOOKMARKS_LOG_LEVEL.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the bookmarks server
//	-t string   access token (overrides the saved session)
//	-d string   directory for the local session database and exports
//	-w int      request timeout (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "http://127.0.0.1:3333",
//	  "data_dir": ".bookmarks",
//	  "request_timeout": "10s",
//	  "log_level": "warn"
//	}
//
// The token is deliberately not read from JSON.
package config
