// Package config loads explorer's configuration.
//
// # Resolution Order
//
// Each field is resolved from, lowest priority first:
//
//  1. Built-in defaults
//  2. The TOML file (~/.config/explorer/config.toml unless a path is given)
//  3. EXPLORER_* environment variables (NASA_API_KEY is also accepted for the key)
//  4. Command-line flags, applied by the caller after Load
//
// A missing config file is not an error. When no key is configured anywhere
// the client falls back to NASA's DEMO_KEY, which is heavily rate limited.
//
// # TOML Format
//
//	api_key   = "..."
//	api_base  = "https://api.nasa.gov"
//	rover     = "curiosity"
//	sol       = 1000
//	listen    = "127.0.0.1:8080"
//	log_level = "info"
//	log_file  = "~/.local/state/explorer/explorer.log"
//
// All fields are optional. Values are trimmed and tilde expansion is applied
// to log_file.
//
// # Environment
//
//   - EXPLORER_API_KEY, NASA_API_KEY
//   - EXPLORER_API_BASE
//   - EXPLORER_ROVER, EXPLORER_SOL
//   - EXPLORER_LISTEN
//   - EXPLORER_LOG_LEVEL, EXPLORER_LOG_FILE
package config
