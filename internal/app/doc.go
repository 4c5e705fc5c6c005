// Package app is the composition root for explorer.
//
// New loads configuration, applies command-line overrides, and wires the
// NASA client, the shared state.Store, and the fetch orchestrator. The
// resulting App runs in one of three modes:
//
//   - RunTUI: the Bubble Tea interface. Logs are written as JSON to the
//     configured log file because the terminal belongs to the UI.
//   - Serve: the HTTP server. Parameter changes and refreshes start cycles
//     through a Dispatcher, which runs them in the background and lets the
//     store discard results from superseded cycles.
//   - FetchOnce: a single blocking cycle for scripting.
//
// # Parameter Precedence
//
// The first cycle's rover and sol come from, in order: explicit options,
// the TUI's remembered selection in prefs.toml (TUI mode only), the config
// file and environment, and finally the built-in defaults (curiosity, sol
// 1000).
//
// # Metrics
//
// Every upstream request is reported to the metrics package through a
// nasa.Observer, labelled by endpoint and classified outcome.
package app
