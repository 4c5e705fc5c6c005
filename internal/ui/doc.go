// Package ui provides the terminal user interface for explorer.
//
// The UI is a Bubble Tea program. It reads a state.Store and renders the
// present.Page derived from it: a header with the selected rover, sol, and
// cycle state, a command bar, and one scrollable box holding the four
// sections (picture of the day, Mars photos, near-Earth asteroids, Earth
// images).
//
// # Package Structure
//
//   - app.go: Model, Update loop, commands, and Run
//   - keys.go: key bindings (bubbles/key)
//   - header.go: status header and command bar
//   - sections.go: section rendering for the content viewport
//   - box.go: titled border box shared by the sections and the log overlay
//   - logs.go: log overlay backed by logtail
//   - help.go: help overlay generated from the key map
//   - theme.go, style_helpers.go: palettes and background-safe rendering
//
// # Cycles
//
// Changing the rover or sol updates the store and begins a cycle in the same
// step, so the newest cycle id always belongs to the newest selection. The
// selection is saved to prefs.toml and the cycle runs as a tea.Cmd. Cycles
// are never cancelled; the store drops results from any cycle that has been
// superseded. While a cycle is pending the spinner ticks and each tick
// re-reads the store, so sections flip from loading as soon as the store
// does. A slower tick re-reads the store once per second otherwise.
//
// # Logs
//
// The TUI owns the terminal, so logs are written to a file. Pressing L
// shows the tail of that file, parsed and reformatted by logtail.
package ui
