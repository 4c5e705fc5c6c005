// Package logging builds the explorer's zerolog loggers and trace ids.
//
// The TUI owns the terminal, so interactive runs log to a file; the fetch
// and serve commands may log to stderr instead.
package logging
