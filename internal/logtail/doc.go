// Package logtail reads the tail of explorer's log file for the TUI.
//
// # Reading
//
// Read returns the last N lines of a file in one sequential pass using a
// ring buffer of N entries, so memory stays O(N) regardless of file size.
// A missing file yields no lines and no error; the log is created lazily.
//
//	lines, err := logtail.Read(cfg.LogFile, 200)
//
// # Parsing
//
// The log file holds zerolog JSON lines. Parse pulls out time, level,
// component, message and error, and keeps the remaining keys (cycle_id,
// trace_id, section, ...) as strings in Fields. Lines that are not JSON are
// passed through as the message. Format renders an Entry on one line with
// the extra fields sorted by key.
package logtail
