// Package present turns a state.Snapshot into the view model shared by the
// TUI and the HTML page.
//
// Each section resolves to exactly one State, checked in order: the cycle is
// loading, the cycle failed, the slot has data, or the slot is empty. A soft
// failure of a single request never changes the State; it is reported as a
// short Failure reason next to the empty-state text.
package present
