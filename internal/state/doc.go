// Package state owns the explorer's view state.
//
// # Overview
//
// A Store holds the user's selection (rover and sol), the four result slots
// (APOD, rover photos, near-Earth objects, EPIC images), per-section status,
// and the status of the current fetch cycle. The fetch orchestrator writes
// to it; the TUI and the HTTP server read Snapshots from it.
//
// # Transitions
//
// State changes only through Store methods:
//
//	c, err := store.SetRover(rover)     // selection changed, cycle begun
//	c := store.Begin()                  // cycle for the current selection
//	store.SetAPOD(c.ID, apod)           // slot written, section marked loaded
//	store.MarkSectionFailed(c.ID, s, e) // slot kept, soft failure recorded
//	store.Finish(c.ID, err)             // Loading=false, cycle error recorded
//
// A selection change and the Begin of its cycle happen under one lock, so
// cycle ids follow the order of the changes no matter which goroutine later
// runs the cycle. Every write carries the cycle id; writes and Finish calls
// for an id that is no longer the latest are dropped. A slow, superseded
// cycle therefore can never overwrite results or clear the loading flag of
// the cycle that replaced it.
//
// # Slot Semantics
//
// A slot changes only when its request succeeded with a well-formed body.
// Failed requests leave the previous value in place, so the first load shows
// empty slots and later loads keep showing the last good data. The store
// enforces the caps (8 rover photos, 6 asteroids, 6 Earth images) by keeping
// a prefix of what it is given.
//
// # Concurrency
//
// The four requests of a cycle complete on separate goroutines, so the store
// is guarded by a sync.RWMutex. Snapshot returns deep copies of the slices
// and the APOD pointer; callers may mutate what they receive.
package state
