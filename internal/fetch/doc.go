// Package fetch runs the explorer's fetch cycles.
//
// A cycle issues the four NASA requests concurrently through Settle, waits
// for every one of them, and applies each outcome to the state.Store on its
// own terms:
//
//   - success with a well-formed body writes the slot (capped by the store)
//   - a transport error or non-2xx status leaves the slot as it was
//   - a body that cannot be decoded fails the cycle as a whole
//
// The asteroid slot takes only the feed bucket keyed by today's date; a
// missing bucket is an empty list.
package fetch
