// Package store implements the asynchronous resource container that bridges
// one backend REST resource into client state with consistent loading and
// error semantics. The web client hand-wrote this pattern once per resource;
// here it is implemented once and instantiated per resource with a small
// configuration.
package store

// Status tracks the lifecycle of an asynchronous operation. List (read) and
// action (create/update/delete) operations are tracked independently so the
// UI can show stale data while a mutation is in flight.
type Status int

const (
	// Idle means no operation of this category has run since the last reset.
	Idle Status = iota
	// Loading means an operation is in flight.
	Loading
	// Succeeded means the last resolved operation completed.
	Succeeded
	// Failed means the last resolved operation failed; the message is in the
	// container's error slot.
	Failed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
