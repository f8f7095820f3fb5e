package ledger

import "errors"

var (
	// ErrNotFound is returned when a lock or update targets a row that
	// does not exist.
	ErrNotFound = errors.New("row not found")

	// ErrBusy is returned when a row lock could not be acquired within
	// the configured bound. The caller may retry the whole unit of work.
	ErrBusy = errors.New("row lock busy")

	// ErrInvalidState is returned when a commit would violate a balance
	// invariant (e.g. a credit going negative). The unit of work has been
	// rolled back in full.
	ErrInvalidState = errors.New("invalid balance state")

	// ErrProtected is returned when deleting a row that is still
	// referenced by transaction records.
	ErrProtected = errors.New("row is referenced and protected from deletion")
)
