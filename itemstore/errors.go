package itemstore

import "errors"

var (
	// ErrUnreadable indicates the backing blob could not be read
	// (missing, inaccessible, or the read itself failed).
	ErrUnreadable = errors.New("item store unreadable")

	// ErrCorrupt indicates the blob content could not be decoded into
	// well-formed items.
	ErrCorrupt = errors.New("item store corrupt")

	// ErrUnwritable indicates writing the blob back failed.
	ErrUnwritable = errors.New("item store unwritable")

	// ErrTimeout indicates the configured read timeout elapsed before the
	// blob operation completed. Kept distinct from ErrUnreadable so callers
	// can tell a hung backend from a broken one.
	ErrTimeout = errors.New("item store read timed out")
)
