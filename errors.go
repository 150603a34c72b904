package shelfgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/shelfgo/query"
)

// ErrNotFound is returned when no item with the requested ID exists.
//
// Not-found and validation failures are client-correctable; the itemstore
// sentinel errors (ErrUnreadable, ErrCorrupt, ErrUnwritable, ErrTimeout)
// are server-side failures and pass through unchanged.
var ErrNotFound = errors.New("not found")

// ValidationError reports a rejected input field.
//
// The offending field and the reason are carried so the serving layer can
// render a client-correctable message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// translateError unifies lower-layer sentinels into the facade's taxonomy.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, query.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
