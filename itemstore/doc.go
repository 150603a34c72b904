// Package itemstore is the record store accessor: it loads, appends to and
// stats the single blob holding the item collection.
//
// Failure taxonomy: [ErrUnreadable] (blob missing or read failed),
// [ErrCorrupt] (undecodable content), [ErrUnwritable] (write failed) and
// [ErrTimeout] (configured read bound elapsed). Failures propagate to the
// caller unchanged; the store never retries, because blindly retrying a
// corrupt or unreadable blob masks real failures.
package itemstore
