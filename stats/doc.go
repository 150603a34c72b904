// Package stats derives aggregate statistics (count, average price,
// category histogram, price range) over the full item collection and caches
// the result keyed by the blob's change marker.
//
// The cache holds exactly one entry. A read is a hit iff the entry's marker
// equals the blob's current marker; anything else triggers a recomputation,
// collapsed across concurrent callers via singleflight. A background
// [Poller] invalidates the entry when the marker moves between reads.
package stats
