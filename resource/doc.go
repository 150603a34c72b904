// Package resource provides optional IO limiting for the item store.
//
// Every cache miss re-reads the full collection, so a burst of invalidations
// can translate into a burst of full-blob reads. The [Controller] bounds the
// damage: a weighted semaphore caps concurrent reads and a token-bucket
// limiter caps bytes per second.
package resource
