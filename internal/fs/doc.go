// Package fs provides filesystem abstractions for testability and fault injection.
//
// Production code uses fs.Default ([LocalFS]). Tests inject [FaultyFS] to
// simulate open, write, sync and close failures without touching the real
// filesystem behavior.
//
// The package intentionally does NOT take context.Context: local filesystem
// operations are fast and non-interruptible at the syscall level. Slow
// backends (S3, MinIO) implement blobstore interfaces with context support
// instead.
package fs
