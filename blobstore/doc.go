// Package blobstore abstracts the single named blob the item catalog lives in.
//
// The core only needs three things from its backing storage: read the whole
// blob, replace it atomically, and observe a change marker (size, modtime,
// etag) cheaply. Backends:
//
//   - [LocalStore]: local filesystem, atomic temp-file + rename writes
//   - [MemoryStore]: in-memory, for tests; Put bumps a version ETag
//   - [CompressedStore]: zstd/lz4 whole-blob compression wrapper
//   - s3.Store: Amazon S3 (sub-package s3), optionally with a DynamoDB
//     version row for a monotonic marker and concurrent-writer detection
//   - minio.Store: MinIO and other S3-compatible endpoints (sub-package minio)
package blobstore
