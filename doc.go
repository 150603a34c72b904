// Package shelfgo provides an embedded item catalog over a single opaque
// blob, with pagination/search queries, append-only inserts and a cached
// derived-statistics view.
//
// The blob lives behind the blobstore abstraction (local filesystem, S3,
// MinIO, in-memory), encoded through a pluggable codec. Statistics are
// recomputed at most once per observed change of the blob and concurrent
// readers collapse into a single computation; a background poller
// invalidates the cache when the blob changes underneath.
//
// Basic usage:
//
//	shelf, err := shelfgo.New(blobstore.NewLocalStore("./data"))
//	if err != nil { ... }
//	defer shelf.Close()
//
//	item, err := shelf.CreateItem(ctx, shelfgo.ItemInput{
//		Name:     "Laptop",
//		Category: "Electronics",
//		Price:    999.99,
//	})
//
//	stats, err := shelf.Statistics(ctx)
package shelfgo
