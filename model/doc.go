// Package model defines the shared data types of the shelfgo catalog:
// items, derived statistics and pagination metadata.
//
// The package is dependency-free so that every layer (blobstore, itemstore,
// stats, query, facade) can exchange values without import cycles.
package model
