// Package query implements listing with search and pagination, plus point
// lookups by ID, over the item collection.
package query
