package itemstore

import (
	"time"

	"github.com/hupe1980/shelfgo/codec"
	"github.com/hupe1980/shelfgo/resource"
)

// Options configure a Store.
type Options struct {
	// BlobName is the name of the blob holding the collection.
	BlobName string

	// Codec encodes/decodes the collection. Defaults to codec.Default.
	Codec codec.Codec

	// ReadTimeout bounds each blob operation. 0 disables the bound, in
	// which case a hung backend propagates as an indefinitely pending call.
	ReadTimeout time.Duration

	// Resources optionally limits concurrent reads and IO throughput.
	// Nil disables limiting.
	Resources *resource.Controller
}

// DefaultOptions are the options used when none are overridden.
var DefaultOptions = Options{
	BlobName:    "items.json",
	Codec:       codec.Default,
	ReadTimeout: 0,
}
