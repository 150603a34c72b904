package blobstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used by CompressedStore.
type CompressionType uint8

const (
	// CompressionNone disables compression (pass-through).
	CompressionNone CompressionType = 0
	// CompressionLZ4 uses LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD uses ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

// String returns the stable name of the compression type.
func (t CompressionType) String() string {
	switch t {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// blobHeader prefixes every compressed blob:
// [magic uint32][type uint8][uncompressedSize uint32]
// type == CompressionNone means the payload is stored verbatim
// (incompressible input).
const (
	compressedMagic  = 0x53484C46 // "SHLF"
	compressedHdrLen = 4 + 1 + 4
)

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// CompressedStore wraps a BlobStore and transparently compresses whole blobs.
//
// The item store reads and rewrites the collection as a unit, so whole-blob
// compression fits the access pattern; there is no random access into the
// compressed payload. Stat passes through to the inner store, which keeps
// change markers working: a rewrite changes size and/or modtime either way.
type CompressedStore struct {
	inner       BlobStore
	compression CompressionType
}

// NewCompressedStore creates a CompressedStore.
func NewCompressedStore(inner BlobStore, compression CompressionType) *CompressedStore {
	return &CompressedStore{inner: inner, compression: compression}
}

// Put compresses data and writes it to the inner store.
func (s *CompressedStore) Put(ctx context.Context, name string, data []byte) error {
	encoded, err := compressBlob(data, s.compression)
	if err != nil {
		return err
	}
	return s.inner.Put(ctx, name, encoded)
}

// Open reads the inner blob fully, decompresses it and returns an in-memory
// handle over the plain content.
func (s *CompressedStore) Open(ctx context.Context, name string) (Blob, error) {
	inner, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer inner.Close()

	raw, err := ReadAll(ctx, inner)
	if err != nil {
		return nil, err
	}

	plain, err := decompressBlob(raw)
	if err != nil {
		return nil, err
	}
	return &memoryBlob{data: plain}, nil
}

// Stat passes through to the inner store.
// Size reflects the stored (compressed) blob; markers compare by equality
// only, so that is fine.
func (s *CompressedStore) Stat(ctx context.Context, name string) (BlobInfo, error) {
	return s.inner.Stat(ctx, name)
}

// Delete removes the blob from the inner store.
func (s *CompressedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List lists blobs in the inner store.
func (s *CompressedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

func compressBlob(data []byte, compression CompressionType) ([]byte, error) {
	var compressed []byte
	switch compression {
	case CompressionNone:
		compressed = nil
	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(data)))
		n, err := lz4.CompressBlock(data, buf, nil)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			compressed = buf[:n]
		}
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compression)
	}

	storedType := compression
	// Store verbatim when compression does not help.
	if compressed == nil || len(compressed) >= len(data) {
		storedType = CompressionNone
		compressed = data
	}

	out := make([]byte, compressedHdrLen+len(compressed))
	binary.LittleEndian.PutUint32(out[0:], compressedMagic)
	out[4] = byte(storedType)
	binary.LittleEndian.PutUint32(out[5:], uint32(len(data)))
	copy(out[compressedHdrLen:], compressed)
	return out, nil
}

func decompressBlob(raw []byte) ([]byte, error) {
	if len(raw) < compressedHdrLen {
		return nil, errors.New("compressed blob too small for header")
	}
	if binary.LittleEndian.Uint32(raw[0:]) != compressedMagic {
		return nil, errors.New("compressed blob has invalid magic")
	}
	storedType := CompressionType(raw[4])
	uncompressedSize := binary.LittleEndian.Uint32(raw[5:])
	payload := raw[compressedHdrLen:]

	switch storedType {
	case CompressionNone:
		return payload, nil
	case CompressionLZ4:
		out := make([]byte, uncompressedSize)
		n, err := lz4.UncompressBlock(payload, out)
		if err != nil {
			return nil, err
		}
		return out[:n], nil
	case CompressionZSTD:
		dec := getZstdDecoder()
		out, err := dec.DecodeAll(payload, make([]byte, 0, uncompressedSize))
		zstdDecoderPool.Put(dec)
		return out, err
	default:
		return nil, fmt.Errorf("unsupported compression type in blob header: %d", storedType)
	}
}
