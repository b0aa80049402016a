package engine

import (
	"github.com/cockroachdb/errors"

	"github.com/arloliu/fieldcodec/format"
)

// ContentSizeUnknown is returned by FrameContentSize when the compressed bytes do
// not record the decompressed size.
const ContentSizeUnknown int64 = -1

var (
	// ErrDstSizeTooSmall is returned when the destination cannot hold the output.
	ErrDstSizeTooSmall = errors.New("destination buffer is too small")

	// ErrDictUnsupported is returned by engines without dictionary support.
	ErrDictUnsupported = errors.New("dictionaries are not supported by this engine")

	// ErrDictMismatch is returned when a dictionary built by another engine is passed in.
	ErrDictMismatch = errors.New("dictionary was not created by this engine")

	// ErrEmptyDict is returned when a dictionary is built from zero bytes.
	ErrEmptyDict = errors.New("dictionary content is empty")
)

// Engine is the binding to a block compression library.
//
// All operations are synchronous and run to completion once issued. Every handle
// returned by an Engine must be released exactly once by its owner.
type Engine interface {
	// Type returns the engine identifier.
	Type() format.EngineType

	// LevelRange returns the minimum, maximum and default compression level.
	LevelRange() (minLevel, maxLevel, defaultLevel int)

	// NewCompressionContext allocates a compression context.
	NewCompressionContext() (CompressionContext, error)

	// NewDecompressionContext allocates a decompression context.
	NewDecompressionContext() (DecompressionContext, error)

	// NewCompressionDict builds a compression dictionary bound to level.
	// The dictionary content is copied.
	NewCompressionDict(dict []byte, level int) (CompressionDict, error)

	// NewDecompressionDict builds a decompression dictionary.
	// The dictionary content is copied.
	NewDecompressionDict(dict []byte) (DecompressionDict, error)

	// CompressBound returns the maximum compressed size of an n-byte input.
	CompressBound(n int) int

	// FrameContentSize returns the decompressed size recorded in src, or
	// ContentSizeUnknown when the format does not carry it.
	FrameContentSize(src []byte) (int64, error)
}

// CompressionContext holds the engine state needed for repeated compression calls.
//
// A context is not safe for concurrent use.
type CompressionContext interface {
	// Compress compresses src into dst and returns the number of bytes written.
	// dst must be at least CompressBound(len(src)) bytes long.
	Compress(dst, src []byte, level int) (int, error)

	// CompressDict is Compress seeded with dict. The level is the one the
	// dictionary was built with.
	CompressDict(dst, src []byte, dict CompressionDict) (int, error)

	// Release frees the context.
	Release()
}

// DecompressionContext holds the engine state needed for repeated decompression calls.
//
// A context is not safe for concurrent use.
type DecompressionContext interface {
	// Decompress decompresses src into dst and returns the number of bytes written.
	// ErrDstSizeTooSmall is returned if the content does not fit in dst.
	Decompress(dst, src []byte) (int, error)

	// DecompressDict is Decompress seeded with dict.
	DecompressDict(dst, src []byte, dict DecompressionDict) (int, error)

	// Release frees the context.
	Release()
}

// CompressionDict is an immutable compression dictionary.
// It may be used by several contexts at once.
type CompressionDict interface {
	Release()
}

// DecompressionDict is an immutable decompression dictionary.
// It may be used by several contexts at once.
type DecompressionDict interface {
	Release()
}

// New returns the engine for the given type.
func New(engineType format.EngineType) (Engine, error) {
	switch engineType {
	case format.EngineZstd:
		return newZstdEngine(), nil
	case format.EngineS2:
		return NewS2Engine(), nil
	case format.EngineLZ4:
		return NewLZ4Engine(), nil
	case format.EngineSnappy:
		return NewSnappyEngine(), nil
	default:
		return nil, errors.Newf("unsupported engine type: %s", engineType)
	}
}

// Default returns the zstd engine selected at build time.
func Default() Engine {
	return newZstdEngine()
}

// ErrorName returns the message of the innermost cause of err, which is the text
// reported by the underlying library.
func ErrorName(err error) string {
	if err == nil {
		return ""
	}

	return errors.UnwrapAll(err).Error()
}

// fit copies out into dst when the library did not write in place and reports the
// number of bytes written.
func fit(dst, out []byte) (int, error) {
	if len(out) > len(dst) {
		return 0, ErrDstSizeTooSmall
	}

	if len(out) > 0 && &out[0] != &dst[0] {
		copy(dst, out)
	}

	return len(out), nil
}

// cloneBytes copies dictionary content so callers may reuse their buffer.
func cloneBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
