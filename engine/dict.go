package engine

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/fieldcodec/internal/hash"
)

// dictTrailerLen is the size of the dictionary ID appended to blocks compressed
// with a dictionary by engines whose own format cannot identify the dictionary.
const dictTrailerLen = 4

// ErrDictIDMismatch is returned when a block is decompressed with a different
// dictionary than it was compressed with.
var ErrDictIDMismatch = errors.New("block was compressed with a different dictionary")

// sealDict appends id after the n compressed bytes in dst.
func sealDict(dst []byte, n int, id uint32) (int, error) {
	if len(dst)-n < dictTrailerLen {
		return 0, ErrDstSizeTooSmall
	}

	binary.LittleEndian.PutUint32(dst[n:], id)

	return n + dictTrailerLen, nil
}

// openDict checks the trailing dictionary ID of src against id and returns the
// compressed bytes in front of it.
func openDict(src []byte, id uint32) ([]byte, error) {
	if len(src) < dictTrailerLen {
		return nil, errors.Wrapf(ErrDictIDMismatch, "block of %d bytes has no dictionary id", len(src))
	}

	split := len(src) - dictTrailerLen
	if got := binary.LittleEndian.Uint32(src[split:]); got != id {
		return nil, errors.Wrapf(ErrDictIDMismatch, "block %08x, dictionary %08x", got, id)
	}

	return src[:split], nil
}

// dictID identifies dictionary content in block trailers.
func dictID(content []byte) uint32 {
	return hash.DictID(content)
}

// reserveDict returns the part of dst the compressor may fill before the trailer.
func reserveDict(dst []byte) ([]byte, error) {
	if len(dst) < dictTrailerLen {
		return nil, ErrDstSizeTooSmall
	}

	return dst[:len(dst)-dictTrailerLen], nil
}
