package engine

import (
	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/fieldcodec/format"
)

// Zstandard compression level range shared by every zstd binding.
const (
	ZstdMinLevel     = 1
	ZstdMaxLevel     = 22
	ZstdDefaultLevel = 3
)

// zstdBlockSizeMax is ZSTD_BLOCKSIZE_MAX (128KiB).
const zstdBlockSizeMax = 128 << 10

// zstdCompressBound mirrors ZSTD_COMPRESSBOUND: the input plus 1/256 of it, plus a
// margin for inputs smaller than one full block.
func zstdCompressBound(n int) int {
	bound := n + n>>8
	if n < zstdBlockSizeMax {
		bound += (zstdBlockSizeMax - n) >> 11
	}

	return bound
}

// zstdFrameContentSize reads the content size from the frame header of src.
//
// The header layout is fixed by RFC 8878 so the pure Go parser serves every binding.
func zstdFrameContentSize(src []byte) (int64, error) {
	var h zstd.Header
	if err := h.Decode(src); err != nil {
		return ContentSizeUnknown, err
	}

	if h.Skippable || !h.HasFCS {
		return ContentSizeUnknown, nil
	}

	return int64(h.FrameContentSize), nil
}

// zstdCommon holds what the zstd bindings share.
type zstdCommon struct{}

func (zstdCommon) Type() format.EngineType {
	return format.EngineZstd
}

func (zstdCommon) LevelRange() (int, int, int) {
	return ZstdMinLevel, ZstdMaxLevel, ZstdDefaultLevel
}

// CompressBound leaves room for the dictionary trailer the cgo bindings append.
func (zstdCommon) CompressBound(n int) int {
	return zstdCompressBound(n) + dictTrailerLen
}

func (zstdCommon) FrameContentSize(src []byte) (int64, error) {
	return zstdFrameContentSize(src)
}
