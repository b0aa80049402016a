package engine

import (
	"github.com/golang/snappy"

	"github.com/arloliu/fieldcodec/format"
)

// SnappyLevel is the only level snappy offers.
const SnappyLevel = 1

// SnappyEngine compresses blocks with github.com/golang/snappy.
type SnappyEngine struct{}

var _ Engine = SnappyEngine{}

// NewSnappyEngine creates a new snappy engine.
func NewSnappyEngine() SnappyEngine {
	return SnappyEngine{}
}

func (SnappyEngine) Type() format.EngineType {
	return format.EngineSnappy
}

func (SnappyEngine) LevelRange() (int, int, int) {
	return SnappyLevel, SnappyLevel, SnappyLevel
}

func (SnappyEngine) CompressBound(n int) int {
	return snappy.MaxEncodedLen(n)
}

func (SnappyEngine) FrameContentSize(src []byte) (int64, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return ContentSizeUnknown, err
	}

	return int64(n), nil
}

func (SnappyEngine) NewCompressionContext() (CompressionContext, error) {
	return snappyCtx{}, nil
}

func (SnappyEngine) NewDecompressionContext() (DecompressionContext, error) {
	return snappyCtx{}, nil
}

func (SnappyEngine) NewCompressionDict([]byte, int) (CompressionDict, error) {
	return nil, ErrDictUnsupported
}

func (SnappyEngine) NewDecompressionDict([]byte) (DecompressionDict, error) {
	return nil, ErrDictUnsupported
}

type snappyCtx struct{}

func (snappyCtx) Compress(dst, src []byte, _ int) (int, error) {
	return fit(dst, snappy.Encode(dst, src))
}

func (snappyCtx) CompressDict([]byte, []byte, CompressionDict) (int, error) {
	return 0, ErrDictUnsupported
}

func (snappyCtx) Decompress(dst, src []byte) (int, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return 0, err
	}

	if n > len(dst) {
		return 0, ErrDstSizeTooSmall
	}

	out, err := snappy.Decode(dst, src)
	if err != nil {
		return 0, err
	}

	return fit(dst, out)
}

func (snappyCtx) DecompressDict([]byte, []byte, DecompressionDict) (int, error) {
	return 0, ErrDictUnsupported
}

func (snappyCtx) Release() {}
