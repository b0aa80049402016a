package engine

import (
	"github.com/cockroachdb/errors"
	"github.com/pierrec/lz4/v4"

	"github.com/arloliu/fieldcodec/format"
)

// LZ4 compression levels. Level 0 selects the fast block compressor, levels 1-9
// the high-compression one with increasing search depth.
const (
	LZ4LevelFast = 0
	LZ4LevelMax  = 9
)

// LZ4Engine compresses blocks with github.com/pierrec/lz4/v4.
//
// The LZ4 block format does not record the decompressed size and the library has
// no dictionary compression, so dictionary construction fails with
// ErrDictUnsupported.
type LZ4Engine struct{}

var _ Engine = LZ4Engine{}

// NewLZ4Engine creates a new LZ4 engine.
func NewLZ4Engine() LZ4Engine {
	return LZ4Engine{}
}

func (LZ4Engine) Type() format.EngineType {
	return format.EngineLZ4
}

func (LZ4Engine) LevelRange() (int, int, int) {
	return LZ4LevelFast, LZ4LevelMax, LZ4LevelFast
}

func (LZ4Engine) CompressBound(n int) int {
	return lz4.CompressBlockBound(n)
}

func (LZ4Engine) FrameContentSize([]byte) (int64, error) {
	return ContentSizeUnknown, nil
}

func (LZ4Engine) NewCompressionContext() (CompressionContext, error) {
	return &lz4CCtx{}, nil
}

func (LZ4Engine) NewDecompressionContext() (DecompressionContext, error) {
	return lz4DCtx{}, nil
}

func (LZ4Engine) NewCompressionDict([]byte, int) (CompressionDict, error) {
	return nil, ErrDictUnsupported
}

func (LZ4Engine) NewDecompressionDict([]byte) (DecompressionDict, error) {
	return nil, ErrDictUnsupported
}

// lz4CCtx owns the compressor hash tables, which are worth keeping across calls.
type lz4CCtx struct {
	fast lz4.Compressor
	hc   lz4.CompressorHC
}

func (c *lz4CCtx) Compress(dst, src []byte, level int) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	var (
		n   int
		err error
	)
	if level <= LZ4LevelFast {
		n, err = c.fast.CompressBlock(src, dst)
	} else {
		c.hc.Level = lz4HCLevel(level)
		n, err = c.hc.CompressBlock(src, dst)
	}

	if err != nil {
		return 0, err
	}

	if n == 0 {
		// dst is sized by CompressBlockBound, so the library never gives up here.
		return 0, errors.New("lz4: block reported as incompressible")
	}

	return n, nil
}

func (c *lz4CCtx) CompressDict([]byte, []byte, CompressionDict) (int, error) {
	return 0, ErrDictUnsupported
}

func (c *lz4CCtx) Release() {}

// lz4HCLevel maps 1-9 onto lz4.Level1..lz4.Level9.
func lz4HCLevel(level int) lz4.CompressionLevel {
	if level > LZ4LevelMax {
		level = LZ4LevelMax
	}

	return lz4.CompressionLevel(1 << (8 + level))
}

type lz4DCtx struct{}

func (lz4DCtx) Decompress(dst, src []byte) (int, error) {
	if len(src) == 0 {
		return 0, nil
	}

	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		if errors.Is(err, lz4.ErrInvalidSourceShortBuffer) {
			return 0, ErrDstSizeTooSmall
		}

		return 0, err
	}

	return n, nil
}

func (lz4DCtx) DecompressDict([]byte, []byte, DecompressionDict) (int, error) {
	return 0, ErrDictUnsupported
}

func (lz4DCtx) Release() {}
