//go:build !cgo || (!gozstd && !datadog)

package engine

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"

	"github.com/arloliu/fieldcodec/internal/hash"
)

// zstdDictMagic starts every dictionary in the zstd dictionary format. Content
// without it is used as raw history, as libzstd does.
const zstdDictMagic = 0xEC30A437

// PureZstd reports whether the zstd engine is the pure Go port.
//
// The port does not produce byte-identical frames to libzstd, so tests that pin
// compressed bytes must check it.
const PureZstd = true

type pureZstdEngine struct {
	zstdCommon
}

func newZstdEngine() Engine {
	return pureZstdEngine{}
}

func (pureZstdEngine) NewCompressionContext() (CompressionContext, error) {
	return &pureZstdCCtx{}, nil
}

func (pureZstdEngine) NewDecompressionContext() (DecompressionContext, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1), // Contexts are single-owner
		zstd.WithDecoderLowmem(false),
		zstd.WithDecodeAllCapLimit(true), // Never write past the caller's buffer
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd decoder")
	}

	return &pureZstdDCtx{dec: dec}, nil
}

func (pureZstdEngine) NewCompressionDict(dict []byte, level int) (CompressionDict, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDict
	}

	content := cloneBytes(dict)
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderCRC(true), // A wrong dictionary must not decode silently
		zstdEncoderDict(content),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd dictionary encoder")
	}

	return &pureZstdCDict{enc: enc}, nil
}

func (pureZstdEngine) NewDecompressionDict(dict []byte) (DecompressionDict, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDict
	}

	content := cloneBytes(dict)
	dec, err := zstd.NewReader(nil,
		zstd.WithDecodeAllCapLimit(true),
		zstdDecoderDict(content),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd dictionary decoder")
	}

	return &pureZstdDDict{dec: dec}, nil
}

func zstdEncoderDict(content []byte) zstd.EOption {
	if isZstdDict(content) {
		return zstd.WithEncoderDict(content)
	}

	return zstd.WithEncoderDictRaw(hash.DictID(content), content)
}

func zstdDecoderDict(content []byte) zstd.DOption {
	if isZstdDict(content) {
		return zstd.WithDecoderDicts(content)
	}

	return zstd.WithDecoderDictRaw(hash.DictID(content), content)
}

func isZstdDict(b []byte) bool {
	return len(b) >= 8 && binary.LittleEndian.Uint32(b) == zstdDictMagic
}

// pureZstdCCtx keeps one encoder for the last level it was asked for.
type pureZstdCCtx struct {
	enc   *zstd.Encoder
	level int
}

func (c *pureZstdCCtx) encoder(level int) (*zstd.Encoder, error) {
	if c.enc != nil && c.level == level {
		return c.enc, nil
	}

	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)),
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderCRC(false),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd encoder")
	}

	c.enc = enc
	c.level = level

	return enc, nil
}

func (c *pureZstdCCtx) Compress(dst, src []byte, level int) (int, error) {
	enc, err := c.encoder(level)
	if err != nil {
		return 0, err
	}

	return fit(dst, enc.EncodeAll(src, dst[:0]))
}

func (c *pureZstdCCtx) CompressDict(dst, src []byte, dict CompressionDict) (int, error) {
	d, ok := dict.(*pureZstdCDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	return fit(dst, d.enc.EncodeAll(src, dst[:0]))
}

func (c *pureZstdCCtx) Release() {
	if c.enc != nil {
		_ = c.enc.Close()
		c.enc = nil
	}
}

type pureZstdDCtx struct {
	dec *zstd.Decoder
}

func (c *pureZstdDCtx) Decompress(dst, src []byte) (int, error) {
	return zstdDecodeInto(c.dec, dst, src)
}

func (c *pureZstdDCtx) DecompressDict(dst, src []byte, dict DecompressionDict) (int, error) {
	d, ok := dict.(*pureZstdDDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	return zstdDecodeInto(d.dec, dst, src)
}

func (c *pureZstdDCtx) Release() {
	if c.dec != nil {
		c.dec.Close()
		c.dec = nil
	}
}

func zstdDecodeInto(dec *zstd.Decoder, dst, src []byte) (int, error) {
	// Full slice expression: the decoder may use the capacity and nothing more.
	out, err := dec.DecodeAll(src, dst[:0:len(dst)])
	if err != nil {
		if errors.Is(err, zstd.ErrDecoderSizeExceeded) {
			return 0, ErrDstSizeTooSmall
		}

		return 0, err
	}

	return fit(dst, out)
}

type pureZstdCDict struct {
	enc *zstd.Encoder
}

func (d *pureZstdCDict) Release() {
	_ = d.enc.Close()
}

type pureZstdDDict struct {
	dec *zstd.Decoder
}

func (d *pureZstdDDict) Release() {
	d.dec.Close()
}
