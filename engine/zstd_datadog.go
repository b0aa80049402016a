//go:build cgo && datadog && !gozstd

package engine

import (
	"github.com/DataDog/zstd"
)

// PureZstd reports whether the zstd engine is the pure Go port.
const PureZstd = false

// datadogEngine binds libzstd through github.com/DataDog/zstd. Each context owns
// one native ZSTD_CCtx/ZSTD_DCtx pair via zstd.Ctx; dictionaries are
// zstd.BulkProcessor handles holding the native CDict and DDict. Dictionary
// blocks carry the dictionary ID in a trailer.
type datadogEngine struct {
	zstdCommon
}

func newZstdEngine() Engine {
	return datadogEngine{}
}

func (datadogEngine) NewCompressionContext() (CompressionContext, error) {
	return &datadogCtx{ctx: zstd.NewCtx()}, nil
}

func (datadogEngine) NewDecompressionContext() (DecompressionContext, error) {
	return &datadogCtx{ctx: zstd.NewCtx()}, nil
}

func (datadogEngine) NewCompressionDict(dict []byte, level int) (CompressionDict, error) {
	return newDatadogDict(dict, level)
}

func (datadogEngine) NewDecompressionDict(dict []byte) (DecompressionDict, error) {
	return newDatadogDict(dict, ZstdDefaultLevel)
}

func newDatadogDict(dict []byte, level int) (*datadogDict, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDict
	}

	p, err := zstd.NewBulkProcessor(cloneBytes(dict), level)
	if err != nil {
		return nil, err
	}

	return &datadogDict{p: p, id: dictID(dict)}, nil
}

// datadogCtx serves both directions; the engine hands out separate instances.
type datadogCtx struct {
	ctx zstd.Ctx
}

func (c *datadogCtx) Compress(dst, src []byte, level int) (int, error) {
	out, err := c.ctx.CompressLevel(dst, src, level)
	if err != nil {
		return 0, err
	}

	return fit(dst, out)
}

func (c *datadogCtx) CompressDict(dst, src []byte, dict CompressionDict) (int, error) {
	d, ok := dict.(*datadogDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	body, err := reserveDict(dst)
	if err != nil {
		return 0, err
	}

	out, err := d.p.Compress(body, src)
	if err != nil {
		return 0, err
	}

	n, err := fit(body, out)
	if err != nil {
		return 0, err
	}

	return sealDict(dst, n, d.id)
}

func (c *datadogCtx) Decompress(dst, src []byte) (int, error) {
	n, err := c.ctx.DecompressInto(dst, src)
	if err != nil {
		if zstd.IsDstSizeTooSmallError(err) {
			return 0, ErrDstSizeTooSmall
		}

		return 0, err
	}

	return n, nil
}

func (c *datadogCtx) DecompressDict(dst, src []byte, dict DecompressionDict) (int, error) {
	d, ok := dict.(*datadogDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	body, err := openDict(src, d.id)
	if err != nil {
		return 0, err
	}

	out, err := d.p.Decompress(dst[:0:len(dst)], body)
	if err != nil {
		if zstd.IsDstSizeTooSmallError(err) {
			return 0, ErrDstSizeTooSmall
		}

		return 0, err
	}

	return fit(dst, out)
}

// Release drops the context. zstd.Ctx frees its native state from a finalizer.
func (c *datadogCtx) Release() {
	c.ctx = nil
}

type datadogDict struct {
	p  *zstd.BulkProcessor
	id uint32
}

// Release drops the processor. BulkProcessor frees its native dictionaries from a finalizer.
func (d *datadogDict) Release() {
	d.p = nil
}
