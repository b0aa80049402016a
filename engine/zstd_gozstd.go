//go:build cgo && gozstd

package engine

import (
	"github.com/valyala/gozstd"
)

// PureZstd reports whether the zstd engine is the pure Go port.
const PureZstd = false

// gozstdEngine binds libzstd through github.com/valyala/gozstd.
//
// gozstd pools its native ZSTD_CCtx/ZSTD_DCtx internally, so the contexts handed
// out here only track ownership. libzstd writes dictionary ID 0 for raw content
// dictionaries, so dictionary blocks carry the ID in a trailer.
type gozstdEngine struct {
	zstdCommon
}

func newZstdEngine() Engine {
	return gozstdEngine{}
}

func (gozstdEngine) NewCompressionContext() (CompressionContext, error) {
	return &gozstdCCtx{}, nil
}

func (gozstdEngine) NewDecompressionContext() (DecompressionContext, error) {
	return &gozstdDCtx{}, nil
}

func (gozstdEngine) NewCompressionDict(dict []byte, level int) (CompressionDict, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDict
	}

	cd, err := gozstd.NewCDictLevel(cloneBytes(dict), level)
	if err != nil {
		return nil, err
	}

	return &gozstdCDict{cd: cd, id: dictID(dict)}, nil
}

func (gozstdEngine) NewDecompressionDict(dict []byte) (DecompressionDict, error) {
	if len(dict) == 0 {
		return nil, ErrEmptyDict
	}

	dd, err := gozstd.NewDDict(cloneBytes(dict))
	if err != nil {
		return nil, err
	}

	return &gozstdDDict{dd: dd, id: dictID(dict)}, nil
}

type gozstdCCtx struct{}

func (c *gozstdCCtx) Compress(dst, src []byte, level int) (int, error) {
	return fit(dst, gozstd.CompressLevel(dst[:0], src, level))
}

func (c *gozstdCCtx) CompressDict(dst, src []byte, dict CompressionDict) (int, error) {
	d, ok := dict.(*gozstdCDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	body, err := reserveDict(dst)
	if err != nil {
		return 0, err
	}

	n, err := fit(body, gozstd.CompressDict(body[:0], src, d.cd))
	if err != nil {
		return 0, err
	}

	return sealDict(dst, n, d.id)
}

func (c *gozstdCCtx) Release() {}

type gozstdDCtx struct{}

func (c *gozstdDCtx) Decompress(dst, src []byte) (int, error) {
	out, err := gozstd.Decompress(dst[:0:len(dst)], src)
	if err != nil {
		return 0, err
	}

	return fit(dst, out)
}

func (c *gozstdDCtx) DecompressDict(dst, src []byte, dict DecompressionDict) (int, error) {
	d, ok := dict.(*gozstdDDict)
	if !ok {
		return 0, ErrDictMismatch
	}

	body, err := openDict(src, d.id)
	if err != nil {
		return 0, err
	}

	out, err := gozstd.DecompressDict(dst[:0:len(dst)], body, d.dd)
	if err != nil {
		return 0, err
	}

	return fit(dst, out)
}

func (c *gozstdDCtx) Release() {}

type gozstdCDict struct {
	cd *gozstd.CDict
	id uint32
}

func (d *gozstdCDict) Release() {
	d.cd.Release()
}

type gozstdDDict struct {
	dd *gozstd.DDict
	id uint32
}

func (d *gozstdDDict) Release() {
	d.dd.Release()
}
