package compress

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/arloliu/fieldcodec/engine"
	"github.com/arloliu/fieldcodec/internal/pool"
)

// Decompressor decompresses blocks with one engine decompression context.
//
// Every block must decompress to exactly the length the caller expects; anything
// else is reported as corruption.
type Decompressor struct {
	mu     sync.Mutex
	eng    engine.Engine
	ctx    engine.DecompressionContext
	dst    *pool.ByteBuffer
	stats  CompressionStats
	closed bool
}

// NewDecompressor allocates a decompression context on eng.
func NewDecompressor(eng engine.Engine) (*Decompressor, error) {
	ctx, err := eng.NewDecompressionContext()
	if err != nil {
		return nil, &AllocationError{Resource: "decompression context", Err: err}
	}

	return &Decompressor{
		eng:   eng,
		ctx:   ctx,
		dst:   pool.GetScratch(),
		stats: CompressionStats{Engine: eng.Type()},
	}, nil
}

// Decompress decompresses compressed, which must hold exactly originalLength bytes
// once decompressed. dict must be the dictionary the block was compressed with, or
// nil.
//
// The returned slice aliases the Decompressor's scratch buffer and is valid until
// the next call to Decompress or Close.
func (d *Decompressor) Decompress(compressed []byte, originalLength int, dict *DecompressionDictionary) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrClosed
	}

	if originalLength < 0 {
		return nil, CorruptDataf("negative original length %d", originalLength)
	}

	if len(compressed) == 0 {
		if originalLength == 0 {
			return d.dst.GrowNoCopy(0), nil
		}

		return nil, CorruptDataf("empty payload for a %d byte block", originalLength)
	}

	size, err := d.eng.FrameContentSize(compressed)
	if err == nil && size != engine.ContentSizeUnknown && size != int64(originalLength) {
		return nil, CorruptDataf("payload holds %d bytes, expected %d", size, originalLength)
	}

	dst := d.dst.GrowNoCopy(originalLength)
	start := time.Now()

	var n int
	if dict != nil {
		handle, herr := dict.handle()
		if herr != nil {
			return nil, herr
		}
		n, err = d.ctx.DecompressDict(dst, compressed, handle)
	} else {
		n, err = d.ctx.Decompress(dst, compressed)
	}

	if err != nil {
		if errors.Is(err, engine.ErrDstSizeTooSmall) {
			return nil, markCorrupt(err, "payload holds more than %d bytes", originalLength)
		}

		return nil, &DecompressionError{Msg: engine.ErrorName(err), Err: err}
	}

	if n != originalLength {
		return nil, CorruptDataf("decompressed %d bytes, expected %d", n, originalLength)
	}

	d.stats.Blocks++
	d.stats.OriginalSize += int64(n)
	d.stats.CompressedSize += int64(len(compressed))
	d.stats.DecompressionTimeNs += time.Since(start).Nanoseconds()

	return dst[:n], nil
}

// Stats returns the cumulative statistics of this Decompressor.
func (d *Decompressor) Stats() CompressionStats {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stats
}

// Close releases the decompression context. Subsequent calls to Close are no-ops.
func (d *Decompressor) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	d.closed = true
	d.ctx.Release()
	d.ctx = nil
	pool.PutScratch(d.dst)
	d.dst = nil

	return nil
}
